package authenticating

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, so the response does not reveal which part failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken means the bearer token is missing, malformed, expired
	// or signed with another key.
	ErrInvalidToken = errors.New("invalid or expired token")
)
