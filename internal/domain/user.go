package domain

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload issued at login for the dashboard user.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
