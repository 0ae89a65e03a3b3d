// Package authenticating issues and validates the JWT the dashboard uses to
// call the API. There is a single credential pair, defined in configuration.
package authenticating

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/awidars/stock-forecast-api/internal/config"
	"github.com/awidars/stock-forecast-api/internal/domain"
)

type Authenticator interface {
	Login(email, password string) (string, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
}

type Service struct {
	cfg *config.Config
}

func NewService(cfg *config.Config) Authenticator {
	return &Service{cfg: cfg}
}

// Login checks the credentials against the configured dashboard user and
// returns a signed token.
func (s *Service) Login(email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	if handleEmail(email) != handleEmail(s.cfg.Auth.AdminEmail) {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(s.cfg.Auth.AdminPasswordHash), []byte(password),
	); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.generateJWT(handleEmail(email))
}

func (s *Service) generateJWT(email string) (string, error) {
	ttl := time.Duration(s.cfg.Auth.TokenTTLHours) * time.Hour
	claims := domain.Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Auth.SecretKey))
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Auth.SecretKey), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}
