package auth

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingToken means no bearer token was presented.
	ErrMissingToken = errors.New("missing token")
	// ErrUnauthorized means a token was presented but rejected.
	ErrUnauthorized = errors.New("unauthorized")
)

// TokenVerifier resolves a raw token to its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Authenticate extracts the bearer token from an Authorization header value
// and verifies it. Token errors are wrapped under ErrUnauthorized.
func Authenticate(rawHeader string, verifier TokenVerifier) (string, error) {
	token, err := BearerToken(rawHeader)
	if err != nil {
		return "", err
	}

	subject, err := verifier.Verify(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return subject, nil
}

// BearerToken parses "Bearer <token>".
func BearerToken(rawHeader string) (string, error) {
	header := strings.TrimSpace(rawHeader)
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", fmt.Errorf("%w: unsupported authorization scheme", ErrUnauthorized)
	}
	if len(parts) != 2 {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
