package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifierFunc func(token string) (string, error)

func (f verifierFunc) Verify(token string) (string, error) { return f(token) }

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   error
	}{
		{name: "valid", header: "Bearer abc.def.ghi", wantToken: "abc.def.ghi"},
		{name: "case insensitive scheme", header: "bearer tok", wantToken: "tok"},
		{name: "surrounding spaces", header: "  Bearer   tok  ", wantToken: "tok"},
		{name: "empty", header: "", wantErr: ErrMissingToken},
		{name: "whitespace", header: "   ", wantErr: ErrMissingToken},
		{name: "scheme only", header: "Bearer", wantErr: ErrMissingToken},
		{name: "scheme and blank", header: "Bearer    ", wantErr: ErrMissingToken},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantErr: ErrUnauthorized},
		{name: "bare token", header: "abc.def.ghi", wantErr: ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := BearerToken(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ok := verifierFunc(func(token string) (string, error) {
		if token == "good" {
			return "user-1", nil
		}
		return "", ErrTokenExpired
	})

	subject, err := Authenticate("Bearer good", ok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)

	_, err = Authenticate("", ok)
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = Authenticate("Bearer bad", ok)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAuthenticate_VerifierNotCalledWithoutToken(t *testing.T) {
	called := false
	v := verifierFunc(func(string) (string, error) {
		called = true
		return "", errors.New("unexpected")
	})

	_, err := Authenticate("Bearer ", v)
	assert.ErrorIs(t, err, ErrMissingToken)
	assert.False(t, called)
}
