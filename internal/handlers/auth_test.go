package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	app := newTestApp(t)

	token := app.signup(t, "ada@example.com", "Ada")
	subject, err := app.issuer.Verify(token)
	require.NoError(t, err)

	user, err := app.db.Users().GetByEmail(t.Context(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}

func TestSignup_Errors(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "ada@example.com", "Ada")

	tests := []struct {
		name    string
		body    any
		status  int
		message string
	}{
		{
			name:    "missing email",
			body:    map[string]string{"password": "pw", "firstName": "A", "lastName": "B"},
			status:  http.StatusBadRequest,
			message: "email must be provided",
		},
		{
			name:    "missing last name",
			body:    map[string]string{"email": "x@example.com", "password": "pw", "firstName": "A"},
			status:  http.StatusBadRequest,
			message: "lastName must be provided",
		},
		{
			name:    "duplicate email",
			body:    map[string]string{"email": "ADA@example.com", "password": "pw", "firstName": "A", "lastName": "B"},
			status:  http.StatusConflict,
			message: "email already registered",
		},
		{
			name:    "malformed body",
			body:    "{not json",
			status:  http.StatusBadRequest,
			message: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, http.MethodPost, "/api/users/signup", "", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decodeBody[ErrorResponse](t, rec).Message)
		})
	}
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "ada@example.com", "Ada")

	rec := app.do(t, http.MethodPost, "/api/users/login", "", LoginRequest{Email: "ada@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeBody[TokenResponse](t, rec).AccessToken
	_, err := app.issuer.Verify(token)
	assert.NoError(t, err)
}

func TestLogin_RejectionsLookAlike(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "ada@example.com", "Ada")

	wrongPassword := app.do(t, http.MethodPost, "/api/users/login", "", LoginRequest{Email: "ada@example.com", Password: "nope"})
	unknownEmail := app.do(t, http.MethodPost, "/api/users/login", "", LoginRequest{Email: "ghost@example.com", Password: "password123"})

	assert.Equal(t, http.StatusForbidden, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestLogin_MissingFields(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/users/login", "", LoginRequest{Email: "ada@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "password must be provided", decodeBody[ErrorResponse](t, rec).Message)
}

func TestMe(t *testing.T) {
	app := newTestApp(t)
	token := app.signup(t, "ada@example.com", "Ada")

	for _, path := range []string{"/api/users/me", "/api/users/userinfo"} {
		rec := app.do(t, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)

		body := decodeBody[map[string]map[string]any](t, rec)
		assert.Equal(t, "ada@example.com", body["data"]["email"])
		assert.Equal(t, "Ada", body["data"]["firstName"])
		assert.NotContains(t, body["data"], "passwordHash")
		assert.NotContains(t, body["data"], "PasswordHash")
	}
}

func TestRequireAuth(t *testing.T) {
	app := newTestApp(t)
	token := app.signup(t, "ada@example.com", "Ada")

	expired, err := app.issuer.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).Issue("someone")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusForbidden},
		{"garbage", "Bearer not-a-token", http.StatusForbidden},
		{"tampered", "Bearer " + token + "x", http.StatusForbidden},
		{"expired", "Bearer " + expired, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			app.router.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestMe_UnknownSubject(t *testing.T) {
	app := newTestApp(t)
	token, err := app.issuer.Issue("6f1c1f2e-98f5-4b6c-9d8c-000000000000")
	require.NoError(t, err)

	rec := app.do(t, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
