package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/notekeeper/apiserver/internal/auth"
	"github.com/notekeeper/apiserver/internal/logger"
	"github.com/notekeeper/apiserver/internal/metrics"
	"github.com/notekeeper/apiserver/internal/services"
)

// AuthHandler serves signup, login and the current-user endpoints.
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

// AuthRouter registers user routes on the given router.
func AuthRouter(
	r chi.Router,
	authService *services.AuthService,
	userService *services.UserService,
	requireAuth func(http.Handler) http.Handler,
) {
	handler := NewAuthHandler(authService, userService)

	r.Post("/signup", handler.Signup)
	r.Post("/login", handler.Login)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/me", handler.Me)
		r.Get("/userinfo", handler.Me)
	})
}

// RequireAuth rejects requests without a valid bearer token and stores the
// token subject in the request context. A missing token is a 401, a
// rejected one a 403.
func RequireAuth(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := auth.Authenticate(r.Header.Get("Authorization"), verifier)
			if err != nil {
				if errors.Is(err, auth.ErrMissingToken) {
					metrics.ObserveAuth("token", "missing")
					writeError(w, http.StatusUnauthorized, "missing token")
					return
				}
				metrics.ObserveAuth("token", "rejected")
				logger.FromContext(r.Context()).Debug().Err(err).Msg("token rejected")
				writeError(w, http.StatusForbidden, "invalid token")
				return
			}

			log := logger.FromContext(r.Context()).WithStr("user_id", subject)
			ctx := log.WithContext(withSubject(r.Context(), subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Signup creates an account and returns a token.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req services.SignupInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, token, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			metrics.ObserveAuth("signup", "invalid")
			writeError(w, http.StatusBadRequest, vErr.Message)
		case errors.Is(err, services.ErrDuplicateEmail):
			metrics.ObserveAuth("signup", "duplicate")
			writeError(w, http.StatusConflict, "email already registered")
		default:
			metrics.ObserveAuth("signup", "error")
			writeInternalError(w, r, err, "signup failed")
		}
		return
	}

	metrics.ObserveAuth("signup", "success")
	writeJSON(w, http.StatusCreated, TokenResponse{AccessToken: token})
}

// Login verifies credentials and returns a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			metrics.ObserveAuth("login", "invalid")
			writeError(w, http.StatusBadRequest, vErr.Message)
		case errors.Is(err, services.ErrInvalidCredentials):
			metrics.ObserveAuth("login", "rejected")
			writeError(w, http.StatusForbidden, "invalid email or password")
		default:
			metrics.ObserveAuth("login", "error")
			writeInternalError(w, r, err, "login failed")
		}
		return
	}

	metrics.ObserveAuth("login", "success")
	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			writeError(w, http.StatusForbidden, "invalid token")
			return
		}
		writeInternalError(w, r, err, "load user failed")
		return
	}

	writeData(w, http.StatusOK, user)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
}
