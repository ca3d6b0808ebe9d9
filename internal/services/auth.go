package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/notekeeper/apiserver/internal/auth"
	"github.com/notekeeper/apiserver/internal/store"
	"github.com/notekeeper/apiserver/types"
)

// SignupInput carries the fields of a signup request.
type SignupInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthService moves a caller from anonymous to authenticated: it creates
// accounts, checks credentials and mints tokens.
type AuthService struct {
	users      UserRepository
	tokens     TokenIssuer
	bcryptCost int
	decoyHash  string
}

func NewAuthService(users UserRepository, tokens TokenIssuer, bcryptCost int) *AuthService {
	// bcrypt only fails here if the system random source does; an empty
	// decoy then makes unknown-email logins fail fast.
	decoy, _ := auth.DecoyHash(bcryptCost)
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost, decoyHash: decoy}
}

// Signup registers a new user and returns it with a fresh token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (types.User, string, error) {
	email := normalizeEmail(in.Email)
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)

	switch {
	case email == "":
		return types.User{}, "", invalid("email must be provided")
	case in.Password == "":
		return types.User{}, "", invalid("password must be provided")
	case firstName == "":
		return types.User{}, "", invalid("firstName must be provided")
	case lastName == "":
		return types.User{}, "", invalid("lastName must be provided")
	}
	if !validEmail(email) {
		return types.User{}, "", invalid("email is not a valid address")
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return types.User{}, "", ErrDuplicateEmail
	case !errors.Is(err, store.ErrNotFound):
		return types.User{}, "", fmt.Errorf("lookup user: %w", err)
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return types.User{}, "", invalid("password must be at most 72 bytes")
		}
		return types.User{}, "", err
	}

	wctx, cancel := detached(ctx)
	defer cancel()

	user, err := s.users.Create(wctx, types.User{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
	})
	if err != nil {
		// Lost a race with a concurrent signup for the same address.
		if errors.Is(err, store.ErrDuplicate) {
			return types.User{}, "", ErrDuplicateEmail
		}
		return types.User{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return types.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Login checks credentials and returns a fresh token. Unknown emails and
// wrong passwords fail identically with ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (types.User, string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return types.User{}, "", invalid("email must be provided")
	}
	if password == "" {
		return types.User{}, "", invalid("password must be provided")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = auth.VerifyPassword(password, s.decoyHash)
			return types.User{}, "", ErrInvalidCredentials
		}
		return types.User{}, "", fmt.Errorf("lookup user: %w", err)
	}
	if !auth.VerifyPassword(password, user.PasswordHash) {
		return types.User{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return types.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail accepts a bare address only, not the "Name <addr>" form.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
