package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoteNotFound       = errors.New("note not found")
	// ErrNoteForbidden matches ErrNoteNotFound under errors.Is, so callers
	// that only check for not-found never reveal that the note exists.
	ErrNoteForbidden  = fmt.Errorf("%w: owner mismatch", ErrNoteNotFound)
	ErrExportNotFound = errors.New("export not found")
)

// ValidationError reports bad client input. Message is safe to return to
// the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

const writeTimeout = 10 * time.Second

// detached returns a context for persistence writes that outlives the
// request context: a client hanging up does not abort the write.
func detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
}
