package services

//go:generate mockgen -source=repositories.go -destination=../mock/repositories_mock.go -package=mock

import (
	"context"
	"io"

	"github.com/notekeeper/apiserver/internal/storage"
	"github.com/notekeeper/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// NoteRepository defines persistence operations for notes.
type NoteRepository interface {
	Create(ctx context.Context, note types.Note) (types.Note, error)
	Get(ctx context.Context, id string) (types.Note, error)
	UpdateText(ctx context.Context, id, ownerID, text string) (types.Note, error)
	ListByOwner(ctx context.Context, ownerID string) ([]types.Note, error)
}

// TokenIssuer mints bearer tokens for a subject.
type TokenIssuer interface {
	Issue(subjectID string) (string, error)
}

// JobPublisher hands export jobs to the worker.
type JobPublisher interface {
	PublishJSON(ctx context.Context, channel string, v any, attrs map[string]string) (string, error)
}

// ArchiveStore reads and writes export archives.
type ArchiveStore interface {
	PutJSON(ctx context.Context, key string, v any) error
	Stat(ctx context.Context, key string) (storage.ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
