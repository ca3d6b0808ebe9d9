// Package memory implements in-memory user and note repositories for
// development and testing.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/notekeeper/apiserver/internal/store"
	"github.com/notekeeper/apiserver/types"
)

// DB holds users and notes behind a single lock.
type DB struct {
	mu      sync.RWMutex
	users   map[string]types.User
	byEmail map[string]string
	notes   []types.Note
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{
		users:   make(map[string]types.User),
		byEmail: make(map[string]string),
	}
}

// Users returns the user repository view of db.
func (db *DB) Users() *UserRepository { return &UserRepository{db: db} }

// Notes returns the note repository view of db.
func (db *DB) Notes() *NoteRepository { return &NoteRepository{db: db} }

// Ping always succeeds.
func (db *DB) Ping(context.Context) error { return nil }

// --- users ---

type UserRepository struct {
	db *DB
}

func (r *UserRepository) GetByID(_ context.Context, id string) (types.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	user, ok := r.db.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (types.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	id, ok := r.db.byEmail[strings.ToLower(email)]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return r.db.users[id], nil
}

func (r *UserRepository) Create(_ context.Context, user types.User) (types.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, taken := r.db.byEmail[key]; taken {
		return types.User{}, store.ErrDuplicate
	}

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.db.users[user.ID] = user
	r.db.byEmail[key] = user.ID
	return user, nil
}

func (r *UserRepository) Ping(ctx context.Context) error { return r.db.Ping(ctx) }

// --- notes ---

type NoteRepository struct {
	db *DB
}

func (r *NoteRepository) Create(_ context.Context, note types.Note) (types.Note, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[note.OwnerID]; !ok {
		return types.Note{}, store.ErrNotFound
	}

	now := time.Now().UTC()
	note.ID = uuid.NewString()
	note.Author = nil
	note.CreatedAt = now
	note.UpdatedAt = now
	r.db.notes = append(r.db.notes, note)
	return note, nil
}

func (r *NoteRepository) Get(_ context.Context, id string) (types.Note, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, n := range r.db.notes {
		if n.ID == id {
			return r.db.withAuthor(n), nil
		}
	}
	return types.Note{}, store.ErrNotFound
}

func (r *NoteRepository) UpdateText(_ context.Context, id, ownerID, text string) (types.Note, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i := range r.db.notes {
		n := &r.db.notes[i]
		if n.ID != id || n.OwnerID != ownerID {
			continue
		}
		n.Text = text
		n.UpdatedAt = time.Now().UTC()
		return r.db.withAuthor(*n), nil
	}
	return types.Note{}, store.ErrNotFound
}

func (r *NoteRepository) ListByOwner(_ context.Context, ownerID string) ([]types.Note, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	notes := make([]types.Note, 0)
	for _, n := range r.db.notes {
		if n.OwnerID == ownerID {
			notes = append(notes, r.db.withAuthor(n))
		}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.Before(notes[j].CreatedAt)
	})
	return notes, nil
}

// withAuthor must be called with mu held.
func (db *DB) withAuthor(n types.Note) types.Note {
	if owner, ok := db.users[n.OwnerID]; ok {
		author := owner.Author()
		n.Author = &author
	}
	return n
}
