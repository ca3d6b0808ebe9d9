package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/notekeeper/apiserver/internal/store"
	"github.com/notekeeper/apiserver/types"
)

// NoteService enforces note ownership on top of a NoteRepository.
type NoteService struct {
	repo NoteRepository
}

func NewNoteService(repo NoteRepository) *NoteService {
	return &NoteService{repo: repo}
}

// Create stores a note for ownerID and returns its id.
func (s *NoteService) Create(ctx context.Context, ownerID, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", invalid("text must be provided")
	}

	wctx, cancel := detached(ctx)
	defer cancel()

	note, err := s.repo.Create(wctx, types.Note{OwnerID: ownerID, Text: text})
	if err != nil {
		return "", fmt.Errorf("create note: %w", err)
	}
	return note.ID, nil
}

// Get returns the note if requesterID owns it. A note owned by someone else
// fails with ErrNoteForbidden, which is also an ErrNoteNotFound.
func (s *NoteService) Get(ctx context.Context, noteID, requesterID string) (types.Note, error) {
	if _, err := uuid.Parse(noteID); err != nil {
		return types.Note{}, ErrNoteNotFound
	}

	note, err := s.repo.Get(ctx, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Note{}, ErrNoteNotFound
		}
		return types.Note{}, fmt.Errorf("get note: %w", err)
	}
	if note.OwnerID != requesterID {
		return types.Note{}, ErrNoteForbidden
	}
	return note, nil
}

// Update replaces the text of a note owned by requesterID.
func (s *NoteService) Update(ctx context.Context, noteID, requesterID, text string) (types.Note, error) {
	if strings.TrimSpace(text) == "" {
		return types.Note{}, invalid("text must be provided")
	}
	if _, err := s.Get(ctx, noteID, requesterID); err != nil {
		return types.Note{}, err
	}

	wctx, cancel := detached(ctx)
	defer cancel()

	note, err := s.repo.UpdateText(wctx, noteID, requesterID, text)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Note{}, ErrNoteNotFound
		}
		return types.Note{}, fmt.Errorf("update note: %w", err)
	}
	return note, nil
}

// ListByOwner returns every note of ownerID, oldest first.
func (s *NoteService) ListByOwner(ctx context.Context, ownerID string) ([]types.Note, error) {
	notes, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}
