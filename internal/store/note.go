package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/notekeeper/apiserver/types"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// NoteRepository handles persistence for notes. Reads join the owner's
// name so every returned note carries its author projection.
type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

func selectNotes() sq.SelectBuilder {
	return psql.
		Select(
			"n.id",
			"n.owner_id",
			"n.text",
			"n.created_at",
			"n.updated_at",
			"u.first_name",
			"u.last_name",
		).
		From("notes n").
		Join("users u ON u.id = n.owner_id")
}

func (r *NoteRepository) Create(ctx context.Context, note types.Note) (types.Note, error) {
	now := time.Now().UTC()
	note.ID = uuid.NewString()
	note.CreatedAt = now
	note.UpdatedAt = now

	query, args, err := psql.
		Insert("notes").
		Columns("id", "owner_id", "text", "created_at", "updated_at").
		Values(note.ID, note.OwnerID, note.Text, note.CreatedAt, note.UpdatedAt).
		ToSql()
	if err != nil {
		return types.Note{}, fmt.Errorf("build insert note: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return types.Note{}, ErrNotFound
		}
		return types.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return note, nil
}

func (r *NoteRepository) Get(ctx context.Context, id string) (types.Note, error) {
	if _, err := uuid.Parse(id); err != nil {
		return types.Note{}, ErrNotFound
	}

	query, args, err := selectNotes().Where(sq.Eq{"n.id": id}).ToSql()
	if err != nil {
		return types.Note{}, fmt.Errorf("build get note: %w", err)
	}

	note, err := scanNote(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Note{}, ErrNotFound
		}
		return types.Note{}, err
	}
	return note, nil
}

// UpdateText replaces the text of a note owned by ownerID. A note that is
// missing or owned by someone else yields ErrNotFound.
func (r *NoteRepository) UpdateText(ctx context.Context, id, ownerID, text string) (types.Note, error) {
	if _, err := uuid.Parse(id); err != nil {
		return types.Note{}, ErrNotFound
	}

	query, args, err := psql.
		Update("notes").
		Set("text", text).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"owner_id": ownerID}).
		ToSql()
	if err != nil {
		return types.Note{}, fmt.Errorf("build update note: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return types.Note{}, fmt.Errorf("update note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return types.Note{}, fmt.Errorf("update note: %w", err)
	}
	if affected == 0 {
		return types.Note{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

// ListByOwner returns the owner's notes oldest first.
func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]types.Note, error) {
	notes := make([]types.Note, 0)
	if _, err := uuid.Parse(ownerID); err != nil {
		return notes, nil
	}

	query, args, err := selectNotes().
		Where(sq.Eq{"n.owner_id": ownerID}).
		OrderBy("n.created_at", "n.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list notes: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (types.Note, error) {
	var (
		note   types.Note
		author types.Author
	)
	if err := row.Scan(
		&note.ID,
		&note.OwnerID,
		&note.Text,
		&note.CreatedAt,
		&note.UpdatedAt,
		&author.FirstName,
		&author.LastName,
	); err != nil {
		return types.Note{}, err
	}
	note.Author = &author
	return note, nil
}
