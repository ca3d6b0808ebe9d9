package types

import "time"

// Note is a text entry owned by exactly one user.
type Note struct {
	// ID is the unique identifier of the note.
	ID string `json:"id" db:"id"`

	// OwnerID references the user who created the note. It never changes
	// and is not serialized; clients see the Author projection instead.
	OwnerID string `json:"-" db:"owner_id"`

	// Text is the note body. It is never empty.
	Text string `json:"text" db:"text"`

	// Author is the owner's public profile, populated on reads.
	Author *Author `json:"user,omitempty"`

	// CreatedAt is the timestamp when the note was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent text change.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
