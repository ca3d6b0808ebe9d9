package types

import "time"

// User represents a registered account.
// It contains identity, profile, and audit metadata.
type User struct {
	// ID is the opaque, immutable identifier of the user.
	ID string `json:"id" db:"id"`

	// Email is the unique, lower-cased login address.
	Email string `json:"email" db:"email"`

	// FirstName is the user's given name.
	FirstName string `json:"firstName" db:"first_name"`

	// LastName is the user's family name.
	LastName string `json:"lastName" db:"last_name"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Author is the public projection of a user attached to notes.
// It deliberately carries no email or credential.
type Author struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Author returns the public projection of u.
func (u User) Author() Author {
	return Author{FirstName: u.FirstName, LastName: u.LastName}
}
