package types

import (
	"fmt"
	"time"
)

// ExportJob asks the worker to snapshot a user's notes into object storage.
type ExportJob struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	ObjectKey   string    `json:"objectKey"`
	RequestedAt time.Time `json:"requestedAt"`
}

// NoteExport is the archive document written for a completed ExportJob.
type NoteExport struct {
	ExportID    string    `json:"exportId"`
	GeneratedAt time.Time `json:"generatedAt"`
	Notes       []Note    `json:"notes"`
}

// ExportObjectKey returns the storage key of an export. The owner id is part
// of the key, so one user can never address another user's archive.
func ExportObjectKey(ownerID, exportID string) string {
	return fmt.Sprintf("exports/%s/%s.json", ownerID, exportID)
}
