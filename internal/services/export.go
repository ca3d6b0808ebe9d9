package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/notekeeper/apiserver/internal/storage"
	"github.com/notekeeper/apiserver/types"
)

// ExportService snapshots a user's notes into object storage. Requests are
// queued and a worker builds the archive later.
type ExportService struct {
	notes    NoteRepository
	queue    JobPublisher
	archives ArchiveStore
	channel  string
	now      func() time.Time
}

func NewExportService(notes NoteRepository, queue JobPublisher, archives ArchiveStore, channel string) *ExportService {
	return &ExportService{
		notes:    notes,
		queue:    queue,
		archives: archives,
		channel:  channel,
		now:      time.Now,
	}
}

// Request queues an export of ownerID's notes.
func (s *ExportService) Request(ctx context.Context, ownerID string) (types.ExportJob, error) {
	id := uuid.NewString()
	job := types.ExportJob{
		ID:          id,
		OwnerID:     ownerID,
		ObjectKey:   types.ExportObjectKey(ownerID, id),
		RequestedAt: s.now().UTC(),
	}

	if _, err := s.queue.PublishJSON(ctx, s.channel, job, map[string]string{"owner_id": ownerID}); err != nil {
		return types.ExportJob{}, fmt.Errorf("publish export job: %w", err)
	}
	return job, nil
}

// Process builds the archive for job. The object key is derived from the
// job's owner, not taken from the message.
func (s *ExportService) Process(ctx context.Context, job types.ExportJob) error {
	if _, err := uuid.Parse(job.ID); err != nil {
		return invalid("export id %q is not a uuid", job.ID)
	}
	if job.OwnerID == "" {
		return invalid("export %s has no owner", job.ID)
	}

	notes, err := s.notes.ListByOwner(ctx, job.OwnerID)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}

	archive := types.NoteExport{
		ExportID:    job.ID,
		GeneratedAt: s.now().UTC(),
		Notes:       notes,
	}
	if err := s.archives.PutJSON(ctx, types.ExportObjectKey(job.OwnerID, job.ID), archive); err != nil {
		return fmt.Errorf("store export: %w", err)
	}
	return nil
}

// Open returns the archive of exportID and its metadata if it belongs to
// ownerID and has been written. An export still queued is reported as
// ErrExportNotFound.
func (s *ExportService) Open(ctx context.Context, ownerID, exportID string) (io.ReadCloser, storage.ObjectInfo, error) {
	if _, err := uuid.Parse(exportID); err != nil {
		return nil, storage.ObjectInfo{}, ErrExportNotFound
	}
	key := types.ExportObjectKey(ownerID, exportID)

	info, err := s.archives.Stat(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, storage.ObjectInfo{}, ErrExportNotFound
		}
		return nil, storage.ObjectInfo{}, fmt.Errorf("stat export: %w", err)
	}

	rc, err := s.archives.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, storage.ObjectInfo{}, ErrExportNotFound
		}
		return nil, storage.ObjectInfo{}, fmt.Errorf("open export: %w", err)
	}
	return rc, info, nil
}
