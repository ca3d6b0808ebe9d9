package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/notekeeper/apiserver/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBackend struct {
	objects      map[string][]byte
	contentTypes map[string]string
}

func newMemBackend() *memBackend {
	return &memBackend{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (m *memBackend) EnsureBucket(context.Context) error { return nil }

func (m *memBackend) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	m.contentTypes[key] = contentType
	return nil
}

func (m *memBackend) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memBackend) Stat(_ context.Context, key string) (ObjectInfo, error) {
	data, ok := m.objects[key]
	if !ok {
		return ObjectInfo{}, ErrObjectNotFound
	}
	return ObjectInfo{Key: key, Size: int64(len(data)), ContentType: m.contentTypes[key]}, nil
}

func (m *memBackend) Bucket() string { return "test" }

func TestPutJSONRoundTrip(t *testing.T) {
	store := NewStorage(newMemBackend())
	ctx := context.Background()

	require.NoError(t, store.PutJSON(ctx, "exports/u/1.json", map[string]int{"notes": 2}))

	info, err := store.Stat(ctx, "exports/u/1.json")
	require.NoError(t, err)
	assert.Equal(t, "application/json", info.ContentType)

	rc, err := store.Get(ctx, "exports/u/1.json")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"notes":2}`, string(body))

	assert.Equal(t, int64(len(body)), info.Size)

	_, err = store.Get(ctx, "exports/u/2.json")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	_, err = store.Stat(ctx, "exports/u/2.json")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestPutJSONEncodeError(t *testing.T) {
	err := NewStorage(newMemBackend()).PutJSON(context.Background(), "k", func() {})
	assert.Error(t, err)
}

func TestOpen_Validation(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Backend: "s3"})
	assert.Error(t, err)

	_, err = Open(context.Background(), config.StorageConfig{Backend: config.StorageMinio})
	assert.EqualError(t, err, "minio endpoint is required")

	_, err = Open(context.Background(), config.StorageConfig{Backend: config.StorageGCS})
	assert.EqualError(t, err, "gcs bucket is required")
}

func TestIsMinioNotFound(t *testing.T) {
	assert.True(t, isMinioNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.False(t, isMinioNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(t, isMinioNotFound(errors.New("network down")))
}
