package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/notekeeper/apiserver/internal/auth"
	"github.com/notekeeper/apiserver/internal/mq"
	"github.com/notekeeper/apiserver/internal/services"
	"github.com/notekeeper/apiserver/internal/storage"
	"github.com/notekeeper/apiserver/internal/store/memory"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "handler-test-secret"

type testApp struct {
	router  http.Handler
	db      *memory.DB
	issuer  *auth.TokenIssuer
	exports *services.ExportService
	queue   *queueBackend
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := memory.New()
	issuer, err := auth.NewTokenIssuer(testSecret, "notekeeper", time.Hour)
	require.NoError(t, err)

	queue := &queueBackend{}
	archives := storage.NewStorage(newObjectBackend())

	authService := services.NewAuthService(db.Users(), issuer, bcrypt.MinCost)
	userService := services.NewUserService(db.Users())
	noteService := services.NewNoteService(db.Notes())
	exportService := services.NewExportService(db.Notes(), mq.New(queue), archives, "note-exports")

	requireAuth := RequireAuth(issuer)
	router := chi.NewRouter()
	router.Route("/api/users", func(r chi.Router) {
		AuthRouter(r, authService, userService, requireAuth)
	})
	router.Route("/api/notes", func(r chi.Router) {
		NoteRouter(r, noteService, exportService, requireAuth)
	})

	return &testApp{router: router, db: db, issuer: issuer, exports: exportService, queue: queue}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// signup registers a user and returns its access token.
func (a *testApp) signup(t *testing.T, email, firstName string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/users/signup", "", map[string]string{
		"email":     email,
		"password":  "password123",
		"firstName": firstName,
		"lastName":  "Tester",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type queueBackend struct {
	mu       sync.Mutex
	messages [][]byte
}

func (q *queueBackend) Publish(_ context.Context, _ string, data []byte, _ map[string]string) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.messages = append(q.messages, data)
	return "msg", nil
}

func (q *queueBackend) Subscribe(context.Context, string, mq.Handler) error { return nil }

func (q *queueBackend) Close() error { return nil }

type objectBackend struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newObjectBackend() *objectBackend {
	return &objectBackend{objects: map[string][]byte{}}
}

func (o *objectBackend) EnsureBucket(context.Context) error { return nil }

func (o *objectBackend) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.objects[key] = data
	return nil
}

func (o *objectBackend) Get(_ context.Context, key string) (io.ReadCloser, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	data, ok := o.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (o *objectBackend) Stat(_ context.Context, key string) (storage.ObjectInfo, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	data, ok := o.objects[key]
	if !ok {
		return storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return storage.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (o *objectBackend) Bucket() string { return "test" }
