package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/notekeeper/apiserver/internal/metrics"
	"github.com/notekeeper/apiserver/internal/services"
)

// NoteHandler serves the note endpoints. Every route runs behind RequireAuth.
type NoteHandler struct {
	noteService *services.NoteService
}

func NewNoteHandler(noteService *services.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// NoteRouter registers note routes on the given router. Export routes are
// only mounted when exportService is non-nil.
func NoteRouter(
	r chi.Router,
	noteService *services.NoteService,
	exportService *services.ExportService,
	requireAuth func(http.Handler) http.Handler,
) {
	handler := NewNoteHandler(noteService)

	r.Use(requireAuth)
	r.Get("/", handler.ListNotes)
	r.Post("/", handler.CreateNote)
	if exportService != nil {
		exports := NewExportHandler(exportService)
		r.Post("/exports", exports.RequestExport)
		r.Get("/exports/{exportID}", exports.DownloadExport)
	}
	r.Route("/{noteID}", func(r chi.Router) {
		r.Get("/", handler.GetNote)
		r.Put("/", handler.UpdateNote)
	})
}

// ListNotes returns the caller's notes.
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID, _ := SubjectFromContext(r.Context())

	notes, err := h.noteService.ListByOwner(r.Context(), userID)
	if err != nil {
		metrics.ObserveNote("list", "error")
		writeInternalError(w, r, err, "list notes failed")
		return
	}
	metrics.ObserveNote("list", "success")
	writeData(w, http.StatusOK, notes)
}

// CreateNote stores a note for the caller and returns its id.
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, _ := SubjectFromContext(r.Context())

	var req NoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.noteService.Create(r.Context(), userID, req.Text)
	if err != nil {
		h.writeNoteError(w, r, "create", err)
		return
	}
	metrics.ObserveNote("create", "success")
	writeData(w, http.StatusOK, CreatedNote{ID: id})
}

// GetNote returns one of the caller's notes.
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	userID, _ := SubjectFromContext(r.Context())

	note, err := h.noteService.Get(r.Context(), chi.URLParam(r, "noteID"), userID)
	if err != nil {
		h.writeNoteError(w, r, "get", err)
		return
	}
	metrics.ObserveNote("get", "success")
	writeData(w, http.StatusOK, note)
}

// UpdateNote replaces the text of one of the caller's notes.
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	userID, _ := SubjectFromContext(r.Context())

	var req NoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	note, err := h.noteService.Update(r.Context(), chi.URLParam(r, "noteID"), userID, req.Text)
	if err != nil {
		h.writeNoteError(w, r, "update", err)
		return
	}
	metrics.ObserveNote("update", "success")
	writeData(w, http.StatusOK, note)
}

// writeNoteError answers a foreign note exactly like a missing one.
func (h *NoteHandler) writeNoteError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		metrics.ObserveNote(op, "invalid")
		writeError(w, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, services.ErrNoteForbidden):
		metrics.ObserveNote(op, "forbidden")
		writeError(w, http.StatusNotFound, "note not found")
	case errors.Is(err, services.ErrNoteNotFound):
		metrics.ObserveNote(op, "not_found")
		writeError(w, http.StatusNotFound, "note not found")
	default:
		metrics.ObserveNote(op, "error")
		writeInternalError(w, r, err, op+" note failed")
	}
}

type NoteRequest struct {
	Text string `json:"text"`
}

type CreatedNote struct {
	ID string `json:"id"`
}
