package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/notekeeper/apiserver/internal/logger"
	"github.com/notekeeper/apiserver/internal/metrics"
	"github.com/notekeeper/apiserver/internal/services"
)

// ExportHandler serves the asynchronous note export endpoints.
type ExportHandler struct {
	exportService *services.ExportService
}

func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// RequestExport queues an export of the caller's notes.
func (h *ExportHandler) RequestExport(w http.ResponseWriter, r *http.Request) {
	userID, _ := SubjectFromContext(r.Context())

	job, err := h.exportService.Request(r.Context(), userID)
	if err != nil {
		metrics.ObserveExport("requested", "error")
		writeInternalError(w, r, err, "request export failed")
		return
	}
	metrics.ObserveExport("requested", "success")
	writeData(w, http.StatusAccepted, job)
}

// DownloadExport streams a finished export archive.
func (h *ExportHandler) DownloadExport(w http.ResponseWriter, r *http.Request) {
	userID, _ := SubjectFromContext(r.Context())
	exportID := chi.URLParam(r, "exportID")

	rc, info, err := h.exportService.Open(r.Context(), userID, exportID)
	if err != nil {
		if errors.Is(err, services.ErrExportNotFound) {
			writeError(w, http.StatusNotFound, "export not found")
			return
		}
		writeInternalError(w, r, err, "open export failed")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="notes-%s.json"`, exportID))
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		logger.FromContext(r.Context()).Warn().Err(err).Str("export_id", exportID).Msg("stream export interrupted")
	}
}
