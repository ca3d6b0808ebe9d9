package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/notekeeper/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportFlow(t *testing.T) {
	app := newTestApp(t)
	ada := app.signup(t, "ada@example.com", "Ada")
	bob := app.signup(t, "bob@example.com", "Bob")
	createNote(t, app, ada, "first")
	createNote(t, app, ada, "second")

	rec := app.do(t, http.MethodPost, "/api/notes/exports", ada, nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	job := decodeBody[struct {
		Data types.ExportJob `json:"data"`
	}](t, rec).Data
	require.NotEmpty(t, job.ID)

	pending := app.do(t, http.MethodGet, "/api/notes/exports/"+job.ID, ada, nil)
	assert.Equal(t, http.StatusNotFound, pending.Code)

	require.Len(t, app.queue.messages, 1)
	var queued types.ExportJob
	require.NoError(t, json.Unmarshal(app.queue.messages[0], &queued))
	assert.Equal(t, job.ID, queued.ID)
	require.NoError(t, app.exports.Process(t.Context(), queued))

	rec = app.do(t, http.MethodGet, "/api/notes/exports/"+job.ID, ada, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), job.ID)
	assert.Equal(t, strconv.Itoa(rec.Body.Len()), rec.Header().Get("Content-Length"))

	archive := decodeBody[types.NoteExport](t, rec)
	assert.Equal(t, job.ID, archive.ExportID)
	require.Len(t, archive.Notes, 2)
	assert.Equal(t, "first", archive.Notes[0].Text)

	foreign := app.do(t, http.MethodGet, "/api/notes/exports/"+job.ID, bob, nil)
	assert.Equal(t, http.StatusNotFound, foreign.Code)
}

func TestExport_RequiresToken(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/notes/exports", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, app.queue.messages)
}
