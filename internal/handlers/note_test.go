package handlers

import (
	"net/http"
	"testing"

	"github.com/notekeeper/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createNote(t *testing.T, app *testApp, token, text string) string {
	t.Helper()
	rec := app.do(t, http.MethodPost, "/api/notes", token, NoteRequest{Text: text})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody[struct {
		Data CreatedNote `json:"data"`
	}](t, rec)
	require.NotEmpty(t, body.Data.ID)
	return body.Data.ID
}

func TestCreateAndGetNote(t *testing.T) {
	app := newTestApp(t)
	token := app.signup(t, "ada@example.com", "Ada")

	id := createNote(t, app, token, "remember to pickup the ketchup")

	rec := app.do(t, http.MethodGet, "/api/notes/"+id, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[map[string]map[string]any](t, rec)
	assert.Equal(t, id, body["data"]["id"])
	assert.Equal(t, "remember to pickup the ketchup", body["data"]["text"])
	assert.Equal(t, map[string]any{"firstName": "Ada", "lastName": "Tester"}, body["data"]["user"])
	assert.NotContains(t, body["data"], "ownerId")
	assert.NotContains(t, body["data"], "OwnerID")
}

func TestCreateNote_EmptyTextPersistsNothing(t *testing.T) {
	app := newTestApp(t)
	token := app.signup(t, "ada@example.com", "Ada")

	for _, body := range []any{NoteRequest{Text: ""}, NoteRequest{Text: "   "}, map[string]string{}} {
		rec := app.do(t, http.MethodPost, "/api/notes", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "text must be provided", decodeBody[ErrorResponse](t, rec).Message)
	}

	rec := app.do(t, http.MethodGet, "/api/notes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestForeignNoteLooksMissing(t *testing.T) {
	app := newTestApp(t)
	ada := app.signup(t, "ada@example.com", "Ada")
	bob := app.signup(t, "bob@example.com", "Bob")

	id := createNote(t, app, ada, "ada's secret")

	foreign := app.do(t, http.MethodGet, "/api/notes/"+id, bob, nil)
	missing := app.do(t, http.MethodGet, "/api/notes/0b7f0a4e-1b43-4c1a-8a55-00000000ffff", bob, nil)
	badID := app.do(t, http.MethodGet, "/api/notes/42", bob, nil)

	assert.Equal(t, http.StatusNotFound, foreign.Code)
	assert.Equal(t, missing.Code, foreign.Code)
	assert.Equal(t, missing.Body.String(), foreign.Body.String())
	assert.Equal(t, missing.Body.String(), badID.Body.String())
	assert.NotContains(t, foreign.Body.String(), "ada's secret")

	own := app.do(t, http.MethodGet, "/api/notes/"+id, ada, nil)
	assert.Equal(t, http.StatusOK, own.Code)
}

func TestUpdateNote(t *testing.T) {
	app := newTestApp(t)
	ada := app.signup(t, "ada@example.com", "Ada")
	bob := app.signup(t, "bob@example.com", "Bob")
	id := createNote(t, app, ada, "draft")

	rec := app.do(t, http.MethodPut, "/api/notes/"+id, bob, NoteRequest{Text: "hijacked"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(t, http.MethodPut, "/api/notes/"+id, ada, NoteRequest{Text: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPut, "/api/notes/"+id, ada, NoteRequest{Text: "final"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[struct {
		Data types.Note `json:"data"`
	}](t, rec)
	assert.Equal(t, "final", updated.Data.Text)

	stored, err := app.db.Notes().Get(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, "final", stored.Text)
}

func TestListNotes_OnlyOwnInOrder(t *testing.T) {
	app := newTestApp(t)
	ada := app.signup(t, "ada@example.com", "Ada")
	bob := app.signup(t, "bob@example.com", "Bob")

	createNote(t, app, ada, "first")
	createNote(t, app, bob, "bob's")
	createNote(t, app, ada, "second")

	list := func() []types.Note {
		rec := app.do(t, http.MethodGet, "/api/notes", ada, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		return decodeBody[struct {
			Data []types.Note `json:"data"`
		}](t, rec).Data
	}

	notes := list()
	require.Len(t, notes, 2)
	assert.Equal(t, "first", notes[0].Text)
	assert.Equal(t, "second", notes[1].Text)
	require.NotNil(t, notes[0].Author)
	assert.Equal(t, "Ada", notes[0].Author.FirstName)

	assert.Equal(t, notes, list())
}

func TestNotes_RequireToken(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/notes", "", NoteRequest{Text: "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing token", decodeBody[ErrorResponse](t, rec).Message)
}
