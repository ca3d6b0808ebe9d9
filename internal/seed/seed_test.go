package seed

import (
	"context"
	"testing"
	"time"

	"github.com/notekeeper/apiserver/internal/auth"
	"github.com/notekeeper/apiserver/internal/logger"
	"github.com/notekeeper/apiserver/internal/services"
	"github.com/notekeeper/apiserver/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	issuer, err := auth.NewTokenIssuer("seed-secret", "notekeeper", time.Hour)
	require.NoError(t, err)
	authService := services.NewAuthService(db.Users(), issuer, bcrypt.MinCost)
	noteService := services.NewNoteService(db.Notes())

	res, err := Run(ctx, authService, noteService, DemoAccounts, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, Result{UsersCreated: 2, NotesCreated: 4}, res)

	mike, err := db.Users().GetByEmail(ctx, "mike@mikecorp.ca")
	require.NoError(t, err)
	notes, err := db.Notes().ListByOwner(ctx, mike.ID)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "remember to pickup the ketchup", notes[0].Text)

	_, _, err = authService.Login(ctx, "rylie@mikecorp.ca", "password123")
	require.NoError(t, err)

	res, err = Run(ctx, authService, noteService, DemoAccounts, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, Result{UsersSkipped: 2}, res)

	notes, err = db.Notes().ListByOwner(ctx, mike.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 3)
}
