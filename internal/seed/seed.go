// Package seed loads the demo accounts and notes.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/notekeeper/apiserver/internal/logger"
	"github.com/notekeeper/apiserver/internal/services"
)

const (
	demoPassword = "password123"
	demoNote     = "remember to pickup the ketchup"
)

// Account is a demo user and the number of notes created for it.
type Account struct {
	services.SignupInput
	Notes int
}

// DemoAccounts is the fixed demo data set.
var DemoAccounts = []Account{
	{SignupInput: services.SignupInput{Email: "mike@mikecorp.ca", Password: demoPassword, FirstName: "Mike", LastName: "Perrotte"}, Notes: 3},
	{SignupInput: services.SignupInput{Email: "rylie@mikecorp.ca", Password: demoPassword, FirstName: "Rylie", LastName: "Smith"}, Notes: 1},
}

// Result counts what Run created and skipped.
type Result struct {
	UsersCreated int
	UsersSkipped int
	NotesCreated int
}

// Run creates every account in accounts through the normal signup path.
// Accounts whose email is already registered are skipped along with their notes.
func Run(ctx context.Context, authService *services.AuthService, noteService *services.NoteService, accounts []Account, log *logger.Logger) (Result, error) {
	var res Result
	for _, acct := range accounts {
		user, _, err := authService.Signup(ctx, acct.SignupInput)
		if errors.Is(err, services.ErrDuplicateEmail) {
			log.Info().Str("email", acct.Email).Msg("seed user exists, skipping")
			res.UsersSkipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed user %s: %w", acct.Email, err)
		}
		res.UsersCreated++

		for i := 0; i < acct.Notes; i++ {
			if _, err := noteService.Create(ctx, user.ID, demoNote); err != nil {
				return res, fmt.Errorf("seed note for %s: %w", acct.Email, err)
			}
			res.NotesCreated++
		}
		log.Info().Str("email", acct.Email).Int("notes", acct.Notes).Msg("seeded user")
	}
	return res, nil
}
