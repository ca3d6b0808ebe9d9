/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/notekeeper/apiserver/config"
	"github.com/notekeeper/apiserver/internal/auth"
	"github.com/notekeeper/apiserver/internal/logger"
	"github.com/notekeeper/apiserver/internal/seed"
	"github.com/notekeeper/apiserver/internal/server"
	"github.com/notekeeper/apiserver/internal/services"
	"github.com/spf13/cobra"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Creates the demo users and notes",
	Long: `Creates the demo users mike@mikecorp.ca and rylie@mikecorp.ca with a
few notes each. Users that already exist are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.RequireSharedStore("seed"); err != nil {
			return err
		}
		log := logger.NewLogger("seed", cfg.LogLevel)

		repos, err := server.OpenRepositories(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		if repos.DB != nil {
			defer repos.DB.Close()
		}

		issuer, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL)
		if err != nil {
			return err
		}

		res, err := seed.Run(cmd.Context(),
			services.NewAuthService(repos.Users, issuer, cfg.Auth.BcryptCost),
			services.NewNoteService(repos.Notes),
			seed.DemoAccounts,
			log,
		)
		if err != nil {
			return err
		}
		log.Info().
			Int("users_created", res.UsersCreated).
			Int("users_skipped", res.UsersSkipped).
			Int("notes_created", res.NotesCreated).
			Msg("seed complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
