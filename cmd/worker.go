/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/notekeeper/apiserver/config"
	"github.com/notekeeper/apiserver/internal/logger"
	"github.com/notekeeper/apiserver/internal/mq"
	"github.com/notekeeper/apiserver/internal/server"
	"github.com/notekeeper/apiserver/internal/services"
	"github.com/notekeeper/apiserver/internal/storage"
	"github.com/notekeeper/apiserver/internal/worker"
	"github.com/spf13/cobra"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consumes note export jobs",
	Long: `Consumes note export jobs from the message queue and writes each
archive to object storage. Requires STORAGE_BACKEND and MQ_BACKEND.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.RequireSharedStore("worker"); err != nil {
			return err
		}
		if !cfg.ExportsEnabled() {
			return errors.New("worker needs STORAGE_BACKEND and MQ_BACKEND")
		}
		log := logger.NewLogger("worker", cfg.LogLevel)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		repos, err := server.OpenRepositories(ctx, cfg.Database)
		if err != nil {
			return err
		}
		if repos.DB != nil {
			defer repos.DB.Close()
		}

		archives, err := storage.Open(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		queue, err := mq.Open(ctx, cfg.MQ)
		if err != nil {
			return err
		}
		defer queue.Close()

		exports := services.NewExportService(repos.Notes, queue, archives, cfg.MQ.ExportChannel)
		return worker.Run(ctx, queue, cfg.MQ.ExportChannel, exports, log)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
