// Package worker consumes queued export jobs and writes the archives.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/notekeeper/apiserver/internal/logger"
	"github.com/notekeeper/apiserver/internal/metrics"
	"github.com/notekeeper/apiserver/internal/mq"
	"github.com/notekeeper/apiserver/internal/services"
	"github.com/notekeeper/apiserver/types"
)

// Subscriber is the part of the broker the worker needs.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler mq.Handler) error
}

// Processor builds one export archive.
type Processor interface {
	Process(ctx context.Context, job types.ExportJob) error
}

// Run consumes export jobs from channel until ctx is cancelled.
func Run(ctx context.Context, queue Subscriber, channel string, exports Processor, log *logger.Logger) error {
	log.Info().Str("channel", channel).Msg("export worker started")
	err := queue.Subscribe(ctx, channel, Handler(exports, log))
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("subscribe %s: %w", channel, err)
	}
	log.Info().Msg("export worker stopped")
	return nil
}

// Handler returns the mq handler that decodes and processes one job.
// Malformed jobs are rejected as permanent so the broker drops them.
func Handler(exports Processor, log *logger.Logger) mq.Handler {
	return func(ctx context.Context, msg mq.Message) error {
		var job types.ExportJob
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			metrics.ObserveExport("processed", "malformed")
			log.Warn().Err(err).Str("message_id", msg.ID).Msg("dropping malformed export job")
			return fmt.Errorf("decode export job: %w: %w", mq.ErrPermanent, err)
		}

		jobLog := log.WithStr("export_id", job.ID).WithStr("owner_id", job.OwnerID)
		if err := exports.Process(ctx, job); err != nil {
			var verr *services.ValidationError
			if errors.As(err, &verr) {
				metrics.ObserveExport("processed", "rejected")
				jobLog.Warn().Err(err).Msg("dropping invalid export job")
				return fmt.Errorf("%w: %w", mq.ErrPermanent, err)
			}
			metrics.ObserveExport("processed", "error")
			jobLog.Error().Err(err).Msg("export failed")
			return err
		}

		metrics.ObserveExport("processed", "success")
		jobLog.Info().Msg("export written")
		return nil
	}
}
