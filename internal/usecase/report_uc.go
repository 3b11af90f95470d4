package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"telegram-community-bot/internal/domain"
	"telegram-community-bot/internal/domain/model"
	"telegram-community-bot/internal/domain/ports/adapter"
	"telegram-community-bot/internal/domain/ports/repository"
	"telegram-community-bot/internal/infra/logging"
	"telegram-community-bot/internal/infra/metrics"
	"telegram-community-bot/internal/infra/sched"
	"telegram-community-bot/internal/infra/worker"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ReportUseCase = (*reportUC)(nil)

// ReportUseCase relays a private user's submission into the registered
// moderation group, confirms to the sender, and schedules a fire-once
// cleanup of the source/confirmation message pair. Cleanup runs through
// a bounded worker pool so a report storm cannot flood the platform
// with delete calls.
type ReportUseCase interface {
	// Submit relays one report. The returned string is the reply for
	// the sender; the confirmation message itself is sent here because
	// its id is needed for the deferred cleanup.
	Submit(ctx context.Context, rep *model.Report) (string, error)
}

type reportUC struct {
	groups       repository.GroupRepository
	bot          adapter.TelegramBotAdapter
	runner       sched.Runner
	pool         *worker.Pool
	cleanupDelay time.Duration
	log          *zerolog.Logger
}

func NewReportUseCase(
	groups repository.GroupRepository,
	bot adapter.TelegramBotAdapter,
	runner sched.Runner,
	pool *worker.Pool,
	cleanupDelay time.Duration,
	logger *zerolog.Logger,
) ReportUseCase {
	if cleanupDelay <= 0 {
		cleanupDelay = 60 * time.Second
	}
	return &reportUC{
		groups:       groups,
		bot:          bot,
		runner:       runner,
		pool:         pool,
		cleanupDelay: cleanupDelay,
		log:          logger,
	}
}

func (r *reportUC) Submit(ctx context.Context, rep *model.Report) (string, error) {
	defer logging.TraceDuration(r.log, "ReportUC.Submit")()

	dest, err := r.groups.Destination(ctx)
	if errors.Is(err, domain.ErrNoGroupRegistered) {
		return "No hay grupo registrado para enviar el reporte.", nil
	} else if err != nil {
		return "", err
	}

	var (
		kind         string
		confirmation string
	)
	switch rep.Kind {
	case model.ReportText:
		kind, confirmation = "text", "Tu reporte de texto ha sido enviado con éxito."
		if rep.Text == "" {
			return "Envía tu reporte junto al comando /reporte, en un mensaje.", nil
		}
		_, err = r.bot.SendText(ctx, dest, rep.Caption())
	case model.ReportPhoto:
		kind, confirmation = "photo", "Tu reporte con imagen ha sido enviado con éxito."
		_, err = r.bot.SendPhoto(ctx, dest, rep.FileID, rep.Caption())
	case model.ReportVideo:
		kind, confirmation = "video", "Tu reporte con video ha sido enviado con éxito."
		_, err = r.bot.SendVideo(ctx, dest, rep.FileID, rep.Caption())
	default:
		return "", domain.ErrInvalidArgument
	}
	if err != nil {
		return "", fmt.Errorf("relay report: %w: %w", domain.ErrDelivery, err)
	}
	metrics.IncReportRelayed(kind)

	confID, err := r.bot.SendText(ctx, rep.SourceChatID, confirmation)
	if err != nil {
		// relay already happened; the sender just misses the confirmation
		logging.With(ctx, r.log).Warn().Err(err).Msg("report confirmation delivery failed")
		return "", nil
	}

	r.scheduleCleanup(rep.SourceChatID, rep.SourceMessageID, confID)
	return "", nil
}

// scheduleCleanup arms one deferred task per accepted report. The task
// fires exactly once; each deletion is attempted independently and
// failures are logged, never surfaced or retried.
func (r *reportUC) scheduleCleanup(chatID int64, sourceMsgID, confMsgID int) {
	r.runner.After(r.cleanupDelay, func(ctx context.Context) {
		task := func(ctx context.Context) error {
			for _, msgID := range []int{sourceMsgID, confMsgID} {
				if err := r.bot.DeleteMessage(ctx, chatID, msgID); err != nil {
					metrics.IncCleanupDelete(false)
					r.log.Debug().Err(err).Int64("chat_id", chatID).Int("message_id", msgID).Msg("cleanup delete failed")
					continue
				}
				metrics.IncCleanupDelete(true)
			}
			return nil
		}
		if err := r.pool.Submit(task); err != nil {
			// queue saturated: cleanup is best-effort, drop it
			r.log.Warn().Err(err).Int64("chat_id", chatID).Msg("cleanup task dropped")
		}
	})
}
