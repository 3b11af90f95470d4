package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"telegram-community-bot/internal/domain/model"
	"telegram-community-bot/internal/domain/ports/adapter"
	"telegram-community-bot/internal/infra/logging"
	"telegram-community-bot/internal/infra/metrics"
	"telegram-community-bot/internal/infra/sched"

	"github.com/rs/zerolog"
)

type echoEntry struct {
	job    *model.EchoJob
	handle sched.Handle
}

// Compile-time check
var _ EchoUseCase = (*echoUC)(nil)

// EchoUseCase keeps at most one live echo timer per group. Start is a
// full replace: the previous handle is cancelled and the new one
// installed under the same lock, so no window exists where two timers
// fire for one group.
type EchoUseCase interface {
	// Start handles /eco <minutes> <message...>.
	Start(ctx context.Context, ev Event, rawMinutes, message string) (string, error)
	// Stop handles /eco_stop.
	Stop(ctx context.Context, ev Event) (string, error)
	// Active reports whether a group currently has a live echo job.
	Active(chatID int64) bool
}

type echoUC struct {
	bot    adapter.TelegramBotAdapter
	runner sched.Runner
	priv   *PrivilegeCheck
	log    *zerolog.Logger

	mu   sync.Mutex
	jobs map[int64]echoEntry
}

func NewEchoUseCase(
	bot adapter.TelegramBotAdapter,
	runner sched.Runner,
	priv *PrivilegeCheck,
	logger *zerolog.Logger,
) EchoUseCase {
	return &echoUC{
		bot:    bot,
		runner: runner,
		priv:   priv,
		log:    logger,
		jobs:   make(map[int64]echoEntry),
	}
}

func (e *echoUC) Start(ctx context.Context, ev Event, rawMinutes, message string) (string, error) {
	defer logging.TraceDuration(e.log, "EchoUC.Start")()

	ok, err := e.priv.IsPrivileged(ctx, ev)
	if err != nil {
		return "", err
	}
	if !ok {
		metrics.IncPrivilegeDenial()
		return replyAdminsOnly, nil
	}
	if rawMinutes == "" || message == "" {
		return "Uso: /eco <minutos> <mensaje>", nil
	}
	minutes, perr := strconv.Atoi(rawMinutes)
	if perr != nil || minutes < 1 {
		return "El intervalo debe ser un número de minutos mayor o igual a 1.", nil
	}

	job, err := model.NewEchoJob(ev.ChatID, minutes, message)
	if err != nil {
		return "", err
	}

	chatID, text := ev.ChatID, "Eco: "+message
	tick := func(tctx context.Context) {
		metrics.IncEchoTick()
		if _, serr := e.bot.SendText(tctx, chatID, text); serr != nil {
			// delivery failures on a tick are not retried and never
			// cancel the job
			e.log.Warn().Err(serr).Int64("chat_id", chatID).Msg("echo tick delivery failed")
		}
	}

	// cancel-then-install under the lock: at no point are two timers
	// live for the same group
	e.mu.Lock()
	if prev, exists := e.jobs[ev.ChatID]; exists {
		prev.handle.Stop()
	}
	e.jobs[ev.ChatID] = echoEntry{job: job, handle: e.runner.Every(job.Interval(), tick)}
	e.mu.Unlock()

	logging.With(ctx, e.log).Info().Int64("chat_id", ev.ChatID).Int("minutes", minutes).Msg("echo started")
	return fmt.Sprintf("Eco activado cada %d minutos: %s", minutes, message), nil
}

func (e *echoUC) Stop(ctx context.Context, ev Event) (string, error) {
	defer logging.TraceDuration(e.log, "EchoUC.Stop")()

	ok, err := e.priv.IsPrivileged(ctx, ev)
	if err != nil {
		return "", err
	}
	if !ok {
		metrics.IncPrivilegeDenial()
		return replyAdminsOnly, nil
	}

	e.mu.Lock()
	entry, exists := e.jobs[ev.ChatID]
	if exists {
		entry.handle.Stop()
		delete(e.jobs, ev.ChatID)
	}
	e.mu.Unlock()

	if !exists {
		return "No hay eco activo en este grupo.", nil
	}
	logging.With(ctx, e.log).Info().Int64("chat_id", ev.ChatID).Msg("echo stopped")
	return "Eco detenido.", nil
}

func (e *echoUC) Active(chatID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.jobs[chatID]
	return ok
}
