package usecase

import (
	"context"
	"fmt"
	"time"

	"telegram-community-bot/internal/domain/ports/adapter"
	"telegram-community-bot/internal/domain/ports/repository"
	"telegram-community-bot/internal/infra/logging"
	"telegram-community-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ BroadcastUseCase = (*broadcastUC)(nil)

// BroadcastUseCase fans one message out to every registered private
// user. Recipients are read fresh from the store, deliveries happen
// sequentially, and a per-recipient failure never halts the iteration
// or leaks which recipient failed.
type BroadcastUseCase interface {
	// Broadcast handles /cadena <message...>.
	Broadcast(ctx context.Context, ev Event, message string) (string, error)
}

type broadcastUC struct {
	users    repository.UserRepository
	bot      adapter.TelegramBotAdapter
	priv     *PrivilegeCheck
	throttle time.Duration
	log      *zerolog.Logger
}

func NewBroadcastUseCase(
	users repository.UserRepository,
	bot adapter.TelegramBotAdapter,
	priv *PrivilegeCheck,
	throttle time.Duration,
	logger *zerolog.Logger,
) BroadcastUseCase {
	return &broadcastUC{
		users:    users,
		bot:      bot,
		priv:     priv,
		throttle: throttle,
		log:      logger,
	}
}

func (b *broadcastUC) Broadcast(ctx context.Context, ev Event, message string) (string, error) {
	defer logging.TraceDuration(b.log, "BroadcastUC.Broadcast")()

	ok, err := b.priv.IsPrivileged(ctx, ev)
	if err != nil {
		return "", err
	}
	if !ok {
		metrics.IncPrivilegeDenial()
		return replyAdminsOnly, nil
	}
	if message == "" {
		return "Uso: /cadena <mensaje>", nil
	}

	// every registered user, activated or not
	ids, err := b.users.ListIDs(ctx)
	if err != nil {
		return "", err
	}

	logging.With(ctx, b.log).Info().Int("recipients", len(ids)).Msg("broadcast starting")
	text := "MENSAJE: " + message
	delivered := 0
	for i, id := range ids {
		if i > 0 && b.throttle > 0 {
			select {
			case <-ctx.Done():
				return fmt.Sprintf("Mensaje enviado a %d usuarios en privado.", delivered), nil
			case <-time.After(b.throttle):
			}
		}
		if _, serr := b.bot.SendText(ctx, id, text); serr != nil {
			// blocked bot, deleted account: skip and move on
			b.log.Debug().Err(serr).Int64("user_id", id).Msg("broadcast delivery failed")
			continue
		}
		metrics.IncBroadcastDelivered()
		delivered++
	}
	logging.With(ctx, b.log).Info().Int("delivered", delivered).Msg("broadcast finished")
	return fmt.Sprintf("Mensaje enviado a %d usuarios en privado.", delivered), nil
}
