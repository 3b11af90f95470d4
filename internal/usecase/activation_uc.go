package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"telegram-community-bot/internal/domain"
	"telegram-community-bot/internal/domain/model"
	"telegram-community-bot/internal/domain/ports/adapter"
	"telegram-community-bot/internal/domain/ports/repository"
	"telegram-community-bot/internal/infra/logging"
	"telegram-community-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ActivationUseCase = (*activationUC)(nil)

// ActivationUseCase drives both one-way activation state machines:
// group INACTIVE→ACTIVE via password, user PENDING→ACTIVE via a group
// administrator.
type ActivationUseCase interface {
	// ActivateGroup handles /clave <secret>. The privilege check
	// precedes the password comparison; the mirror is only updated
	// after the store write succeeded.
	ActivateGroup(ctx context.Context, ev Event, secret string) (string, error)
	// ActivateUser handles /activar <user_id>. Activation persists
	// even when the courtesy notification to the target fails; that
	// failure is reported to the caller as a warning, not rolled back.
	ActivateUser(ctx context.Context, ev Event, rawID string) (string, error)
	// RequestActivation handles /solicitar_activacion in a private chat.
	RequestActivation(ctx context.Context, ev Event) (string, error)
}

type activationUC struct {
	groups   repository.GroupRepository
	users    repository.UserRepository
	bot      adapter.TelegramBotAdapter
	priv     *PrivilegeCheck
	mirror   *ActivationMirror
	password string
	log      *zerolog.Logger
}

func NewActivationUseCase(
	groups repository.GroupRepository,
	users repository.UserRepository,
	bot adapter.TelegramBotAdapter,
	priv *PrivilegeCheck,
	mirror *ActivationMirror,
	password string,
	logger *zerolog.Logger,
) ActivationUseCase {
	return &activationUC{
		groups:   groups,
		users:    users,
		bot:      bot,
		priv:     priv,
		mirror:   mirror,
		password: password,
		log:      logger,
	}
}

func (a *activationUC) ActivateGroup(ctx context.Context, ev Event, secret string) (string, error) {
	defer logging.TraceDuration(a.log, "ActivationUC.ActivateGroup")()

	ok, err := a.priv.IsPrivileged(ctx, ev)
	if err != nil {
		return "", err
	}
	if !ok {
		metrics.IncPrivilegeDenial()
		return replyAdminsOnly, nil
	}
	if secret == "" {
		return "Uso: /clave <contraseña>", nil
	}
	if secret != a.password {
		return "Contraseña incorrecta.", nil
	}

	g, err := a.groups.FindByChatID(ctx, ev.ChatID)
	if errors.Is(err, domain.ErrNotFound) {
		if g, err = model.NewGroup(ev.ChatID); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	if !g.Activate() {
		// idempotent: no duplicate store write
		return "El grupo ya está activado.", nil
	}
	if err := a.groups.Save(ctx, g); err != nil {
		// do not touch the mirror; cache and durable state must not diverge
		return "", err
	}
	a.mirror.Add(ev.ChatID)
	logging.With(ctx, a.log).Info().Int64("chat_id", ev.ChatID).Msg("group activated")
	return "Grupo activado correctamente.", nil
}

func (a *activationUC) ActivateUser(ctx context.Context, ev Event, rawID string) (string, error) {
	defer logging.TraceDuration(a.log, "ActivationUC.ActivateUser")()

	ok, err := a.priv.IsPrivileged(ctx, ev)
	if err != nil {
		return "", err
	}
	if !ok {
		metrics.IncPrivilegeDenial()
		return replyAdminsOnly, nil
	}

	targetID, perr := strconv.ParseInt(rawID, 10, 64)
	if perr != nil || targetID <= 0 {
		return "Uso: /activar <user_id>", nil
	}

	u, err := a.users.FindByTelegramID(ctx, targetID)
	if errors.Is(err, domain.ErrNotFound) {
		if u, err = model.NewPrivateUser(targetID, ""); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	if !u.Activate() {
		return fmt.Sprintf("El usuario %d ya estaba activado.", targetID), nil
	}
	if err := a.users.Save(ctx, u); err != nil {
		return "", err
	}
	logging.With(ctx, a.log).Info().Int64("target_id", targetID).Int64("by", ev.UserID).Msg("user activated")

	if _, nerr := a.bot.SendText(ctx, targetID, "¡Felicidades! Tu cuenta ha sido activada. Ya puedes usar todos los comandos."); nerr != nil {
		logging.With(ctx, a.log).Warn().Err(nerr).Int64("target_id", targetID).Msg("activation notice delivery failed")
		return fmt.Sprintf("Usuario %d activado, pero no pude avisarle en privado.", targetID), nil
	}
	return fmt.Sprintf("Usuario %d activado correctamente.", targetID), nil
}

func (a *activationUC) RequestActivation(ctx context.Context, ev Event) (string, error) {
	return fmt.Sprintf("Tu ID es: %d\nPídele a un administrador del grupo que lo active con /activar %d.", ev.UserID, ev.UserID), nil
}
