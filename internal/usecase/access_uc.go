package usecase

import (
	"context"
	"errors"

	"telegram-community-bot/internal/domain"
	"telegram-community-bot/internal/domain/ports/repository"
	"telegram-community-bot/internal/infra/logging"
	"telegram-community-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

const (
	StagePrivate = "private"
	StageGroup   = "group"
)

// Denial is the gate's rejection: which stage refused the event and the
// reply to send back to the originating chat. The handler is never
// invoked for a denied event.
type Denial struct {
	Stage string
	Reply string
}

// Commands that bypass the private stage: registration, the activation
// request itself and read-only information.
var privateExempt = map[string]struct{}{
	"start":                {},
	"solicitar_activacion": {},
	"help":                 {},
}

// Commands that bypass the group stage: the password entry and /start.
var groupExempt = map[string]struct{}{
	"clave": {},
	"start": {},
}

// Compile-time check
var _ AccessUseCase = (*accessUC)(nil)

// AccessUseCase is the two-stage activation gate evaluated ahead of
// every dispatch. Each stage performs exactly one authoritative store
// read; the mirror is only written, never trusted.
type AccessUseCase interface {
	// Check decides allow (nil, nil) or deny (*Denial, nil) for one
	// event. A store failure comes back as an error wrapping
	// domain.ErrStore; the caller reports it as an operational failure
	// without dispatching.
	Check(ctx context.Context, ev Event) (*Denial, error)
}

type accessUC struct {
	groups repository.GroupRepository
	users  repository.UserRepository
	mirror *ActivationMirror
	log    *zerolog.Logger
}

func NewAccessUseCase(
	groups repository.GroupRepository,
	users repository.UserRepository,
	mirror *ActivationMirror,
	logger *zerolog.Logger,
) AccessUseCase {
	return &accessUC{groups: groups, users: users, mirror: mirror, log: logger}
}

func (a *accessUC) Check(ctx context.Context, ev Event) (*Denial, error) {
	switch {
	case ev.InPrivate():
		return a.checkPrivate(ctx, ev)
	case ev.InGroup():
		return a.checkGroup(ctx, ev)
	default:
		// channels etc. carry no gated commands
		return nil, nil
	}
}

func (a *accessUC) checkPrivate(ctx context.Context, ev Event) (*Denial, error) {
	if _, ok := privateExempt[ev.Command]; ok {
		return nil, nil
	}
	u, err := a.users.FindByTelegramID(ctx, ev.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if u != nil && u.Activated {
		return nil, nil
	}
	metrics.IncGateDenial(StagePrivate)
	logging.With(ctx, a.log).Debug().Int64("user_id", ev.UserID).Str("command", ev.Command).Msg("private stage denial")
	return &Denial{
		Stage: StagePrivate,
		Reply: "Tu cuenta no está activada. Usa /solicitar_activacion y pide a un administrador que te active.",
	}, nil
}

func (a *accessUC) checkGroup(ctx context.Context, ev Event) (*Denial, error) {
	if _, ok := groupExempt[ev.Command]; ok {
		return nil, nil
	}
	g, err := a.groups.FindByChatID(ctx, ev.ChatID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if g != nil && g.Activated {
		// best-effort cache refresh; the store stays authoritative
		a.mirror.Add(ev.ChatID)
		return nil, nil
	}
	metrics.IncGateDenial(StageGroup)
	logging.With(ctx, a.log).Debug().Int64("chat_id", ev.ChatID).Str("command", ev.Command).Msg("group stage denial")
	return &Denial{
		Stage: StageGroup,
		Reply: "Este grupo no está activado. Un administrador debe enviar /clave <contraseña>.",
	}, nil
}
