package usecase

import (
	"context"
	"errors"
	"time"

	"telegram-community-bot/internal/domain"
	"telegram-community-bot/internal/domain/model"
	"telegram-community-bot/internal/domain/ports/repository"
	"telegram-community-bot/internal/infra/logging"

	"github.com/rs/zerolog"
)

const replyWelcome = "Soy YummyEcho, repito los mensajes para ayudarte."

// Compile-time check
var _ RegistrationUseCase = (*registrationUC)(nil)

// RegistrationUseCase handles /start in both chat kinds and the group
// registration that happens when the bot joins a group.
type RegistrationUseCase interface {
	// StartPrivate creates the user row on first contact (unactivated)
	// and returns the welcome text either way.
	StartPrivate(ctx context.Context, tgID int64, username string) (string, error)
	// RegisterGroup upserts the group row and bumps its registration
	// time, making it the report destination. The activation flag of a
	// known group is preserved.
	RegisterGroup(ctx context.Context, chatID int64) (*model.Group, error)
}

type registrationUC struct {
	users  repository.UserRepository
	groups repository.GroupRepository
	log    *zerolog.Logger
}

func NewRegistrationUseCase(
	users repository.UserRepository,
	groups repository.GroupRepository,
	logger *zerolog.Logger,
) RegistrationUseCase {
	return &registrationUC{users: users, groups: groups, log: logger}
}

func (r *registrationUC) StartPrivate(ctx context.Context, tgID int64, username string) (string, error) {
	defer logging.TraceDuration(r.log, "RegistrationUC.StartPrivate")()

	_, err := r.users.FindByTelegramID(ctx, tgID)
	if errors.Is(err, domain.ErrNotFound) {
		u, nerr := model.NewPrivateUser(tgID, username)
		if nerr != nil {
			return "", nerr
		}
		if serr := r.users.Save(ctx, u); serr != nil {
			return "", serr
		}
		logging.With(ctx, r.log).Info().Int64("user_id", tgID).Msg("private user registered")
	} else if err != nil {
		return "", err
	}
	return replyWelcome, nil
}

func (r *registrationUC) RegisterGroup(ctx context.Context, chatID int64) (*model.Group, error) {
	defer logging.TraceDuration(r.log, "RegistrationUC.RegisterGroup")()

	g, err := r.groups.FindByChatID(ctx, chatID)
	if errors.Is(err, domain.ErrNotFound) {
		g, err = model.NewGroup(chatID)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	} else {
		g.RegisteredAt = time.Now()
	}
	if err := r.groups.Save(ctx, g); err != nil {
		return nil, err
	}
	logging.With(ctx, r.log).Info().Int64("chat_id", chatID).Msg("group registered as destination")
	return g, nil
}
