package repository

import (
	"context"

	"telegram-community-bot/internal/domain/model"
)

// -----------------------------
// Private users
// -----------------------------

type UserRepository interface {
	Save(ctx context.Context, u *model.PrivateUser) error
	FindByTelegramID(ctx context.Context, tgID int64) (*model.PrivateUser, error)
	// ListIDs returns every registered user id, activated or not; the
	// broadcast fan-out delivers to all of them. Always a fresh read,
	// never a cached view.
	ListIDs(ctx context.Context) ([]int64, error)
}
