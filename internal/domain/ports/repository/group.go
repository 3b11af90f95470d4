package repository

import (
	"context"

	"telegram-community-bot/internal/domain/model"
)

// -----------------------------
// Groups
// -----------------------------

// GroupRepository is the activation store adapter for group chats.
// The durable store is the sole source of truth for activation; any
// in-memory mirror built on top of it is advisory only.
type GroupRepository interface {
	Save(ctx context.Context, g *model.Group) error
	FindByChatID(ctx context.Context, chatID int64) (*model.Group, error)
	// Destination returns the chat id of the group reports are relayed
	// to: the most recently registered group. domain.ErrNoGroupRegistered
	// when the bot has not joined any group yet.
	Destination(ctx context.Context) (int64, error)
	// ListActivatedIDs feeds the in-memory mirror at startup.
	ListActivatedIDs(ctx context.Context) ([]int64, error)
}
