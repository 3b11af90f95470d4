package model

import (
	"time"

	"telegram-community-bot/internal/domain"
)

// Group is a multi-member chat the bot has joined. Activation is
// one-way: once a group is activated there is no transition back.
type Group struct {
	ChatID       int64
	Activated    bool
	RegisteredAt time.Time
}

func NewGroup(chatID int64) (*Group, error) {
	if chatID == 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Group{ChatID: chatID, RegisteredAt: time.Now()}, nil
}

// Activate flips the flag; returns false when the group was already
// active so callers can skip the duplicate store write.
func (g *Group) Activate() bool {
	if g.Activated {
		return false
	}
	g.Activated = true
	return true
}
