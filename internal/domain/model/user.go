package model

import (
	"time"

	"telegram-community-bot/internal/domain"
)

// PrivateUser is a user known from a one-to-one chat with the bot.
// Created on the first private /start with Activated=false; activation
// is granted later by a group administrator and never revoked.
type PrivateUser struct {
	TelegramID   int64
	Username     string
	Activated    bool
	RegisteredAt time.Time
}

func NewPrivateUser(tgID int64, username string) (*PrivateUser, error) {
	if tgID == 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &PrivateUser{TelegramID: tgID, Username: username, RegisteredAt: time.Now()}, nil
}

func (u *PrivateUser) Activate() bool {
	if u.Activated {
		return false
	}
	u.Activated = true
	return true
}

// DisplayName is the handle used when attributing a report.
func (u *PrivateUser) DisplayName() string {
	return u.Username
}
