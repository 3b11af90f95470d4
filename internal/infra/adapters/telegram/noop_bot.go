package telegram

import (
	"context"

	"telegram-community-bot/internal/domain/ports/adapter"
)

// NoopBot satisfies the platform port without any network I/O. Handy
// for dev mode and wiring smoke tests.
type NoopBot struct{}

var _ adapter.TelegramBotAdapter = (*NoopBot)(nil)

func (NoopBot) SendText(ctx context.Context, chatID int64, text string) (int, error) {
	return 0, nil
}

func (NoopBot) SendPhoto(ctx context.Context, chatID int64, fileID, caption string) (int, error) {
	return 0, nil
}

func (NoopBot) SendVideo(ctx context.Context, chatID int64, fileID, caption string) (int, error) {
	return 0, nil
}

func (NoopBot) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	return nil
}

func (NoopBot) ChatMemberRole(ctx context.Context, chatID, userID int64) (string, error) {
	return "member", nil
}
