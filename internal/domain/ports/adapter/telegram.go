package adapter

import "context"

// Chat member roles as reported by the platform.
const (
	RoleCreator       = "creator"
	RoleAdministrator = "administrator"
)

// TelegramBotAdapter is the outbound platform port. Send methods return
// the platform message id of the sent message so callers can schedule
// its later deletion.
type TelegramBotAdapter interface {
	SendText(ctx context.Context, chatID int64, text string) (int, error)
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string) (int, error)
	SendVideo(ctx context.Context, chatID int64, fileID, caption string) (int, error)
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	// ChatMemberRole queries the caller's membership status in a chat.
	ChatMemberRole(ctx context.Context, chatID, userID int64) (string, error)
}
