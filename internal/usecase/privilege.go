package usecase

import (
	"context"
	"fmt"

	"telegram-community-bot/internal/domain"
	"telegram-community-bot/internal/domain/ports/adapter"
)

const replyAdminsOnly = "Solo administradores o propietarios pueden usar este comando."

// PrivilegeCheck classifies a caller as group admin/owner or not.
// Fails closed for anything that is not a group chat. A platform error
// is surfaced as an error, never silently mapped to either outcome.
type PrivilegeCheck struct {
	bot adapter.TelegramBotAdapter
}

func NewPrivilegeCheck(bot adapter.TelegramBotAdapter) *PrivilegeCheck {
	return &PrivilegeCheck{bot: bot}
}

func (p *PrivilegeCheck) IsPrivileged(ctx context.Context, ev Event) (bool, error) {
	if !ev.InGroup() {
		return false, nil
	}
	role, err := p.bot.ChatMemberRole(ctx, ev.ChatID, ev.UserID)
	if err != nil {
		return false, fmt.Errorf("query chat member role: %w: %w", domain.ErrDelivery, err)
	}
	switch role {
	case adapter.RoleAdministrator, adapter.RoleCreator, "owner":
		return true, nil
	default:
		return false, nil
	}
}
