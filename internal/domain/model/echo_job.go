package model

import (
	"time"

	"telegram-community-bot/internal/domain"
)

// EchoJob describes one recurring broadcast of a fixed message into a
// group. The timer handle itself is process-local and lives in the
// scheduler registry, not here; jobs do not survive a restart.
type EchoJob struct {
	ChatID          int64
	Message         string
	IntervalMinutes int
	StartedAt       time.Time
}

func NewEchoJob(chatID int64, intervalMinutes int, message string) (*EchoJob, error) {
	if chatID == 0 || message == "" {
		return nil, domain.ErrInvalidArgument
	}
	if intervalMinutes < 1 {
		return nil, domain.ErrInvalidArgument
	}
	return &EchoJob{
		ChatID:          chatID,
		Message:         message,
		IntervalMinutes: intervalMinutes,
		StartedAt:       time.Now(),
	}, nil
}

func (j *EchoJob) Interval() time.Duration {
	return time.Duration(j.IntervalMinutes) * time.Minute
}
