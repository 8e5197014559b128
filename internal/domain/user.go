package domain

import "time"

// User links a Telegram identity to an internal user id.
// Users are created on their first inbound event and never deleted.
type User struct {
	ID         int64
	TelegramID int64
	CreatedAt  time.Time
}
