package testutil

import (
	"time"

	"github.com/hemantapkh/NcellBot/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(id, telegramID int64) *domain.User {
	return &domain.User{
		ID:         id,
		TelegramID: telegramID,
		CreatedAt:  time.Now(),
	}
}

// NewTestAccount creates a test linked account
func NewTestAccount(id, userID int64, msisdn, token string) domain.LinkedAccount {
	return domain.LinkedAccount{
		ID:        id,
		UserID:    userID,
		MSISDN:    msisdn,
		Token:     token,
		CreatedAt: time.Now(),
	}
}
