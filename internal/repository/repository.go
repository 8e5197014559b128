package repository

import (
	"github.com/hemantapkh/NcellBot/internal/domain"
)

// UserRepository defines chat-user identity operations.
type UserRepository interface {
	// GetOrCreate resolves a Telegram id to the internal user, creating the
	// record on first contact.
	GetOrCreate(telegramID int64) (*domain.User, error)
}

// AccountRepository defines linked-account and default-pointer operations.
// Accounts are enumerated in insertion order.
type AccountRepository interface {
	List(userID int64) ([]domain.LinkedAccount, error)
	Get(userID, accountID int64) (*domain.LinkedAccount, error)
	Create(userID int64, msisdn, token string) (*domain.LinkedAccount, error)
	Delete(userID, accountID int64) error
	UpdateToken(userID, accountID int64, token string) error

	// DefaultID returns the default-account pointer, nil when unset.
	DefaultID(userID int64) (*int64, error)
	// SetDefault reassigns the pointer; nil unsets it.
	SetDefault(userID int64, accountID *int64) error
}

// TempRepository is the per-user scratch store backing wizard-in-progress
// data and button re-hydration.
type TempRepository interface {
	Put(userID int64, key, value string) error
	// Get returns "" without error when the key is absent.
	Get(userID int64, key string) (string, error)
	Delete(userID int64, key string) error
}
