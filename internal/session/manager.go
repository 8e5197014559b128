package session

import (
	"errors"
	"fmt"

	"github.com/hemantapkh/NcellBot/internal/domain"
	"github.com/hemantapkh/NcellBot/internal/repository"

	"go.uber.org/zap"
)

// ErrAlreadyDefault is returned by SelectDefault when the account already is
// the default. A notice for the user, not a failure.
var ErrAlreadyDefault = errors.New("account is already the default")

// ErrNoAccounts is returned when an operation needs at least one linked
// account and the user has none.
var ErrNoAccounts = errors.New("no linked accounts")

// Manager owns default-account selection, multi-account bookkeeping and the
// session-invalidation protocol. Every SessionExpired outcome anywhere in
// the system terminates in InvalidateSession so expiry handling stays
// uniform.
type Manager struct {
	accounts repository.AccountRepository
	logger   *zap.Logger
}

// NewManager creates a session manager on top of the account store.
func NewManager(accounts repository.AccountRepository, logger *zap.Logger) *Manager {
	return &Manager{accounts: accounts, logger: logger}
}

// DefaultAccount returns the account the default pointer references, nil
// when the pointer is unset or dangling.
func (m *Manager) DefaultAccount(userID int64) (*domain.LinkedAccount, error) {
	id, err := m.accounts.DefaultID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read default pointer: %w", err)
	}
	if id == nil {
		return nil, nil
	}
	return m.accounts.Get(userID, *id)
}

// SelectDefault reassigns the default pointer. Returns ErrAlreadyDefault
// when accountID already is the default.
func (m *Manager) SelectDefault(userID, accountID int64) error {
	current, err := m.accounts.DefaultID(userID)
	if err != nil {
		return fmt.Errorf("failed to read default pointer: %w", err)
	}
	if current != nil && *current == accountID {
		return ErrAlreadyDefault
	}
	return m.accounts.SetDefault(userID, &accountID)
}

// CycleDefault advances the pointer to the next account in insertion order,
// wrapping to the first after the last. With no default set it selects the
// first account. Returns the new default.
func (m *Manager) CycleDefault(userID int64) (*domain.LinkedAccount, error) {
	accounts, err := m.accounts.List(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}

	current, err := m.accounts.DefaultID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read default pointer: %w", err)
	}

	next := accounts[0]
	if current != nil {
		for i, a := range accounts {
			if a.ID == *current && i+1 < len(accounts) {
				next = accounts[i+1]
				break
			}
		}
	}

	if err := m.accounts.SetDefault(userID, &next.ID); err != nil {
		return nil, fmt.Errorf("failed to set default account: %w", err)
	}
	return &next, nil
}

// InvalidateSession removes the current default account and unsets the
// pointer after the carrier reported its token permanently invalid.
// Idempotent: invalidating an already-removed session is a no-op. The
// caller is responsible for prompting re-registration.
func (m *Manager) InvalidateSession(userID int64, code string) error {
	id, err := m.accounts.DefaultID(userID)
	if err != nil {
		return fmt.Errorf("failed to read default pointer: %w", err)
	}
	if id == nil {
		return nil
	}

	if err := m.accounts.Delete(userID, *id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if err := m.accounts.SetDefault(userID, nil); err != nil {
		return fmt.Errorf("failed to unset default pointer: %w", err)
	}

	m.logger.Info("Session invalidated",
		zap.Int64("user_id", userID),
		zap.Int64("account_id", *id),
		zap.String("code", code),
	)
	return nil
}

// RemoveAccount deletes an account on explicit user request. When the
// default pointer referenced it, the pointer moves to the first remaining
// account or is unset.
func (m *Manager) RemoveAccount(userID, accountID int64) error {
	current, err := m.accounts.DefaultID(userID)
	if err != nil {
		return fmt.Errorf("failed to read default pointer: %w", err)
	}

	if err := m.accounts.Delete(userID, accountID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if current == nil || *current != accountID {
		return nil
	}

	remaining, err := m.accounts.List(userID)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(remaining) == 0 {
		return m.accounts.SetDefault(userID, nil)
	}
	return m.accounts.SetDefault(userID, &remaining[0].ID)
}

// UpdateToken persists a refreshed session token for the default account.
func (m *Manager) UpdateToken(userID int64, token string) error {
	id, err := m.accounts.DefaultID(userID)
	if err != nil {
		return fmt.Errorf("failed to read default pointer: %w", err)
	}
	if id == nil {
		return ErrNoAccounts
	}
	return m.accounts.UpdateToken(userID, *id, token)
}
