package postgres

import (
	"database/sql"

	"github.com/hemantapkh/NcellBot/internal/domain"
)

// AccountRepo implements repository.AccountRepository
type AccountRepo struct {
	db *sql.DB
}

// NewAccountRepo creates a new account repository
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// List returns the user's linked accounts in insertion order.
func (r *AccountRepo) List(userID int64) ([]domain.LinkedAccount, error) {
	query := `
		SELECT id, user_id, msisdn_enc, session_token, created_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.LinkedAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// Get returns one account, nil when it does not exist.
func (r *AccountRepo) Get(userID, accountID int64) (*domain.LinkedAccount, error) {
	query := `
		SELECT id, user_id, msisdn_enc, session_token, created_at
		FROM accounts
		WHERE user_id = $1 AND id = $2
	`
	a, err := scanAccount(r.db.QueryRow(query, userID, accountID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create links a new carrier account. The msisdn is stored encoded, never
// in cleartext.
func (r *AccountRepo) Create(userID int64, msisdn, token string) (*domain.LinkedAccount, error) {
	query := `
		INSERT INTO accounts (user_id, msisdn_enc, session_token)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, msisdn_enc, session_token, created_at
	`
	a, err := scanAccount(r.db.QueryRow(query, userID, domain.EncodeMSISDN(msisdn), token))
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes an account. Deleting a missing account is a no-op.
func (r *AccountRepo) Delete(userID, accountID int64) error {
	query := `DELETE FROM accounts WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(query, userID, accountID)
	return err
}

// UpdateToken persists a refreshed session token.
func (r *AccountRepo) UpdateToken(userID, accountID int64, token string) error {
	query := `UPDATE accounts SET session_token = $3 WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(query, userID, accountID, token)
	return err
}

// DefaultID returns the default-account pointer, nil when unset.
func (r *AccountRepo) DefaultID(userID int64) (*int64, error) {
	var id sql.NullInt64
	query := `SELECT default_account_id FROM users WHERE id = $1`
	err := r.db.QueryRow(query, userID).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !id.Valid {
		return nil, nil
	}
	return &id.Int64, nil
}

// SetDefault reassigns the default-account pointer; nil unsets it.
func (r *AccountRepo) SetDefault(userID int64, accountID *int64) error {
	query := `UPDATE users SET default_account_id = $2 WHERE id = $1`
	var arg any
	if accountID != nil {
		arg = *accountID
	}
	_, err := r.db.Exec(query, userID, arg)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.LinkedAccount, error) {
	var a domain.LinkedAccount
	var enc string
	if err := row.Scan(&a.ID, &a.UserID, &enc, &a.Token, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.MSISDN = domain.DecodeMSISDN(enc)
	return &a, nil
}
