package postgres

import (
	"database/sql"

	"github.com/hemantapkh/NcellBot/internal/domain"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetOrCreate resolves a Telegram id to the internal user, inserting the
// row on first contact.
func (r *UserRepo) GetOrCreate(telegramID int64) (*domain.User, error) {
	query := `
		INSERT INTO users (telegram_id)
		VALUES ($1)
		ON CONFLICT (telegram_id) DO UPDATE SET telegram_id = EXCLUDED.telegram_id
		RETURNING id, telegram_id, created_at
	`
	var u domain.User
	err := r.db.QueryRow(query, telegramID).Scan(&u.ID, &u.TelegramID, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
