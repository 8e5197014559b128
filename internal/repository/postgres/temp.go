package postgres

import (
	"database/sql"
)

// TempRepo implements repository.TempRepository
type TempRepo struct {
	db *sql.DB
}

// NewTempRepo creates a new scratch-data repository
func NewTempRepo(db *sql.DB) *TempRepo {
	return &TempRepo{db: db}
}

// Put upserts a scratch value for the user.
func (r *TempRepo) Put(userID int64, key, value string) error {
	query := `
		INSERT INTO temp_data (user_id, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	_, err := r.db.Exec(query, userID, key, value)
	return err
}

// Get returns the scratch value, "" when the key is absent.
func (r *TempRepo) Get(userID int64, key string) (string, error) {
	var value string
	query := `SELECT value FROM temp_data WHERE user_id = $1 AND key = $2`
	err := r.db.QueryRow(query, userID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Delete removes a scratch key. Removing a missing key is a no-op.
func (r *TempRepo) Delete(userID int64, key string) error {
	query := `DELETE FROM temp_data WHERE user_id = $1 AND key = $2`
	_, err := r.db.Exec(query, userID, key)
	return err
}
