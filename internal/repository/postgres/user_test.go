package postgres

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestUserRepo_GetOrCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	telegramID := int64(111222333)
	created := time.Now()

	rows := sqlmock.NewRows([]string{"id", "telegram_id", "created_at"}).
		AddRow(int64(1), telegramID, created)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(telegramID).
		WillReturnRows(rows)

	user, err := repo.GetOrCreate(telegramID)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, telegramID, user.TelegramID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A repeated contact must resolve to the same row, not error on the unique
// constraint.
func TestUserRepo_GetOrCreate_ExistingUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	telegramID := int64(444555666)

	rows := sqlmock.NewRows([]string{"id", "telegram_id", "created_at"}).
		AddRow(int64(42), telegramID, time.Now())

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(telegramID).
		WillReturnRows(rows)

	user, err := repo.GetOrCreate(telegramID)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetOrCreate_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepo(db)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(int64(1)).
		WillReturnError(assert.AnError)

	user, err := repo.GetOrCreate(1)

	assert.Error(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}
