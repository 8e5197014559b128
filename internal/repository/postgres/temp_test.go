package postgres

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestTempRepo_Put(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTempRepo(db)

	mock.ExpectExec("INSERT INTO temp_data").
		WithArgs(int64(1), "registerMsisdn", "9814012345").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Put(1, "registerMsisdn", "9814012345"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTempRepo_Get(t *testing.T) {
	tests := []struct {
		name      string
		mockRows  *sqlmock.Rows
		mockError error
		want      string
	}{
		{
			name:     "key present",
			mockRows: sqlmock.NewRows([]string{"value"}).AddRow("9814012345"),
			want:     "9814012345",
		},
		{
			name:      "key absent",
			mockError: sql.ErrNoRows,
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewTempRepo(db)

			query := "SELECT value FROM temp_data"
			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(int64(1), "key").WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(int64(1), "key").WillReturnRows(tt.mockRows)
			}

			value, err := repo.Get(1, "key")

			assert.NoError(t, err)
			assert.Equal(t, tt.want, value)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTempRepo_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewTempRepo(db)

	mock.ExpectExec("DELETE FROM temp_data").
		WithArgs(int64(1), "registerMsisdn").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(1, "registerMsisdn"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
