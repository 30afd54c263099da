package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

// newMockDB はsqlmockをバックエンドにしたsqlx.DBを生成する。
// テスト終了時に全ての期待が満たされたことを検証する。
func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		mockDB.Close()
	})

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

// uniqueViolationError はlib/pqが返す一意制約違反エラーを模倣する。
func uniqueViolationError(constraint string) error {
	return &pq.Error{
		Code:       uniqueViolation,
		Message:    "duplicate key value violates unique constraint",
		Constraint: constraint,
	}
}
