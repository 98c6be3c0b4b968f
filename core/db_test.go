package core_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestRunInTx(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("commits on success", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE staffs").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := core.RunInTx(ctx, db, func(tx core.DBTransactor) error {
			_, err := tx.ExecContext(ctx, "UPDATE staffs SET name = $1", "x")
			return err
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := core.RunInTx(ctx, db, func(tx core.DBTransactor) error { return boom })
		assert.Equal(t, boom, errors.Cause(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.Panics(t, func() {
			_ = core.RunInTx(ctx, db, func(tx core.DBTransactor) error { panic("oops") })
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectBegin().WillReturnError(boom)

		called := false
		err := core.RunInTx(ctx, db, func(tx core.DBTransactor) error {
			called = true
			return nil
		})
		assert.Equal(t, boom, errors.Cause(err))
		assert.False(t, called)
	})
}
