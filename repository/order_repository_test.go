package repository

import (
	"testing"

	"ahara/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)
	return db, mock
}

func TestAcceptGuardIsOneConditionalUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectExec(`UPDATE "orders" SET .+ WHERE \(id = \$\d+ AND status = \$\d+ AND \(delivery_partner_id IS NULL OR delivery_partner_id = \$\d+\)\)`).
		WithArgs(7, "picked_up", sqlmock.AnyArg(), 3, "ready", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "orders" SET .+ WHERE \(id = \$\d+ AND status = \$\d+`).
		WithArgs(8, "picked_up", sqlmock.AnyArg(), 3, "ready", 8).
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.AcceptGuard(db, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.AcceptGuard(db, 3, 8)
	require.NoError(t, err)
	assert.Zero(t, n, "the loser sees zero rows")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaidGuardConfirmsOnlyPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectExec(`UPDATE "orders" SET "payment_status"=\$1,"status"=CASE WHEN status = \$2 THEN \$3 ELSE status END,.+ WHERE \(id = \$\d+ AND payment_status <> \$\d+ AND status <> \$\d+\)`).
		WithArgs("success", "pending", "confirmed", sqlmock.AnyArg(), 5, "success", "cancelled").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.MarkPaidGuard(db, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusGuardCarriesExtraColumns(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOrderRepository(db)

	mock.ExpectExec(`UPDATE "orders" SET "delivery_partner_id"=\$1,"status"=\$2,.+ WHERE \(id = \$\d+ AND status = \$\d+\)`).
		WithArgs(4, "picked_up", sqlmock.AnyArg(), 9, "ready").
		WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.UpdateStatusGuard(db, 9, entity.StatusReady, entity.StatusPickedUp, map[string]any{"delivery_partner_id": uint(4)})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
