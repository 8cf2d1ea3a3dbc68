package services

import (
	"context"
	"testing"

	"ahara/entity"
	"ahara/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newScriptedOrderService runs the order service against a scripted database so a test can
// decide what each statement returns, including a guard that loses its race.
func newScriptedOrderService(t *testing.T) (*OrderService, sqlmock.Sqlmock, *recordingPublisher) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)

	pub := &recordingPublisher{}
	svc := NewOrderService(db,
		repository.NewOrderRepository(db), repository.NewMenuRepository(db), repository.NewRestaurantRepository(db),
		repository.NewAddressRepository(db), repository.NewDeliveryPartnerRepository(db), pub, zap.NewNop())
	return svc, mock, pub
}

func expectIdlePartner(mock sqlmock.Sqlmock, partnerID, userID uint) {
	mock.ExpectQuery(`SELECT \* FROM "delivery_partners" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "is_active", "is_available"}).
			AddRow(partnerID, userID, true, true))
}

func unclaimedReadyOrder(orderID uint) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "customer_id", "restaurant_id", "status", "delivery_partner_id"}).
		AddRow(orderID, 1, 1, string(entity.StatusReady), nil)
}

// Both reads see the order unclaimed, as they would when another partner commits between
// the read and the guarded update. The update matches nothing and the caller must get a conflict.
func TestAcceptLosesRaceAfterRead(t *testing.T) {
	svc, mock, pub := newScriptedOrderService(t)

	mock.ExpectBegin()
	expectIdlePartner(mock, 4, 40)
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE "orders"."id" = \$1`).WillReturnRows(unclaimedReadyOrder(9))
	mock.ExpectExec(`UPDATE "orders" SET .+ WHERE \(id = \$\d+ AND status = \$\d+ AND \(delivery_partner_id IS NULL OR delivery_partner_id = \$\d+\)\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.AcceptOrder(context.Background(), 40, 9)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Order already taken by another delivery partner", err.Error())
	assert.Empty(t, pub.Types(), "nothing is published for a lost race")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusClaimLosesRaceAfterRead(t *testing.T) {
	svc, mock, pub := newScriptedOrderService(t)

	mock.ExpectBegin()
	expectIdlePartner(mock, 4, 40)
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE \(id = \$1 AND \(delivery_partner_id = \$2 OR \(delivery_partner_id IS NULL AND status = \$3\)\)\)`).
		WillReturnRows(unclaimedReadyOrder(9))
	mock.ExpectExec(`UPDATE "orders" SET .+ WHERE \(id = \$\d+ AND status = \$\d+ AND \(delivery_partner_id IS NULL OR delivery_partner_id = \$\d+\)\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(context.Background(), Actor{UserID: 40, Role: entity.RoleDeliveryPartner}, 9,
		UpdateStatusReq{Status: string(entity.StatusPickedUp)})
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, pub.Types())
	assert.NoError(t, mock.ExpectationsWereMet())
}
