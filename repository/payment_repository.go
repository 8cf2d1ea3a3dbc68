package repository

import (
	"ahara/entity"

	"gorm.io/gorm"
)

// TransactionRepository stores settled gateway payments.
type TransactionRepository struct {
	DB *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

func (r *TransactionRepository) Create(tx *gorm.DB, t *entity.Transaction) error {
	return tx.Create(t).Error
}

func (r *TransactionRepository) GetByOrderID(tx *gorm.DB, orderID uint) (*entity.Transaction, error) {
	var t entity.Transaction
	if err := tx.Where("order_id = ?", orderID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) ExistsByGatewayPaymentID(tx *gorm.DB, paymentID string) (bool, error) {
	var n int64
	err := tx.Model(&entity.Transaction{}).Where("payment_gateway_id = ?", paymentID).Count(&n).Error
	return n > 0, err
}
