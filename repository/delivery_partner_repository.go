package repository

import (
	"time"

	"ahara/entity"

	"gorm.io/gorm"
)

type DeliveryPartnerRepository struct{ DB *gorm.DB }

func NewDeliveryPartnerRepository(db *gorm.DB) *DeliveryPartnerRepository {
	return &DeliveryPartnerRepository{DB: db}
}

func (r *DeliveryPartnerRepository) Create(tx *gorm.DB, p *entity.DeliveryPartner) error {
	return tx.Create(p).Error
}

func (r *DeliveryPartnerRepository) GetByUserID(tx *gorm.DB, userID uint) (*entity.DeliveryPartner, error) {
	var p entity.DeliveryPartner
	if err := tx.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *DeliveryPartnerRepository) GetByID(tx *gorm.DB, id uint) (*entity.DeliveryPartner, error) {
	var p entity.DeliveryPartner
	if err := tx.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *DeliveryPartnerRepository) SetAvailability(tx *gorm.DB, id uint, available bool) error {
	return tx.Model(&entity.DeliveryPartner{}).Where("id = ?", id).
		Update("is_available", available).Error
}

func (r *DeliveryPartnerRepository) UpdateLocation(tx *gorm.DB, id uint, lat, lng float64) error {
	return tx.Model(&entity.DeliveryPartner{}).Where("id = ?", id).
		Updates(map[string]any{"current_latitude": lat, "current_longitude": lng}).Error
}

// Activate marks a partner approved. Returns rows affected so callers can detect unknown ids.
func (r *DeliveryPartnerRepository) Activate(tx *gorm.DB, id uint) (int64, error) {
	res := tx.Model(&entity.DeliveryPartner{}).Where("id = ?", id).Update("is_active", true)
	return res.RowsAffected, res.Error
}

// Deactivate revokes approval and takes the partner offline in one statement.
func (r *DeliveryPartnerRepository) Deactivate(tx *gorm.DB, id uint) (int64, error) {
	res := tx.Model(&entity.DeliveryPartner{}).Where("id = ?", id).
		Updates(map[string]any{"is_active": false, "is_available": false})
	return res.RowsAffected, res.Error
}

// CountInProgress counts orders the partner has picked up but not yet delivered.
func (r *DeliveryPartnerRepository) CountInProgress(tx *gorm.DB, id uint) (int64, error) {
	var n int64
	err := tx.Model(&entity.Order{}).
		Where("delivery_partner_id = ? AND status IN ?", id,
			[]entity.OrderStatus{entity.StatusPickedUp, entity.StatusInTransit}).
		Count(&n).Error
	return n, err
}

// RecomputeRating rebuilds rating and total_ratings from delivery ratings of current reviews.
func (r *DeliveryPartnerRepository) RecomputeRating(tx *gorm.DB, partnerID uint) error {
	return tx.Exec(`UPDATE delivery_partners SET
		rating = COALESCE((SELECT ROUND(AVG(delivery_rating), 1) FROM reviews
			WHERE delivery_partner_id = ? AND delivery_rating IS NOT NULL AND deleted_at IS NULL), 0),
		total_ratings = (SELECT COUNT(*) FROM reviews
			WHERE delivery_partner_id = ? AND delivery_rating IS NOT NULL AND deleted_at IS NULL),
		updated_at = ?
		WHERE id = ?`, partnerID, partnerID, time.Now(), partnerID).Error
}
