package repository

import (
	"time"

	"ahara/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

func (r *ReviewRepository) Create(tx *gorm.DB, rv *entity.Review) error {
	return tx.Create(rv).Error
}

func (r *ReviewRepository) Save(tx *gorm.DB, rv *entity.Review) error {
	return tx.Save(rv).Error
}

func (r *ReviewRepository) Delete(tx *gorm.DB, rv *entity.Review) error {
	return tx.Delete(rv).Error
}

// GetForUser loads a review only if userID wrote it.
func (r *ReviewRepository) GetForUser(tx *gorm.DB, reviewID, userID uint) (*entity.Review, error) {
	var rv entity.Review
	if err := tx.Where("id = ? AND user_id = ?", reviewID, userID).First(&rv).Error; err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepository) ExistsForOrder(tx *gorm.DB, orderID uint) (bool, error) {
	var cnt int64
	if err := tx.Model(&entity.Review{}).Where("order_id = ?", orderID).Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// ReviewRow is a review joined with the names a listing needs.
type ReviewRow struct {
	ID                uint      `json:"id"`
	OrderID           uint      `json:"order_id"`
	UserID            uint      `json:"user_id"`
	CustomerName      string    `json:"customer_name"`
	RestaurantID      uint      `json:"restaurant_id"`
	RestaurantName    string    `json:"restaurant_name"`
	DeliveryPartnerID *uint     `json:"delivery_partner_id"`
	RestaurantRating  *int      `json:"restaurant_rating"`
	RestaurantReview  *string   `json:"restaurant_review"`
	DeliveryRating    *int      `json:"delivery_rating"`
	DeliveryReview    *string   `json:"delivery_review"`
	CreatedAt         time.Time `json:"created_at"`
}

func (r *ReviewRepository) rows() *gorm.DB {
	return r.DB.Table("reviews AS rv").
		Select(`rv.id, rv.order_id, rv.user_id, u.name AS customer_name, rv.restaurant_id, rs.name AS restaurant_name,
			rv.delivery_partner_id, rv.restaurant_rating, rv.restaurant_review, rv.delivery_rating, rv.delivery_review,
			rv.created_at`).
		Joins("JOIN users u ON u.id = rv.user_id").
		Joins("JOIN restaurants rs ON rs.id = rv.restaurant_id").
		Where("rv.deleted_at IS NULL")
}

// GET /reviews/restaurant/:id
func (r *ReviewRepository) ListForRestaurant(restID uint, limit, offset int) ([]ReviewRow, error) {
	out := []ReviewRow{}
	err := r.rows().
		Where("rv.restaurant_id = ? AND rv.restaurant_rating IS NOT NULL", restID).
		Order("rv.created_at DESC, rv.id DESC").Limit(limit).Offset(offset).
		Scan(&out).Error
	return out, err
}

// GET /reviews/delivery-partner/:id
func (r *ReviewRepository) ListForPartner(partnerID uint, limit, offset int) ([]ReviewRow, error) {
	out := []ReviewRow{}
	err := r.rows().
		Where("rv.delivery_partner_id = ? AND rv.delivery_rating IS NOT NULL", partnerID).
		Order("rv.created_at DESC, rv.id DESC").Limit(limit).Offset(offset).
		Scan(&out).Error
	return out, err
}

// GET /reviews/my-reviews
func (r *ReviewRepository) ListForUser(userID uint, limit, offset int) ([]ReviewRow, error) {
	out := []ReviewRow{}
	err := r.rows().
		Where("rv.user_id = ?", userID).
		Order("rv.created_at DESC, rv.id DESC").Limit(limit).Offset(offset).
		Scan(&out).Error
	return out, err
}

type Stats struct {
	AvgRating    decimal.Decimal
	TotalReviews int64
}

func (r *ReviewRepository) RestaurantStats(restID uint) (Stats, error) {
	var out Stats
	err := r.DB.Model(&entity.Review{}).
		Select("COALESCE(ROUND(AVG(restaurant_rating), 1), 0) AS avg_rating, COUNT(restaurant_rating) AS total_reviews").
		Where("restaurant_id = ?", restID).
		Scan(&out).Error
	return out, err
}

func (r *ReviewRepository) PartnerStats(partnerID uint) (Stats, error) {
	var out Stats
	err := r.DB.Model(&entity.Review{}).
		Select("COALESCE(ROUND(AVG(delivery_rating), 1), 0) AS avg_rating, COUNT(delivery_rating) AS total_reviews").
		Where("delivery_partner_id = ?", partnerID).
		Scan(&out).Error
	return out, err
}
