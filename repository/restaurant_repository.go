// repository/restaurant_repository.go
package repository

import (
	"time"

	"ahara/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RestaurantRepository struct {
	DB *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{DB: db}
}

// RestaurantFilter narrows the public catalogue. Zero values mean "any".
type RestaurantFilter struct {
	City      string
	Cuisine   string
	Search    string
	MinRating *decimal.Decimal
	Limit     int
	Offset    int
}

// ListOpen returns approved, open restaurants best rated first, plus the unpaginated total.
func (r *RestaurantRepository) ListOpen(f RestaurantFilter) ([]entity.Restaurant, int64, error) {
	q := r.DB.Model(&entity.Restaurant{}).Where("is_active = ? AND is_open = ?", true, true)
	if f.City != "" {
		q = q.Where("LOWER(city) = LOWER(?)", f.City)
	}
	if f.Cuisine != "" {
		q = q.Where("LOWER(cuisine_type) LIKE LOWER(?)", "%"+f.Cuisine+"%")
	}
	if f.Search != "" {
		q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+f.Search+"%")
	}
	if f.MinRating != nil {
		q = q.Where("rating >= ?", *f.MinRating)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rests := []entity.Restaurant{}
	err := q.Order("rating DESC, total_ratings DESC, id").Limit(f.Limit).Offset(f.Offset).Find(&rests).Error
	return rests, total, err
}

func (r *RestaurantRepository) FindByID(tx *gorm.DB, id uint) (*entity.Restaurant, error) {
	var rest entity.Restaurant
	if err := tx.First(&rest, id).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}

// FindByOwner returns the account's first restaurant, the one profile and menu calls act on
// when no restaurant id is given.
func (r *RestaurantRepository) FindByOwner(tx *gorm.DB, ownerID uint) (*entity.Restaurant, error) {
	var rest entity.Restaurant
	if err := tx.Where("user_id = ?", ownerID).Order("id").First(&rest).Error; err != nil {
		return nil, err
	}
	return &rest, nil
}

func (r *RestaurantRepository) Create(tx *gorm.DB, rest *entity.Restaurant) error {
	return tx.Create(rest).Error
}

func (r *RestaurantRepository) IsOwnedBy(tx *gorm.DB, restID, userID uint) (bool, error) {
	var cnt int64
	if err := tx.Model(&entity.Restaurant{}).
		Where("id = ? AND user_id = ?", restID, userID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// UpdateFields writes only the given columns.
func (r *RestaurantRepository) UpdateFields(tx *gorm.DB, id uint, fields map[string]any) error {
	return tx.Model(&entity.Restaurant{}).Where("id = ?", id).Updates(fields).Error
}

// SetActive flips admin approval. Returns rows affected so callers can detect unknown ids.
func (r *RestaurantRepository) SetActive(tx *gorm.DB, id uint, active bool) (int64, error) {
	res := tx.Model(&entity.Restaurant{}).Where("id = ?", id).Update("is_active", active)
	return res.RowsAffected, res.Error
}

// DeactivateByOwner pulls every restaurant of an owner from the catalogue.
func (r *RestaurantRepository) DeactivateByOwner(tx *gorm.DB, ownerID uint) error {
	return tx.Model(&entity.Restaurant{}).Where("user_id = ?", ownerID).Update("is_active", false).Error
}

// RecomputeRating rebuilds rating and total_ratings from the current reviews in one statement.
func (r *RestaurantRepository) RecomputeRating(tx *gorm.DB, restID uint) error {
	return tx.Exec(`UPDATE restaurants SET
		rating = COALESCE((SELECT ROUND(AVG(restaurant_rating), 1) FROM reviews
			WHERE restaurant_id = ? AND restaurant_rating IS NOT NULL AND deleted_at IS NULL), 0),
		total_ratings = (SELECT COUNT(*) FROM reviews
			WHERE restaurant_id = ? AND restaurant_rating IS NOT NULL AND deleted_at IS NULL),
		updated_at = ?
		WHERE id = ?`, restID, restID, time.Now(), restID).Error
}
