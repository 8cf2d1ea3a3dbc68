package repository

import (
	"ahara/entity"

	"gorm.io/gorm"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

// FindByIDs loads every referenced menu item in one query. Missing ids are simply absent.
func (r *MenuRepository) FindByIDs(tx *gorm.DB, ids []uint) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	err := tx.Where("id IN ?", ids).Find(&items).Error
	return items, err
}

type MenuFilter struct {
	Category     string
	IsVegetarian *bool
	IsAvailable  *bool
}

// GET /restaurants/:id/menu and the owner's own menu
func (r *MenuRepository) ListByRestaurant(restID uint, f MenuFilter) ([]entity.MenuItem, error) {
	q := r.DB.Where("restaurant_id = ?", restID)
	if f.Category != "" {
		q = q.Where("LOWER(category) = LOWER(?)", f.Category)
	}
	if f.IsVegetarian != nil {
		q = q.Where("is_vegetarian = ?", *f.IsVegetarian)
	}
	if f.IsAvailable != nil {
		q = q.Where("is_available = ?", *f.IsAvailable)
	}
	items := []entity.MenuItem{}
	err := q.Order("category, name").Find(&items).Error
	return items, err
}

func (r *MenuRepository) Create(tx *gorm.DB, item *entity.MenuItem) error {
	return tx.Create(item).Error
}

// FindForOwner loads an item only if it sits on a restaurant the account owns.
func (r *MenuRepository) FindForOwner(tx *gorm.DB, itemID, ownerID uint) (*entity.MenuItem, error) {
	var item entity.MenuItem
	err := tx.Where("id = ? AND restaurant_id IN (SELECT id FROM restaurants WHERE user_id = ? AND deleted_at IS NULL)",
		itemID, ownerID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *MenuRepository) Update(tx *gorm.DB, id uint, fields map[string]any) error {
	return tx.Model(&entity.MenuItem{}).Where("id = ?", id).Updates(fields).Error
}

// ToggleAvailability flips is_available in place so two quick toggles never read a stale value.
func (r *MenuRepository) ToggleAvailability(tx *gorm.DB, id uint) error {
	return tx.Model(&entity.MenuItem{}).Where("id = ?", id).
		Update("is_available", gorm.Expr("NOT is_available")).Error
}

// Delete is a soft delete; order_items keep their snapshot and menu_item_id.
func (r *MenuRepository) Delete(tx *gorm.DB, id uint) error {
	return tx.Delete(&entity.MenuItem{}, id).Error
}

func (r *MenuRepository) FindByID(tx *gorm.DB, id uint) (*entity.MenuItem, error) {
	var item entity.MenuItem
	if err := tx.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
