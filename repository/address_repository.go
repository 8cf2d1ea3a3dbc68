package repository

import (
	"ahara/entity"

	"gorm.io/gorm"
)

type AddressRepository struct {
	DB *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{DB: db}
}

func (r *AddressRepository) Create(tx *gorm.DB, a *entity.Address) error {
	return tx.Create(a).Error
}

func (r *AddressRepository) ListForUser(userID uint) ([]entity.Address, error) {
	out := []entity.Address{}
	err := r.DB.Where("user_id = ?", userID).Order("is_default DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *AddressRepository) FindForUser(tx *gorm.DB, addressID, userID uint) (*entity.Address, error) {
	var a entity.Address
	if err := tx.Where("id = ? AND user_id = ?", addressID, userID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AddressRepository) BelongsTo(tx *gorm.DB, addressID, userID uint) (bool, error) {
	var cnt int64
	if err := tx.Model(&entity.Address{}).
		Where("id = ? AND user_id = ?", addressID, userID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *AddressRepository) Update(tx *gorm.DB, id uint, fields map[string]any) error {
	return tx.Model(&entity.Address{}).Where("id = ?", id).Updates(fields).Error
}

// ClearDefault unsets the default flag on every address of the user.
func (r *AddressRepository) ClearDefault(tx *gorm.DB, userID uint) error {
	return tx.Model(&entity.Address{}).Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

// Delete soft deletes; orders keep pointing at the row for their history.
func (r *AddressRepository) Delete(tx *gorm.DB, addressID, userID uint) (int64, error) {
	res := tx.Where("id = ? AND user_id = ?", addressID, userID).Delete(&entity.Address{})
	return res.RowsAffected, res.Error
}
