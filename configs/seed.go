package configs

import (
	"ahara/entity"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the first admin account once.
func SeedAdmin(db *gorm.DB, email, password string, log *zap.Logger) error {
	if email == "" || password == "" {
		log.Warn("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("admin already exists", zap.String("email", email))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Create(&entity.User{
		Name:         "Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
	}).Error
}

// SeedDemo adds a restaurant owner with one open restaurant and a small menu.
// Restaurants have no create endpoint, so local setups rely on this.
func SeedDemo(db *gorm.DB, log *zap.Logger) error {
	const ownerEmail = "owner@ahara.local"

	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", ownerEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("owner1234"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		owner := entity.User{Name: "Demo Owner", Email: ownerEmail, PasswordHash: string(hash), Role: entity.RoleRestaurant}
		if err := tx.Create(&owner).Error; err != nil {
			return err
		}
		rest := entity.Restaurant{
			Name: "Spice Route", Description: "North Indian kitchen", Address: "12 MG Road",
			City: "Bengaluru", Phone: "9000000001", CuisineType: "North Indian", IsOpen: true, IsActive: true, UserID: owner.ID,
		}
		if err := tx.Create(&rest).Error; err != nil {
			return err
		}
		items := []entity.MenuItem{
			{Name: "Paneer Butter Masala", Category: "Mains", Price: decimal.RequireFromString("220.00"), IsAvailable: true, IsVegetarian: true, RestaurantID: rest.ID},
			{Name: "Chicken Biryani", Category: "Mains", Price: decimal.RequireFromString("280.00"), IsAvailable: true, RestaurantID: rest.ID},
			{Name: "Garlic Naan", Category: "Breads", Price: decimal.RequireFromString("60.00"), IsAvailable: true, IsVegetarian: true, RestaurantID: rest.ID},
			{Name: "Gulab Jamun", Category: "Desserts", Price: decimal.RequireFromString("90.00"), IsAvailable: false, IsVegetarian: true, RestaurantID: rest.ID},
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return err
	}
	log.Info("demo data seeded", zap.String("owner", ownerEmail))
	return nil
}
