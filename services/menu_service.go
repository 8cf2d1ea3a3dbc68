// services/menu_service.go
package services

import (
	"context"
	"strings"

	"ahara/entity"
	"ahara/pkg/logger"
	"ahara/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultCategory = "Main Course"

// MenuService is the owner side of the menu. Every write is scoped to restaurants the caller owns.
type MenuService struct {
	DB       *gorm.DB
	Repo     *repository.MenuRepository
	RestRepo *repository.RestaurantRepository
	Log      *zap.Logger
}

func NewMenuService(db *gorm.DB, repo *repository.MenuRepository, restRepo *repository.RestaurantRepository, log *zap.Logger) *MenuService {
	return &MenuService{DB: db, Repo: repo, RestRepo: restRepo, Log: log}
}

type MenuItemReq struct {
	RestaurantID *uint            `json:"restaurant_id"`
	Name         string           `json:"name" binding:"required,max=100"`
	Description  string           `json:"description" binding:"max=500"`
	Category     string           `json:"category" binding:"max=50"`
	Price        *decimal.Decimal `json:"price" binding:"required"`
	IsVegetarian bool             `json:"is_vegetarian"`
	IsAvailable  *bool            `json:"is_available"`
}

// MenuItemPatch carries only the fields to change.
type MenuItemPatch struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description  *string          `json:"description" binding:"omitempty,max=500"`
	Category     *string          `json:"category" binding:"omitempty,max=50"`
	Price        *decimal.Decimal `json:"price"`
	IsVegetarian *bool            `json:"is_vegetarian"`
	IsAvailable  *bool            `json:"is_available"`
}

func checkPrice(p decimal.Decimal) error {
	if !p.IsPositive() {
		return validationErr("Price must be greater than zero")
	}
	if !p.Equal(p.Round(2)) {
		return validationErr("Price can have at most two decimal places")
	}
	return nil
}

// ownedRestaurant resolves the restaurant a write acts on: the given id if the caller owns it,
// otherwise the caller's first restaurant.
func (s *MenuService) ownedRestaurant(tx *gorm.DB, ownerID uint, restID *uint) (*entity.Restaurant, error) {
	if restID == nil {
		rest, err := s.RestRepo.FindByOwner(tx, ownerID)
		return rest, notFoundOr(err, "Restaurant not found")
	}
	ok, err := s.RestRepo.IsOwnedBy(tx, *restID, ownerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFoundErr("Restaurant not found")
	}
	return s.RestRepo.FindByID(tx, *restID)
}

// MyMenu lists every item of the owner's restaurant, unavailable ones included.
func (s *MenuService) MyMenu(ctx context.Context, ownerID uint) (*MenuOut, error) {
	rest, err := s.ownedRestaurant(s.DB.WithContext(ctx), ownerID, nil)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.ListByRestaurant(rest.ID, repository.MenuFilter{})
	if err != nil {
		return nil, err
	}
	return &MenuOut{Restaurant: rest, Items: items}, nil
}

func (s *MenuService) Create(ctx context.Context, ownerID uint, in MenuItemReq) (*entity.MenuItem, error) {
	if in.Price == nil {
		return nil, validationErr("Name and price are required")
	}
	if err := checkPrice(*in.Price); err != nil {
		return nil, err
	}
	item := &entity.MenuItem{
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		Category:     strings.TrimSpace(in.Category),
		Price:        in.Price.Round(2),
		IsVegetarian: in.IsVegetarian,
		IsAvailable:  in.IsAvailable == nil || *in.IsAvailable,
	}
	if item.Name == "" {
		return nil, validationErr("Name and price are required")
	}
	if item.Category == "" {
		item.Category = defaultCategory
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rest, err := s.ownedRestaurant(tx, ownerID, in.RestaurantID)
		if err != nil {
			return err
		}
		item.RestaurantID = rest.ID
		return s.Repo.Create(tx, item)
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, s.Log, "menu item created", zap.Uint("item_id", item.ID), zap.Uint("restaurant_id", item.RestaurantID))
	return item, nil
}

func (s *MenuService) Update(ctx context.Context, ownerID, itemID uint, in MenuItemPatch) (*entity.MenuItem, error) {
	fields := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, validationErr("Name cannot be empty")
		}
		fields["name"] = name
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		fields["category"] = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		if err := checkPrice(*in.Price); err != nil {
			return nil, err
		}
		fields["price"] = in.Price.Round(2)
	}
	if in.IsVegetarian != nil {
		fields["is_vegetarian"] = *in.IsVegetarian
	}
	if in.IsAvailable != nil {
		fields["is_available"] = *in.IsAvailable
	}
	if len(fields) == 0 {
		return nil, validationErr("No fields to update")
	}

	var item *entity.MenuItem
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.Repo.FindForOwner(tx, itemID, ownerID); err != nil {
			return notFoundOr(err, "Menu item not found or access denied")
		}
		if err := s.Repo.Update(tx, itemID, fields); err != nil {
			return err
		}
		var err error
		item, err = s.Repo.FindByID(tx, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, s.Log, "menu item updated", zap.Uint("item_id", itemID))
	return item, nil
}

// Delete hides the item from menus. Past orders keep their own copy of name and price.
func (s *MenuService) Delete(ctx context.Context, ownerID, itemID uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.Repo.FindForOwner(tx, itemID, ownerID); err != nil {
			return notFoundOr(err, "Menu item not found or access denied")
		}
		return s.Repo.Delete(tx, itemID)
	})
	if err != nil {
		return err
	}
	logger.Info(ctx, s.Log, "menu item deleted", zap.Uint("item_id", itemID))
	return nil
}

func (s *MenuService) ToggleAvailability(ctx context.Context, ownerID, itemID uint) (*entity.MenuItem, error) {
	var item *entity.MenuItem
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.Repo.FindForOwner(tx, itemID, ownerID); err != nil {
			return notFoundOr(err, "Menu item not found")
		}
		if err := s.Repo.ToggleAvailability(tx, itemID); err != nil {
			return err
		}
		var err error
		item, err = s.Repo.FindByID(tx, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, s.Log, "menu item availability changed",
		zap.Uint("item_id", itemID), zap.Bool("available", item.IsAvailable))
	return item, nil
}
