package services

import (
	"context"
	"errors"

	"ahara/entity"
	"ahara/repository"

	"gorm.io/gorm"
)

// OrderAccess scopes order reads to what each role may see. It depends only on repositories,
// so the websocket hub can use it before any publisher exists.
type OrderAccess struct {
	DB          *gorm.DB
	Repo        *repository.OrderRepository
	PartnerRepo *repository.DeliveryPartnerRepository
}

func NewOrderAccess(db *gorm.DB, repo *repository.OrderRepository, partnerRepo *repository.DeliveryPartnerRepository) *OrderAccess {
	return &OrderAccess{DB: db, Repo: repo, PartnerRepo: partnerRepo}
}

// Find loads the order through the actor's scope. Anything outside it is gorm.ErrRecordNotFound.
func (a *OrderAccess) Find(db *gorm.DB, actor Actor, orderID uint) (*entity.Order, error) {
	switch actor.Role {
	case entity.RoleCustomer:
		return a.Repo.GetOrderForCustomer(db, orderID, actor.UserID)
	case entity.RoleRestaurant:
		return a.Repo.GetOrderForOwner(db, orderID, actor.UserID)
	case entity.RoleDeliveryPartner:
		p, err := a.PartnerRepo.GetByUserID(db, actor.UserID)
		if err != nil {
			return nil, err
		}
		return a.Repo.GetOrderForPartner(db, orderID, p.ID)
	case entity.RoleAdmin:
		return a.Repo.GetOrder(db, orderID)
	}
	return nil, gorm.ErrRecordNotFound
}

// CanView reports whether the actor may follow the order's live updates.
func (a *OrderAccess) CanView(ctx context.Context, actor Actor, orderID uint) (bool, error) {
	_, err := a.Find(a.DB.WithContext(ctx), actor, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}
