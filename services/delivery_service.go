// services/delivery_service.go
package services

import (
	"context"
	"time"

	"ahara/entity"
	"ahara/pkg/logger"
	"ahara/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const availableOrdersLimit = 20

type DeliveryService struct {
	DB          *gorm.DB
	PartnerRepo *repository.DeliveryPartnerRepository
	OrderRepo   *repository.OrderRepository
	Log         *zap.Logger
}

func NewDeliveryService(
	db *gorm.DB,
	partnerRepo *repository.DeliveryPartnerRepository,
	orderRepo *repository.OrderRepository,
	log *zap.Logger,
) *DeliveryService {
	return &DeliveryService{DB: db, PartnerRepo: partnerRepo, OrderRepo: orderRepo, Log: log}
}

func (s *DeliveryService) partner(ctx context.Context, userID uint) (*entity.DeliveryPartner, error) {
	p, err := s.PartnerRepo.GetByUserID(s.DB.WithContext(ctx), userID)
	if err != nil {
		return nil, notFoundOr(err, "Delivery partner profile not found")
	}
	return p, nil
}

// ToggleAvailability flips online/offline. Going offline with deliveries in hand is refused.
func (s *DeliveryService) ToggleAvailability(ctx context.Context, userID uint) (bool, error) {
	var now bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.PartnerRepo.GetByUserID(tx, userID)
		if err != nil {
			return notFoundOr(err, "Delivery partner profile not found")
		}
		if !p.IsActive {
			return stateErr("Delivery partner account is not active")
		}
		if p.IsAvailable {
			active, err := s.PartnerRepo.CountInProgress(tx, p.ID)
			if err != nil {
				return err
			}
			if active > 0 {
				return stateErr("Cannot go offline while deliveries are in progress")
			}
		}
		now = !p.IsAvailable
		return s.PartnerRepo.SetAvailability(tx, p.ID, now)
	})
	if err != nil {
		return false, err
	}
	logger.Info(ctx, s.Log, "partner availability changed", zap.Uint("user_id", userID), zap.Bool("available", now))
	return now, nil
}

// AvailableOrders is empty while the partner is offline or not yet approved.
func (s *DeliveryService) AvailableOrders(ctx context.Context, userID uint) ([]repository.DeliveryOrderRow, error) {
	p, err := s.partner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive || !p.IsAvailable {
		return []repository.DeliveryOrderRow{}, nil
	}
	return s.OrderRepo.ListAvailableForPartner(p.ID, availableOrdersLimit)
}

func (s *DeliveryService) MyDeliveries(ctx context.Context, userID uint) ([]repository.DeliveryOrderRow, error) {
	p, err := s.partner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.OrderRepo.ListActiveForPartner(p.ID)
}

func (s *DeliveryService) History(ctx context.Context, userID uint, limit, offset int) ([]repository.DeliveryOrderRow, error) {
	p, err := s.partner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.OrderRepo.ListDeliveredForPartner(p.ID, limit, offset)
}

type PartnerStats struct {
	TotalDeliveries int64  `json:"total_deliveries"`
	TotalEarnings   string `json:"total_earnings"`
	TodayDeliveries int64  `json:"today_deliveries"`
	TodayEarnings   string `json:"today_earnings"`
	Rating          string `json:"rating"`
	TotalRatings    int64  `json:"total_ratings"`
	IsAvailable     bool   `json:"is_available"`
}

// Stats counts delivered orders; earnings are the delivery fees of those orders.
func (s *DeliveryService) Stats(ctx context.Context, userID uint) (*PartnerStats, error) {
	p, err := s.partner(ctx, userID)
	if err != nil {
		return nil, err
	}
	all, err := s.OrderRepo.PartnerTotals(p.ID, nil)
	if err != nil {
		return nil, err
	}
	y, m, d := time.Now().Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	today, err := s.OrderRepo.PartnerTotals(p.ID, &startOfDay)
	if err != nil {
		return nil, err
	}
	return &PartnerStats{
		TotalDeliveries: all.Deliveries,
		TotalEarnings:   money(all.Earnings),
		TodayDeliveries: today.Deliveries,
		TodayEarnings:   money(today.Earnings),
		Rating:          p.Rating.StringFixed(1),
		TotalRatings:    p.TotalRatings,
		IsAvailable:     p.IsAvailable,
	}, nil
}
