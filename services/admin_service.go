package services

import (
	"context"
	"errors"
	"time"

	"ahara/entity"
	"ahara/pkg/logger"
	"ahara/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const recentOrdersOnDashboard = 10

// AdminService backs the admin panel: platform stats, listings and account moderation.
type AdminService struct {
	DB          *gorm.DB
	Repo        *repository.AdminRepository
	UserRepo    *repository.UserRepository
	PartnerRepo *repository.DeliveryPartnerRepository
	RestRepo    *repository.RestaurantRepository
	Log         *zap.Logger
}

func NewAdminService(
	db *gorm.DB,
	repo *repository.AdminRepository,
	userRepo *repository.UserRepository,
	partnerRepo *repository.DeliveryPartnerRepository,
	restRepo *repository.RestaurantRepository,
	log *zap.Logger,
) *AdminService {
	return &AdminService{DB: db, Repo: repo, UserRepo: userRepo, PartnerRepo: partnerRepo, RestRepo: restRepo, Log: log}
}

type PlatformStats struct {
	Overview       repository.PlatformOverview `json:"overview"`
	OrdersByStatus []repository.StatusCount    `json:"orders_by_status"`
	RecentOrders   []repository.AdminOrderRow  `json:"recent_orders"`
}

func (s *AdminService) Stats() (*PlatformStats, error) {
	y, m, d := time.Now().Date()
	overview, err := s.Repo.Overview(time.Date(y, m, d, 0, 0, 0, 0, time.Local))
	if err != nil {
		return nil, err
	}
	byStatus, err := s.Repo.OrdersByStatus()
	if err != nil {
		return nil, err
	}
	recent, err := s.Repo.RecentOrders(recentOrdersOnDashboard)
	if err != nil {
		return nil, err
	}
	return &PlatformStats{Overview: overview, OrdersByStatus: byStatus, RecentOrders: recent}, nil
}

func checkApprovalFilter(status string) error {
	switch status {
	case "", "pending", "active":
		return nil
	}
	return validationErr("Invalid status filter")
}

func (s *AdminService) Orders(status string, limit, offset int) ([]repository.AdminOrderRow, int64, error) {
	st, err := parseStatusFilter(status)
	if err != nil {
		return nil, 0, err
	}
	return s.Repo.ListOrders(st, limit, offset)
}

func (s *AdminService) Customers(limit, offset int) ([]repository.AdminCustomerRow, int64, error) {
	return s.Repo.ListCustomers(limit, offset)
}

func (s *AdminService) Partners(status string, limit, offset int) ([]repository.AdminPartnerRow, int64, error) {
	if err := checkApprovalFilter(status); err != nil {
		return nil, 0, err
	}
	return s.Repo.ListPartners(status, limit, offset)
}

// ApprovePartner activates a delivery partner account.
func (s *AdminService) ApprovePartner(ctx context.Context, partnerID uint) error {
	n, err := s.PartnerRepo.Activate(s.DB.WithContext(ctx), partnerID)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFoundErr("Delivery partner not found")
	}
	logger.Info(ctx, s.Log, "partner approved", zap.Uint("partner_id", partnerID))
	return nil
}

// DeactivatePartner revokes approval and takes the partner offline. A partner holding
// a delivery must finish it first.
func (s *AdminService) DeactivatePartner(ctx context.Context, partnerID uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.PartnerRepo.GetByID(tx, partnerID); err != nil {
			return notFoundOr(err, "Delivery partner not found")
		}
		busy, err := s.PartnerRepo.CountInProgress(tx, partnerID)
		if err != nil {
			return err
		}
		if busy > 0 {
			return stateErr("Delivery partner has deliveries in progress")
		}
		_, err = s.PartnerRepo.Deactivate(tx, partnerID)
		return err
	})
	if err != nil {
		return err
	}
	logger.Info(ctx, s.Log, "partner deactivated", zap.Uint("partner_id", partnerID))
	return nil
}

// DeleteUser soft deletes an account. Orders and reviews keep pointing at it; a partner
// profile is deactivated and owned restaurants leave the catalogue.
func (s *AdminService) DeleteUser(ctx context.Context, adminID, userID uint) error {
	if adminID == userID {
		return stateErr("You cannot delete your own account")
	}
	var role string
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := s.UserRepo.FindByID(tx, userID)
		if err != nil {
			return notFoundOr(err, "User not found")
		}
		role = u.Role
		switch u.Role {
		case entity.RoleAdmin:
			return stateErr("Admin accounts cannot be deleted")
		case entity.RoleDeliveryPartner:
			p, err := s.PartnerRepo.GetByUserID(tx, u.ID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			if err != nil {
				return err
			}
			busy, err := s.PartnerRepo.CountInProgress(tx, p.ID)
			if err != nil {
				return err
			}
			if busy > 0 {
				return stateErr("Delivery partner has deliveries in progress")
			}
			if _, err := s.PartnerRepo.Deactivate(tx, p.ID); err != nil {
				return err
			}
		case entity.RoleRestaurant:
			if err := s.RestRepo.DeactivateByOwner(tx, u.ID); err != nil {
				return err
			}
		}
		return s.UserRepo.Delete(tx, u.ID)
	})
	if err != nil {
		return err
	}
	logger.Info(ctx, s.Log, "user deleted",
		zap.Uint("user_id", userID), zap.String("role", role), zap.Uint("admin_id", adminID))
	return nil
}
