// services/restaurant_application_service.go
package services

import (
	"context"
	"strings"

	"ahara/entity"
	"ahara/pkg/logger"
	"ahara/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RestaurantApplicationService onboards restaurants. A signup creates the owner account and an
// inactive restaurant; an admin approves or deactivates it later.
type RestaurantApplicationService struct {
	DB        *gorm.DB
	Auth      *AuthService
	RestRepo  *repository.RestaurantRepository
	AdminRepo *repository.AdminRepository
	Log       *zap.Logger
}

func NewRestaurantApplicationService(
	db *gorm.DB,
	auth *AuthService,
	restRepo *repository.RestaurantRepository,
	adminRepo *repository.AdminRepository,
	log *zap.Logger,
) *RestaurantApplicationService {
	return &RestaurantApplicationService{DB: db, Auth: auth, RestRepo: restRepo, AdminRepo: adminRepo, Log: log}
}

type RestaurantSignupReq struct {
	RegisterReq
	RestaurantName string `json:"restaurant_name" binding:"max=100"`
	Description    string `json:"description" binding:"max=1000"`
	Address        string `json:"address" binding:"required,max=255"`
	City           string `json:"city" binding:"required,max=100"`
	CuisineType    string `json:"cuisine_type" binding:"max=100"`
	OpeningTime    string `json:"opening_time" binding:"omitempty,datetime=15:04"`
	ClosingTime    string `json:"closing_time" binding:"omitempty,datetime=15:04"`
}

type RestaurantSignupOut struct {
	AuthOut
	Restaurant *entity.Restaurant `json:"restaurant"`
}

// Apply registers the owner and the restaurant in one transaction. The restaurant is open
// but not active, so it stays out of the catalogue until approved.
func (s *RestaurantApplicationService) Apply(ctx context.Context, in RestaurantSignupReq) (*RestaurantSignupOut, error) {
	user, err := s.Auth.newUser(in.RegisterReq, entity.RoleRestaurant)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.RestaurantName)
	if name == "" {
		name = user.Name
	}
	rest := &entity.Restaurant{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Address:     strings.TrimSpace(in.Address),
		City:        strings.TrimSpace(in.City),
		Phone:       user.Phone,
		CuisineType: strings.TrimSpace(in.CuisineType),
		OpeningTime: in.OpeningTime,
		ClosingTime: in.ClosingTime,
		IsOpen:      true,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Auth.UserRepo.Create(tx, user); err != nil {
			return err
		}
		rest.UserID = user.ID
		return s.RestRepo.Create(tx, rest)
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, s.Log, "restaurant application received",
		zap.Uint("user_id", user.ID), zap.Uint("restaurant_id", rest.ID))

	auth, err := s.Auth.issue(user)
	if err != nil {
		return nil, err
	}
	return &RestaurantSignupOut{AuthOut: *auth, Restaurant: rest}, nil
}

// List is the admin view of restaurants; status is "pending", "active" or empty for all.
func (s *RestaurantApplicationService) List(status string, limit, offset int) ([]repository.AdminRestaurantRow, int64, error) {
	if err := checkApprovalFilter(status); err != nil {
		return nil, 0, err
	}
	return s.AdminRepo.ListRestaurants(status, limit, offset)
}

func (s *RestaurantApplicationService) Approve(ctx context.Context, restID uint) (*entity.Restaurant, error) {
	return s.setActive(ctx, restID, true)
}

// Deactivate hides the restaurant and blocks new orders. Orders already placed run their course.
func (s *RestaurantApplicationService) Deactivate(ctx context.Context, restID uint) (*entity.Restaurant, error) {
	return s.setActive(ctx, restID, false)
}

func (s *RestaurantApplicationService) setActive(ctx context.Context, restID uint, active bool) (*entity.Restaurant, error) {
	var rest *entity.Restaurant
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.RestRepo.SetActive(tx, restID, active)
		if err != nil {
			return err
		}
		if n == 0 {
			return notFoundErr("Restaurant not found")
		}
		rest, err = s.RestRepo.FindByID(tx, restID)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, s.Log, "restaurant activation changed",
		zap.Uint("restaurant_id", restID), zap.Bool("active", active))
	return rest, nil
}
