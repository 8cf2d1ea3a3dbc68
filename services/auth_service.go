package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"ahara/entity"
	"ahara/pkg/logger"
	"ahara/repository"
	"ahara/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned for any login failure so callers cannot tell which emails exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles signup, login and token issuance.
type AuthService struct {
	DB          *gorm.DB
	UserRepo    *repository.UserRepository
	PartnerRepo *repository.DeliveryPartnerRepository
	RestRepo    *repository.RestaurantRepository
	Log         *zap.Logger

	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	partnerRepo *repository.DeliveryPartnerRepository,
	restRepo *repository.RestaurantRepository,
	secret string,
	ttl time.Duration,
	log *zap.Logger,
) *AuthService {
	return &AuthService{DB: db, UserRepo: userRepo, PartnerRepo: partnerRepo, RestRepo: restRepo, Log: log, jwtSecret: secret, jwtTTL: ttl}
}

type RegisterReq struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"omitempty,min=10,max=15"`
}

type PartnerSignupReq struct {
	RegisterReq
	VehicleType   string `json:"vehicle_type" binding:"required,oneof=bicycle motorcycle scooter car"`
	VehicleNumber string `json:"vehicle_number" binding:"required"`
	LicenseNumber string `json:"license_number" binding:"required"`
}

type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthOut struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

func (s *AuthService) newUser(in RegisterReq, role string) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	count, err := s.UserRepo.CountByEmail(email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, conflictErr("Email already registered")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &entity.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         role,
	}, nil
}

// Register creates a customer account and signs them in.
func (s *AuthService) Register(ctx context.Context, in RegisterReq) (*AuthOut, error) {
	user, err := s.newUser(in, entity.RoleCustomer)
	if err != nil {
		return nil, err
	}
	if err := s.UserRepo.Create(s.DB.WithContext(ctx), user); err != nil {
		return nil, err
	}
	logger.Info(ctx, s.Log, "user registered", zap.Uint("user_id", user.ID))
	return s.issue(user)
}

// RegisterPartner creates a delivery partner account that stays inactive until an admin approves it.
func (s *AuthService) RegisterPartner(ctx context.Context, in PartnerSignupReq) (*AuthOut, error) {
	user, err := s.newUser(in.RegisterReq, entity.RoleDeliveryPartner)
	if err != nil {
		return nil, err
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.UserRepo.Create(tx, user); err != nil {
			return err
		}
		return s.PartnerRepo.Create(tx, &entity.DeliveryPartner{
			UserID:        user.ID,
			VehicleType:   in.VehicleType,
			VehicleNumber: in.VehicleNumber,
			LicenseNumber: in.LicenseNumber,
		})
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, s.Log, "delivery partner registered", zap.Uint("user_id", user.ID))
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, in LoginReq) (*AuthOut, error) {
	user, err := s.authenticate(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// LoginRestaurant is the owner portal login. Owners whose restaurant has not been approved yet are refused.
func (s *AuthService) LoginRestaurant(ctx context.Context, in LoginReq) (*AuthOut, error) {
	user, err := s.authenticate(ctx, in)
	if err != nil {
		return nil, err
	}
	if user.Role != entity.RoleRestaurant {
		return nil, ErrInvalidCredentials
	}
	rest, err := s.RestRepo.FindByOwner(s.DB.WithContext(ctx), user.ID)
	if err != nil {
		return nil, notFoundOr(err, "Restaurant not found")
	}
	if !rest.IsActive {
		return nil, forbiddenErr("Your account is pending activation. Please contact admin.")
	}
	return s.issue(user)
}

func (s *AuthService) authenticate(ctx context.Context, in LoginReq) (*entity.User, error) {
	user, err := s.UserRepo.FindByEmail(strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		logger.Info(ctx, s.Log, "login rejected", zap.Uint("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*entity.User, error) {
	u, err := s.UserRepo.FindByID(s.DB.WithContext(ctx), userID)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}
	return u, nil
}

func (s *AuthService) issue(user *entity.User) (*AuthOut, error) {
	token, err := utils.GenerateToken(user, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, err
	}
	return &AuthOut{Token: token, User: user}, nil
}
