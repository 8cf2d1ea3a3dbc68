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

// RestaurantService serves the public catalogue, the owner's restaurant profile and the saved
// addresses customers order to.
type RestaurantService struct {
	DB          *gorm.DB
	RestRepo    *repository.RestaurantRepository
	MenuRepo    *repository.MenuRepository
	AddressRepo *repository.AddressRepository
	Log         *zap.Logger
}

func NewRestaurantService(
	db *gorm.DB,
	restRepo *repository.RestaurantRepository,
	menuRepo *repository.MenuRepository,
	addressRepo *repository.AddressRepository,
	log *zap.Logger,
) *RestaurantService {
	return &RestaurantService{DB: db, RestRepo: restRepo, MenuRepo: menuRepo, AddressRepo: addressRepo, Log: log}
}

type RestaurantListOut struct {
	Items  []entity.Restaurant `json:"items"`
	Total  int64               `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

// List returns approved, open restaurants matching the filter.
func (s *RestaurantService) List(f repository.RestaurantFilter) (*RestaurantListOut, error) {
	if f.MinRating != nil && (f.MinRating.IsNegative() || f.MinRating.GreaterThan(decimalFromInt(5))) {
		return nil, validationErr("min_rating must be between 0 and 5")
	}
	items, total, err := s.RestRepo.ListOpen(f)
	if err != nil {
		return nil, err
	}
	return &RestaurantListOut{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset}, nil
}

// Get returns one restaurant. Restaurants awaiting approval are not public.
func (s *RestaurantService) Get(ctx context.Context, restID uint) (*entity.Restaurant, error) {
	rest, err := s.RestRepo.FindByID(s.DB.WithContext(ctx), restID)
	if err != nil {
		return nil, notFoundOr(err, "Restaurant not found")
	}
	if !rest.IsActive {
		return nil, notFoundErr("Restaurant not found")
	}
	return rest, nil
}

type MenuOut struct {
	Restaurant *entity.Restaurant `json:"restaurant"`
	Items      []entity.MenuItem  `json:"items"`
}

// Menu is the customer view of an approved restaurant, narrowed by the filter.
func (s *RestaurantService) Menu(ctx context.Context, restID uint, f repository.MenuFilter) (*MenuOut, error) {
	rest, err := s.Get(ctx, restID)
	if err != nil {
		return nil, err
	}
	items, err := s.MenuRepo.ListByRestaurant(rest.ID, f)
	if err != nil {
		return nil, err
	}
	return &MenuOut{Restaurant: rest, Items: items}, nil
}

// ----- owner profile -----

func (s *RestaurantService) MyProfile(ctx context.Context, ownerID uint) (*entity.Restaurant, error) {
	rest, err := s.RestRepo.FindByOwner(s.DB.WithContext(ctx), ownerID)
	if err != nil {
		return nil, notFoundOr(err, "Restaurant not found")
	}
	return rest, nil
}

// RestaurantProfileReq is a partial update. Approval (is_active) is never owner-editable.
type RestaurantProfileReq struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Address     *string `json:"address" binding:"omitempty,max=255"`
	City        *string `json:"city" binding:"omitempty,min=1,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=15"`
	CuisineType *string `json:"cuisine_type" binding:"omitempty,max=100"`
	OpeningTime *string `json:"opening_time" binding:"omitempty,datetime=15:04"`
	ClosingTime *string `json:"closing_time" binding:"omitempty,datetime=15:04"`
	ImageURL    *string `json:"image_url" binding:"omitempty,url"`
	IsOpen      *bool   `json:"is_open"`
}

func (s *RestaurantService) UpdateProfile(ctx context.Context, ownerID uint, in RestaurantProfileReq) (*entity.Restaurant, error) {
	fields := map[string]any{}
	for col, v := range map[string]*string{
		"name": in.Name, "description": in.Description, "address": in.Address, "city": in.City,
		"phone": in.Phone, "cuisine_type": in.CuisineType, "opening_time": in.OpeningTime,
		"closing_time": in.ClosingTime, "image_url": in.ImageURL,
	} {
		if v != nil {
			fields[col] = strings.TrimSpace(*v)
		}
	}
	if in.IsOpen != nil {
		fields["is_open"] = *in.IsOpen
	}
	if len(fields) == 0 {
		return nil, validationErr("No fields to update")
	}
	if n, ok := fields["name"]; ok && n == "" {
		return nil, validationErr("Name cannot be empty")
	}

	var rest *entity.Restaurant
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := s.RestRepo.FindByOwner(tx, ownerID)
		if err != nil {
			return notFoundOr(err, "Restaurant not found")
		}
		if err := s.RestRepo.UpdateFields(tx, cur.ID, fields); err != nil {
			return err
		}
		rest, err = s.RestRepo.FindByID(tx, cur.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, s.Log, "restaurant profile updated", zap.Uint("restaurant_id", rest.ID))
	return rest, nil
}

// ----- addresses -----

type AddressReq struct {
	Label        string `json:"label" binding:"max=50"`
	AddressLine1 string `json:"address_line1" binding:"required,max=255"`
	AddressLine2 string `json:"address_line2" binding:"max=255"`
	City         string `json:"city" binding:"required,max=100"`
	State        string `json:"state" binding:"max=100"`
	Pincode      string `json:"pincode" binding:"omitempty,numeric,len=6"`
	IsDefault    bool   `json:"is_default"`
}

type AddressPatch struct {
	Label        *string `json:"label" binding:"omitempty,max=50"`
	AddressLine1 *string `json:"address_line1" binding:"omitempty,min=1,max=255"`
	AddressLine2 *string `json:"address_line2" binding:"omitempty,max=255"`
	City         *string `json:"city" binding:"omitempty,min=1,max=100"`
	State        *string `json:"state" binding:"omitempty,max=100"`
	Pincode      *string `json:"pincode" binding:"omitempty,numeric,len=6"`
	IsDefault    *bool   `json:"is_default"`
}

// AddAddress saves an address. A new default replaces the previous one.
func (s *RestaurantService) AddAddress(ctx context.Context, userID uint, in AddressReq) (*entity.Address, error) {
	a := &entity.Address{
		UserID: userID, Label: in.Label, AddressLine1: in.AddressLine1, AddressLine2: in.AddressLine2,
		City: in.City, State: in.State, Pincode: in.Pincode, IsDefault: in.IsDefault,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if a.IsDefault {
			if err := s.AddressRepo.ClearDefault(tx, userID); err != nil {
				return err
			}
		}
		return s.AddressRepo.Create(tx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *RestaurantService) Addresses(userID uint) ([]entity.Address, error) {
	return s.AddressRepo.ListForUser(userID)
}

func (s *RestaurantService) UpdateAddress(ctx context.Context, userID, addressID uint, in AddressPatch) (*entity.Address, error) {
	fields := map[string]any{}
	for col, v := range map[string]*string{
		"label": in.Label, "address_line1": in.AddressLine1, "address_line2": in.AddressLine2,
		"city": in.City, "state": in.State, "pincode": in.Pincode,
	} {
		if v != nil {
			fields[col] = *v
		}
	}
	if in.IsDefault != nil {
		fields["is_default"] = *in.IsDefault
	}
	if len(fields) == 0 {
		return nil, validationErr("No fields to update")
	}

	var a *entity.Address
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.AddressRepo.FindForUser(tx, addressID, userID); err != nil {
			return notFoundOr(err, "Address not found")
		}
		if in.IsDefault != nil && *in.IsDefault {
			if err := s.AddressRepo.ClearDefault(tx, userID); err != nil {
				return err
			}
		}
		if err := s.AddressRepo.Update(tx, addressID, fields); err != nil {
			return err
		}
		var err error
		a, err = s.AddressRepo.FindForUser(tx, addressID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAddress removes a saved address. Orders already placed keep referring to it.
func (s *RestaurantService) DeleteAddress(ctx context.Context, userID, addressID uint) error {
	n, err := s.AddressRepo.Delete(s.DB.WithContext(ctx), addressID, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFoundErr("Address not found")
	}
	return nil
}
