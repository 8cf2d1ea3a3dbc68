package services

import (
	"context"

	"ahara/entity"
	"ahara/pkg/cache"
	"ahara/pkg/events"
	"ahara/pkg/logger"
	"ahara/repository"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReviewService struct {
	DB          *gorm.DB
	Repo        *repository.ReviewRepository
	OrderRepo   *repository.OrderRepository
	RestRepo    *repository.RestaurantRepository
	PartnerRepo *repository.DeliveryPartnerRepository
	Cache       cache.RatingCache
	Events      events.Publisher
	Log         *zap.Logger

	tracer trace.Tracer
}

func NewReviewService(
	db *gorm.DB,
	repo *repository.ReviewRepository,
	orderRepo *repository.OrderRepository,
	restRepo *repository.RestaurantRepository,
	partnerRepo *repository.DeliveryPartnerRepository,
	c cache.RatingCache,
	pub events.Publisher,
	log *zap.Logger,
) *ReviewService {
	if c == nil {
		c = cache.Nop{}
	}
	return &ReviewService{
		DB: db, Repo: repo, OrderRepo: orderRepo, RestRepo: restRepo, PartnerRepo: partnerRepo,
		Cache: c, Events: pub, Log: log,
		tracer: otel.Tracer("ahara/services/review"),
	}
}

type SubmitReviewReq struct {
	OrderID          uint    `json:"order_id" binding:"required"`
	RestaurantRating *int    `json:"restaurant_rating" binding:"required,min=1,max=5"`
	RestaurantReview *string `json:"restaurant_review" binding:"omitempty,max=1000"`
	DeliveryRating   *int    `json:"delivery_rating" binding:"omitempty,min=1,max=5"`
	DeliveryReview   *string `json:"delivery_review" binding:"omitempty,max=1000"`
}

// UpdateReviewReq fields left nil keep their stored value.
type UpdateReviewReq struct {
	RestaurantRating *int    `json:"restaurant_rating" binding:"omitempty,min=1,max=5"`
	RestaurantReview *string `json:"restaurant_review" binding:"omitempty,max=1000"`
	DeliveryRating   *int    `json:"delivery_rating" binding:"omitempty,min=1,max=5"`
	DeliveryReview   *string `json:"delivery_review" binding:"omitempty,max=1000"`
}

func checkRating(r *int, field string) error {
	if r != nil && (*r < 1 || *r > 5) {
		return validationErr(field + " must be between 1 and 5")
	}
	return nil
}

// Submit records the review for a delivered order and refreshes the aggregates it touches
// inside the same transaction.
func (s *ReviewService) Submit(ctx context.Context, customerID uint, req SubmitReviewReq) (*entity.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.Submit")
	defer span.End()

	if err := checkRating(req.RestaurantRating, "Restaurant rating"); err != nil {
		return nil, err
	}
	if err := checkRating(req.DeliveryRating, "Delivery rating"); err != nil {
		return nil, err
	}

	var rv entity.Review
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.OrderRepo.GetOrderForCustomer(tx, req.OrderID, customerID)
		if err != nil {
			return notFoundOr(err, "Order not found")
		}
		if o.Status != entity.StatusDelivered {
			return stateErr("Can only review delivered orders")
		}
		exists, err := s.Repo.ExistsForOrder(tx, o.ID)
		if err != nil {
			return err
		}
		if exists {
			return conflictErr("Order has already been reviewed")
		}

		rv = entity.Review{
			OrderID:           o.ID,
			UserID:            customerID,
			RestaurantID:      o.RestaurantID,
			DeliveryPartnerID: o.DeliveryPartnerID,
			RestaurantRating:  req.RestaurantRating,
			RestaurantReview:  req.RestaurantReview,
			DeliveryRating:    req.DeliveryRating,
			DeliveryReview:    req.DeliveryReview,
		}
		if err := s.Repo.Create(tx, &rv); err != nil {
			return err
		}
		return s.recompute(tx, &rv)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	logger.Info(ctx, s.Log, "review submitted", zap.Uint("review_id", rv.ID), zap.Uint("order_id", rv.OrderID))
	s.afterCommit(ctx, events.ReviewSubmitted, &rv)
	return &rv, nil
}

func (s *ReviewService) Update(ctx context.Context, customerID, reviewID uint, req UpdateReviewReq) (*entity.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.Update")
	defer span.End()

	if err := checkRating(req.RestaurantRating, "Restaurant rating"); err != nil {
		return nil, err
	}
	if err := checkRating(req.DeliveryRating, "Delivery rating"); err != nil {
		return nil, err
	}

	var rv *entity.Review
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		rv, err = s.Repo.GetForUser(tx, reviewID, customerID)
		if err != nil {
			return notFoundOr(err, "Review not found or unauthorized")
		}
		if req.RestaurantRating != nil {
			rv.RestaurantRating = req.RestaurantRating
		}
		if req.RestaurantReview != nil {
			rv.RestaurantReview = req.RestaurantReview
		}
		if req.DeliveryRating != nil {
			rv.DeliveryRating = req.DeliveryRating
		}
		if req.DeliveryReview != nil {
			rv.DeliveryReview = req.DeliveryReview
		}
		if err := s.Repo.Save(tx, rv); err != nil {
			return err
		}
		return s.recompute(tx, rv)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	logger.Info(ctx, s.Log, "review updated", zap.Uint("review_id", rv.ID))
	s.afterCommit(ctx, events.ReviewUpdated, rv)
	return rv, nil
}

func (s *ReviewService) Delete(ctx context.Context, customerID, reviewID uint) error {
	ctx, span := s.tracer.Start(ctx, "ReviewService.Delete")
	defer span.End()

	var rv *entity.Review
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		rv, err = s.Repo.GetForUser(tx, reviewID, customerID)
		if err != nil {
			return notFoundOr(err, "Review not found or unauthorized")
		}
		if err := s.Repo.Delete(tx, rv); err != nil {
			return err
		}
		return s.recompute(tx, rv)
	})
	if err != nil {
		span.RecordError(err)
		return err
	}

	logger.Info(ctx, s.Log, "review deleted", zap.Uint("review_id", reviewID))
	s.afterCommit(ctx, events.ReviewDeleted, rv)
	return nil
}

// recompute rebuilds the aggregates a review can affect from the rows currently visible in tx.
func (s *ReviewService) recompute(tx *gorm.DB, rv *entity.Review) error {
	if err := s.RestRepo.RecomputeRating(tx, rv.RestaurantID); err != nil {
		return err
	}
	if rv.DeliveryPartnerID != nil {
		return s.PartnerRepo.RecomputeRating(tx, *rv.DeliveryPartnerID)
	}
	return nil
}

func (s *ReviewService) afterCommit(ctx context.Context, typ string, rv *entity.Review) {
	keys := []string{cache.RestaurantKey(rv.RestaurantID)}
	if rv.DeliveryPartnerID != nil {
		keys = append(keys, cache.PartnerKey(*rv.DeliveryPartnerID))
	}
	if err := s.Cache.Invalidate(ctx, keys...); err != nil {
		logger.Warn(ctx, s.Log, "rating cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
	publish(ctx, s.Events, s.Log, events.Event{
		Type: typ, OrderID: rv.OrderID, CustomerID: rv.UserID, RestaurantID: rv.RestaurantID,
		DeliveryPartnerID: rv.DeliveryPartnerID,
	})
}

// ----- Public listings -----

type ReviewListOut struct {
	Reviews []repository.ReviewRow `json:"reviews"`
	Stats   cache.RatingStats      `json:"stats"`
}

func (s *ReviewService) RestaurantReviews(ctx context.Context, restID uint, limit, offset int) (*ReviewListOut, error) {
	if _, err := s.RestRepo.FindByID(s.DB.WithContext(ctx), restID); err != nil {
		return nil, notFoundOr(err, "Restaurant not found")
	}
	rows, err := s.Repo.ListForRestaurant(restID, limit, offset)
	if err != nil {
		return nil, err
	}
	st, err := s.stats(ctx, cache.RestaurantKey(restID), func() (repository.Stats, error) {
		return s.Repo.RestaurantStats(restID)
	})
	if err != nil {
		return nil, err
	}
	return &ReviewListOut{Reviews: rows, Stats: st}, nil
}

func (s *ReviewService) PartnerReviews(ctx context.Context, partnerID uint, limit, offset int) (*ReviewListOut, error) {
	if _, err := s.PartnerRepo.GetByID(s.DB.WithContext(ctx), partnerID); err != nil {
		return nil, notFoundOr(err, "Delivery partner not found")
	}
	rows, err := s.Repo.ListForPartner(partnerID, limit, offset)
	if err != nil {
		return nil, err
	}
	st, err := s.stats(ctx, cache.PartnerKey(partnerID), func() (repository.Stats, error) {
		return s.Repo.PartnerStats(partnerID)
	})
	if err != nil {
		return nil, err
	}
	return &ReviewListOut{Reviews: rows, Stats: st}, nil
}

// stats reads through the cache. A cache outage degrades to the database.
func (s *ReviewService) stats(ctx context.Context, key string, load func() (repository.Stats, error)) (cache.RatingStats, error) {
	if st, hit, err := s.Cache.Get(ctx, key); err != nil {
		logger.Warn(ctx, s.Log, "rating cache get failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		return *st, nil
	}

	raw, err := load()
	if err != nil {
		return cache.RatingStats{}, err
	}
	st := cache.RatingStats{AvgRating: raw.AvgRating, TotalReviews: raw.TotalReviews}
	if err := s.Cache.Set(ctx, key, st); err != nil {
		logger.Warn(ctx, s.Log, "rating cache set failed", zap.String("key", key), zap.Error(err))
	}
	return st, nil
}

func (s *ReviewService) MyReviews(customerID uint, limit, offset int) ([]repository.ReviewRow, error) {
	return s.Repo.ListForUser(customerID, limit, offset)
}

type CanReviewOut struct {
	CanReview bool   `json:"can_review"`
	Reason    string `json:"reason,omitempty"`
}

func (s *ReviewService) CanReview(ctx context.Context, customerID, orderID uint) (*CanReviewOut, error) {
	db := s.DB.WithContext(ctx)
	o, err := s.OrderRepo.GetOrderForCustomer(db, orderID, customerID)
	if err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	if o.Status != entity.StatusDelivered {
		return &CanReviewOut{CanReview: false, Reason: "Order not yet delivered"}, nil
	}
	exists, err := s.Repo.ExistsForOrder(db, o.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return &CanReviewOut{CanReview: false, Reason: "Already reviewed"}, nil
	}
	return &CanReviewOut{CanReview: true}, nil
}
