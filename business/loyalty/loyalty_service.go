package loyalty

import (
	"context"
	"fmt"

	"groceryMarket/domain"
	"groceryMarket/pkg/logger"
	"groceryMarket/pkg/metrics"
)

const (
	EventOrderPlaced  = "order_placed"
	EventReviewPosted = "review_posted"
	EventDailyCheckIn = "daily_check_in"
	EventReferral     = "referral"
)

var earnAmounts = map[string]int64{
	EventOrderPlaced:  50,
	EventReviewPosted: 10,
	EventDailyCheckIn: 5,
	EventReferral:     100,
}

// PointsFor reports the fixed award for event.
func PointsFor(event string) (int64, bool) {
	n, ok := earnAmounts[event]
	return n, ok
}

type PointsRepository interface {
	Balance(ctx context.Context, userID string) (int64, error)
	Add(ctx context.Context, userID string, points int64) (int64, error)
	// Redeem decrements only when the balance covers points.
	Redeem(ctx context.Context, userID string, points int64) (bool, int64, error)
}

type loyaltyService struct {
	pointsRepo PointsRepository
}

func NewLoyaltyService(pointsRepo PointsRepository) *loyaltyService {
	return &loyaltyService{
		pointsRepo: pointsRepo,
	}
}

func (s *loyaltyService) Balance(ctx context.Context, userID string) (int64, error) {
	balance, err := s.pointsRepo.Balance(ctx, userID)
	if err != nil {
		logger.Error("Failed to read points balance", err, "user_id", userID)
		return 0, err
	}
	return balance, nil
}

func (s *loyaltyService) Earn(ctx context.Context, userID, event string) (int64, error) {
	points, ok := PointsFor(event)
	if !ok {
		return 0, fmt.Errorf("%w: unknown loyalty event %q", domain.ErrInvalidInput, event)
	}

	balance, err := s.pointsRepo.Add(ctx, userID, points)
	if err != nil {
		logger.Error("Failed to add points", err, "user_id", userID)
		return 0, err
	}

	metrics.LoyaltyPoints.WithLabelValues("earned").Add(float64(points))
	return balance, nil
}

// Redeem returns false with the balance unchanged when points exceeds it.
func (s *loyaltyService) Redeem(ctx context.Context, userID string, points int64) (bool, int64, error) {
	if points <= 0 {
		return false, 0, fmt.Errorf("%w: points must be positive", domain.ErrInvalidInput)
	}

	ok, balance, err := s.pointsRepo.Redeem(ctx, userID, points)
	if err != nil {
		logger.Error("Failed to redeem points", err, "user_id", userID)
		return false, 0, err
	}

	if ok {
		metrics.LoyaltyPoints.WithLabelValues("redeemed").Add(float64(points))
	}
	return ok, balance, nil
}
