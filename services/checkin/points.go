package checkin

import (
	"context"

	"github.com/modentca/modentca-api/models"
)

// Point deltas applied by the engine.
const (
	// RewardPoints is accrued per accepted check-in.
	RewardPoints = 5
	// MissedWindowPenalty is deducted per missed window at settlement.
	MissedWindowPenalty = 10
)

// PointService maintains the bounded per-user point balance. The balance is
// independent of the streak and is clamped into [models.PointMin,
// models.PointMax] on every mutation.
type PointService struct {
	points PointRepository
}

// NewPointService creates a PointService.
func NewPointService(points PointRepository) *PointService {
	return &PointService{points: points}
}

// Balance returns the current balance, 0 when no account exists. Reading
// never creates the account.
func (s *PointService) Balance(ctx context.Context, userID uint) (int, error) {
	acc, err := s.points.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	if acc == nil {
		return 0, nil
	}
	return acc.Point, nil
}

// Add credits amount. A missing account is created seeded at exactly
// RewardPoints regardless of amount; the very first accrual is always 5.
func (s *PointService) Add(ctx context.Context, userID uint, amount int) (int, error) {
	acc, err := s.points.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	if acc == nil {
		seeded := &models.CheckinPoint{UserID: userID, Point: RewardPoints}
		if err := s.points.Create(ctx, seeded); err != nil {
			return 0, err
		}
		return seeded.Point, nil
	}
	next := clampPoint(acc.Point + amount)
	if err := s.points.UpdatePoint(ctx, userID, next); err != nil {
		return 0, err
	}
	return next, nil
}

// Reduce debits amount. A missing account is created seeded at 0.
func (s *PointService) Reduce(ctx context.Context, userID uint, amount int) (int, error) {
	acc, err := s.points.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	if acc == nil {
		seeded := &models.CheckinPoint{UserID: userID, Point: models.PointMin}
		if err := s.points.Create(ctx, seeded); err != nil {
			return 0, err
		}
		return seeded.Point, nil
	}
	next := clampPoint(acc.Point - amount)
	if err := s.points.UpdatePoint(ctx, userID, next); err != nil {
		return 0, err
	}
	return next, nil
}

func clampPoint(v int) int {
	if v < models.PointMin {
		return models.PointMin
	}
	if v > models.PointMax {
		return models.PointMax
	}
	return v
}
