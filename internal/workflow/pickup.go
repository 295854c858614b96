package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/SIMPLYBOYS/smart_waste/internal/points"
	"github.com/SIMPLYBOYS/smart_waste/pkg/logger"
)

type PickupResult struct {
	PointsEarned int64   `json:"pointsEarned"`
	Weight       float64 `json:"weight"`
}

// PickupInput is a request to schedule a pickup.
type PickupInput struct {
	Type            string     `validate:"wastetype"`
	LocationLat     *float64   `validate:"omitempty,min=-90,max=90"`
	LocationLng     *float64   `validate:"omitempty,min=-180,max=180"`
	LocationAddress *string    `validate:"omitempty,max=500"`
	Notes           *string    `validate:"omitempty,max=1000"`
	ScheduledAt     *time.Time
}

type pickupCompletion struct {
	PickupID string  `validate:"id"`
	Weight   float64 `validate:"weight"`
	BinCode  string  `validate:"required"`
}

// CompletePickup completes the user's pickup, credits the points and then
// schedules evaluation of level and achievements. Evaluation never affects
// the result. The weight is rounded to the stored two decimals before it is
// checked or priced.
func (s *Service) CompletePickup(ctx context.Context, userID, pickupID string, weight float64, binCode string) (PickupResult, error) {
	weight = points.RoundWeight(weight)
	binCode = strings.TrimSpace(binCode)
	if err := check(pickupCompletion{PickupID: pickupID, Weight: weight, BinCode: binCode}); err != nil {
		return PickupResult{}, err
	}

	completed, err := s.store.CompletePickup(ctx, db.PickupCompletion{
		PickupID:    pickupID,
		UserID:      userID,
		BinCode:     binCode,
		Weight:      weight,
		CollectedAt: s.now(),
	})
	if err != nil {
		return PickupResult{}, err
	}

	logger.Info("Pickup %s completed: %.2f kg %s, %d points to user %s",
		pickupID, weight, completed.Type, completed.PointsEarned, userID)

	if err := s.notifier.BroadcastUserPointsUpdate(userID, completed.UserPoints); err != nil {
		logger.Warn("Failed to broadcast points update for user %s: %v", userID, err)
	}
	s.evaluateLater(ctx, userID)

	return PickupResult{PointsEarned: completed.PointsEarned, Weight: weight}, nil
}

// CreatePickup validates and records a new pickup request.
func (s *Service) CreatePickup(ctx context.Context, userID string, in PickupInput) (db.PickupRequest, error) {
	if err := check(in); err != nil {
		return db.PickupRequest{}, err
	}
	wasteType := points.WasteType(in.Type)

	p, err := s.store.CreatePickup(ctx, db.NewPickup{
		UserID:          userID,
		Type:            wasteType,
		LocationLat:     in.LocationLat,
		LocationLng:     in.LocationLng,
		LocationAddress: in.LocationAddress,
		Notes:           in.Notes,
		ScheduledAt:     in.ScheduledAt,
	})
	if err != nil {
		return db.PickupRequest{}, err
	}
	logger.Info("Pickup %s requested by user %s (%s)", p.ID, userID, wasteType)
	return p, nil
}
