package workflow

import (
	"context"

	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/SIMPLYBOYS/smart_waste/pkg/logger"
)

type RedemptionResult struct {
	RedemptionCode string `json:"redemptionCode"`
	PointsSpent    int64  `json:"pointsSpent"`
}

// RedeemReward exchanges the user's points for a reward under a fresh
// redemption code.
func (s *Service) RedeemReward(ctx context.Context, userID, rewardID string) (RedemptionResult, error) {
	if err := validateID("reward id", rewardID); err != nil {
		return RedemptionResult{}, err
	}

	code, err := s.codes.RedemptionCode()
	if err != nil {
		return RedemptionResult{}, err
	}

	red, err := s.store.RedeemReward(ctx, db.RedemptionRequest{
		UserID:     userID,
		RewardID:   rewardID,
		Code:       code,
		RedeemedAt: s.now(),
	})
	if err != nil {
		return RedemptionResult{}, err
	}

	logger.Info("User %s redeemed %q for %d points (code %s)", userID, red.RewardName, red.PointsSpent, red.RedemptionCode)
	return RedemptionResult{RedemptionCode: red.RedemptionCode, PointsSpent: red.PointsSpent}, nil
}
