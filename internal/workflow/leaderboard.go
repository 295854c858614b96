package workflow

import (
	"context"

	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/SIMPLYBOYS/smart_waste/pkg/logger"
)

// RefreshLeaderboard re-evaluates every active user and broadcasts the top
// of the leaderboard.
func (s *Service) RefreshLeaderboard(ctx context.Context) ([]db.LeaderboardEntry, error) {
	logger.Info("Updating leaderboards...")

	ids, err := s.store.ListActiveUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		s.Evaluate(ctx, id)
	}

	entries, err := s.store.GetLeaderboard(ctx, s.leaderboardSize)
	if err != nil {
		return nil, err
	}
	if err := s.notifier.BroadcastLeaderboardUpdate(entries); err != nil {
		logger.Warn("Failed to broadcast leaderboard: %v", err)
	}

	logger.Info("Leaderboards updated for %d users", len(ids))
	return entries, nil
}
