package workflow

import (
	"context"

	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/SIMPLYBOYS/smart_waste/internal/points"
	"github.com/SIMPLYBOYS/smart_waste/pkg/logger"
)

// Evaluation is the outcome of one evaluator run.
type Evaluation struct {
	Level        string
	LevelChanged bool
	Granted      []db.Achievement
}

// evaluateLater runs Evaluate through the dispatcher on a context detached
// from the request.
func (s *Service) evaluateLater(ctx context.Context, userID string) {
	detached := context.WithoutCancel(ctx)
	s.dispatch(func() {
		ctx, cancel := context.WithTimeout(detached, evaluationTimeout)
		defer cancel()
		s.Evaluate(ctx, userID)
	})
}

// Evaluate recomputes the user's level and grants any achievements whose
// thresholds are now met. It is idempotent. Storage failures are logged and
// end the run early; nothing is returned to the caller.
func (s *Service) Evaluate(ctx context.Context, userID string) Evaluation {
	var ev Evaluation

	progress, err := s.store.GetUserProgress(ctx, userID)
	if err != nil {
		logger.Error("Evaluator: failed to load progress for user %s: %v", userID, err)
		return ev
	}

	ev.Level = points.LevelFor(progress.Points)
	if ev.Level != progress.Level {
		changed, err := s.store.SetUserLevel(ctx, userID, ev.Level)
		if err != nil {
			logger.Error("Evaluator: failed to update level for user %s: %v", userID, err)
		} else if changed {
			ev.LevelChanged = true
			logger.Info("User %s reached level %s", userID, ev.Level)
		}
	}

	achievements, err := s.store.ListActiveAchievements(ctx)
	if err != nil {
		logger.Error("Evaluator: failed to list achievements: %v", err)
		return ev
	}
	earnedIDs, err := s.store.ListEarnedAchievementIDs(ctx, userID)
	if err != nil {
		logger.Error("Evaluator: failed to list earned achievements for user %s: %v", userID, err)
		return ev
	}
	earned := make(map[string]bool, len(earnedIDs))
	for _, id := range earnedIDs {
		earned[id] = true
	}

	rules := progress.Rules()
	for _, a := range achievements {
		if earned[a.ID] || !points.Qualifies(a.Thresholds, rules) {
			continue
		}
		granted, err := s.store.GrantAchievement(ctx, userID, a.ID)
		if err != nil {
			logger.Error("Evaluator: failed to grant %q to user %s: %v", a.Name, userID, err)
			continue
		}
		if !granted {
			continue
		}
		ev.Granted = append(ev.Granted, a)
		logger.Info("User %s unlocked achievement %q", userID, a.Name)

		if err := s.notifier.BroadcastAchievementUnlocked(userID, a); err != nil {
			logger.Warn("Failed to broadcast achievement for user %s: %v", userID, err)
		}
	}

	return ev
}
