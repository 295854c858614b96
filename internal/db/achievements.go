package db

import (
	"context"

	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
)

// ListActiveAchievements returns every active achievement with its thresholds.
func (s *DBServiceImpl) ListActiveAchievements(ctx context.Context) ([]Achievement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, icon, points_required, waste_required, pickups_required
		FROM achievements
		WHERE is_active = true
		ORDER BY points_required ASC, name ASC`)
	if err != nil {
		return nil, &errors.DatabaseError{Operation: "list achievements", Err: err}
	}
	defer rows.Close()

	achievements := []Achievement{}
	for rows.Next() {
		var a Achievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon,
			&a.Thresholds.PointsRequired, &a.Thresholds.WasteRequired, &a.Thresholds.PickupsRequired); err != nil {
			return nil, &errors.DatabaseError{Operation: "scan achievement", Err: err}
		}
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &errors.DatabaseError{Operation: "iterate achievements", Err: err}
	}
	return achievements, nil
}

func (s *DBServiceImpl) ListEarnedAchievementIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT achievement_id FROM user_achievements WHERE user_id = $1`, userID)
	if err != nil {
		return nil, &errors.DatabaseError{Operation: "list earned achievements", Err: err}
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, &errors.DatabaseError{Operation: "scan earned achievement", Err: err}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, &errors.DatabaseError{Operation: "iterate earned achievements", Err: err}
	}
	return ids, nil
}

// GrantAchievement records an earned achievement. It reports false when the
// user already held it.
func (s *DBServiceImpl) GrantAchievement(ctx context.Context, userID, achievementID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO user_achievements (user_id, achievement_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, achievement_id) DO NOTHING`, userID, achievementID)
	if err != nil {
		return false, &errors.DatabaseError{Operation: "grant achievement", Err: err}
	}
	granted, err := rowsChanged(res)
	if err != nil {
		return false, &errors.DatabaseError{Operation: "grant achievement", Err: err}
	}
	return granted, nil
}

// ListUserAchievements lists every active achievement, flagged with whether
// and when the user earned it.
func (s *DBServiceImpl) ListUserAchievements(ctx context.Context, userID string) ([]UserAchievement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.name, a.description, a.icon,
		       ua.earned_at IS NOT NULL AS earned, ua.earned_at
		FROM achievements a
		LEFT JOIN user_achievements ua ON a.id = ua.achievement_id AND ua.user_id = $1
		WHERE a.is_active = true
		ORDER BY earned DESC, a.points_required ASC`, userID)
	if err != nil {
		return nil, &errors.DatabaseError{Operation: "list user achievements", Err: err}
	}
	defer rows.Close()

	achievements := []UserAchievement{}
	for rows.Next() {
		var a UserAchievement
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.Earned, &a.EarnedAt); err != nil {
			return nil, &errors.DatabaseError{Operation: "scan user achievement", Err: err}
		}
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &errors.DatabaseError{Operation: "iterate user achievements", Err: err}
	}
	return achievements, nil
}
