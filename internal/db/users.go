package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
	"github.com/SIMPLYBOYS/smart_waste/internal/points"
)

const userColumns = `id, name, email, phone, password_hash, role, points, total_waste_recycled,
	level, has_completed_onboarding, is_active, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.Points,
		&u.TotalWasteRecycled, &u.Level, &u.HasCompletedOnboarding, &u.IsActive, &u.CreatedAt)
	return u, err
}

// CreateUser inserts a new account. Duplicate email or phone is a conflict.
func (s *DBServiceImpl) CreateUser(ctx context.Context, nu NewUser) (User, error) {
	role := nu.Role
	if role == "" {
		role = RoleUser
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, email, phone, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns, nu.Name, nu.Email, nu.Phone, nu.PasswordHash, role)

	u, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, &errors.ConflictError{Resource: "user", Message: "User with this email or phone already exists"}
		}
		return User{}, &errors.DatabaseError{Operation: "create user", Err: err}
	}
	return u, nil
}

// GetUserByID retrieves an active user
func (s *DBServiceImpl) GetUserByID(ctx context.Context, id string) (User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND is_active = true`, id)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, &errors.NotFoundError{Resource: "user", Identifier: id, Message: "User not found"}
		}
		return User{}, &errors.DatabaseError{Operation: "get user", Err: err}
	}
	return u, nil
}

// GetUserByEmail retrieves an active user for login.
func (s *DBServiceImpl) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 AND is_active = true`, email)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return User{}, &errors.NotFoundError{Resource: "user", Identifier: email}
		}
		return User{}, &errors.DatabaseError{Operation: "get user by email", Err: err}
	}
	return u, nil
}

// UpdateProfile changes the display name and, when given, the phone number.
func (s *DBServiceImpl) UpdateProfile(ctx context.Context, id, name string, phone *string) (User, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET name = $1, phone = COALESCE($2, phone), updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
		RETURNING `+userColumns, name, phone, id)

	u, err := scanUser(row)
	if err != nil {
		switch {
		case err == sql.ErrNoRows:
			return User{}, &errors.NotFoundError{Resource: "user", Identifier: id, Message: "User not found"}
		case isUniqueViolation(err):
			return User{}, &errors.ConflictError{Resource: "user", Message: "Phone number already in use"}
		}
		return User{}, &errors.DatabaseError{Operation: "update profile", Err: err}
	}
	return u, nil
}

func (s *DBServiceImpl) CompleteOnboarding(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET has_completed_onboarding = true, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`, id)
	if err != nil {
		return &errors.DatabaseError{Operation: "complete onboarding", Err: err}
	}
	changed, err := rowsChanged(res)
	if err != nil {
		return &errors.DatabaseError{Operation: "complete onboarding", Err: err}
	}
	if !changed {
		return &errors.NotFoundError{Resource: "user", Identifier: id, Message: "User not found"}
	}
	return nil
}

// ListActiveUserIDs returns the ids of every active account.
func (s *DBServiceImpl) ListActiveUserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM users WHERE is_active = true ORDER BY created_at`)
	if err != nil {
		return nil, &errors.DatabaseError{Operation: "list active users", Err: err}
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, &errors.DatabaseError{Operation: "scan user id", Err: err}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, &errors.DatabaseError{Operation: "iterate active users", Err: err}
	}
	return ids, nil
}

// GetUserProgress reads the totals the leveling and achievement rules need.
// Only completed pickups are counted.
func (s *DBServiceImpl) GetUserProgress(ctx context.Context, id string) (UserProgress, error) {
	p := UserProgress{UserID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT u.level, u.points, u.total_waste_recycled,
		       COUNT(CASE WHEN pr.status = 'Completed' THEN 1 END) AS completed_pickups
		FROM users u
		LEFT JOIN pickup_requests pr ON u.id = pr.user_id
		WHERE u.id = $1
		GROUP BY u.id, u.level, u.points, u.total_waste_recycled`, id).
		Scan(&p.Level, &p.Points, &p.WasteRecycled, &p.CompletedPickups)
	if err != nil {
		if err == sql.ErrNoRows {
			return UserProgress{}, &errors.NotFoundError{Resource: "user", Identifier: id, Message: "User not found"}
		}
		return UserProgress{}, &errors.DatabaseError{Operation: "get user progress", Err: err}
	}
	return p, nil
}

// SetUserLevel stores level and reports whether it differed from the stored
// value.
func (s *DBServiceImpl) SetUserLevel(ctx context.Context, id, level string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET level = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND level <> $1`, level, id)
	if err != nil {
		return false, &errors.DatabaseError{Operation: "update user level", Err: err}
	}
	changed, err := rowsChanged(res)
	if err != nil {
		return false, &errors.DatabaseError{Operation: "update user level", Err: err}
	}
	return changed, nil
}

// GetMonthlyStats sums completed pickups per calendar month and waste type,
// most recent month first.
func (s *DBServiceImpl) GetMonthlyStats(ctx context.Context, id string) ([]MonthlyStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT EXTRACT(YEAR FROM collected_at)::int AS year,
		       EXTRACT(MONTH FROM collected_at)::int AS month,
		       type,
		       COALESCE(SUM(weight), 0) AS total_weight,
		       COALESCE(SUM(points_earned), 0) AS total_points
		FROM pickup_requests
		WHERE user_id = $1 AND status = 'Completed' AND collected_at IS NOT NULL
		GROUP BY 1, 2, type
		ORDER BY year DESC, month DESC`, id)
	if err != nil {
		return nil, &errors.DatabaseError{Operation: "query monthly stats", Err: err}
	}
	defer rows.Close()

	stats := []MonthlyStats{}
	index := map[[2]int]int{}
	for rows.Next() {
		var year, month int
		var wasteType string
		var weight float64
		var pts int64
		if err := rows.Scan(&year, &month, &wasteType, &weight, &pts); err != nil {
			return nil, &errors.DatabaseError{Operation: "scan monthly stats", Err: err}
		}

		key := [2]int{year, month}
		i, ok := index[key]
		if !ok {
			stats = append(stats, MonthlyStats{Month: monthAbbrev(month), Year: year})
			i = len(stats) - 1
			index[key] = i
		}
		addWeight(&stats[i].Plastic, &stats[i].Organic, &stats[i].EWaste, wasteType, weight)
		stats[i].TotalPoints += pts
	}
	if err := rows.Err(); err != nil {
		return nil, &errors.DatabaseError{Operation: "iterate monthly stats", Err: err}
	}
	return stats, nil
}

// GetLeaderboardPosition ranks the user among active, onboarded users by
// points and then recycled weight.
func (s *DBServiceImpl) GetLeaderboardPosition(ctx context.Context, id string) (LeaderboardPosition, error) {
	var pos LeaderboardPosition
	err := s.db.QueryRowContext(ctx, `
		WITH user_rankings AS (
			SELECT id, points, total_waste_recycled,
			       ROW_NUMBER() OVER (ORDER BY points DESC, total_waste_recycled DESC) AS rank
			FROM users
			WHERE is_active = true AND has_completed_onboarding = true
		)
		SELECT rank, points, total_waste_recycled
		FROM user_rankings
		WHERE id = $1`, id).Scan(&pos.Rank, &pos.Points, &pos.TotalWasteRecycled)
	if err != nil {
		if err == sql.ErrNoRows {
			return LeaderboardPosition{}, &errors.NotFoundError{Resource: "leaderboard entry", Identifier: id, Message: "User not found in leaderboard"}
		}
		return LeaderboardPosition{}, &errors.DatabaseError{Operation: "get leaderboard position", Err: err}
	}
	return pos, nil
}

// GetLeaderboard retrieves the top users
func (s *DBServiceImpl) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.points, u.total_waste_recycled,
		       COUNT(pr.id) AS total_pickups,
		       ROW_NUMBER() OVER (ORDER BY u.points DESC, u.total_waste_recycled DESC) AS rank
		FROM users u
		LEFT JOIN pickup_requests pr ON u.id = pr.user_id AND pr.status = 'Completed'
		WHERE u.is_active = true AND u.has_completed_onboarding = true
		GROUP BY u.id, u.name, u.points, u.total_waste_recycled
		ORDER BY u.points DESC, u.total_waste_recycled DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, &errors.DatabaseError{Operation: "failed to query leaderboard", Err: err}
	}
	defer rows.Close()

	leaderboard := []LeaderboardEntry{}
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Points, &e.TotalWasteRecycled, &e.TotalPickups, &e.Rank); err != nil {
			return nil, &errors.DatabaseError{Operation: "failed to scan leaderboard entry", Err: err}
		}
		leaderboard = append(leaderboard, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &errors.DatabaseError{Operation: "iterate leaderboard", Err: err}
	}
	return leaderboard, nil
}

func monthAbbrev(month int) string {
	return time.Month(month).String()[:3]
}

func addWeight(plastic, organic, ewaste *float64, wasteType string, weight float64) {
	switch wasteType {
	case string(points.Plastic):
		*plastic += weight
	case string(points.Organic):
		*organic += weight
	case string(points.EWaste):
		*ewaste += weight
	}
}
