package db

import (
	"context"
	"time"

	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
)

// revenueShare is the fraction of redeemed points cost booked as revenue.
const revenueShare = 0.1

// GetDashboardStats aggregates platform-wide totals for the admin dashboard.
func (s *DBServiceImpl) GetDashboardStats(ctx context.Context) (DashboardStats, error) {
	var st DashboardStats

	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(weight), 0) FROM pickup_requests WHERE status = 'Completed'`).
		Scan(&st.TotalWasteCollected)
	if err != nil {
		return DashboardStats{}, &errors.DatabaseError{Operation: "query total waste", Err: err}
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE is_active = true AND role = 'user'`).
		Scan(&st.ActiveUsers)
	if err != nil {
		return DashboardStats{}, &errors.DatabaseError{Operation: "query active users", Err: err}
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(CASE WHEN status IN ('Pending', 'Assigned', 'In Progress') THEN 1 END)
		FROM pickup_requests`).Scan(&st.TotalPickups, &st.ActivePickups)
	if err != nil {
		return DashboardStats{}, &errors.DatabaseError{Operation: "query pickup counts", Err: err}
	}

	var spent float64
	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(points_spent), 0) FROM reward_redemptions WHERE status = 'Completed'`).
		Scan(&spent)
	if err != nil {
		return DashboardStats{}, &errors.DatabaseError{Operation: "query revenue", Err: err}
	}
	st.Revenue = spent * revenueShare

	return st, nil
}

// GetWasteTrends sums completed kg per waste type per month since the given
// time, oldest month first.
func (s *DBServiceImpl) GetWasteTrends(ctx context.Context, since time.Time) ([]WasteTrend, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DATE_TRUNC('month', collected_at) AS month, type, COALESCE(SUM(weight), 0)
		FROM pickup_requests
		WHERE status = 'Completed' AND collected_at >= $1
		GROUP BY 1, type
		ORDER BY month ASC`, since)
	if err != nil {
		return nil, &errors.DatabaseError{Operation: "query waste trends", Err: err}
	}
	defer rows.Close()

	trends := []WasteTrend{}
	index := map[time.Time]int{}
	for rows.Next() {
		var month time.Time
		var wasteType string
		var weight float64
		if err := rows.Scan(&month, &wasteType, &weight); err != nil {
			return nil, &errors.DatabaseError{Operation: "scan waste trend", Err: err}
		}

		i, ok := index[month]
		if !ok {
			trends = append(trends, WasteTrend{Month: monthAbbrev(int(month.Month()))})
			i = len(trends) - 1
			index[month] = i
		}
		addWeight(&trends[i].Plastic, &trends[i].Organic, &trends[i].EWaste, wasteType, weight)
	}
	if err := rows.Err(); err != nil {
		return nil, &errors.DatabaseError{Operation: "iterate waste trends", Err: err}
	}
	return trends, nil
}

// GetRecentActivity lists the latest pickup requests across all users.
func (s *DBServiceImpl) GetRecentActivity(ctx context.Context, limit int) ([]PickupActivity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pr.id, pr.type, pr.status, pr.weight, pr.points_earned,
		       u.name, c.name, pr.created_at, pr.collected_at
		FROM pickup_requests pr
		JOIN users u ON pr.user_id = u.id
		LEFT JOIN users c ON pr.collector_id = c.id
		ORDER BY pr.created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, &errors.DatabaseError{Operation: "query recent activity", Err: err}
	}
	defer rows.Close()

	activity := []PickupActivity{}
	for rows.Next() {
		var a PickupActivity
		if err := rows.Scan(&a.ID, &a.Type, &a.Status, &a.Weight, &a.PointsEarned,
			&a.UserName, &a.CollectorName, &a.CreatedAt, &a.CollectedAt); err != nil {
			return nil, &errors.DatabaseError{Operation: "scan recent activity", Err: err}
		}
		activity = append(activity, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &errors.DatabaseError{Operation: "iterate recent activity", Err: err}
	}
	return activity, nil
}
