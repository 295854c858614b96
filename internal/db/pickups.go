package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
	"github.com/SIMPLYBOYS/smart_waste/internal/points"
)

const pickupColumns = `pr.id, pr.user_id, c.name, pr.type, pr.status, pr.weight, pr.points_earned,
	pr.location_lat, pr.location_lng, pr.location_address, pr.notes,
	pr.scheduled_at, pr.collected_at, pr.created_at`

func scanPickup(row rowScanner) (PickupRequest, error) {
	var p PickupRequest
	err := row.Scan(&p.ID, &p.UserID, &p.CollectorName, &p.Type, &p.Status, &p.Weight, &p.PointsEarned,
		&p.LocationLat, &p.LocationLng, &p.LocationAddress, &p.Notes,
		&p.ScheduledAt, &p.CollectedAt, &p.CreatedAt)
	return p, err
}

// CreatePickup records a new Pending pickup request.
func (s *DBServiceImpl) CreatePickup(ctx context.Context, np NewPickup) (PickupRequest, error) {
	p := PickupRequest{
		UserID:          np.UserID,
		Type:            string(np.Type),
		LocationLat:     np.LocationLat,
		LocationLng:     np.LocationLng,
		LocationAddress: np.LocationAddress,
		Notes:           np.Notes,
		ScheduledAt:     np.ScheduledAt,
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO pickup_requests (user_id, type, location_lat, location_lng, location_address, notes, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, status, created_at`,
		np.UserID, string(np.Type), np.LocationLat, np.LocationLng, np.LocationAddress, np.Notes, np.ScheduledAt).
		Scan(&p.ID, &p.Status, &p.CreatedAt)
	if err != nil {
		return PickupRequest{}, &errors.DatabaseError{Operation: "create pickup", Err: err}
	}
	return p, nil
}

// ListPickups returns the user's pickups, newest first.
func (s *DBServiceImpl) ListPickups(ctx context.Context, userID string, f PickupFilter) ([]PickupRequest, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + pickupColumns + `
		FROM pickup_requests pr
		LEFT JOIN users c ON pr.collector_id = c.id
		WHERE pr.user_id = $1`)
	args := []any{userID}

	if f.Status != "" {
		args = append(args, f.Status)
		fmt.Fprintf(&b, " AND pr.status = $%d", len(args))
	}
	args = append(args, f.Limit, f.Offset)
	fmt.Fprintf(&b, " ORDER BY pr.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, &errors.DatabaseError{Operation: "list pickups", Err: err}
	}
	defer rows.Close()

	pickups := []PickupRequest{}
	for rows.Next() {
		p, err := scanPickup(rows)
		if err != nil {
			return nil, &errors.DatabaseError{Operation: "scan pickup", Err: err}
		}
		pickups = append(pickups, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &errors.DatabaseError{Operation: "iterate pickups", Err: err}
	}
	return pickups, nil
}

func (s *DBServiceImpl) GetPickupStats(ctx context.Context, userID string) (PickupStats, error) {
	var st PickupStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(CASE WHEN status = 'Completed' THEN 1 END),
		       COUNT(CASE WHEN status = 'Pending' THEN 1 END),
		       COALESCE(SUM(CASE WHEN status = 'Completed' THEN weight END), 0),
		       COALESCE(SUM(CASE WHEN status = 'Completed' THEN points_earned END), 0)
		FROM pickup_requests
		WHERE user_id = $1`, userID).
		Scan(&st.TotalPickups, &st.CompletedPickups, &st.PendingPickups, &st.TotalWeight, &st.TotalPointsFromPickups)
	if err != nil {
		return PickupStats{}, &errors.DatabaseError{Operation: "get pickup stats", Err: err}
	}
	return st, nil
}

// CompletePickup marks a pickup Completed, credits the user and stamps the
// bin in one transaction. The pickup row is locked so that a concurrent second
// completion observes the Completed status and fails.
func (s *DBServiceImpl) CompletePickup(ctx context.Context, c PickupCompletion) (CompletedPickup, error) {
	result := CompletedPickup{PickupID: c.PickupID, UserID: c.UserID, Weight: c.Weight}

	err := s.inTx(ctx, "complete pickup", func(tx *sql.Tx) error {
		var binID string
		err := tx.QueryRowContext(ctx, `SELECT id FROM qr_bins WHERE bin_code = $1`, c.BinCode).Scan(&binID)
		if err != nil {
			if err == sql.ErrNoRows {
				return &errors.NotFoundError{Resource: "bin", Identifier: c.BinCode, Message: "Bin not found"}
			}
			return &errors.DatabaseError{Operation: "look up bin", Err: err}
		}

		var wasteType, status string
		err = tx.QueryRowContext(ctx, `
			SELECT type, status FROM pickup_requests
			WHERE id = $1 AND user_id = $2
			FOR UPDATE`, c.PickupID, c.UserID).Scan(&wasteType, &status)
		if err != nil {
			if err == sql.ErrNoRows {
				return &errors.NotFoundError{Resource: "pickup request", Identifier: c.PickupID, Message: "Pickup request not found"}
			}
			return &errors.DatabaseError{Operation: "look up pickup", Err: err}
		}

		switch status {
		case PickupCompleted:
			return &errors.ConflictError{Resource: "pickup request", Message: "Pickup already completed"}
		case PickupCancelled:
			return &errors.ConflictError{Resource: "pickup request", Message: "Pickup was cancelled"}
		}

		result.Type = points.WasteType(wasteType)
		earned, ok := points.Earned(result.Type, c.Weight)
		if !ok {
			return &errors.DatabaseError{Operation: "compute points", Err: fmt.Errorf("unknown waste type %q", wasteType)}
		}
		result.PointsEarned = earned

		if _, err := tx.ExecContext(ctx, `
			UPDATE pickup_requests
			SET status = 'Completed', weight = $1, points_earned = $2, collected_at = $3, updated_at = $3
			WHERE id = $4`, c.Weight, earned, c.CollectedAt, c.PickupID); err != nil {
			return &errors.DatabaseError{Operation: "update pickup", Err: err}
		}

		err = tx.QueryRowContext(ctx, `
			UPDATE users
			SET points = points + $1, total_waste_recycled = total_waste_recycled + $2, updated_at = $3
			WHERE id = $4
			RETURNING points`, earned, c.Weight, c.CollectedAt, c.UserID).Scan(&result.UserPoints)
		if err != nil {
			if err == sql.ErrNoRows {
				return &errors.NotFoundError{Resource: "user", Identifier: c.UserID, Message: "User not found"}
			}
			return &errors.DatabaseError{Operation: "credit user points", Err: err}
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE qr_bins SET last_scan_at = $1, updated_at = $1 WHERE id = $2`, c.CollectedAt, binID); err != nil {
			return &errors.DatabaseError{Operation: "update bin scan time", Err: err}
		}
		return nil
	})
	if err != nil {
		return CompletedPickup{}, err
	}
	return result, nil
}
