package db

import (
	"context"
	"database/sql"

	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
)

// SeedAchievement inserts an achievement unless one with the same name exists.
func (s *DBServiceImpl) SeedAchievement(ctx context.Context, a Achievement) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO achievements (name, description, icon, points_required, waste_required, pickups_required)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO NOTHING`,
		a.Name, a.Description, a.Icon,
		a.Thresholds.PointsRequired, a.Thresholds.WasteRequired, a.Thresholds.PickupsRequired)
	if err != nil {
		return false, &errors.DatabaseError{Operation: "seed achievement", Err: err}
	}
	return seeded(res, "seed achievement")
}

// SeedReward inserts a reward unless one with the same name exists.
func (s *DBServiceImpl) SeedReward(ctx context.Context, r Reward) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO rewards (name, description, category, points_cost, value_kes, stock_quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO NOTHING`,
		r.Name, r.Description, r.Category, r.PointsCost, r.ValueKes, r.StockQuantity)
	if err != nil {
		return false, &errors.DatabaseError{Operation: "seed reward", Err: err}
	}
	return seeded(res, "seed reward")
}

// SeedBin inserts a bin unless its code is already registered.
func (s *DBServiceImpl) SeedBin(ctx context.Context, b QRBin) (bool, error) {
	status := b.Status
	if status == "" {
		status = BinActive
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO qr_bins (bin_code, location_name, location_lat, location_lng, location_address, bin_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (bin_code) DO NOTHING`,
		b.BinCode, b.LocationName, b.LocationLat, b.LocationLng, b.LocationAddress, b.BinType, status)
	if err != nil {
		return false, &errors.DatabaseError{Operation: "seed bin", Err: err}
	}
	return seeded(res, "seed bin")
}

func seeded(res sql.Result, operation string) (bool, error) {
	inserted, err := rowsChanged(res)
	if err != nil {
		return false, &errors.DatabaseError{Operation: operation, Err: err}
	}
	return inserted, nil
}
