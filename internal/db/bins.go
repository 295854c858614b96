package db

import (
	"context"
	"database/sql"

	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
)

const (
	binColumns   = `id, bin_code, location_name, location_address, bin_type, status, location_lat, location_lng, last_scan_at`
	binListLimit = 20
	// earthRadiusKm is used by the haversine distance in ListActiveBins.
	earthRadiusKm = 6371
)

func scanBin(row rowScanner) (QRBin, error) {
	var b QRBin
	err := row.Scan(&b.ID, &b.BinCode, &b.LocationName, &b.LocationAddress, &b.BinType, &b.Status,
		&b.LocationLat, &b.LocationLng, &b.LastScanAt)
	return b, err
}

// GetBin looks a bin up by its printed QR code, whatever its status.
func (s *DBServiceImpl) GetBin(ctx context.Context, binCode string) (QRBin, error) {
	b, err := scanBin(s.db.QueryRowContext(ctx, `SELECT `+binColumns+` FROM qr_bins WHERE bin_code = $1`, binCode))
	if err != nil {
		if err == sql.ErrNoRows {
			return QRBin{}, &errors.NotFoundError{Resource: "bin", Identifier: binCode, Message: "Bin not found"}
		}
		return QRBin{}, &errors.DatabaseError{Operation: "get bin", Err: err}
	}
	return b, nil
}

// ListActiveBins lists Active bins. With a filter, only bins within
// RadiusKm of the point are returned, nearest first.
func (s *DBServiceImpl) ListActiveBins(ctx context.Context, near *GeoFilter) ([]QRBin, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if near == nil {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+binColumns+`
			FROM qr_bins
			WHERE status = 'Active'
			ORDER BY location_name
			LIMIT $1`, binListLimit)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+binColumns+`
			FROM (
				SELECT *, $1 * acos(LEAST(1.0,
					cos(radians($2)) * cos(radians(location_lat)) * cos(radians(location_lng) - radians($3)) +
					sin(radians($2)) * sin(radians(location_lat)))) AS distance
				FROM qr_bins
				WHERE status = 'Active' AND location_lat IS NOT NULL AND location_lng IS NOT NULL
			) nearby
			WHERE distance <= $4
			ORDER BY distance
			LIMIT $5`, earthRadiusKm, near.Lat, near.Lng, near.RadiusKm, binListLimit)
	}
	if err != nil {
		return nil, &errors.DatabaseError{Operation: "list bins", Err: err}
	}
	defer rows.Close()

	bins := []QRBin{}
	for rows.Next() {
		b, err := scanBin(rows)
		if err != nil {
			return nil, &errors.DatabaseError{Operation: "scan bin", Err: err}
		}
		bins = append(bins, b)
	}
	if err := rows.Err(); err != nil {
		return nil, &errors.DatabaseError{Operation: "iterate bins", Err: err}
	}
	return bins, nil
}
