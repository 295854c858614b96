package db

import (
	"context"
	"database/sql"

	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
)

// ListAvailableRewards returns the redeemable catalog, cheapest first. A
// reward that has run out stays listed with Available false.
func (s *DBServiceImpl) ListAvailableRewards(ctx context.Context) ([]Reward, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, category, points_cost, value_kes, stock_quantity
		FROM rewards
		WHERE is_available = true
		ORDER BY points_cost ASC`)
	if err != nil {
		return nil, &errors.DatabaseError{Operation: "list rewards", Err: err}
	}
	defer rows.Close()

	rewards := []Reward{}
	for rows.Next() {
		var r Reward
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.Category, &r.PointsCost, &r.ValueKes, &r.StockQuantity); err != nil {
			return nil, &errors.DatabaseError{Operation: "scan reward", Err: err}
		}
		r.Available = r.StockQuantity != 0
		rewards = append(rewards, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &errors.DatabaseError{Operation: "iterate rewards", Err: err}
	}
	return rewards, nil
}

// RedeemReward spends the user's points on a reward. The reward row is locked
// before the user row so concurrent redemptions of one reward serialize and
// never oversell finite stock.
func (s *DBServiceImpl) RedeemReward(ctx context.Context, req RedemptionRequest) (Redemption, error) {
	red := Redemption{
		RedemptionCode: req.Code,
		Status:         StatusPending,
		RedeemedAt:     req.RedeemedAt,
	}

	err := s.inTx(ctx, "redeem reward", func(tx *sql.Tx) error {
		var stock int64
		err := tx.QueryRowContext(ctx, `
			SELECT name, description, points_cost, stock_quantity
			FROM rewards
			WHERE id = $1 AND is_available = true
			FOR UPDATE`, req.RewardID).Scan(&red.RewardName, &red.RewardDescription, &red.PointsSpent, &stock)
		if err != nil {
			if err == sql.ErrNoRows {
				return &errors.NotFoundError{Resource: "reward", Identifier: req.RewardID, Message: "Reward not found or unavailable"}
			}
			return &errors.DatabaseError{Operation: "look up reward", Err: err}
		}
		if stock == 0 {
			return &errors.ConflictError{Resource: "reward", Message: "Reward out of stock"}
		}

		var balance int64
		err = tx.QueryRowContext(ctx, `SELECT points FROM users WHERE id = $1 FOR UPDATE`, req.UserID).Scan(&balance)
		if err != nil {
			if err == sql.ErrNoRows {
				return &errors.NotFoundError{Resource: "user", Identifier: req.UserID, Message: "User not found"}
			}
			return &errors.DatabaseError{Operation: "look up user points", Err: err}
		}
		if balance < red.PointsSpent {
			return &errors.ConflictError{Resource: "user", Message: "Insufficient points"}
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE users SET points = points - $1, updated_at = $2 WHERE id = $3`,
			red.PointsSpent, req.RedeemedAt, req.UserID); err != nil {
			return &errors.DatabaseError{Operation: "deduct points", Err: err}
		}

		if stock > 0 {
			if _, err := tx.ExecContext(ctx, `
				UPDATE rewards SET stock_quantity = stock_quantity - 1, updated_at = $1 WHERE id = $2`,
				req.RedeemedAt, req.RewardID); err != nil {
				return &errors.DatabaseError{Operation: "decrement stock", Err: err}
			}
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO reward_redemptions (user_id, reward_id, points_spent, status, redemption_code, redeemed_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`, req.UserID, req.RewardID, red.PointsSpent, StatusPending, req.Code, req.RedeemedAt).
			Scan(&red.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return &errors.ConflictError{Resource: "redemption", Message: "Redemption code collision, please retry"}
			}
			return &errors.DatabaseError{Operation: "insert redemption", Err: err}
		}
		return nil
	})
	if err != nil {
		return Redemption{}, err
	}
	return red, nil
}

// ListRedemptions returns the user's redemption history, newest first.
func (s *DBServiceImpl) ListRedemptions(ctx context.Context, userID string) ([]Redemption, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rr.id, r.name, r.description, rr.points_spent, rr.status,
		       rr.redemption_code, rr.redeemed_at, rr.processed_at
		FROM reward_redemptions rr
		JOIN rewards r ON rr.reward_id = r.id
		WHERE rr.user_id = $1
		ORDER BY rr.redeemed_at DESC`, userID)
	if err != nil {
		return nil, &errors.DatabaseError{Operation: "list redemptions", Err: err}
	}
	defer rows.Close()

	redemptions := []Redemption{}
	for rows.Next() {
		var r Redemption
		if err := rows.Scan(&r.ID, &r.RewardName, &r.RewardDescription, &r.PointsSpent, &r.Status,
			&r.RedemptionCode, &r.RedeemedAt, &r.ProcessedAt); err != nil {
			return nil, &errors.DatabaseError{Operation: "scan redemption", Err: err}
		}
		redemptions = append(redemptions, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &errors.DatabaseError{Operation: "iterate redemptions", Err: err}
	}
	return redemptions, nil
}
