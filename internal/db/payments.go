package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
)

// CreatePayment queues a Pending payout to a collector. Without a phone
// number the collector's account phone is used.
func (s *DBServiceImpl) CreatePayment(ctx context.Context, np NewPayment) (Payment, error) {
	var p Payment
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO payments (collector_id, amount, phone_number)
		SELECT c.id, $2, COALESCE(NULLIF($3, ''), u.phone)
		FROM collectors c
		JOIN users u ON c.user_id = u.id
		WHERE c.id = $1
		RETURNING id, collector_id, amount, payment_method, phone_number, transaction_id, status, processed_at, created_at`,
		np.CollectorID, np.Amount, np.PhoneNumber).
		Scan(&p.ID, &p.CollectorID, &p.Amount, &p.PaymentMethod, &p.PhoneNumber, &p.TransactionID,
			&p.Status, &p.ProcessedAt, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Payment{}, &errors.NotFoundError{Resource: "collector", Identifier: np.CollectorID, Message: "Collector not found"}
		}
		return Payment{}, &errors.DatabaseError{Operation: "create payment", Err: err}
	}
	return p, nil
}

// ListPendingPayments returns up to limit Pending payments, oldest first.
func (s *DBServiceImpl) ListPendingPayments(ctx context.Context, limit int) ([]Payment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.collector_id, p.amount, p.payment_method,
		       COALESCE(NULLIF(p.phone_number, ''), u.phone),
		       p.transaction_id, p.status, p.processed_at, p.created_at
		FROM payments p
		JOIN collectors c ON p.collector_id = c.id
		JOIN users u ON c.user_id = u.id
		WHERE p.status = 'Pending'
		ORDER BY p.created_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, &errors.DatabaseError{Operation: "list pending payments", Err: err}
	}
	defer rows.Close()

	payments := []Payment{}
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.CollectorID, &p.Amount, &p.PaymentMethod, &p.PhoneNumber,
			&p.TransactionID, &p.Status, &p.ProcessedAt, &p.CreatedAt); err != nil {
			return nil, &errors.DatabaseError{Operation: "scan payment", Err: err}
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &errors.DatabaseError{Operation: "iterate pending payments", Err: err}
	}
	return payments, nil
}

func (s *DBServiceImpl) CompletePayment(ctx context.Context, id, transactionID string, at time.Time) error {
	return s.settlePayment(ctx, "complete payment", `
		UPDATE payments
		SET status = 'Completed', transaction_id = $1, processed_at = $2
		WHERE id = $3 AND status = 'Pending'`, id, transactionID, at, id)
}

func (s *DBServiceImpl) FailPayment(ctx context.Context, id string, at time.Time) error {
	return s.settlePayment(ctx, "fail payment", `
		UPDATE payments
		SET status = 'Failed', processed_at = $1
		WHERE id = $2 AND status = 'Pending'`, id, at, id)
}

// settlePayment moves a Pending payment to a terminal status. A payment that
// is missing or already settled is reported as not found.
func (s *DBServiceImpl) settlePayment(ctx context.Context, operation, query, id string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return &errors.DatabaseError{Operation: operation, Err: err}
	}
	changed, err := rowsChanged(res)
	if err != nil {
		return &errors.DatabaseError{Operation: operation, Err: err}
	}
	if !changed {
		return &errors.NotFoundError{Resource: "pending payment", Identifier: id}
	}
	return nil
}
