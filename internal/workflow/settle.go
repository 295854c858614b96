package workflow

import (
	"context"

	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/SIMPLYBOYS/smart_waste/pkg/logger"
)

// SettlementResult is the outcome of one payment in a sweep. Err holds the
// gateway failure or, when Outcome is empty, the failed status write.
type SettlementResult struct {
	PaymentID     string
	Outcome       string
	TransactionID string
	Err           error
}

type paymentRequest struct {
	CollectorID string  `validate:"id"`
	Amount      float64 `validate:"gt=0"`
	PhoneNumber string  `validate:"omitempty,kephone"`
}

type SettlementReport struct {
	Completed int
	Failed    int
	Results   []SettlementResult
}

// SettlePendingPayments pays out one batch of Pending payments, oldest first.
// Each payment is handled on its own so one failure never stops the sweep.
// Failed payments are not retried.
func (s *Service) SettlePendingPayments(ctx context.Context) (SettlementReport, error) {
	var report SettlementReport

	pending, err := s.store.ListPendingPayments(ctx, s.batchSize)
	if err != nil {
		return report, err
	}
	logger.Info("Processing %d pending payments", len(pending))

	for _, p := range pending {
		result := s.settle(ctx, p)
		switch result.Outcome {
		case db.StatusCompleted:
			report.Completed++
		case db.StatusFailed:
			report.Failed++
		}
		report.Results = append(report.Results, result)
	}

	logger.Info("Payment processing completed: %d completed, %d failed", report.Completed, report.Failed)
	return report, nil
}

func (s *Service) settle(ctx context.Context, p db.Payment) SettlementResult {
	result := SettlementResult{PaymentID: p.ID}

	txID, settleErr := s.gateway.Settle(ctx, p)
	at := s.now()

	if settleErr != nil {
		logger.LogError(settleErr)
		if err := s.store.FailPayment(ctx, p.ID, at); err != nil {
			logger.Error("Failed to mark payment %s as failed: %v", p.ID, err)
			result.Err = err
			return result
		}
		result.Outcome = db.StatusFailed
		result.Err = settleErr
		return result
	}

	if err := s.store.CompletePayment(ctx, p.ID, txID, at); err != nil {
		logger.Error("Payment %s settled as %s but could not be recorded: %v", p.ID, txID, err)
		result.TransactionID = txID
		result.Err = err
		return result
	}

	result.Outcome = db.StatusCompleted
	result.TransactionID = txID
	return result
}

// QueuePayment records a Pending payout for a collector. The next sweep
// settles it.
func (s *Service) QueuePayment(ctx context.Context, p db.NewPayment) (db.Payment, error) {
	if err := check(paymentRequest{CollectorID: p.CollectorID, Amount: p.Amount, PhoneNumber: p.PhoneNumber}); err != nil {
		return db.Payment{}, err
	}

	created, err := s.store.CreatePayment(ctx, p)
	if err != nil {
		return db.Payment{}, err
	}
	logger.Info("Payment %s of %.2f queued for collector %s", created.ID, created.Amount, created.CollectorID)
	return created, nil
}
