package payment

import (
	"context"
	"fmt"

	"github.com/SIMPLYBOYS/smart_waste/internal/db"
	"github.com/SIMPLYBOYS/smart_waste/internal/errors"
	"github.com/SIMPLYBOYS/smart_waste/pkg/logger"
)

// Gateway moves money to a collector and returns the provider's transaction id.
type Gateway interface {
	Settle(ctx context.Context, p db.Payment) (string, error)
}

// SimulatedMPesa accepts every well formed payout without calling out to the
// provider.
type SimulatedMPesa struct {
	codes *CodeGenerator
}

func NewSimulatedMPesa(codes *CodeGenerator) *SimulatedMPesa {
	if codes == nil {
		codes = NewCodeGenerator()
	}
	return &SimulatedMPesa{codes: codes}
}

func (g *SimulatedMPesa) Settle(ctx context.Context, p db.Payment) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &errors.PaymentError{PaymentID: p.ID, Err: err}
	}
	if p.Amount <= 0 {
		return "", &errors.PaymentError{PaymentID: p.ID, Err: fmt.Errorf("amount must be positive, got %.2f", p.Amount)}
	}
	if p.PhoneNumber == "" {
		return "", &errors.PaymentError{PaymentID: p.ID, Err: fmt.Errorf("no phone number on record")}
	}

	txID, err := g.codes.TransactionID()
	if err != nil {
		return "", &errors.PaymentError{PaymentID: p.ID, Err: err}
	}

	logger.Info("Payment processed: %.2f KES to %s (transaction %s)", p.Amount, p.PhoneNumber, txID)
	return txID, nil
}
