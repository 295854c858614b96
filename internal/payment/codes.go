package payment

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"
)

const (
	RedemptionPrefix  = "RDM"
	TransactionPrefix = "MP"

	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suffixLength = 5
)

// CodeGenerator mints redemption codes and settlement transaction ids of the
// form prefix + unix milliseconds + 5 uppercase base-36 characters.
type CodeGenerator struct {
	random io.Reader
	now    func() time.Time
}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{random: rand.Reader, now: time.Now}
}

// NewCodeGeneratorWith is used by tests to fix the clock and entropy source.
func NewCodeGeneratorWith(random io.Reader, now func() time.Time) *CodeGenerator {
	return &CodeGenerator{random: random, now: now}
}

func (g *CodeGenerator) RedemptionCode() (string, error) {
	return g.code(RedemptionPrefix)
}

func (g *CodeGenerator) TransactionID() (string, error) {
	return g.code(TransactionPrefix)
}

func (g *CodeGenerator) code(prefix string) (string, error) {
	suffix := make([]byte, suffixLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range suffix {
		n, err := rand.Int(g.random, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate %s code: %w", prefix, err)
		}
		suffix[i] = codeAlphabet[n.Int64()]
	}
	return fmt.Sprintf("%s%d%s", prefix, g.now().UnixMilli(), suffix), nil
}
