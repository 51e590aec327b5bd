package liquidity

import (
	domain "loan-settlement/internal/domain/liquidity"

	"github.com/shopspring/decimal"
)

// shareScale matches the 18 fractional digits amounts are stored with.
const shareScale = 18

type Share struct {
	Position domain.Position
	Share    decimal.Decimal
}

// Split divides delta across positions in proportion to their balances.
// Shares are truncated to shareScale digits and the remainder goes to the
// largest holder, so the shares always sum to delta exactly.
func Split(positions []domain.Position, delta decimal.Decimal) []Share {
	if delta.IsZero() || len(positions) == 0 {
		return nil
	}
	total := decimal.Zero
	largest := 0
	for i, p := range positions {
		total = total.Add(p.Balance)
		if p.Balance.GreaterThan(positions[largest].Balance) {
			largest = i
		}
	}
	if !total.IsPositive() {
		return nil
	}

	out := make([]Share, len(positions))
	allotted := decimal.Zero
	for i, p := range positions {
		s := delta.Mul(p.Balance).DivRound(total, shareScale+6).Truncate(shareScale)
		out[i] = Share{Position: p, Share: s}
		allotted = allotted.Add(s)
	}
	out[largest].Share = out[largest].Share.Add(delta.Sub(allotted))
	return out
}
