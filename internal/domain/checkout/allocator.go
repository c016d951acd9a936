package checkout

import (
	"github.com/shopspring/decimal"
)

// AllocateInitialPayment spreads one up-front payment across line totals in
// their stored order. Each line absorbs min(remaining, lineTotal); the walk
// carries a single remaining accumulator so the allocation happens exactly
// once per checkout. Whenever payment ≤ sum(totals), the returned amounts sum
// to the payment exactly and no line's share exceeds its own total.
//
// The caller validates the [0, cartTotal] bound before allocating; this
// function only guards the per-line arithmetic.
func AllocateInitialPayment(lineTotals []decimal.Decimal, payment decimal.Decimal) []decimal.Decimal {
	applied := make([]decimal.Decimal, len(lineTotals))
	remaining := payment

	for i, total := range lineTotals {
		if !remaining.IsPositive() {
			applied[i] = decimal.Zero
			continue
		}

		share := total
		if share.IsNegative() {
			share = decimal.Zero
		}
		if remaining.LessThan(share) {
			share = remaining
		}

		applied[i] = share
		remaining = remaining.Sub(share)
	}

	return applied
}
