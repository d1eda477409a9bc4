package dividend

import (
	"math"

	apperrors "divscout/internal/errors"
)

// AnnualYield computes the trailing-twelve-month dividend yield as a
// percentage, rounded to two decimal places. priceCents is the current price
// in cents and must be positive. An empty history yields exactly 0.00 —
// paying no dividend is a valid, informative state, not an error.
//
// The sum is never extrapolated upward from a partial-year window; a ticker
// with three quarters of history reports three quarters of payments. That is
// a documented simplification, not something to silently correct.
func AnnualYield(history History, priceCents int64) (float64, error) {
	if priceCents <= 0 {
		return 0, apperrors.ErrInvalidPrice
	}
	if len(history) == 0 {
		return 0, nil
	}
	yield := float64(history.Sum()) / float64(priceCents) * 100
	return math.Round(yield*100) / 100, nil
}
