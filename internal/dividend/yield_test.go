package dividend

import (
	"errors"
	"testing"

	apperrors "divscout/internal/errors"
)

// assertInvalidPrice checks the error carries the INVALID_PRICE code.
func assertInvalidPrice(t *testing.T, err error) {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != "INVALID_PRICE" {
		t.Errorf("expected INVALID_PRICE, got %s", appErr.Code)
	}
}

func TestAnnualYield(t *testing.T) {
	t.Run("monthly_payer", func(t *testing.T) {
		// 3 payments of $0.25 against a $50.00 price -> 1.50%.
		h := History{
			{Date: day(2024, 1, 15), Amount: 25},
			{Date: day(2024, 2, 15), Amount: 25},
			{Date: day(2024, 3, 15), Amount: 25},
		}
		yield, err := AnnualYield(h, 5000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if yield != 1.50 {
			t.Errorf("expected yield 1.50, got %v", yield)
		}
	})

	t.Run("quarterly_payer", func(t *testing.T) {
		// 3 payments of $1.00 against a $100.00 price -> 3.00%.
		h := History{
			{Date: day(2024, 1, 15), Amount: 100},
			{Date: day(2024, 4, 15), Amount: 100},
			{Date: day(2024, 7, 15), Amount: 100},
		}
		yield, err := AnnualYield(h, 10000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if yield != 3.00 {
			t.Errorf("expected yield 3.00, got %v", yield)
		}
	})

	t.Run("empty_history_is_zero_not_error", func(t *testing.T) {
		yield, err := AnnualYield(History{}, 5000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if yield != 0.00 {
			t.Errorf("expected yield 0.00, got %v", yield)
		}
	})

	t.Run("zero_price", func(t *testing.T) {
		_, err := AnnualYield(History{{Date: day(2024, 1, 15), Amount: 25}}, 0)
		assertInvalidPrice(t, err)
	})

	t.Run("negative_price", func(t *testing.T) {
		_, err := AnnualYield(History{}, -100)
		assertInvalidPrice(t, err)
	})

	t.Run("rounds_to_two_decimals", func(t *testing.T) {
		// 100/30000*100 = 0.3333... -> 0.33
		h := History{{Date: day(2024, 1, 15), Amount: 100}}
		yield, err := AnnualYield(h, 30000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if yield != 0.33 {
			t.Errorf("expected yield 0.33, got %v", yield)
		}
	})
}
