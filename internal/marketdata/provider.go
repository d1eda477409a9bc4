// Package marketdata defines the interface for fetching quotes and dividend
// histories from external data sources.
package marketdata

import (
	"context"

	"divscout/internal/dividend"
)

// Snapshot is a single ticker's market data at fetch time: the latest
// quote plus the trailing dividend payment events.
type Snapshot struct {
	Ticker     string
	Name       string
	Currency   string
	PriceCents int64
	Payments   []dividend.PaymentEvent
}

// Provider fetches market data for a single ticker. Implementations
// return ErrDataUnavailable (wrapped) for any upstream failure so
// callers can treat the fetch as retryable.
type Provider interface {
	// Name returns the provider's display name (e.g., "Yahoo Finance").
	Name() string

	// Fetch returns the current snapshot for the given ticker.
	Fetch(ctx context.Context, ticker string) (*Snapshot, error)
}
