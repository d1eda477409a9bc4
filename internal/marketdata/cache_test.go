package marketdata

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	apperrors "divscout/internal/errors"
)

// countingProvider records Fetch calls and serves canned snapshots.
type countingProvider struct {
	calls     atomic.Int64
	snapshots map[string]*Snapshot
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Fetch(_ context.Context, ticker string) (*Snapshot, error) {
	p.calls.Add(1)
	snap, ok := p.snapshots[ticker]
	if !ok {
		return nil, apperrors.ErrDataUnavailable
	}
	return snap, nil
}

func TestCachedProvider(t *testing.T) {
	t.Run("second_fetch_hits_cache", func(t *testing.T) {
		inner := &countingProvider{snapshots: map[string]*Snapshot{
			"O": {Ticker: "O", PriceCents: 6050},
		}}
		p := NewCached(inner, time.Minute)

		first, err := p.Fetch(context.Background(), "O")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := p.Fetch(context.Background(), "O")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if inner.calls.Load() != 1 {
			t.Errorf("expected 1 upstream call, got %d", inner.calls.Load())
		}
		if first.PriceCents != second.PriceCents {
			t.Error("expected identical cached snapshot")
		}
	})

	t.Run("cache_key_is_normalized_ticker", func(t *testing.T) {
		inner := &countingProvider{snapshots: map[string]*Snapshot{
			" o ": {Ticker: "O", PriceCents: 6050},
			"O":   {Ticker: "O", PriceCents: 6050},
		}}
		p := NewCached(inner, time.Minute)

		if _, err := p.Fetch(context.Background(), " o "); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := p.Fetch(context.Background(), "O"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if inner.calls.Load() != 1 {
			t.Errorf("expected case variants to share a cache entry, got %d calls", inner.calls.Load())
		}
	})

	t.Run("failures_not_cached", func(t *testing.T) {
		inner := &countingProvider{snapshots: map[string]*Snapshot{}}
		p := NewCached(inner, time.Minute)

		_, err := p.Fetch(context.Background(), "MISS")
		if err == nil {
			t.Fatal("expected error")
		}
		_, err = p.Fetch(context.Background(), "MISS")
		if err == nil {
			t.Fatal("expected error")
		}

		if inner.calls.Load() != 2 {
			t.Errorf("expected failures to bypass the cache, got %d calls", inner.calls.Load())
		}
	})
}
