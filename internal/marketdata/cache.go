package marketdata

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"divscout/internal/models"
)

// cachedProvider wraps a Provider with an in-memory TTL cache so repeated
// fetches for the same ticker within the TTL hit the upstream only once.
// Failures are not cached.
type cachedProvider struct {
	inner Provider
	cache *gocache.Cache
}

// NewCached wraps the given provider with a snapshot cache.
func NewCached(inner Provider, ttl time.Duration) Provider {
	return &cachedProvider{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (p *cachedProvider) Name() string { return p.inner.Name() }

func (p *cachedProvider) Fetch(ctx context.Context, ticker string) (*Snapshot, error) {
	key := models.NormalizeTicker(ticker)
	if cached, found := p.cache.Get(key); found {
		return cached.(*Snapshot), nil
	}

	snapshot, err := p.inner.Fetch(ctx, ticker)
	if err != nil {
		return nil, err
	}
	p.cache.Set(key, snapshot, gocache.DefaultExpiration)
	return snapshot, nil
}
