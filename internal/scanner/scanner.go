// Package scanner orchestrates fetching market data, inferring dividend
// cadence, and committing analysis records to storage.
package scanner

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"divscout/internal/dividend"
	"divscout/internal/marketdata"
	"divscout/internal/metrics"
	"divscout/internal/models"
	"divscout/internal/services"
)

// TickerResult is the outcome for a single ticker in a batch run.
// Exactly one of Asset and Err is set.
type TickerResult struct {
	Ticker string
	Asset  *models.Asset
	Err    error
}

// RunResult summarizes a batch run.
type RunResult struct {
	Results   []TickerResult
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// Runner executes batch scans over a set of tickers with a bounded
// worker pool. One ticker's failure never affects another's result.
type Runner struct {
	provider   marketdata.Provider
	assets     services.AssetServicer
	classifier *dividend.Classifier
	metrics    *metrics.Manager
	workers    int
	logger     *zap.SugaredLogger
}

// NewRunner creates a batch scan runner. workers caps concurrent
// in-flight tickers; values below 1 fall back to 1.
func NewRunner(provider marketdata.Provider, assets services.AssetServicer, classifier *dividend.Classifier, m *metrics.Manager, workers int, logger *zap.SugaredLogger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		provider:   provider,
		assets:     assets,
		classifier: classifier,
		metrics:    m,
		workers:    workers,
		logger:     logger,
	}
}

// Run scans every ticker in the input and returns one result per input
// entry, in input order. Storage reflects only the tickers that
// succeeded; failed tickers leave any previous record untouched.
func (r *Runner) Run(ctx context.Context, tickers []string) *RunResult {
	start := time.Now()
	results := make([]TickerResult, len(tickers))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.scanOne(ctx, tickers[i])
			}
		}()
	}
	for i := range tickers {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	run := &RunResult{Results: results, Duration: time.Since(start)}
	for _, res := range results {
		if res.Err != nil {
			run.Failed++
		} else {
			run.Succeeded++
		}
	}

	r.logger.Infow("scan run finished",
		"tickers", len(tickers),
		"succeeded", run.Succeeded,
		"failed", run.Failed,
		"duration", run.Duration,
	)
	return run
}

// scanOne runs the full pipeline for a single ticker: fetch, build the
// trailing-year history, classify, compute yield, and commit.
func (r *Runner) scanOne(ctx context.Context, rawTicker string) TickerResult {
	ticker := models.NormalizeTicker(rawTicker)
	start := time.Now()

	snapshot, err := r.provider.Fetch(ctx, ticker)
	if err != nil {
		r.metrics.RecordFetchFailure()
		r.metrics.RecordScan("fetch_failed", time.Since(start))
		r.logger.Warnw("market data fetch failed", "ticker", ticker, "error", err)
		return TickerResult{Ticker: ticker, Err: err}
	}

	now := time.Now().UTC()
	history := dividend.BuildHistory(snapshot.Payments, now)
	cadence := r.classifier.Classify(history)

	yield, err := dividend.AnnualYield(history, snapshot.PriceCents)
	if err != nil {
		r.metrics.RecordScan("invalid_price", time.Since(start))
		r.logger.Warnw("unusable quote", "ticker", ticker, "price_cents", snapshot.PriceCents)
		return TickerResult{Ticker: ticker, Err: err}
	}

	record := &models.Asset{
		Ticker:              ticker,
		Name:                snapshot.Name,
		Currency:            snapshot.Currency,
		PriceCents:          snapshot.PriceCents,
		AnnualDividendCents: history.Sum(),
		AnnualYield:         yield,
		Cadence:             cadence,
		PaymentCount:        len(history),
		PaymentMonths:       models.FormatMonths(history.PaymentMonths()),
	}

	saved, err := r.assets.Upsert(record)
	if err != nil {
		r.metrics.RecordScan("store_failed", time.Since(start))
		r.logger.Errorw("failed to store analysis record", "ticker", ticker, "error", err)
		return TickerResult{Ticker: ticker, Err: err}
	}
	r.metrics.RecordUpsert()
	r.metrics.RecordScan("ok", time.Since(start))

	return TickerResult{Ticker: ticker, Asset: saved}
}
