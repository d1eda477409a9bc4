package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "divscout/internal/errors"
	"divscout/internal/models"
	"divscout/internal/scanner"
)

// --- mock runner ---

type mockRunner struct {
	runFn func(ctx context.Context, tickers []string) *scanner.RunResult
}

var _ ScanRunner = (*mockRunner)(nil)

func (m *mockRunner) Run(ctx context.Context, tickers []string) *scanner.RunResult {
	if m.runFn != nil {
		return m.runFn(ctx, tickers)
	}
	return &scanner.RunResult{}
}

func setupScanRouter(handler *ScanHandler) *gin.Engine {
	r := gin.New()
	r.POST("/scan", handler.Scan)
	return r
}

// --- tests ---

func TestScanHandler_Scan(t *testing.T) {
	t.Run("returns_200_with_ordered_results", func(t *testing.T) {
		runner := &mockRunner{
			runFn: func(_ context.Context, tickers []string) *scanner.RunResult {
				return &scanner.RunResult{
					Results: []scanner.TickerResult{
						{Ticker: "O", Asset: &models.Asset{Ticker: "O", AnnualYield: 5.12}},
						{Ticker: "BAD", Err: apperrors.ErrDataUnavailable},
					},
					Succeeded: 1,
					Failed:    1,
				}
			},
		}
		r := setupScanRouter(NewScanHandler(runner))

		rec := doRequest(r, "POST", "/scan", `{"tickers":["O","BAD"]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		result := parseJSON(t, rec)
		if result["succeeded"].(float64) != 1 || result["failed"].(float64) != 1 {
			t.Errorf("expected 1/1, got %v/%v", result["succeeded"], result["failed"])
		}

		results := result["results"].([]interface{})
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		first := results[0].(map[string]interface{})
		if first["ticker"] != "O" || first["asset"] == nil {
			t.Errorf("expected first result to carry the O record, got %v", first)
		}
		second := results[1].(map[string]interface{})
		if second["error_code"] != "DATA_UNAVAILABLE" {
			t.Errorf("expected DATA_UNAVAILABLE, got %v", second["error_code"])
		}
		if _, hasAsset := second["asset"]; hasAsset {
			t.Error("failed ticker must not carry a record")
		}
	})

	t.Run("returns_502_when_everything_fails", func(t *testing.T) {
		runner := &mockRunner{
			runFn: func(_ context.Context, tickers []string) *scanner.RunResult {
				return &scanner.RunResult{
					Results: []scanner.TickerResult{
						{Ticker: "BAD", Err: apperrors.ErrDataUnavailable},
					},
					Failed: 1,
				}
			},
		}
		r := setupScanRouter(NewScanHandler(runner))

		rec := doRequest(r, "POST", "/scan", `{"tickers":["BAD"]}`)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
	})

	t.Run("returns_400_for_empty_ticker_list", func(t *testing.T) {
		r := setupScanRouter(NewScanHandler(&mockRunner{}))

		rec := doRequest(r, "POST", "/scan", `{"tickers":[]}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "VALIDATION_FAILED")
	})

	t.Run("returns_400_for_malformed_ticker", func(t *testing.T) {
		r := setupScanRouter(NewScanHandler(&mockRunner{}))

		rec := doRequest(r, "POST", "/scan", `{"tickers":["NOT A TICKER!!"]}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
