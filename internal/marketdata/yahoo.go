package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"divscout/internal/dividend"
	apperrors "divscout/internal/errors"
	"divscout/internal/models"
)

const (
	yahooBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	yahooUA      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
)

// yahooChartResponse is the top-level v8 chart API response.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ShortName          string  `json:"shortName"`
				LongName           string  `json:"longName"`
			} `json:"meta"`
			Events struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// YahooProvider fetches quotes and dividend events from the Yahoo Finance
// v8 chart API.
type YahooProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewYahooProvider creates a new Yahoo Finance market data provider.
func NewYahooProvider(httpClient *http.Client) *YahooProvider {
	return &YahooProvider{httpClient: httpClient, baseURL: yahooBaseURL}
}

// Name returns the provider's display name.
func (p *YahooProvider) Name() string { return "Yahoo Finance" }

// Fetch returns the snapshot for a single ticker. The chart range covers
// two years so the trailing twelve months of dividends are always present.
func (p *YahooProvider) Fetch(ctx context.Context, ticker string) (*Snapshot, error) {
	ticker = models.NormalizeTicker(ticker)
	url := fmt.Sprintf("%s/%s?range=2y&interval=1mo&events=div", p.baseURL, ticker)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("User-Agent", yahooUA)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, fmt.Errorf("http request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, ticker))
	}

	var chartResp yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, fmt.Errorf("decoding response: %w", err))
	}

	if chartResp.Chart.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable,
			fmt.Errorf("%s: %s", chartResp.Chart.Error.Code, chartResp.Chart.Error.Description))
	}
	if len(chartResp.Chart.Result) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrDataUnavailable, fmt.Errorf("empty result for %s", ticker))
	}

	result := chartResp.Chart.Result[0]
	name := result.Meta.LongName
	if name == "" {
		name = result.Meta.ShortName
	}

	payments := make([]dividend.PaymentEvent, 0, len(result.Events.Dividends))
	for _, div := range result.Events.Dividends {
		payments = append(payments, dividend.PaymentEvent{
			Date:   time.Unix(div.Date, 0).UTC(),
			Amount: int64(math.Round(div.Amount * 100)),
		})
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].Date.Before(payments[j].Date) })

	return &Snapshot{
		Ticker:     ticker,
		Name:       name,
		Currency:   strings.ToUpper(result.Meta.Currency),
		PriceCents: int64(math.Round(result.Meta.RegularMarketPrice * 100)),
		Payments:   payments,
	}, nil
}
