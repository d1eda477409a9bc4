package models

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"divscout/internal/dividend"
)

// Asset is the stored result of analyzing one ticker's dividend behavior.
// Each analysis produces a full replacement record; assets are keyed by
// normalized ticker and never partially updated.
type Asset struct {
	Base
	Ticker string `gorm:"not null;uniqueIndex:uq_assets_ticker" json:"ticker"`
	Name   string `json:"name,omitempty"`
	// Quote currency as reported by the data provider, uppercased (USD, GBP).
	Currency string `json:"currency,omitempty"`

	// Price snapshot in cents at analysis time.
	PriceCents int64 `gorm:"type:bigint;not null" json:"price_cents"`
	// Total dividends paid over the trailing 12 months, in cents.
	AnnualDividendCents int64 `gorm:"type:bigint;not null" json:"annual_dividend_cents"`
	// Trailing yield percentage, two decimal places.
	AnnualYield float64 `gorm:"not null;index:idx_assets_yield" json:"annual_yield"`

	Cadence       dividend.Cadence `gorm:"not null;index:idx_assets_cadence" json:"cadence"`
	PaymentCount  int              `gorm:"not null" json:"payment_count_12mo"`
	PaymentMonths string           `json:"payment_months"`
	Platforms     string           `json:"platforms,omitempty"`
	LastUpdated   time.Time        `gorm:"not null" json:"last_updated"`
}

// NormalizeTicker maps case/whitespace variants of a symbol to its canonical
// identity: trimmed and uppercased. "aapl " and "AAPL" collide to one record.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// tickerPattern matches exchange symbols: 1-10 chars, alphanumeric plus the
// separators Yahoo uses for share classes and exchange suffixes.
var tickerPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]{0,9}$`)

// ValidTicker reports whether a normalized ticker is a plausible symbol.
func ValidTicker(ticker string) bool {
	return tickerPattern.MatchString(ticker)
}

// FormatMonths renders a sorted month list (1-12) as a comma-joined string
// for storage, e.g. "1,4,7,10".
func FormatMonths(months []int) string {
	if len(months) == 0 {
		return ""
	}
	sorted := make([]int, len(months))
	copy(sorted, months)
	sort.Ints(sorted)
	parts := make([]string, 0, len(sorted))
	for _, m := range sorted {
		parts = append(parts, strconv.Itoa(m))
	}
	return strings.Join(parts, ",")
}

// ParseMonths parses a stored month string back into a sorted, deduplicated
// list, silently dropping anything that is not a valid month number.
func ParseMonths(s string) []int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		m, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || m < 1 || m > 12 {
			continue
		}
		seen[m] = true
	}
	months := make([]int, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Ints(months)
	return months
}

// Months returns the asset's payment months as a parsed list.
func (a *Asset) Months() []int {
	return ParseMonths(a.PaymentMonths)
}

// PlatformList returns the asset's platform tags as a cleaned list.
func (a *Asset) PlatformList() []string {
	if strings.TrimSpace(a.Platforms) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(a.Platforms, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
