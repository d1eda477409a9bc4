// Package dividend contains the analytical core: building a normalized
// payment history for a ticker, inferring its payout cadence, and computing
// a trailing-twelve-month yield. Everything in this package is pure — no
// storage, no network, no clocks other than the caller-supplied asOf time.
package dividend

import (
	"sort"
	"time"
)

// lookbackMonths is the evidence window for cadence inference.
const lookbackMonths = 12

// PaymentEvent is a single observed dividend payment.
// Amount is in cents and must be positive.
type PaymentEvent struct {
	Date   time.Time
	Amount int64
}

// History is a normalized sequence of payment events for one ticker:
// ascending by date, unique dates, restricted to the trailing 12-month
// window. It may be empty for tickers that pay no dividend.
type History []PaymentEvent

// BuildHistory normalizes raw payment events into a History as of the given
// analysis time. Events outside the trailing 12-month window or with
// non-positive amounts are discarded. When two events share a calendar date,
// the larger amount wins — small same-day duplicates are treated as data
// corrections, not separate payments.
func BuildHistory(events []PaymentEvent, asOf time.Time) History {
	cutoff := asOf.AddDate(0, -lookbackMonths, 0)

	byDate := make(map[time.Time]int64)
	for _, ev := range events {
		if ev.Amount <= 0 {
			continue
		}
		day := ev.Date.Truncate(24 * time.Hour)
		if day.Before(cutoff) || day.After(asOf) {
			continue
		}
		if ev.Amount > byDate[day] {
			byDate[day] = ev.Amount
		}
	}

	history := make(History, 0, len(byDate))
	for day, amount := range byDate {
		history = append(history, PaymentEvent{Date: day, Amount: amount})
	}
	sort.Slice(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})
	return history
}

// Sum returns the total amount paid across the history, in cents.
func (h History) Sum() int64 {
	var total int64
	for _, ev := range h {
		total += ev.Amount
	}
	return total
}

// PaymentMonths returns the distinct calendar months (1-12) in which a
// payment occurred, ascending.
func (h History) PaymentMonths() []int {
	seen := make(map[int]bool)
	for _, ev := range h {
		seen[int(ev.Date.Month())] = true
	}
	months := make([]int, 0, len(seen))
	for m := range seen {
		months = append(months, m)
	}
	sort.Ints(months)
	return months
}

// gaps returns the day counts between consecutive payments.
func (h History) gaps() []int {
	if len(h) < 2 {
		return nil
	}
	out := make([]int, 0, len(h)-1)
	for i := 1; i < len(h); i++ {
		days := int(h[i].Date.Sub(h[i-1].Date).Hours() / 24)
		out = append(out, days)
	}
	return out
}
