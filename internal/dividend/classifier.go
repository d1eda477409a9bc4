package dividend

// Cadence is the inferred payout-frequency classification of a security.
type Cadence string

const (
	// CadenceMonthly: every inter-payment gap fits the monthly band.
	CadenceMonthly Cadence = "monthly"
	// CadenceQuarterly: every inter-payment gap fits the quarterly band.
	CadenceQuarterly Cadence = "quarterly"
	// CadenceIrregular: evidence exists but fits neither band.
	CadenceIrregular Cadence = "irregular"
	// CadenceUnknown: fewer than two payments — not enough evidence.
	// Distinct from irregular, which requires evidence that fails to fit.
	CadenceUnknown Cadence = "unknown"
)

// Valid reports whether c is one of the defined cadence values.
func (c Cadence) Valid() bool {
	switch c {
	case CadenceMonthly, CadenceQuarterly, CadenceIrregular, CadenceUnknown:
		return true
	}
	return false
}

// Bands holds the inter-payment gap tolerances, in days, for each regular
// cadence. Real payout dates drift a few days around the nominal 30/90-day
// cycles (weekends, holidays, business-day rounding), so the bands are wider
// than the nominal gap but must not overlap: gaps between the monthly and
// quarterly bands fall through to irregular.
type Bands struct {
	MonthlyMin   int
	MonthlyMax   int
	QuarterlyMin int
	QuarterlyMax int
}

// DefaultBands are the standard tolerances for US-listed payers.
// Markets with different payout jitter can override via configuration.
var DefaultBands = Bands{
	MonthlyMin:   25,
	MonthlyMax:   35,
	QuarterlyMin: 80,
	QuarterlyMax: 100,
}

// Classifier infers a payout cadence from a payment history.
type Classifier struct {
	bands Bands
}

// NewClassifier creates a classifier with the given gap bands.
// Zero-valued bands fall back to DefaultBands.
func NewClassifier(bands Bands) *Classifier {
	if bands == (Bands{}) {
		bands = DefaultBands
	}
	return &Classifier{bands: bands}
}

// Classify returns the cadence for the given history. It is a pure function
// of the input sequence: identical histories always produce identical
// cadences. Policies are evaluated in order and the first match wins.
//
// A history with exactly two payments classifies from a single gap; that is
// an accepted limitation of 12-month-window evidence.
func (c *Classifier) Classify(history History) Cadence {
	gaps := history.gaps()
	if gaps == nil {
		return CadenceUnknown
	}
	if allWithin(gaps, c.bands.MonthlyMin, c.bands.MonthlyMax) {
		return CadenceMonthly
	}
	if allWithin(gaps, c.bands.QuarterlyMin, c.bands.QuarterlyMax) {
		return CadenceQuarterly
	}
	return CadenceIrregular
}

func allWithin(gaps []int, min, max int) bool {
	for _, g := range gaps {
		if g < min || g > max {
			return false
		}
	}
	return true
}
