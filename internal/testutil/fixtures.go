package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"divscout/internal/dividend"
	"divscout/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewAssetRecord returns an unsaved monthly-payer record for the given
// ticker, suitable for passing through a service's Upsert.
func NewAssetRecord(ticker string) *models.Asset {
	return &models.Asset{
		Ticker:              ticker,
		Name:                "Test Asset " + ticker,
		Currency:            "USD",
		PriceCents:          6050,
		AnnualDividendCents: 300,
		AnnualYield:         4.96,
		Cadence:             dividend.CadenceMonthly,
		PaymentCount:        12,
		PaymentMonths:       "1,2,3,4,5,6,7,8,9,10,11,12",
	}
}

// CreateTestAsset persists a monthly-payer asset with a generated ticker.
func CreateTestAsset(t *testing.T, db *gorm.DB) *models.Asset {
	t.Helper()
	return CreateTestAssetWithTicker(t, db, fmt.Sprintf("TST%d", nextID()))
}

// CreateTestAssetWithTicker persists an asset with the given ticker.
func CreateTestAssetWithTicker(t *testing.T, db *gorm.DB, ticker string) *models.Asset {
	t.Helper()

	asset := NewAssetRecord(ticker)
	asset.LastUpdated = time.Now().UTC()
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestQuarterlyAsset persists a quarterly payer with the given yield.
func CreateTestQuarterlyAsset(t *testing.T, db *gorm.DB, ticker string, yield float64) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		Ticker:              ticker,
		Name:                "Test Quarterly " + ticker,
		PriceCents:          10000,
		AnnualDividendCents: int64(yield * 100),
		AnnualYield:         yield,
		Cadence:             dividend.CadenceQuarterly,
		PaymentCount:        4,
		PaymentMonths:       "1,4,7,10",
		LastUpdated:         time.Now().UTC(),
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test quarterly asset: %v", err)
	}
	return asset
}
