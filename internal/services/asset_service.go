package services

import (
	"errors"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"divscout/internal/dividend"
	apperrors "divscout/internal/errors"
	"divscout/internal/models"
	"divscout/internal/pagination"
)

// assetService is the repository for analysis records, keyed by ticker.
type assetService struct {
	db *gorm.DB
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(db *gorm.DB) AssetServicer {
	return &assetService{db: db}
}

// validateRecord rejects malformed records before they reach storage.
// Validation failures are caller bugs and not retryable.
func validateRecord(record *models.Asset) error {
	if record == nil {
		return apperrors.WithMessage(apperrors.ErrValidationFailed, "Record is required")
	}
	if !models.ValidTicker(record.Ticker) {
		return apperrors.WithMessage(apperrors.ErrValidationFailed, "Invalid ticker symbol")
	}
	if record.PriceCents <= 0 {
		return apperrors.WithMessage(apperrors.ErrValidationFailed, "Price must be positive")
	}
	if record.AnnualYield < 0 {
		return apperrors.WithMessage(apperrors.ErrValidationFailed, "Yield cannot be negative")
	}
	if record.AnnualDividendCents < 0 {
		return apperrors.WithMessage(apperrors.ErrValidationFailed, "Annual dividend cannot be negative")
	}
	if record.PaymentCount < 0 {
		return apperrors.WithMessage(apperrors.ErrValidationFailed, "Payment count cannot be negative")
	}
	if !record.Cadence.Valid() {
		return apperrors.WithMessage(apperrors.ErrValidationFailed, "Unknown cadence value")
	}
	return nil
}

// Upsert inserts the record, or atomically replaces the existing record for
// the same normalized ticker with the new record's full field set. The
// replacement is a single INSERT ... ON CONFLICT statement, so concurrent
// upserts for one ticker serialize at the store and the last writer wins.
//
// Platform tags are the one exception to full replacement: they are owned by
// SetPlatforms, so a re-analysis without tags keeps the existing ones.
func (s *assetService) Upsert(record *models.Asset) (*models.Asset, error) {
	if record != nil {
		record.Ticker = models.NormalizeTicker(record.Ticker)
	}
	if err := validateRecord(record); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record.LastUpdated = now

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "ticker"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"name":                  record.Name,
			"currency":              record.Currency,
			"price_cents":           record.PriceCents,
			"annual_dividend_cents": record.AnnualDividendCents,
			"annual_yield":          record.AnnualYield,
			"cadence":               record.Cadence,
			"payment_count":         record.PaymentCount,
			"payment_months":        record.PaymentMonths,
			"platforms": gorm.Expr(
				"CASE WHEN ? <> '' THEN ? ELSE assets.platforms END",
				record.Platforms, record.Platforms,
			),
			"last_updated": now,
			"updated_at":   now,
		}),
	}).Create(record).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	// On the conflict path the in-memory record carries a fresh ID rather
	// than the stored row's; re-read for the canonical state.
	return s.Get(record.Ticker)
}

// Get returns the record for the given ticker, normalizing case and
// whitespace first.
func (s *assetService) Get(ticker string) (*models.Asset, error) {
	var asset models.Asset
	err := s.db.Where("ticker = ?", models.NormalizeTicker(ticker)).First(&asset).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return &asset, nil
}

// Query returns committed records matching the filter, ordered by yield
// descending. Reads never mutate stored state.
func (s *assetService) Query(filter AssetFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	page.Defaults()

	base := s.db.Model(&models.Asset{})
	if filter.MinYield != nil {
		base = base.Where("annual_yield >= ?", *filter.MinYield)
	}
	if filter.Cadence != nil {
		base = base.Where("cadence = ?", *filter.Cadence)
	}
	// Month and platform filtering must parse the stored lists: a LIKE on
	// "1" would false-positive against "10", and "KR" against "IBKR".
	// Filter in memory and paginate the filtered slice.
	if filter.PaymentMonth != nil || filter.Platform != nil {
		if filter.PaymentMonth != nil {
			base = base.Where("payment_months <> ''")
		}
		var all []models.Asset
		if err := base.Order("annual_yield DESC").Find(&all).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
		}
		matched := make([]models.Asset, 0, len(all))
		for _, a := range all {
			if filter.PaymentMonth != nil && !paysInMonth(&a, *filter.PaymentMonth) {
				continue
			}
			if filter.Platform != nil && !taggedWith(&a, *filter.Platform) {
				continue
			}
			matched = append(matched, a)
		}
		total := int64(len(matched))
		start := page.Offset()
		if start > len(matched) {
			start = len(matched)
		}
		end := start + page.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		result := pagination.NewPageResponse(matched[start:end], page.Page, page.PageSize, total)
		return &result, nil
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	var assets []models.Asset
	if err := base.Order("annual_yield DESC").Scopes(pagination.Paginate(page)).Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	result := pagination.NewPageResponse(assets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func paysInMonth(a *models.Asset, month int) bool {
	for _, m := range a.Months() {
		if m == month {
			return true
		}
	}
	return false
}

// taggedWith matches whole platform tags only.
func taggedWith(a *models.Asset, platform string) bool {
	want := strings.ToUpper(strings.TrimSpace(platform))
	for _, p := range a.PlatformList() {
		if strings.ToUpper(p) == want {
			return true
		}
	}
	return false
}

// ListTickers returns every stored ticker, ascending. Used by the scheduled
// rescan to rebuild the scan list.
func (s *assetService) ListTickers() ([]string, error) {
	var tickers []string
	if err := s.db.Model(&models.Asset{}).Order("ticker ASC").Pluck("ticker", &tickers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return tickers, nil
}

// SetPlatforms replaces the platform tags for a ticker. Tags are cleaned and
// uppercased; an empty list clears them.
func (s *assetService) SetPlatforms(ticker string, platforms []string) (*models.Asset, error) {
	cleaned := make([]string, 0, len(platforms))
	for _, p := range platforms {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			cleaned = append(cleaned, p)
		}
	}

	res := s.db.Model(&models.Asset{}).
		Where("ticker = ?", models.NormalizeTicker(ticker)).
		Update("platforms", strings.Join(cleaned, ","))
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.ErrAssetNotFound
	}
	return s.Get(ticker)
}

// Delete removes the record for the given ticker.
func (s *assetService) Delete(ticker string) error {
	res := s.db.Where("ticker = ?", models.NormalizeTicker(ticker)).Delete(&models.Asset{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrAssetNotFound
	}
	return nil
}

// Stats returns aggregate statistics: total records, counts per cadence, and
// the average yield across dividend payers.
func (s *assetService) Stats() (*AssetStats, error) {
	stats := &AssetStats{ByCadence: make(map[dividend.Cadence]int64)}

	if err := s.db.Model(&models.Asset{}).Count(&stats.TotalAssets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	type cadenceCount struct {
		Cadence dividend.Cadence
		Count   int64
	}
	var counts []cadenceCount
	err := s.db.Model(&models.Asset{}).
		Select("cadence, COUNT(*) as count").
		Group("cadence").
		Scan(&counts).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	for _, c := range counts {
		stats.ByCadence[c.Cadence] = c.Count
	}

	var avg *float64
	err = s.db.Model(&models.Asset{}).
		Select("AVG(annual_yield)").
		Where("annual_yield > 0").
		Scan(&avg).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	if avg != nil {
		stats.AverageYield = math.Round(*avg*100) / 100
	}

	return stats, nil
}
