package services

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "divscout/internal/errors"
	"divscout/internal/models"
	"divscout/internal/pagination"
)

// portfolioService manages named baskets of analyzed assets.
type portfolioService struct {
	db *gorm.DB
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(db *gorm.DB) PortfolioServicer {
	return &portfolioService{db: db}
}

// Save creates the portfolio, or replaces the existing one with the same
// name. Symbols are normalized before storage; share counts and tax rates
// are re-keyed by the normalized symbol.
func (s *portfolioService) Save(input PortfolioInput) (*PortfolioView, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidationFailed, "Portfolio name is required")
	}
	if len(input.Symbols) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidationFailed, "Portfolio needs at least one symbol")
	}

	symbols := make([]string, 0, len(input.Symbols))
	for _, sym := range input.Symbols {
		if norm := models.NormalizeTicker(sym); norm != "" {
			symbols = append(symbols, norm)
		}
	}
	shares := make(map[string]int, len(input.Shares))
	for sym, n := range input.Shares {
		shares[models.NormalizeTicker(sym)] = n
	}
	taxRates := make(map[string]float64, len(input.TaxRates))
	for sym, rate := range input.TaxRates {
		taxRates[models.NormalizeTicker(sym)] = rate
	}

	symbolsJSON, err := json.Marshal(symbols)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	sharesJSON, err := json.Marshal(shares)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	taxRatesJSON, err := json.Marshal(taxRates)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now().UTC()
	portfolio := &models.Portfolio{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Symbols:     string(symbolsJSON),
		Shares:      string(sharesJSON),
		TaxRates:    string(taxRatesJSON),
	}

	err = s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"description": portfolio.Description,
			"symbols":     portfolio.Symbols,
			"shares":      portfolio.Shares,
			"tax_rates":   portfolio.TaxRates,
			"updated_at":  now,
		}),
	}).Create(portfolio).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	return s.Get(name)
}

// Get returns the portfolio with the given name.
func (s *portfolioService) Get(name string) (*PortfolioView, error) {
	var portfolio models.Portfolio
	err := s.db.Where("name = ?", strings.TrimSpace(name)).First(&portfolio).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}
	return decodePortfolio(&portfolio)
}

// List returns stored portfolios, most recently updated first.
func (s *portfolioService) List(page pagination.PageRequest) (*pagination.PageResponse[PortfolioView], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Portfolio{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	var portfolios []models.Portfolio
	err := s.db.Order("updated_at DESC").Scopes(pagination.Paginate(page)).Find(&portfolios).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err)
	}

	views := make([]PortfolioView, 0, len(portfolios))
	for i := range portfolios {
		view, err := decodePortfolio(&portfolios[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	result := pagination.NewPageResponse(views, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// Delete removes the portfolio with the given name.
func (s *portfolioService) Delete(name string) error {
	res := s.db.Where("name = ?", strings.TrimSpace(name)).Delete(&models.Portfolio{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrPortfolioNotFound
	}
	return nil
}

// decodePortfolio unpacks the JSON columns into a view.
func decodePortfolio(p *models.Portfolio) (*PortfolioView, error) {
	view := &PortfolioView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(p.Symbols), &view.Symbols); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := json.Unmarshal([]byte(p.Shares), &view.Shares); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := json.Unmarshal([]byte(p.TaxRates), &view.TaxRates); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return view, nil
}
