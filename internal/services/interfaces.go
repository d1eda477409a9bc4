package services

import (
	"time"

	"divscout/internal/dividend"
	"divscout/internal/models"
	"divscout/internal/pagination"
)

// AssetFilter holds optional filter parameters for querying analyzed assets.
// All filters are pure reads over committed records.
type AssetFilter struct {
	MinYield     *float64
	Cadence      *dividend.Cadence
	PaymentMonth *int
	Platform     *string
}

// AssetStats contains aggregate statistics over the stored assets.
type AssetStats struct {
	TotalAssets  int64                      `json:"total_assets"`
	ByCadence    map[dividend.Cadence]int64 `json:"by_cadence"`
	AverageYield float64                    `json:"average_yield"`
}

// AssetServicer defines the contract for the analysis-record repository.
// Records are keyed by normalized ticker; Upsert is atomic insert-or-replace.
type AssetServicer interface {
	Upsert(record *models.Asset) (*models.Asset, error)
	Get(ticker string) (*models.Asset, error)
	Query(filter AssetFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	ListTickers() ([]string, error)
	SetPlatforms(ticker string, platforms []string) (*models.Asset, error)
	Delete(ticker string) error
	Stats() (*AssetStats, error)
}

// PortfolioInput is the decoded payload for saving a portfolio.
type PortfolioInput struct {
	Name        string
	Description string
	Symbols     []string
	Shares      map[string]int
	TaxRates    map[string]float64
}

// PortfolioView is a portfolio with its JSON columns decoded.
type PortfolioView struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Symbols     []string           `json:"symbols"`
	Shares      map[string]int     `json:"shares"`
	TaxRates    map[string]float64 `json:"tax_rates"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// PortfolioServicer defines the contract for named asset baskets.
// Save is an upsert keyed by portfolio name.
type PortfolioServicer interface {
	Save(input PortfolioInput) (*PortfolioView, error)
	Get(name string) (*PortfolioView, error)
	List(page pagination.PageRequest) (*pagination.PageResponse[PortfolioView], error)
	Delete(name string) error
}
