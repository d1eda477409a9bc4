package models

// Portfolio is a named basket of analyzed assets with per-symbol share
// counts and dividend tax rates. Symbols, Shares, and TaxRates are stored
// as JSON strings; the service layer owns encoding and decoding.
type Portfolio struct {
	Base
	Name        string `gorm:"not null;uniqueIndex:uq_portfolios_name" json:"name"`
	Description string `json:"description,omitempty"`
	Symbols     string `gorm:"not null" json:"-"`
	Shares      string `gorm:"not null" json:"-"`
	TaxRates    string `gorm:"not null" json:"-"`
}
