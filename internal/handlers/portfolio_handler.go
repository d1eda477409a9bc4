package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "divscout/internal/errors"
	"divscout/internal/pagination"
	"divscout/internal/services"
)

// PortfolioHandler handles portfolio requests.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// SavePortfolioRequest is the payload for creating or replacing a portfolio.
type SavePortfolioRequest struct {
	Name        string             `json:"name" binding:"required,min=1,max=100"`
	Description string             `json:"description" binding:"omitempty,max=500"`
	Symbols     []string           `json:"symbols" binding:"required,min=1,max=200,dive,ticker"`
	Shares      map[string]int     `json:"shares" binding:"omitempty,dive,gte=0"`
	TaxRates    map[string]float64 `json:"tax_rates" binding:"omitempty,dive,gte=0,lte=100"`
}

// SavePortfolio creates the portfolio, or replaces the one with the same name.
func (h *PortfolioHandler) SavePortfolio(c *gin.Context) {
	var req SavePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidationFailed, err.Error()))
		return
	}

	view, err := h.portfolioService.Save(services.PortfolioInput{
		Name:        req.Name,
		Description: req.Description,
		Symbols:     req.Symbols,
		Shares:      req.Shares,
		TaxRates:    req.TaxRates,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": view})
}

// GetPortfolio returns a portfolio by name.
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	view, err := h.portfolioService.Get(c.Param("name"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": view})
}

// ListPortfolios returns stored portfolios, most recently updated first.
func (h *PortfolioHandler) ListPortfolios(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidationFailed, err.Error()))
		return
	}

	result, err := h.portfolioService.List(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeletePortfolio removes a portfolio by name.
func (h *PortfolioHandler) DeletePortfolio(c *gin.Context) {
	if err := h.portfolioService.Delete(c.Param("name")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Portfolio deleted"})
}
