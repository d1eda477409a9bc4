package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"divscout/internal/dividend"
	apperrors "divscout/internal/errors"
	"divscout/internal/pagination"
	"divscout/internal/services"
)

// AssetHandler handles analysis-record requests.
type AssetHandler struct {
	assetService services.AssetServicer
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetService services.AssetServicer) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// ListAssetsRequest holds the query parameters for listing assets.
type ListAssetsRequest struct {
	pagination.PageRequest
	MinYield *float64 `form:"min_yield" binding:"omitempty,gte=0"`
	Cadence  *string  `form:"cadence" binding:"omitempty,cadence"`
	Month    *int     `form:"month" binding:"omitempty,month"`
	Platform *string  `form:"platform" binding:"omitempty,min=1"`
}

// SetPlatformsRequest is the payload for tagging an asset with platforms.
type SetPlatformsRequest struct {
	Platforms []string `json:"platforms" binding:"omitempty,max=20,dive,min=1,max=50"`
}

// ListAssets returns stored analysis records, highest yield first,
// optionally filtered by yield floor, cadence, payment month, or platform.
func (h *AssetHandler) ListAssets(c *gin.Context) {
	var req ListAssetsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidationFailed, err.Error()))
		return
	}

	filter := services.AssetFilter{
		MinYield:     req.MinYield,
		PaymentMonth: req.Month,
		Platform:     req.Platform,
	}
	if req.Cadence != nil {
		cadence := dividend.Cadence(*req.Cadence)
		filter.Cadence = &cadence
	}

	result, err := h.assetService.Query(filter, req.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAsset returns a single analysis record by ticker.
func (h *AssetHandler) GetAsset(c *gin.Context) {
	asset, err := h.assetService.Get(c.Param("ticker"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// DeleteAsset removes an analysis record.
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	if err := h.assetService.Delete(c.Param("ticker")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted"})
}

// SetPlatforms replaces the platform tags on an asset. An empty list
// clears them.
func (h *AssetHandler) SetPlatforms(c *gin.Context) {
	var req SetPlatformsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidationFailed, err.Error()))
		return
	}

	asset, err := h.assetService.SetPlatforms(c.Param("ticker"), req.Platforms)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// GetStats returns aggregate statistics over the stored records.
func (h *AssetHandler) GetStats(c *gin.Context) {
	stats, err := h.assetService.Stats()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
