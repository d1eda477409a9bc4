package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "divscout/internal/errors"
	"divscout/internal/models"
	"divscout/internal/scanner"
)

// ScanRunner runs a batch scan. Satisfied by *scanner.Runner.
type ScanRunner interface {
	Run(ctx context.Context, tickers []string) *scanner.RunResult
}

// ScanHandler handles on-demand analysis requests.
type ScanHandler struct {
	runner ScanRunner
}

// NewScanHandler creates a new ScanHandler.
func NewScanHandler(runner ScanRunner) *ScanHandler {
	return &ScanHandler{runner: runner}
}

// ScanRequest is the payload for a batch scan.
type ScanRequest struct {
	Tickers []string `json:"tickers" binding:"required,min=1,max=500,dive,ticker"`
}

// ScanTickerResponse is the outcome for one ticker in the response.
type ScanTickerResponse struct {
	Ticker    string        `json:"ticker"`
	Asset     *models.Asset `json:"asset,omitempty"`
	ErrorCode string        `json:"error_code,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// Scan analyzes the requested tickers and commits one record per success.
// The response preserves input order; failed tickers carry an error code
// instead of a record.
func (h *ScanHandler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidationFailed, err.Error()))
		return
	}

	run := h.runner.Run(c.Request.Context(), req.Tickers)

	results := make([]ScanTickerResponse, len(run.Results))
	for i, res := range run.Results {
		entry := ScanTickerResponse{Ticker: res.Ticker, Asset: res.Asset}
		if res.Err != nil {
			var appErr *apperrors.AppError
			if errors.As(res.Err, &appErr) {
				entry.ErrorCode = appErr.Code
				entry.Error = appErr.Message
			} else {
				entry.ErrorCode = apperrors.ErrInternalServer.Code
				entry.Error = apperrors.ErrInternalServer.Message
			}
		}
		results[i] = entry
	}

	status := http.StatusOK
	if run.Succeeded == 0 && run.Failed > 0 {
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{
		"results":   results,
		"succeeded": run.Succeeded,
		"failed":    run.Failed,
	})
}
