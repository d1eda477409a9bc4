package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"divscout/internal/dividend"
	apperrors "divscout/internal/errors"
	"divscout/internal/handlers"
	"divscout/internal/logger"
	"divscout/internal/marketdata"
	"divscout/internal/metrics"
	"divscout/internal/models"
	"divscout/internal/scanner"
	"divscout/internal/services"
	"divscout/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Provider *fakeProvider
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// fakeProvider serves snapshots set by the test and fails everything else.
type fakeProvider struct {
	mu        sync.Mutex
	snapshots map[string]*marketdata.Snapshot
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Fetch(_ context.Context, ticker string) (*marketdata.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap, ok := p.snapshots[ticker]
	if !ok {
		return nil, apperrors.ErrDataUnavailable
	}
	return snap, nil
}

func (p *fakeProvider) set(ticker string, snap *marketdata.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots[ticker] = snap
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.Asset{}, &models.Portfolio{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database and a fake market data provider.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	provider := &fakeProvider{snapshots: make(map[string]*marketdata.Snapshot)}

	// Services and scan pipeline
	assetService := services.NewAssetService(db)
	portfolioService := services.NewPortfolioService(db)
	classifier := dividend.NewClassifier(dividend.DefaultBands)
	runner := scanner.NewRunner(provider, assetService, classifier, metrics.NewManager(), 2, logger.Get())

	// Handlers
	assetHandler := handlers.NewAssetHandler(assetService)
	scanHandler := handlers.NewScanHandler(runner)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	v1.POST("/scan", scanHandler.Scan)

	assets := v1.Group("/assets")
	assets.GET("", assetHandler.ListAssets)
	assets.GET("/stats", assetHandler.GetStats)
	assets.GET("/:ticker", assetHandler.GetAsset)
	assets.DELETE("/:ticker", assetHandler.DeleteAsset)
	assets.PUT("/:ticker/platforms", assetHandler.SetPlatforms)

	portfolios := v1.Group("/portfolios")
	portfolios.POST("", portfolioHandler.SavePortfolio)
	portfolios.GET("", portfolioHandler.ListPortfolios)
	portfolios.GET("/:name", portfolioHandler.GetPortfolio)
	portfolios.DELETE("/:name", portfolioHandler.DeletePortfolio)

	return &testApp{DB: db, Router: router, Provider: provider}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// monthlyPayer builds a snapshot with twelve monthly payments ending today.
func monthlyPayer(ticker string, priceCents, amountCents int64) *marketdata.Snapshot {
	now := time.Now().UTC()
	payments := make([]dividend.PaymentEvent, 0, 12)
	for i := 11; i >= 0; i-- {
		payments = append(payments, dividend.PaymentEvent{
			Date:   now.AddDate(0, -i, 0),
			Amount: amountCents,
		})
	}
	return &marketdata.Snapshot{
		Ticker:     ticker,
		Name:       ticker + " Inc.",
		Currency:   "USD",
		PriceCents: priceCents,
		Payments:   payments,
	}
}

func (app *testApp) mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) map[string]interface{} {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
	if rec.Code != http.StatusNoContent && rec.Body.Len() > 0 {
		return parseJSON(t, rec)
	}
	return nil
}
