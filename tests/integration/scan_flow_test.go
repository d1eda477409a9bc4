package integration

import (
	"net/http"
	"testing"
)

func TestScanFlow_FullLifecycle(t *testing.T) {
	app := setupApp(t)
	app.Provider.set("O", monthlyPayer("O", 6000, 25))

	// Step 1: Scan — one success, one upstream failure
	rec := app.request("POST", "/api/v1/scan", `{"tickers":["O","MISSING"]}`)
	result := app.mustStatus(t, rec, http.StatusOK)
	if result["succeeded"].(float64) != 1 || result["failed"].(float64) != 1 {
		t.Fatalf("expected 1/1, got %v/%v", result["succeeded"], result["failed"])
	}
	results := result["results"].([]interface{})
	second := results[1].(map[string]interface{})
	if second["error_code"] != "DATA_UNAVAILABLE" {
		t.Errorf("expected DATA_UNAVAILABLE for MISSING, got %v", second["error_code"])
	}

	// Step 2: Fetch the committed record — monthly payer, 5% yield
	rec = app.request("GET", "/api/v1/assets/O", "")
	result = app.mustStatus(t, rec, http.StatusOK)
	asset := result["asset"].(map[string]interface{})
	if asset["cadence"] != "monthly" {
		t.Errorf("expected monthly cadence, got %v", asset["cadence"])
	}
	if asset["annual_yield"].(float64) != 5.0 {
		t.Errorf("expected yield 5.00, got %v", asset["annual_yield"])
	}
	if asset["payment_count_12mo"].(float64) != 12 {
		t.Errorf("expected 12 payments, got %v", asset["payment_count_12mo"])
	}

	// Step 3: Failed ticker left no record
	rec = app.request("GET", "/api/v1/assets/MISSING", "")
	app.mustStatus(t, rec, http.StatusNotFound)

	// Step 4: Tag with platforms
	rec = app.request("PUT", "/api/v1/assets/O/platforms", `{"platforms":["ibkr"]}`)
	result = app.mustStatus(t, rec, http.StatusOK)
	asset = result["asset"].(map[string]interface{})
	if asset["platforms"] != "IBKR" {
		t.Errorf("expected IBKR tag, got %v", asset["platforms"])
	}

	// Step 5: Rescan with a new price — record replaced, tags preserved
	app.Provider.set("O", monthlyPayer("O", 5000, 25))
	rec = app.request("POST", "/api/v1/scan", `{"tickers":["O"]}`)
	app.mustStatus(t, rec, http.StatusOK)

	rec = app.request("GET", "/api/v1/assets/O", "")
	result = app.mustStatus(t, rec, http.StatusOK)
	asset = result["asset"].(map[string]interface{})
	if asset["price_cents"].(float64) != 5000 {
		t.Errorf("expected refreshed price 5000, got %v", asset["price_cents"])
	}
	if asset["annual_yield"].(float64) != 6.0 {
		t.Errorf("expected refreshed yield 6.00, got %v", asset["annual_yield"])
	}
	if asset["platforms"] != "IBKR" {
		t.Errorf("expected platform tags to survive rescan, got %v", asset["platforms"])
	}

	// Step 6: List with a yield floor
	rec = app.request("GET", "/api/v1/assets?min_yield=5.5", "")
	result = app.mustStatus(t, rec, http.StatusOK)
	if result["total_items"].(float64) != 1 {
		t.Errorf("expected 1 asset above 5.5%%, got %v", result["total_items"])
	}

	// Step 7: Stats
	rec = app.request("GET", "/api/v1/assets/stats", "")
	result = app.mustStatus(t, rec, http.StatusOK)
	stats := result["stats"].(map[string]interface{})
	if stats["total_assets"].(float64) != 1 {
		t.Errorf("expected 1 asset in stats, got %v", stats["total_assets"])
	}

	// Step 8: Delete
	rec = app.request("DELETE", "/api/v1/assets/O", "")
	app.mustStatus(t, rec, http.StatusOK)

	rec = app.request("GET", "/api/v1/assets/O", "")
	app.mustStatus(t, rec, http.StatusNotFound)
}

func TestScanFlow_AllFailuresReturn502(t *testing.T) {
	app := setupApp(t)

	rec := app.request("POST", "/api/v1/scan", `{"tickers":["NOPE"]}`)
	app.mustStatus(t, rec, http.StatusBadGateway)
}
