// Command scan analyzes tickers from the command line or a symbol file
// and writes the results to the configured database.
//
//	scan O MAIN STAG
//	scan -file symbols.csv
//	scan -all
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"divscout/internal/config"
	"divscout/internal/database"
	"divscout/internal/dividend"
	"divscout/internal/importer"
	"divscout/internal/logger"
	"divscout/internal/marketdata"
	"divscout/internal/metrics"
	"divscout/internal/models"
	"divscout/internal/scanner"
	"divscout/internal/services"
)

func main() {
	file := flag.String("file", "", "path to a symbol list (plain or CSV with a Symbol column)")
	all := flag.Bool("all", false, "rescan every ticker already in the database")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall run timeout")
	flag.Parse()

	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		log.Errorf("failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer func() { _ = dbManager.Close() }()
	if err := dbManager.Migrate(); err != nil {
		log.Errorf("failed to run migrations: %v", err)
		os.Exit(1)
	}

	assetService := services.NewAssetService(dbManager.DB())

	tickers, err := resolveTickers(flag.Args(), *file, *all, assetService)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if len(tickers) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to scan: pass tickers, -file, or -all")
		os.Exit(1)
	}

	provider := marketdata.NewCached(marketdata.NewYahooProvider(http.DefaultClient), appConfig.QuoteCacheTTL)
	classifier := dividend.NewClassifier(appConfig.GapBands)
	runner := scanner.NewRunner(provider, assetService, classifier, metrics.NewManager(), appConfig.ScanWorkers, logger.Named("scanner"))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	run := runner.Run(ctx, tickers)

	for _, res := range run.Results {
		if res.Err != nil {
			fmt.Printf("%-10s ERROR  %v\n", res.Ticker, res.Err)
			continue
		}
		fmt.Printf("%-10s %-10s yield=%.2f%% payments=%d\n",
			res.Ticker, res.Asset.Cadence, res.Asset.AnnualYield, res.Asset.PaymentCount)
	}
	fmt.Printf("\n%d succeeded, %d failed in %s\n", run.Succeeded, run.Failed, run.Duration.Round(time.Millisecond))

	if run.Failed > 0 {
		os.Exit(2)
	}
}

// resolveTickers merges the three input sources: positional args, a symbol
// file, and the stored ticker set.
func resolveTickers(args []string, file string, all bool, assets services.AssetServicer) ([]string, error) {
	tickers := append([]string(nil), args...)

	if file != "" {
		result, err := importer.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		for _, skipped := range result.Skipped {
			fmt.Fprintf(os.Stderr, "skipping invalid symbol %q\n", skipped)
		}
		tickers = append(tickers, result.Symbols...)
	}

	if all {
		stored, err := assets.ListTickers()
		if err != nil {
			return nil, fmt.Errorf("listing stored tickers: %w", err)
		}
		tickers = append(tickers, stored...)
	}

	return dedupe(tickers), nil
}

func dedupe(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		norm := models.NormalizeTicker(t)
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
	}
	return out
}
