// Package scheduler runs periodic rescans of every stored ticker.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"divscout/internal/scanner"
	"divscout/internal/services"
)

// rescanTimeout bounds one full scheduled rescan.
const rescanTimeout = 30 * time.Minute

// Scheduler triggers full rescans on a cron spec. Overlapping runs are
// skipped so a slow rescan never stacks behind the next trigger.
type Scheduler struct {
	engine *cron.Cron
	runner *scanner.Runner
	assets services.AssetServicer
	spec   string
	logger *zap.SugaredLogger
}

// New creates a rescan scheduler with a standard 5-field cron spec.
func New(runner *scanner.Runner, assets services.AssetServicer, spec string, logger *zap.SugaredLogger) *Scheduler {
	return &Scheduler{
		engine: cron.New(),
		runner: runner,
		assets: assets,
		spec:   spec,
		logger: logger,
	}
}

// Start registers the rescan job and starts the cron engine.
func (s *Scheduler) Start() error {
	_, err := s.engine.AddJob(s.spec, cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(s.rescan)))
	if err != nil {
		return err
	}
	s.engine.Start()
	s.logger.Infow("rescan scheduler started", "spec", s.spec)
	return nil
}

// Stop stops the cron engine and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.engine.Stop()
	<-ctx.Done()
}

// rescan re-analyzes every stored ticker.
func (s *Scheduler) rescan() {
	tickers, err := s.assets.ListTickers()
	if err != nil {
		s.logger.Errorw("scheduled rescan could not list tickers", "error", err)
		return
	}
	if len(tickers) == 0 {
		s.logger.Debug("scheduled rescan found no stored tickers")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), rescanTimeout)
	defer cancel()

	run := s.runner.Run(ctx, tickers)
	s.logger.Infow("scheduled rescan finished",
		"tickers", len(tickers),
		"succeeded", run.Succeeded,
		"failed", run.Failed,
	)
}
