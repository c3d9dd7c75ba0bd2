// Package scheduler wires up the cron job that periodically rebuilds the
// schedule catalog snapshot.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Refresher rebuilds a cached view. *schedule.Catalog satisfies it through
// an adapter in main.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// RefresherFunc adapts a plain function to Refresher.
type RefresherFunc func(ctx context.Context) (int, error)

// Refresh implements Refresher.
func (f RefresherFunc) Refresh(ctx context.Context) (int, error) { return f(ctx) }

// Scheduler wraps robfig/cron and manages the refresh loop.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	spec      string // cron spec, e.g. "@every 5m"
}

// New creates a Scheduler that runs refresher on spec.
func New(refresher Refresher, spec string) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		refresher: refresher,
		spec:      spec,
	}
}

// Start registers the job and starts the scheduler. Also runs one refresh
// immediately so the cache is warm without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started, spec: %s", s.spec)

	go s.RunOnce(ctx)

	return nil
}

// Stop halts the cron and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[scheduler] Cron stopped")
}

// RunOnce performs a single refresh and logs the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) {
	n, err := s.refresher.Refresh(ctx)
	if err != nil {
		log.Printf("[scheduler] Catalog refresh error: %v", err)
		return
	}
	log.Printf("[scheduler] Catalog refreshed: %d open slot(s)", n)
}
