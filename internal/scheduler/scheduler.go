// Package scheduler runs the saved-search pollers on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/amishk599/jobdash/internal/model"
	"github.com/amishk599/jobdash/internal/poller"
)

// cleanupSpec is when old seen records are pruned.
const cleanupSpec = "@daily"

// Scheduler wraps robfig/cron and runs every poller sequentially on each tick.
type Scheduler struct {
	pollers      []*poller.SearchPoller
	spec         string // cron spec, e.g. "@every 15m" or "*/30 * * * *"
	store        model.JobStore
	cleanupAfter time.Duration
	logger       *slog.Logger
}

// NewScheduler creates a scheduler for pollers. When cleanupAfter is positive,
// seen records older than it are pruned daily from store.
func NewScheduler(pollers []*poller.SearchPoller, spec string, store model.JobStore, cleanupAfter time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		pollers:      pollers,
		spec:         spec,
		store:        store,
		cleanupAfter: cleanupAfter,
		logger:       logger,
	}
}

// Run runs one immediate poll cycle, then polls on the cron schedule until ctx
// is cancelled. It returns nil on graceful shutdown, after any running cycle
// has finished.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(
		cron.WithLogger(cronLogger{s.logger}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{s.logger})),
	)

	if _, err := c.AddFunc(s.spec, func() { s.pollAll(ctx) }); err != nil {
		return fmt.Errorf("scheduling %q: %w", s.spec, err)
	}
	if s.cleanupAfter > 0 && s.store != nil {
		if _, err := c.AddFunc(cleanupSpec, s.cleanup); err != nil {
			return fmt.Errorf("scheduling cleanup: %w", err)
		}
	}

	s.logger.Info("starting scheduler",
		"schedule", s.spec,
		"searches", len(s.pollers),
	)

	s.cleanup()
	s.pollAll(ctx)

	c.Start()
	<-ctx.Done()

	s.logger.Info("shutting down scheduler")
	<-c.Stop().Done()
	return nil
}

// pollAll runs Poll on each poller in order. One failing search does not stop
// the others.
func (s *Scheduler) pollAll(ctx context.Context) {
	for _, p := range s.pollers {
		if ctx.Err() != nil {
			return
		}
		if err := p.Poll(ctx); err != nil {
			s.logger.Error("poll failed",
				"search", p.Search.Name,
				"error", err,
			)
		}
	}
}

func (s *Scheduler) cleanup() {
	if s.cleanupAfter <= 0 || s.store == nil {
		return
	}
	if err := s.store.Cleanup(s.cleanupAfter); err != nil {
		s.logger.Error("cleanup failed", "error", err)
	}
}

// cronLogger adapts slog to cron.Logger. Cron's info chatter goes to debug.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}

// ValidateSpec reports whether spec is a cron expression or descriptor the
// scheduler accepts.
func ValidateSpec(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return nil
}
