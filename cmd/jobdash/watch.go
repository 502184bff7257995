package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdash/internal/config"
	"github.com/amishk599/jobdash/internal/location"
	"github.com/amishk599/jobdash/internal/model"
	"github.com/amishk599/jobdash/internal/poller"
	"github.com/amishk599/jobdash/internal/query"
	"github.com/amishk599/jobdash/internal/scheduler"
	"github.com/amishk599/jobdash/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch saved searches and notify on new matches",
	Long:  "Re-runs every saved search (config watch.searches plus `jobdash searches add`) on the watch.schedule cron and notifies about jobs not seen before. Blocks until SIGINT/SIGTERM.",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Bool("once", false, "poll every search once and exit")
	watchCmd.Flags().Bool("dry-run", false, "poll once, print matches, do not mark as seen, then exit")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	once, _ := cmd.Flags().GetBool("once")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	st, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	searches := collectSearches(cfg, st, logger)
	if len(searches) == 0 {
		logger.Error("no saved searches to watch")
		os.Exit(1)
	}

	logger.Info("config loaded",
		"schedule", cfg.Watch.Schedule,
		"searches", len(searches),
		"max_age", cfg.Watch.MaxAge.String(),
		"notification", cfg.Notification.Type,
	)

	// In dry-run mode, use a NopStore so nothing is persisted.
	var seen model.JobStore = st
	if dryRun {
		logger.Info("dry-run mode enabled, no jobs will be marked as seen")
		seen = store.NewNopStore()
		once = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, closeBackend, err := buildBackend(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build backend", "error", err)
		os.Exit(1)
	}
	defer closeBackend()

	n := setupNotifier(cfg, &http.Client{Timeout: cfg.API.Timeout}, logger)
	resolver := location.NewResolver(b, logger)
	builder := query.NewBuilder(cfg.Search.PageSize)

	var pollers []*poller.SearchPoller
	for _, s := range searches {
		pollers = append(pollers, poller.NewSearchPoller(s, b, resolver, builder, seen, n, cfg.Watch.MaxAge, logger))
		logger.Info("registered saved search", "name", s.Name, "filters", describeFilters(s.Filters))
	}

	if once {
		for _, p := range pollers {
			if err := p.Poll(ctx); err != nil {
				logger.Error("poll failed", "search", p.Search.Name, "error", err)
			}
		}
		logger.Info("watch pass complete")
		return nil
	}

	sched := scheduler.NewScheduler(pollers, cfg.Watch.Schedule, seen, cfg.Watch.CleanupAfter, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}

// collectSearches merges config searches with stored ones. A stored search
// with the same name as a config search is ignored.
func collectSearches(cfg *config.Config, st appStore, logger *slog.Logger) []model.SavedSearch {
	searches := append([]model.SavedSearch(nil), cfg.Watch.Searches...)
	names := make(map[string]bool, len(searches))
	for _, s := range searches {
		names[s.Name] = true
	}

	stored, err := st.SavedSearches()
	if err != nil {
		logger.Warn("failed to load stored searches", "error", err)
		return searches
	}
	for _, s := range stored {
		if names[s.Name] {
			logger.Warn("stored search shadowed by config", "name", s.Name)
			continue
		}
		if err := s.Filters.Validate(); err != nil {
			logger.Warn("skipping invalid stored search", "name", s.Name, "error", err)
			continue
		}
		searches = append(searches, s)
		names[s.Name] = true
	}
	return searches
}
