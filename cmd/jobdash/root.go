package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobdash/internal/backend"
	"github.com/amishk599/jobdash/internal/board"
	"github.com/amishk599/jobdash/internal/cache"
	"github.com/amishk599/jobdash/internal/config"
	"github.com/amishk599/jobdash/internal/model"
	"github.com/amishk599/jobdash/internal/notifier"
	"github.com/amishk599/jobdash/internal/ratelimit"
	"github.com/amishk599/jobdash/internal/retry"
	"github.com/amishk599/jobdash/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobdash",
	Short: "Search and browse job listings from the terminal",
	Long:  "jobdash searches a job-board API with debounced filters, autocomplete and deep links, and watches saved searches for new matches.",
	// Default to `browse` so that `jobdash` with no args opens the board.
	RunE:         runBrowse,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBDASH_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	registerBrowseFlags(rootCmd)
}

// loadConfig resolves the config path and parses it. A .env file in the
// working directory is loaded first so ${VARS} in the config can use it.
// Priority: explicit path arg > JOBDASH_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if path == "" {
		if env := os.Getenv("JOBDASH_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// setupFileLogger is for the full-screen UI, where anything written to the
// terminal corrupts the display. An empty path discards logs.
func setupFileLogger(path string, dbg bool) (*slog.Logger, func(), error) {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel}))
	return logger, func() { f.Close() }, nil
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// buildBackend assembles client -> rate limit -> retry -> cache. The returned
// func releases the cache connection.
func buildBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (model.Backend, func(), error) {
	httpClient := &http.Client{Timeout: cfg.API.Timeout}

	var b model.Backend = backend.NewClient(cfg.API.BaseURL, cfg.API.Token, httpClient, logger)

	limiter := ratelimit.NewEndpointLimiter(cfg.RateLimit.MinDelay)
	for endpoint, d := range cfg.RateLimit.EndpointOverrides {
		limiter.SetDelay(endpoint, d)
	}
	b = ratelimit.NewLimitedBackend(b, limiter)
	b = retry.NewRetryBackend(b, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger)

	var c cache.Cache
	closer := func() {}
	switch cfg.Cache.Backend {
	case "none":
		return b, closer, nil
	case "redis":
		rdb, err := cache.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		rc := cache.NewRedisCache(rdb, "jobdash:")
		c = rc
		closer = func() { rc.Close() }
		logger.Debug("using redis cache")
	default:
		c = cache.NewMemoryCache(cfg.Cache.MaxEntries)
	}

	ttls := cache.TTLs{
		Search:      cfg.Cache.Search,
		Job:         cfg.Cache.Job,
		Suggestions: cfg.Cache.Suggest,
		Options:     cfg.Cache.Options,
	}
	return cache.NewCachedBackend(b, c, ttls, logger), closer, nil
}

func engineConfig(cfg *config.Config) board.Config {
	ec := board.DefaultConfig()
	ec.PageSize = cfg.Search.PageSize
	ec.FetchSettle = cfg.Search.FetchSettle
	ec.SuggestSettle = cfg.Search.SuggestSettle
	ec.RequestTimeout = cfg.API.Timeout
	ec.LocationSuggestions = cfg.Search.LocationSuggestions
	return ec
}

// appStore is the persistence surface the commands use.
type appStore interface {
	model.JobStore
	model.Bookmarks
	model.FilterMemory
	SavedSearches() ([]model.SavedSearch, error)
	SaveSearch(search model.SavedSearch) error
	DeleteSearch(name string) error
	Close() error
}

// openStore opens the SQLite store, or a NopStore when no path is configured.
func openStore(cfg *config.Config) (appStore, error) {
	if cfg.Store.Path == "" {
		return store.NewNopStore(), nil
	}
	s, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return s, nil
}
