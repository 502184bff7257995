package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/jobdash/internal/model"
	"github.com/amishk599/jobdash/internal/ratelimit"
	"github.com/amishk599/jobdash/internal/scheduler"
)

// Config is the root configuration for jobdash.
type Config struct {
	API          APIConfig
	Search       SearchConfig
	RateLimit    RateLimitConfig
	Retry        RetryConfig
	Cache        CacheConfig
	Store        StoreConfig
	Watch        WatchConfig
	Notification NotificationConfig
	Serve        ServeConfig
	LogFile      string // browse screen log destination; empty discards
}

// APIConfig locates the job-board backend.
type APIConfig struct {
	BaseURL string
	Token   string // expanded from env var by Load
	Timeout time.Duration
}

// SearchConfig tunes the browse engine.
type SearchConfig struct {
	PageSize            int
	FetchSettle         time.Duration
	SuggestSettle       time.Duration
	LocationSuggestions int
}

// RateLimitConfig controls per-endpoint request spacing.
type RateLimitConfig struct {
	MinDelay          time.Duration            // minimum gap between requests to the same endpoint
	EndpointOverrides map[string]time.Duration // keyed by ratelimit.Endpoint* names
}

// MinDelayFor returns the configured delay for the given endpoint, falling back to MinDelay.
func (r RateLimitConfig) MinDelayFor(endpoint string) time.Duration {
	if d, ok := r.EndpointOverrides[endpoint]; ok {
		return d
	}
	return r.MinDelay
}

// RetryConfig controls backoff for transient backend failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// CacheConfig selects the response cache.
type CacheConfig struct {
	Backend    string // "memory", "redis" or "none"
	RedisURL   string
	MaxEntries int
	Search     time.Duration
	Job        time.Duration
	Suggest    time.Duration
	Options    time.Duration
}

// StoreConfig locates the local SQLite database.
type StoreConfig struct {
	Path string
}

// WatchConfig drives the saved-search watcher.
type WatchConfig struct {
	Schedule     string        // cron spec or descriptor, e.g. "@every 15m"
	MaxAge       time.Duration // listings older than this are not announced
	CleanupAfter time.Duration // seen records older than this are pruned
	Searches     []model.SavedSearch
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// ServeConfig configures the fixture backend.
type ServeConfig struct {
	Addr        string
	Fixtures    string
	CORSOrigins []string
}

const (
	defaultBaseURL  = "http://localhost:8000/api"
	defaultStore    = "jobdash.db"
	defaultSchedule = "@every 15m"
	slackPrefix     = "https://hooks.slack.com/"
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: defaultBaseURL,
			Timeout: 15 * time.Second,
		},
		Search: SearchConfig{
			PageSize:            20,
			FetchSettle:         550 * time.Millisecond,
			SuggestSettle:       300 * time.Millisecond,
			LocationSuggestions: 5,
		},
		RateLimit: RateLimitConfig{
			MinDelay:          100 * time.Millisecond,
			EndpointOverrides: map[string]time.Duration{},
		},
		Retry: RetryConfig{
			MaxRetries: 2,
			BaseDelay:  500 * time.Millisecond,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			MaxEntries: 512,
			Search:     30 * time.Second,
			Job:        5 * time.Minute,
			Suggest:    2 * time.Minute,
			Options:    time.Hour,
		},
		Store: StoreConfig{Path: defaultStore},
		Watch: WatchConfig{
			Schedule:     defaultSchedule,
			MaxAge:       24 * time.Hour,
			CleanupAfter: 30 * 24 * time.Hour,
		},
		Notification: NotificationConfig{Type: "log"},
		Serve: ServeConfig{
			Addr:     ":8000",
			Fixtures: "fixtures.yaml",
		},
	}
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	API          rawAPIConfig       `yaml:"api"`
	Search       rawSearchConfig    `yaml:"search"`
	RateLimit    rawRateLimitConfig `yaml:"rate_limit"`
	Retry        rawRetryConfig     `yaml:"retry"`
	Cache        rawCacheConfig     `yaml:"cache"`
	Store        rawStoreConfig     `yaml:"store"`
	Watch        rawWatchConfig     `yaml:"watch"`
	Notification NotificationConfig `yaml:"notification"`
	Serve        rawServeConfig     `yaml:"serve"`
	LogFile      string             `yaml:"log_file"`
}

type rawAPIConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	Timeout string `yaml:"timeout"`
}

type rawSearchConfig struct {
	PageSize            int    `yaml:"page_size"`
	FetchSettle         string `yaml:"fetch_settle"`
	SuggestSettle       string `yaml:"suggest_settle"`
	LocationSuggestions int    `yaml:"location_suggestions"`
}

type rawRateLimitConfig struct {
	MinDelay          string            `yaml:"min_delay"`
	EndpointOverrides map[string]string `yaml:"endpoint_overrides"`
}

type rawRetryConfig struct {
	MaxRetries *int   `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

type rawCacheConfig struct {
	Backend    string `yaml:"backend"`
	RedisURL   string `yaml:"redis_url"`
	MaxEntries int    `yaml:"max_entries"`
	TTL        struct {
		Search  string `yaml:"search"`
		Job     string `yaml:"job"`
		Suggest string `yaml:"suggestions"`
		Options string `yaml:"options"`
	} `yaml:"ttl"`
}

type rawStoreConfig struct {
	Path string `yaml:"path"`
}

type rawWatchConfig struct {
	Schedule     string              `yaml:"schedule"`
	MaxAge       string              `yaml:"max_age"`
	CleanupAfter string              `yaml:"cleanup_after"`
	Searches     []model.SavedSearch `yaml:"searches"`
}

type rawServeConfig struct {
	Addr        string   `yaml:"addr"`
	Fixtures    string   `yaml:"fixtures"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Load reads and parses the YAML config file at path, validates it, and
// returns Config. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse builds a Config from YAML bytes, expanding ${ENV} references and
// applying defaults for anything unset.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := Default()
	var err error

	if raw.API.BaseURL != "" {
		cfg.API.BaseURL = raw.API.BaseURL
	}
	cfg.API.Token = raw.API.Token
	if cfg.API.Timeout, err = duration("api.timeout", raw.API.Timeout, cfg.API.Timeout); err != nil {
		return nil, err
	}

	if raw.Search.PageSize != 0 {
		cfg.Search.PageSize = raw.Search.PageSize
	}
	if raw.Search.LocationSuggestions != 0 {
		cfg.Search.LocationSuggestions = raw.Search.LocationSuggestions
	}
	if cfg.Search.FetchSettle, err = duration("search.fetch_settle", raw.Search.FetchSettle, cfg.Search.FetchSettle); err != nil {
		return nil, err
	}
	if cfg.Search.SuggestSettle, err = duration("search.suggest_settle", raw.Search.SuggestSettle, cfg.Search.SuggestSettle); err != nil {
		return nil, err
	}

	if cfg.RateLimit.MinDelay, err = duration("rate_limit.min_delay", raw.RateLimit.MinDelay, cfg.RateLimit.MinDelay); err != nil {
		return nil, err
	}
	for endpoint, s := range raw.RateLimit.EndpointOverrides {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.endpoint_overrides[%q]: %w", endpoint, err)
		}
		cfg.RateLimit.EndpointOverrides[endpoint] = d
	}

	if raw.Retry.MaxRetries != nil {
		cfg.Retry.MaxRetries = *raw.Retry.MaxRetries
	}
	if cfg.Retry.BaseDelay, err = duration("retry.base_delay", raw.Retry.BaseDelay, cfg.Retry.BaseDelay); err != nil {
		return nil, err
	}

	if raw.Cache.Backend != "" {
		cfg.Cache.Backend = strings.ToLower(raw.Cache.Backend)
	}
	cfg.Cache.RedisURL = raw.Cache.RedisURL
	if raw.Cache.MaxEntries != 0 {
		cfg.Cache.MaxEntries = raw.Cache.MaxEntries
	}
	if cfg.Cache.Search, err = duration("cache.ttl.search", raw.Cache.TTL.Search, cfg.Cache.Search); err != nil {
		return nil, err
	}
	if cfg.Cache.Job, err = duration("cache.ttl.job", raw.Cache.TTL.Job, cfg.Cache.Job); err != nil {
		return nil, err
	}
	if cfg.Cache.Suggest, err = duration("cache.ttl.suggestions", raw.Cache.TTL.Suggest, cfg.Cache.Suggest); err != nil {
		return nil, err
	}
	if cfg.Cache.Options, err = duration("cache.ttl.options", raw.Cache.TTL.Options, cfg.Cache.Options); err != nil {
		return nil, err
	}

	if raw.Store.Path != "" {
		cfg.Store.Path = raw.Store.Path
	}

	if raw.Watch.Schedule != "" {
		cfg.Watch.Schedule = raw.Watch.Schedule
	}
	if cfg.Watch.MaxAge, err = duration("watch.max_age", raw.Watch.MaxAge, cfg.Watch.MaxAge); err != nil {
		return nil, err
	}
	if cfg.Watch.CleanupAfter, err = duration("watch.cleanup_after", raw.Watch.CleanupAfter, cfg.Watch.CleanupAfter); err != nil {
		return nil, err
	}
	cfg.Watch.Searches = raw.Watch.Searches

	if raw.Notification.Type != "" {
		cfg.Notification.Type = raw.Notification.Type
	}
	cfg.Notification.WebhookURL = raw.Notification.WebhookURL

	if raw.Serve.Addr != "" {
		cfg.Serve.Addr = raw.Serve.Addr
	}
	if raw.Serve.Fixtures != "" {
		cfg.Serve.Fixtures = raw.Serve.Fixtures
	}
	cfg.Serve.CORSOrigins = raw.Serve.CORSOrigins
	cfg.LogFile = raw.LogFile

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// duration parses s, returning def when s is empty.
func duration(field, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, s, err)
	}
	return d, nil
}

var knownEndpoints = map[string]bool{
	ratelimit.EndpointSearch:    true,
	ratelimit.EndpointJob:       true,
	ratelimit.EndpointTitles:    true,
	ratelimit.EndpointLocations: true,
	ratelimit.EndpointOptions:   true,
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %v", cfg.API.Timeout)
	}

	if cfg.Search.PageSize < 1 || cfg.Search.PageSize > 100 {
		return fmt.Errorf("search.page_size must be between 1 and 100, got %d", cfg.Search.PageSize)
	}
	if cfg.Search.FetchSettle < 0 || cfg.Search.SuggestSettle < 0 {
		return fmt.Errorf("search settle windows must not be negative")
	}
	if cfg.Search.LocationSuggestions < 1 {
		return fmt.Errorf("search.location_suggestions must be positive, got %d", cfg.Search.LocationSuggestions)
	}

	if cfg.RateLimit.MinDelay < 0 {
		return fmt.Errorf("rate_limit.min_delay must not be negative, got %v", cfg.RateLimit.MinDelay)
	}
	for endpoint := range cfg.RateLimit.EndpointOverrides {
		if !knownEndpoints[endpoint] {
			return fmt.Errorf("rate_limit.endpoint_overrides: unknown endpoint %q", endpoint)
		}
	}

	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", cfg.Retry.MaxRetries)
	}

	switch cfg.Cache.Backend {
	case "memory", "none":
	case "redis":
		if cfg.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redis_url is required when cache.backend is \"redis\"")
		}
	default:
		return fmt.Errorf("cache.backend must be memory, redis or none, got %q", cfg.Cache.Backend)
	}

	if err := scheduler.ValidateSpec(cfg.Watch.Schedule); err != nil {
		return fmt.Errorf("watch.schedule: %w", err)
	}
	names := make(map[string]bool)
	for i, s := range cfg.Watch.Searches {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("watch.searches[%d]: name is required", i)
		}
		if names[s.Name] {
			return fmt.Errorf("watch.searches: duplicate name %q", s.Name)
		}
		names[s.Name] = true
		if err := s.Filters.Validate(); err != nil {
			return fmt.Errorf("watch.searches[%q]: %w", s.Name, err)
		}
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, slackPrefix) {
			return fmt.Errorf("notification.webhook_url must start with %s", slackPrefix)
		}
	default:
		return fmt.Errorf("notification.type must be log or slack, got %q", cfg.Notification.Type)
	}

	return nil
}
