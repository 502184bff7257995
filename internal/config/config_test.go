package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/jobdash/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://jobs.example.com/api
  timeout: 5s
search:
  page_size: 10
  fetch_settle: 400ms
rate_limit:
  min_delay: 250ms
  endpoint_overrides:
    titles: 0s
cache:
  backend: redis
  redis_url: redis://localhost:6379/0
  ttl:
    search: 1m
watch:
  schedule: "*/30 * * * *"
  max_age: 12h
  searches:
    - name: go-remote
      filters:
        text: golang
        location: Mexico
        modality: remote
        min_salary: 40000
        posted_within_days: 7
notification:
  type: slack
  webhook_url: https://hooks.slack.com/services/T/B/X
serve:
  cors_origins: ["http://localhost:3000"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://jobs.example.com/api" || cfg.API.Timeout != 5*time.Second {
		t.Errorf("API = %+v", cfg.API)
	}
	if cfg.Search.PageSize != 10 || cfg.Search.FetchSettle != 400*time.Millisecond {
		t.Errorf("Search = %+v", cfg.Search)
	}
	if cfg.Search.SuggestSettle != 300*time.Millisecond {
		t.Errorf("SuggestSettle = %v, want default 300ms", cfg.Search.SuggestSettle)
	}
	if got := cfg.RateLimit.MinDelayFor("titles"); got != 0 {
		t.Errorf("MinDelayFor(titles) = %v, want 0", got)
	}
	if got := cfg.RateLimit.MinDelayFor("jobs"); got != 250*time.Millisecond {
		t.Errorf("MinDelayFor(jobs) = %v, want 250ms", got)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.Search != time.Minute || cfg.Cache.Job != 5*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Watch.MaxAge != 12*time.Hour {
		t.Errorf("MaxAge = %v", cfg.Watch.MaxAge)
	}
	if len(cfg.Watch.Searches) != 1 {
		t.Fatalf("Searches = %+v", cfg.Watch.Searches)
	}
	s := cfg.Watch.Searches[0]
	if s.Name != "go-remote" || s.Filters.Text != "golang" || s.Filters.LocationText != "Mexico" {
		t.Errorf("search = %+v", s)
	}
	if s.Filters.MinSalary == nil || *s.Filters.MinSalary != 40000 {
		t.Errorf("MinSalary = %v", s.Filters.MinSalary)
	}
	if len(cfg.Serve.CORSOrigins) != 1 {
		t.Errorf("CORSOrigins = %v", cfg.Serve.CORSOrigins)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != defaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Search.PageSize != 20 || cfg.Cache.Backend != "memory" || cfg.Notification.Type != "log" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if err := validate(cfg); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "api: [broken")); err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("JOBDASH_TEST_TOKEN", "s3cret")
	cfg, err := Load(writeConfig(t, "api:\n  token: ${JOBDASH_TEST_TOKEN}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Token != "s3cret" {
		t.Errorf("Token = %q, want expanded env var", cfg.API.Token)
	}
}

func TestLoad_ExplicitZeroRetries(t *testing.T) {
	cfg, err := Load(writeConfig(t, "retry:\n  max_retries: 0\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Retry.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.Retry.MaxRetries)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"relative base url", "api:\n  base_url: /api\n", "api.base_url"},
		{"bad duration", "api:\n  timeout: soon\n", "api.timeout"},
		{"page size too large", "search:\n  page_size: 500\n", "search.page_size"},
		{"unknown endpoint", "rate_limit:\n  endpoint_overrides:\n    moon: 1s\n", "unknown endpoint"},
		{"redis without url", "cache:\n  backend: redis\n", "cache.redis_url"},
		{"unknown cache", "cache:\n  backend: disk\n", "cache.backend"},
		{"bad schedule", "watch:\n  schedule: whenever\n", "watch.schedule"},
		{"unnamed search", "watch:\n  searches:\n    - filters:\n        text: go\n", "name is required"},
		{"duplicate search", "watch:\n  searches:\n    - name: a\n    - name: a\n", "duplicate"},
		{"bad search modality", "watch:\n  searches:\n    - name: a\n      filters:\n        modality: moon\n", "modality"},
		{"slack without webhook", "notification:\n  type: slack\n", "webhook_url is required"},
		{"slack bad webhook", "notification:\n  type: slack\n  webhook_url: https://example.com/hook\n", "must start with"},
		{"unknown notifier", "notification:\n  type: email\n", "notification.type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSavedSearchFiltersNormalize(t *testing.T) {
	cfg, err := Load(writeConfig(t, "watch:\n  searches:\n    - name: a\n      filters:\n        work_type: full-time\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f, err := cfg.Watch.Searches[0].Filters.Normalize()
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if f.WorkType != model.WorkTypeFullTime {
		t.Errorf("WorkType = %q", f.WorkType)
	}
}
