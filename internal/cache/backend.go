package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/jobdash/internal/model"
)

var _ model.Backend = (*CachedBackend)(nil)

// TTLs per endpoint. A zero TTL disables caching for that endpoint.
type TTLs struct {
	Search      time.Duration
	Job         time.Duration
	Suggestions time.Duration
	Options     time.Duration
}

// CachedBackend serves repeated reads from a Cache. Only successful
// responses are stored; cache failures are logged and fall through to the
// wrapped backend.
type CachedBackend struct {
	inner  model.Backend
	cache  Cache
	ttls   TTLs
	logger *slog.Logger
}

// NewCachedBackend wraps inner with a read-through cache.
func NewCachedBackend(inner model.Backend, c Cache, ttls TTLs, logger *slog.Logger) *CachedBackend {
	return &CachedBackend{inner: inner, cache: c, ttls: ttls, logger: logger}
}

func (b *CachedBackend) SearchJobs(ctx context.Context, q model.Query) (model.PageResult, error) {
	return through(ctx, b, "jobs:"+q.Encode(), b.ttls.Search, func() (model.PageResult, error) {
		return b.inner.SearchJobs(ctx, q)
	})
}

func (b *CachedBackend) GetJob(ctx context.Context, id string) (model.Job, error) {
	return through(ctx, b, "job:"+id, b.ttls.Job, func() (model.Job, error) {
		return b.inner.GetJob(ctx, id)
	})
}

func (b *CachedBackend) SuggestTitles(ctx context.Context, q string) ([]string, error) {
	key := "titles:" + strings.ToLower(strings.TrimSpace(q))
	return through(ctx, b, key, b.ttls.Suggestions, func() ([]string, error) {
		return b.inner.SuggestTitles(ctx, q)
	})
}

func (b *CachedBackend) SearchLocations(ctx context.Context, q string, k int) ([]model.LocationMatch, error) {
	key := "locations:" + strconv.Itoa(k) + ":" + strings.ToLower(strings.TrimSpace(q))
	return through(ctx, b, key, b.ttls.Suggestions, func() ([]model.LocationMatch, error) {
		return b.inner.SearchLocations(ctx, q, k)
	})
}

func (b *CachedBackend) FilterOptions(ctx context.Context) (model.FilterOptions, error) {
	return through(ctx, b, "options", b.ttls.Options, func() (model.FilterOptions, error) {
		return b.inner.FilterOptions(ctx)
	})
}

func through[T any](ctx context.Context, b *CachedBackend, key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	if ttl <= 0 {
		return fetch()
	}

	if raw, ok, err := b.cache.Get(ctx, key); err != nil {
		b.logger.Warn("cache read failed", "key", key, "error", err)
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			b.logger.Debug("cache hit", "key", key)
			return v, nil
		}
		b.logger.Warn("discarding undecodable cache entry", "key", key)
	}

	v, err := fetch()
	if err != nil {
		return v, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		b.logger.Warn("cache encode failed", "key", key, "error", err)
		return v, nil
	}
	if err := b.cache.Set(ctx, key, raw, ttl); err != nil {
		b.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return v, nil
}
