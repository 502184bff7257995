// Package ratelimit spaces out backend requests per endpoint.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amishk599/jobdash/internal/model"
)

// Endpoint keys used by LimitedBackend.
const (
	EndpointSearch    = "jobs"
	EndpointJob       = "job"
	EndpointTitles    = "titles"
	EndpointLocations = "locations"
	EndpointOptions   = "options"
)

// EndpointLimiter enforces a minimum delay between requests to the same endpoint.
type EndpointLimiter struct {
	mu        sync.Mutex
	lastCall  map[string]time.Time // key: endpoint
	minDelay  time.Duration
	overrides map[string]time.Duration
}

// NewEndpointLimiter creates a limiter that enforces minDelay between
// consecutive requests to the same endpoint. A zero delay never blocks.
func NewEndpointLimiter(minDelay time.Duration) *EndpointLimiter {
	return &EndpointLimiter{
		lastCall:  make(map[string]time.Time),
		minDelay:  minDelay,
		overrides: make(map[string]time.Duration),
	}
}

// SetDelay overrides the minimum delay for one endpoint.
func (r *EndpointLimiter) SetDelay(endpoint string, d time.Duration) {
	r.mu.Lock()
	r.overrides[endpoint] = d
	r.mu.Unlock()
}

func (r *EndpointLimiter) delayFor(endpoint string) time.Duration {
	if d, ok := r.overrides[endpoint]; ok {
		return d
	}
	return r.minDelay
}

// Wait blocks until enough time has passed since the last request to endpoint.
// Returns an error if the context is cancelled while waiting.
func (r *EndpointLimiter) Wait(ctx context.Context, endpoint string) error {
	r.mu.Lock()
	last, ok := r.lastCall[endpoint]
	now := time.Now()
	delay := r.delayFor(endpoint)

	if !ok || now.Sub(last) >= delay {
		r.lastCall[endpoint] = now
		r.mu.Unlock()
		return nil
	}

	// Reserve the next slot before releasing the lock so concurrent callers
	// queue behind each other instead of all waking at once.
	next := last.Add(delay)
	r.lastCall[endpoint] = next
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", endpoint, ctx.Err())
	case <-time.After(time.Until(next)):
	}
	return nil
}

var _ model.Backend = (*LimitedBackend)(nil)

// LimitedBackend waits on the limiter before delegating each call.
type LimitedBackend struct {
	inner   model.Backend
	limiter *EndpointLimiter
}

// NewLimitedBackend wraps a Backend with per-endpoint rate limiting.
func NewLimitedBackend(inner model.Backend, limiter *EndpointLimiter) *LimitedBackend {
	return &LimitedBackend{inner: inner, limiter: limiter}
}

func (b *LimitedBackend) SearchJobs(ctx context.Context, q model.Query) (model.PageResult, error) {
	if err := b.limiter.Wait(ctx, EndpointSearch); err != nil {
		return model.PageResult{}, err
	}
	return b.inner.SearchJobs(ctx, q)
}

func (b *LimitedBackend) GetJob(ctx context.Context, id string) (model.Job, error) {
	if err := b.limiter.Wait(ctx, EndpointJob); err != nil {
		return model.Job{}, err
	}
	return b.inner.GetJob(ctx, id)
}

func (b *LimitedBackend) SuggestTitles(ctx context.Context, q string) ([]string, error) {
	if err := b.limiter.Wait(ctx, EndpointTitles); err != nil {
		return nil, err
	}
	return b.inner.SuggestTitles(ctx, q)
}

func (b *LimitedBackend) SearchLocations(ctx context.Context, q string, k int) ([]model.LocationMatch, error) {
	if err := b.limiter.Wait(ctx, EndpointLocations); err != nil {
		return nil, err
	}
	return b.inner.SearchLocations(ctx, q, k)
}

func (b *LimitedBackend) FilterOptions(ctx context.Context) (model.FilterOptions, error) {
	if err := b.limiter.Wait(ctx, EndpointOptions); err != nil {
		return model.FilterOptions{}, err
	}
	return b.inner.FilterOptions(ctx)
}
