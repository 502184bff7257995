package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amishk599/jobdash/internal/filter"
	"github.com/amishk599/jobdash/internal/location"
	"github.com/amishk599/jobdash/internal/model"
	"github.com/amishk599/jobdash/internal/query"
)

// SearchPoller owns the full poll pipeline for a single saved search:
// search → filter → freshness → dedup → notify → mark seen.
type SearchPoller struct {
	Search   model.SavedSearch
	searcher model.JobSearcher
	resolver *location.Resolver
	builder  *query.Builder
	store    model.JobStore
	notifier model.Notifier
	maxAge   time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewSearchPoller creates a poller wired with all its dependencies. maxAge of
// zero disables the freshness check.
func NewSearchPoller(
	search model.SavedSearch,
	searcher model.JobSearcher,
	resolver *location.Resolver,
	builder *query.Builder,
	store model.JobStore,
	notifier model.Notifier,
	maxAge time.Duration,
	logger *slog.Logger,
) *SearchPoller {
	return &SearchPoller{
		Search:   search,
		searcher: searcher,
		resolver: resolver,
		builder:  builder,
		store:    store,
		notifier: notifier,
		maxAge:   maxAge,
		logger:   logger,
		now:      time.Now,
	}
}

// Poll runs one poll cycle over the first page of newest results. On the first
// run for a search (nothing seen yet under its name) matches are recorded
// without notifying.
func (p *SearchPoller) Poll(ctx context.Context) error {
	name := p.Search.Name

	filters, err := p.Search.Filters.Normalize()
	if err != nil {
		return fmt.Errorf("polling %s: %w", name, err)
	}
	if filters.Resolved.IsZero() && filters.LocationText != "" {
		filters.Resolved = p.resolver.Resolve(ctx, filters.LocationText)
	}
	filters.Sort = model.SortRecent

	q := p.builder.Build(filters, 1)
	res, err := p.searcher.SearchJobs(ctx, q)
	if err != nil {
		return fmt.Errorf("polling %s: %w", name, err)
	}

	criteria, err := filter.FromQuery(q)
	if err != nil {
		return fmt.Errorf("polling %s: %w", name, err)
	}
	var matched []model.Job
	for _, job := range res.Items {
		if criteria.Match(job) {
			matched = append(matched, job)
		}
	}

	firstRun, err := p.store.IsEmpty(name)
	if err != nil {
		return fmt.Errorf("polling %s: checking store: %w", name, err)
	}
	if firstRun {
		for _, job := range matched {
			if err := p.store.MarkSeen(name, job.ID); err != nil {
				return fmt.Errorf("polling %s: seeding: %w", name, err)
			}
		}
		p.logger.Info("seeded saved search", "search", name, "jobs", len(matched))
		return nil
	}

	now := p.now()
	var newJobs []model.Job
	var stale int
	for _, job := range matched {
		seen, err := p.store.HasSeen(name, job.ID)
		if err != nil {
			return fmt.Errorf("polling %s: checking seen status: %w", name, err)
		}
		if seen {
			continue
		}
		if p.maxAge > 0 && !job.ListedAt.IsZero() && now.Sub(job.ListedAt) > p.maxAge {
			// Too old to be news; remember it so it is not re-checked.
			stale++
			if err := p.store.MarkSeen(name, job.ID); err != nil {
				return fmt.Errorf("polling %s: marking seen: %w", name, err)
			}
			continue
		}
		newJobs = append(newJobs, job)
	}

	if len(newJobs) > 0 {
		if err := p.notifier.Notify(name, newJobs); err != nil {
			return fmt.Errorf("polling %s: notifying: %w", name, err)
		}
	}

	for _, job := range newJobs {
		if err := p.store.MarkSeen(name, job.ID); err != nil {
			return fmt.Errorf("polling %s: marking seen: %w", name, err)
		}
	}

	p.logger.Info("polled saved search",
		"search", name,
		"fetched", len(res.Items),
		"matched", len(matched),
		"stale", stale,
		"new", len(newJobs),
	)

	return nil
}
