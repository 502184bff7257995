// Package location resolves free-text location input into structured
// geography using the backend's location suggestion service.
package location

import (
	"context"
	"log/slog"
	"strings"

	"github.com/amishk599/jobdash/internal/model"
)

// Resolver binds free text to a model.Location. Only the single best match is
// requested; anything finer than a country is passed through as a city so no
// state/city split is ever guessed.
type Resolver struct {
	suggester model.LocationSuggester
	logger    *slog.Logger
}

// NewResolver returns a resolver backed by suggester.
func NewResolver(suggester model.LocationSuggester, logger *slog.Logger) *Resolver {
	return &Resolver{suggester: suggester, logger: logger}
}

// Resolve never fails: lookup errors and empty results fall back to treating
// the whole text as a city filter. Blank input resolves to the zero Location.
func (r *Resolver) Resolve(ctx context.Context, text string) model.Location {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Location{}
	}

	matches, err := r.suggester.SearchLocations(ctx, text, 1)
	if err != nil {
		r.logger.Debug("location lookup failed, using city fallback", "text", text, "error", err)
		return model.Location{City: text}
	}
	if len(matches) == 0 {
		r.logger.Debug("no location match, using city fallback", "text", text)
		return model.Location{City: text}
	}

	best := matches[0]
	if best.Type == model.GranularityCountry && best.Country != "" {
		return model.Location{Country: best.Country}
	}
	return model.Location{City: text}
}

// FromMatch converts a suggestion the user explicitly picked into a
// Location. Unlike Resolve it keeps the structured fields the service
// returned, as long as they form a valid shape; otherwise only the city
// (or the country) is kept.
func FromMatch(m model.LocationMatch) model.Location {
	switch m.Type {
	case model.GranularityCountry:
		return model.Location{Country: m.Country}
	case model.GranularityState:
		if m.Country != "" && m.State != "" {
			return model.Location{Country: m.Country, State: m.State}
		}
	case model.GranularityCity:
		if m.Country != "" && m.State != "" && m.City != "" {
			return model.Location{Country: m.Country, State: m.State, City: m.City}
		}
	}
	if m.City != "" {
		return model.Location{City: m.City}
	}
	if m.Country != "" {
		return model.Location{Country: m.Country}
	}
	return model.Location{City: m.Label()}
}
