package backend

import (
	"errors"
	"strconv"
	"time"

	"github.com/amishk599/jobdash/internal/model"
)

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// isStatus reports whether err wraps an *model.HTTPError with the given code.
func isStatus(err error, code int) bool {
	var he *model.HTTPError
	return errors.As(err, &he) && he.StatusCode == code
}
