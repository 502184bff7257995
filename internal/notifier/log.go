package notifier

import (
	"log/slog"

	"github.com/amishk599/jobdash/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes new job matches to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each job via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each job with its search, company, title, location, salary and URL.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(search string, jobs []model.Job) error {
	for _, j := range jobs {
		args := []any{
			"search", search,
			"id", j.ID,
			"company", j.CompanyName,
			"title", j.Title,
			"location", j.LocationLabel(),
		}
		if s := j.SalaryLabel(); s != "" {
			args = append(args, "salary", s)
		}
		if j.URL != "" {
			args = append(args, "url", j.URL)
		}
		if !j.ListedAt.IsZero() {
			args = append(args, "listed_at", j.ListedAt)
		}
		n.logger.Info("new job", args...)
	}
	return nil
}
