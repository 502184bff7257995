package notifier

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/amishk599/jobdash/internal/model"
)

func TestLogNotifier_Notify_zeroJobs(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))
	if err := n.Notify("s", nil); err != nil {
		t.Errorf("Notify(nil) = %v, want nil", err)
	}
	if err := n.Notify("s", []model.Job{}); err != nil {
		t.Errorf("Notify([]) = %v, want nil", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestLogNotifier_Notify_multipleJobs(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))
	jobs := []model.Job{
		{ID: "1", CompanyName: "Acme", Title: "Engineer", City: "Austin", URL: "https://example.com/1", ListedAt: time.Now().Add(-30 * time.Minute)},
		{ID: "2", CompanyName: "Beta", Title: "Developer", Country: "Mexico"},
	}
	if err := n.Notify("go-remote", jobs); err != nil {
		t.Errorf("Notify(jobs) = %v, want nil", err)
	}

	out := buf.String()
	if got := strings.Count(out, "msg=\"new job\""); got != 2 {
		t.Errorf("logged %d jobs, want 2:\n%s", got, out)
	}
	for _, want := range []string{"search=go-remote", "company=Acme", "location=Austin", "url=https://example.com/1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
