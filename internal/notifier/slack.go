package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/amishk599/jobdash/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

// defaultPause spaces consecutive webhook posts (Slack allows ~1 msg/s).
const defaultPause = 500 * time.Millisecond

// SlackNotifier sends job alerts to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
	pause      time.Duration
}

// NewSlackNotifier returns a notifier that posts each job to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
		pause:      defaultPause,
	}
}

// Notify sends each job as a separate Slack message using Block Kit.
// Returns an error only if ALL messages fail. Individual failures are logged.
func (s *SlackNotifier) Notify(search string, jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	failures := 0
	for i, j := range jobs {
		if i > 0 && s.pause > 0 {
			time.Sleep(s.pause)
		}

		if err := s.sendMessage(search, j); err != nil {
			s.logger.Error("slack notification failed", "search", search, "job_id", j.ID, "title", j.Title, "error", err)
			failures++
		}
	}

	sent := len(jobs) - failures
	if failures == len(jobs) {
		return fmt.Errorf("all %d slack notifications failed", failures)
	}
	s.logger.Info("slack notifications complete", "search", search, "sent", sent, "failed", failures)
	return nil
}

func (s *SlackNotifier) sendMessage(search string, j model.Job) error {
	body, err := json.Marshal(buildPayload(search, j))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	status, retryAfter, err := s.post(body)
	if err != nil {
		return err
	}

	if status == http.StatusTooManyRequests {
		s.logger.Warn("slack rate limited, retrying", "retry_after", retryAfter)
		time.Sleep(retryAfter)

		status, _, err = s.post(body)
		if err != nil {
			return fmt.Errorf("retry: %w", err)
		}
		if status != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", status)
		}
		s.logger.Debug("slack message sent", "job_id", j.ID, "retried", true)
		return nil
	}

	if status != http.StatusOK {
		return fmt.Errorf("slack returned %d", status)
	}
	s.logger.Debug("slack message sent", "job_id", j.ID)
	return nil
}

// post sends one payload and reports the status and the Retry-After delay
// (at least one second) for 429 responses.
func (s *SlackNotifier) post(body []byte) (int, time.Duration, error) {
	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
	if secs <= 0 {
		secs = 1
	}
	return resp.StatusCode, time.Duration(secs) * time.Second, nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string     `json:"type"`
	Text  *slackText `json:"text,omitempty"`
	URL   string     `json:"url,omitempty"`
	Style string     `json:"style,omitempty"`
}

// SendTestMessage sends a dummy job notification to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	salary := 120000.0
	testJob := model.Job{
		ID:          "test-001",
		Title:       "Test Notification: Integration Verified",
		CompanyName: "jobdash",
		Country:     "Everywhere",
		SalaryMin:   &salary,
		Currency:    "USD",
		PayPeriod:   "YEARLY",
		Modality:    model.ModalityRemote,
		WorkType:    model.WorkTypeFullTime,
		ListedAt:    time.Now(),
		URL:         "https://example.com/jobs/test-001",
	}
	return n.Notify("test", []model.Job{testJob})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func buildPayload(search string, j model.Job) slackPayload {
	listedText := "Just detected"
	if !j.ListedAt.IsZero() {
		listedText = j.ListedAt.UTC().Format(time.RFC1123)
	}

	modality := ""
	if j.Modality != model.ModalityAny {
		modality = j.Modality.Label()
	}
	workType := ""
	if j.WorkType != model.WorkTypeAny {
		workType = j.WorkType.Label()
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "🚀 " + orDash(j.CompanyName) + ": " + j.Title},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Company:*\n" + orDash(j.CompanyName)},
				{Type: "mrkdwn", Text: "*Location:*\n" + orDash(j.LocationLabel())},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Salary:*\n" + orDash(j.SalaryLabel())},
				{Type: "mrkdwn", Text: "*Listed:*\n" + listedText},
				{Type: "mrkdwn", Text: "*Modality:*\n" + orDash(modality)},
				{Type: "mrkdwn", Text: "*Type:*\n" + orDash(workType)},
			},
		},
		{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "Matched saved search *" + search + "*"},
		},
	}

	if j.URL != "" {
		blocks = append(blocks, slackBlock{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:  "button",
					Text:  &slackText{Type: "plain_text", Text: "Apply Now"},
					URL:   j.URL,
					Style: "primary",
				},
			},
		})
	}
	blocks = append(blocks, slackBlock{Type: "divider"})

	return slackPayload{Blocks: blocks}
}
