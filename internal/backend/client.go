// Package backend is the REST client for the job-board API consumed by the
// search engine. All response-shape quirks are absorbed here.
package backend

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/amishk599/jobdash/internal/model"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

var _ model.Backend = (*Client)(nil)

// Client talks to the job-board REST API rooted at baseURL
// (e.g. http://localhost:8000/api).
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a client. token is optional; when set it is sent as a
// bearer token on every request.
func NewClient(baseURL, token string, client *http.Client, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
		logger:  logger,
	}
}

// SearchJobs runs GET /jobs with the given query.
func (c *Client) SearchJobs(ctx context.Context, q model.Query) (model.PageResult, error) {
	body, err := c.getJSON(ctx, "search jobs", "/jobs", q.Values())
	if err != nil {
		return model.PageResult{}, err
	}
	page, err := decodePage(body, q)
	if err != nil {
		return model.PageResult{}, &model.NetworkError{Op: "search jobs", Err: err}
	}
	return page, nil
}

// GetJob runs GET /jobs/:id. A 404 or an empty body yields *model.NotFoundError.
func (c *Client) GetJob(ctx context.Context, id string) (model.Job, error) {
	body, err := c.getJSON(ctx, "get job", "/jobs/"+url.PathEscape(id), nil)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return model.Job{}, &model.NotFoundError{ID: id}
		}
		return model.Job{}, err
	}
	job, err := decodeJob(body)
	if err != nil {
		return model.Job{}, &model.NetworkError{Op: "get job", Err: err}
	}
	if job.ID == "" {
		return model.Job{}, &model.NotFoundError{ID: id}
	}
	return job, nil
}

// SuggestTitles runs GET /jobs/recommendations/titles?q=.
func (c *Client) SuggestTitles(ctx context.Context, q string) ([]string, error) {
	body, err := c.getJSON(ctx, "suggest titles", "/jobs/recommendations/titles", url.Values{"q": {q}})
	if err != nil {
		return nil, err
	}
	out, err := decodeSuggestions(body)
	if err != nil {
		return nil, &model.NetworkError{Op: "suggest titles", Err: err}
	}
	return out, nil
}

// SearchLocations runs GET /locations/search?q=&k=.
func (c *Client) SearchLocations(ctx context.Context, q string, k int) ([]model.LocationMatch, error) {
	params := url.Values{"q": {q}, "k": {strconv.Itoa(k)}}
	body, err := c.getJSON(ctx, "search locations", "/locations/search", params)
	if err != nil {
		return nil, err
	}
	out, err := decodeLocations(body)
	if err != nil {
		return nil, &model.NetworkError{Op: "search locations", Err: err}
	}
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// FilterOptions runs GET /jobs/filters/options.
func (c *Client) FilterOptions(ctx context.Context) (model.FilterOptions, error) {
	body, err := c.getJSON(ctx, "filter options", "/jobs/filters/options", nil)
	if err != nil {
		return model.FilterOptions{}, err
	}
	opts, err := decodeFilterOptions(body)
	if err != nil {
		return model.FilterOptions{}, &model.NetworkError{Op: "filter options", Err: err}
	}
	return opts, nil
}

// getJSON performs a GET and returns the body of a 200 response. Failures are
// returned as *model.NetworkError; non-200 statuses wrap *model.HTTPError.
func (c *Client) getJSON(ctx context.Context, op, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &model.NetworkError{Op: op, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("backend request", "op", op, "url", u, "request_id", reqID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &model.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &model.NetworkError{Op: op, Err: &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("unexpected status for %s", path),
		}}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &model.NetworkError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}
