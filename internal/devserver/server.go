// Package devserver is a fixture-backed implementation of the job-board REST
// API. It is used by the serve command for local development and by
// end-to-end tests of the backend client and the board engine.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/amishk599/jobdash/internal/filter"
	"github.com/amishk599/jobdash/internal/model"
	"github.com/amishk599/jobdash/internal/query"
)

const (
	maxLimit        = 100
	maxTitles       = 10
	defaultK        = 5
	minSuggestRunes = 2
)

// Server answers the listing, detail, suggestion and filter-option endpoints
// from a Dataset.
type Server struct {
	data   *Dataset
	router *gin.Engine
	logger *slog.Logger
}

// NewServer builds the gin router. An empty origins list (or "*") allows
// every origin.
func NewServer(data *Dataset, origins []string, logger *slog.Logger) *Server {
	s := &Server{data: data, logger: logger}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(cors.New(corsConfig(origins)))

	router.GET("/health", s.health)

	api := router.Group("/api")
	{
		api.GET("/jobs", s.searchJobs)
		api.GET("/jobs/:id", s.getJob)
		api.GET("/jobs/recommendations/titles", s.suggestTitles)
		api.GET("/jobs/filters/options", s.filterOptions)
		api.GET("/locations/search", s.searchLocations)
	}

	s.router = router
	return s
}

// Handler returns the HTTP handler serving the API under /api.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("fixture server listening", "addr", addr, "jobs", len(s.data.Jobs))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("fixture server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down fixture server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("fixture server shutdown: %w", err)
	}
	return nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			origins = nil
			break
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetHeader("X-Request-ID"),
		)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, errorResponse{Error: msg, Code: code})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "jobs": len(s.data.Jobs)})
}

type pageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type pageResponse struct {
	Data []jobResponse `json:"data"`
	Meta pageMeta      `json:"meta"`
}

// searchJobs filters, sorts and paginates the catalogue. A page past the end
// returns no items with the real total so clients can clamp.
func (s *Server) searchJobs(c *gin.Context) {
	q := make(model.Query)
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			q[k] = v[0]
		}
	}

	criteria, err := filter.FromQuery(q)
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	page, err := positiveParam(q, query.ParamPage, 1)
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := positiveParam(q, query.ParamLimit, query.DefaultPageSize)
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	var matched []model.Job
	for _, j := range s.data.Jobs {
		if criteria.Match(j) {
			matched = append(matched, j)
		}
	}
	if err := sortJobs(matched, q[query.ParamSortBy], q[query.ParamSortDir]); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	total := len(matched)
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	data := make([]jobResponse, 0, end-start)
	for _, j := range matched[start:end] {
		data = append(data, toResponse(j))
	}
	c.JSON(http.StatusOK, pageResponse{
		Data: data,
		Meta: pageMeta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: model.TotalPages(total, limit),
		},
	})
}

func (s *Server) getJob(c *gin.Context) {
	id := c.Param("id")
	for _, j := range s.data.Jobs {
		if j.ID == id {
			c.JSON(http.StatusOK, gin.H{"data": toResponse(j)})
			return
		}
	}
	abort(c, http.StatusNotFound, fmt.Sprintf("job %q not found", id))
}

// suggestTitles returns distinct titles containing q, prefix matches first.
func (s *Server) suggestTitles(c *gin.Context) {
	needle := strings.ToLower(strings.TrimSpace(c.Query("q")))
	out := []string{}
	if len([]rune(needle)) < minSuggestRunes {
		c.JSON(http.StatusOK, gin.H{"suggestions": out})
		return
	}

	seen := make(map[string]bool)
	var prefix, contains []string
	for _, j := range s.data.Jobs {
		title := strings.TrimSpace(j.Title)
		key := strings.ToLower(title)
		if title == "" || seen[key] {
			continue
		}
		switch {
		case strings.HasPrefix(key, needle):
			prefix = append(prefix, title)
		case strings.Contains(key, needle):
			contains = append(contains, title)
		default:
			continue
		}
		seen[key] = true
	}
	sort.Strings(prefix)
	sort.Strings(contains)
	out = append(append(out, prefix...), contains...)
	if len(out) > maxTitles {
		out = out[:maxTitles]
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": out})
}

type locationResponse struct {
	Type    string `json:"type"`
	Country string `json:"country,omitempty"`
	State   string `json:"state,omitempty"`
	City    string `json:"city,omitempty"`
}

// searchLocations returns up to k locations whose label contains q. Order is
// the dataset order, which lists coarser matches first.
func (s *Server) searchLocations(c *gin.Context) {
	needle := strings.ToLower(strings.TrimSpace(c.Query("q")))
	k := defaultK
	if raw := c.Query("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			abort(c, http.StatusBadRequest, fmt.Sprintf("invalid k: %q", raw))
			return
		}
		k = n
	}

	results := []locationResponse{}
	if needle != "" {
		for _, m := range s.data.Locations {
			if !strings.Contains(strings.ToLower(m.Label()), needle) {
				continue
			}
			results = append(results, locationResponse{
				Type:    string(m.Type),
				Country: m.Country,
				State:   m.State,
				City:    m.City,
			})
			if len(results) == k {
				break
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// filterOptions lists the work types and modalities present in the dataset,
// in canonical order.
func (s *Server) filterOptions(c *gin.Context) {
	workTypes := make(map[model.WorkType]bool)
	modalities := make(map[model.Modality]bool)
	for _, j := range s.data.Jobs {
		workTypes[j.WorkType] = true
		modalities[j.Modality] = true
	}

	wt := []string{}
	for _, w := range model.WorkTypes {
		if workTypes[w] {
			wt = append(wt, string(w))
		}
	}
	mt := []string{}
	for _, m := range model.Modalities {
		if modalities[m] {
			mt = append(mt, string(m))
		}
	}
	c.JSON(http.StatusOK, gin.H{"work_types": wt, "work_location_types": mt})
}

func positiveParam(q model.Query, key string, def int) (int, error) {
	raw, ok := q[key]
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &model.ValidationError{Field: key, Value: raw}
	}
	return n, nil
}
