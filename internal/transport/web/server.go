// Package web serves the single-page search form and renders results from
// the current session state.
package web

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/marovi/company-search/internal/domain"
	healthuc "github.com/marovi/company-search/internal/usecase/health"
)

//go:embed page.html
var pageHTML string

// SearchService runs a search submission and exposes the session state.
type SearchService interface {
	Search(ctx context.Context, description, industriesCSV string, limit, numCandidates int) (domain.SessionResult, error)
	Current() domain.SessionResult
}

// HealthService aggregates component health checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the page template and the services behind the form.
type Server struct {
	search SearchService
	health HealthService
	logger *zap.Logger
	tmpl   *template.Template
}

// NewServer creates the web server. Panics if the embedded page template
// does not parse; that is a build defect, not a runtime condition.
func NewServer(search SearchService, health HealthService, logger *zap.Logger) *Server {
	return &Server{
		search: search,
		health: health,
		logger: logger,
		tmpl:   template.Must(template.New("page").Parse(pageHTML)),
	}
}

// pageData is the template view model for one render.
type pageData struct {
	Description   string
	Industries    string
	Limit         int
	NumCandidates int
	MaxLimit      int
	MaxCandidates int

	Warning string
	Error   string

	ShowEmpty   bool
	ShowResults bool
	Count       int
	Records     []domain.CompanyRecord
}

func newPageData(description, industries string, limit, numCandidates int) pageData {
	return pageData{
		Description:   description,
		Industries:    industries,
		Limit:         limit,
		NumCandidates: numCandidates,
		MaxLimit:      domain.MaxLimit,
		MaxCandidates: domain.MaxCandidates,
	}
}

func (d *pageData) applyResult(res domain.SessionResult) {
	switch res.Status() {
	case domain.StatusEmpty:
		d.ShowEmpty = true
	case domain.StatusPopulated:
		d.ShowResults = true
		d.Count = res.Count()
		d.Records = res.Records()
	case domain.StatusUnset:
		// form only
	}
}

// Index handles GET /: the form plus whatever the session state holds.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	data := newPageData("", "", domain.DefaultLimit, domain.DefaultCandidates)
	data.applyResult(s.search.Current())
	s.render(w, http.StatusOK, data)
}

// Search handles POST /search: one full submission, rendered synchronously.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		data := newPageData("", "", domain.DefaultLimit, domain.DefaultCandidates)
		data.Error = "Invalid form submission."
		s.render(w, http.StatusBadRequest, data)
		return
	}

	description := r.PostFormValue("description")
	industries := r.PostFormValue("industries")
	limit := formInt(r, "limit", domain.DefaultLimit)
	numCandidates := formInt(r, "num_candidates", domain.DefaultCandidates)

	data := newPageData(description, industries, limit, numCandidates)

	res, err := s.search.Search(r.Context(), description, industries, limit, numCandidates)
	if err != nil {
		status := http.StatusOK
		switch {
		case errors.Is(err, domain.ErrEmptyDescription):
			data.Warning = "Please enter a description to search for."
		case errors.Is(err, domain.ErrEmbeddingProviderError):
			data.Error = "Failed to generate an embedding for your description: " + err.Error()
			status = http.StatusBadGateway
		case errors.Is(err, domain.ErrSearchFailed):
			data.Error = "The search failed. Check the index and filters: " + err.Error()
			status = http.StatusBadGateway
		default:
			data.Error = "An unexpected error occurred during the search: " + err.Error()
			status = http.StatusInternalServerError
		}
		s.render(w, status, data)
		return
	}

	data.applyResult(res)
	s.render(w, http.StatusOK, data)
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		s.logger.Error("Failed to encode health report", zap.Error(err))
	}
}

// render executes the page template into a buffer first so a template
// failure never produces a half-written response.
func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		s.logger.Error("Failed to render page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// formInt parses a numeric form field, falling back to def on absence or
// garbage. Range clamping happens in the domain constructor.
func formInt(r *http.Request, key string, def int) int {
	raw := r.PostFormValue(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
