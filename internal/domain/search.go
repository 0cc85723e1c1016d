package domain

import (
	"strings"
)

// Search parameter bounds, mirrored by the form widgets.
const (
	DefaultLimit      = 1000
	MaxLimit          = 10000
	DefaultCandidates = 10000
	MaxCandidates     = 20000
)

// SearchRequest is a validated search submission. Constructed fresh per
// submission, never persisted.
type SearchRequest struct {
	description   string
	industries    []string
	limit         int
	numCandidates int
}

// NewSearchRequest validates and normalizes a search submission.
// The description must be non-empty after trimming. Limit and numCandidates
// are clamped to their ranges; numCandidates is raised to limit so that
// numCandidates >= limit always holds.
func NewSearchRequest(description, industriesCSV string, limit, numCandidates int) (SearchRequest, error) {
	if strings.TrimSpace(description) == "" {
		return SearchRequest{}, ErrEmptyDescription
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if numCandidates <= 0 {
		numCandidates = DefaultCandidates
	}
	if numCandidates > MaxCandidates {
		numCandidates = MaxCandidates
	}
	if numCandidates < limit {
		numCandidates = limit
	}

	return SearchRequest{
		description:   description,
		industries:    ParseIndustries(industriesCSV),
		limit:         limit,
		numCandidates: numCandidates,
	}, nil
}

// Description returns the free-text company description.
func (r *SearchRequest) Description() string { return r.description }

// Industries returns the parsed industry filter terms (empty = no filter).
func (r *SearchRequest) Industries() []string { return r.industries }

// Limit returns the maximum results to return.
func (r *SearchRequest) Limit() int { return r.limit }

// NumCandidates returns the ANN candidate pool size.
func (r *SearchRequest) NumCandidates() int { return r.numCandidates }

// ParseIndustries splits a comma-separated industry list, trimming whitespace
// and dropping empty entries. "AI, SaaS , " parses to ["AI", "SaaS"].
func ParseIndustries(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// CompanyRecord is a single ranked search result. Produced only by the
// search gateway, immutable once returned.
type CompanyRecord struct {
	Score               float64
	Name                string
	Description         string
	HeadquartersCountry string
	Industry            string
}
