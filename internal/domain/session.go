package domain

// ResultStatus distinguishes "no search yet" from "ran with zero matches".
// A failed embedding or search leaves the status at Unset, so stale or
// half-finished results are never shown.
type ResultStatus int

const (
	// StatusUnset means no search has completed in this session.
	StatusUnset ResultStatus = iota
	// StatusEmpty means the last search completed with zero matches.
	StatusEmpty
	// StatusPopulated means the last search completed with at least one match.
	StatusPopulated
)

// SessionResult is the tri-state outcome holder for the current session.
// It always reflects the most recent completed search.
type SessionResult struct {
	status  ResultStatus
	records []CompanyRecord
}

// UnsetResult returns the "no search performed yet" state.
func UnsetResult() SessionResult {
	return SessionResult{status: StatusUnset}
}

// CompletedResult builds the outcome of a successful search: Empty for zero
// records, Populated otherwise.
func CompletedResult(records []CompanyRecord) SessionResult {
	if len(records) == 0 {
		return SessionResult{status: StatusEmpty}
	}
	return SessionResult{status: StatusPopulated, records: records}
}

// Status returns the result state.
func (s SessionResult) Status() ResultStatus { return s.status }

// Records returns the ranked records (nil unless Populated).
func (s SessionResult) Records() []CompanyRecord { return s.records }

// Count returns the number of records.
func (s SessionResult) Count() int { return len(s.records) }
