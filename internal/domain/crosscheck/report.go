// Package crosscheck holds the pure comparison between the built-in area code
// tables and externally published reports. Fetching reports lives in the
// service layer; nothing here performs I/O.
package crosscheck

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/davidleathers/phonenumbers-na/internal/domain/areacode"
)

// Entry is one code listed by a report, with whatever the source said about it.
type Entry struct {
	Code     int               `json:"code"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Report is the set of codes a source publishes for one reference set.
// A Complete report claims to list every member of the set.
type Report struct {
	Source   string       `json:"source"`
	Set      areacode.Set `json:"set"`
	Complete bool         `json:"complete"`
	Entries  []Entry      `json:"entries"`
}

// Codes returns the distinct codes of the report in ascending order.
func (r Report) Codes() []int {
	codes := make([]int, 0, len(r.Entries))
	for _, e := range r.Entries {
		codes = append(codes, e.Code)
	}
	slices.Sort(codes)
	return slices.Compact(codes)
}

// DiscrepancyKind says which side is missing a code.
type DiscrepancyKind string

const (
	// MissingFromTable: the report lists a code the table does not contain.
	MissingFromTable DiscrepancyKind = "missing_from_table"
	// MissingFromReport: a complete report omits a code the table contains.
	MissingFromReport DiscrepancyKind = "missing_from_report"
)

// Discrepancy is a single disagreement between a report and a table.
type Discrepancy struct {
	Source   string            `json:"source"`
	Set      areacode.Set      `json:"set"`
	Code     int               `json:"code"`
	Kind     DiscrepancyKind   `json:"kind"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Compare checks every listed code against the report's set. For complete
// reports it also flags table members the report lacks. Each code is reported
// at most once per kind.
func Compare(r Report) []Discrepancy {
	var out []Discrepancy
	seen := make(map[int]bool, len(r.Entries))
	for _, e := range r.Entries {
		if seen[e.Code] {
			continue
		}
		seen[e.Code] = true
		if !r.Set.Contains(e.Code) {
			out = append(out, Discrepancy{
				Source:   r.Source,
				Set:      r.Set,
				Code:     e.Code,
				Kind:     MissingFromTable,
				Metadata: e.Metadata,
			})
		}
	}
	if !r.Complete {
		return out
	}
	for _, code := range r.Set.Codes() {
		if !seen[code] {
			out = append(out, Discrepancy{
				Source: r.Source,
				Set:    r.Set,
				Code:   code,
				Kind:   MissingFromReport,
			})
		}
	}
	return out
}

// SourceSummary is the outcome of fetching and comparing one source.
type SourceSummary struct {
	Source        string `json:"source"`
	Reports       int    `json:"reports"`
	Entries       int    `json:"entries"`
	Discrepancies int    `json:"discrepancies"`
	Error         string `json:"error,omitempty"`
}

// Failed reports whether the source could not be fetched.
func (s SourceSummary) Failed() bool { return s.Error != "" }

// Result is one cross-check run.
type Result struct {
	RunID         uuid.UUID       `json:"run_id"`
	StartedAt     time.Time       `json:"started_at"`
	FinishedAt    time.Time       `json:"finished_at"`
	Sources       []SourceSummary `json:"sources"`
	Discrepancies []Discrepancy   `json:"discrepancies"`
}

// NewResult starts an empty run.
func NewResult(startedAt time.Time) *Result {
	return &Result{
		RunID:         uuid.New(),
		StartedAt:     startedAt.UTC(),
		Sources:       []SourceSummary{},
		Discrepancies: []Discrepancy{},
	}
}

// Duration is the wall time of the run.
func (r *Result) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// SourceErrors counts sources that failed to fetch.
func (r *Result) SourceErrors() int {
	n := 0
	for _, s := range r.Sources {
		if s.Failed() {
			n++
		}
	}
	return n
}

// OK is true when every source was fetched and nothing disagreed.
func (r *Result) OK() bool {
	return len(r.Discrepancies) == 0 && r.SourceErrors() == 0
}

// BySource groups discrepancies by the source that raised them.
func (r *Result) BySource() map[string][]Discrepancy {
	out := make(map[string][]Discrepancy)
	for _, d := range r.Discrepancies {
		out[d.Source] = append(out[d.Source], d)
	}
	return out
}
