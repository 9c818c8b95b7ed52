package model

import (
	"time"

	"github.com/google/uuid"
)

// Report collects the outcome of one run over a workbook
type Report struct {
	RunID    string
	Workbook string
	Mode     string
	Date     time.Time
	Sheets   []string
	Results  []*QueryResult
}

// QueryResult is the outcome of one configured query.
// Exactly one of Hits, MatchedSheets or Groups is filled, depending on Kind.
type QueryResult struct {
	Name  string
	Kind  string
	Sheet string // empty for cross-sheet queries
	Rows  string
	Cols  string

	Hits          []CellHit     // find_cell, one per searched sheet that matched
	MatchedSheets []string      // find_sheets
	Groups        []ColumnGroup // iterate

	Elapsed time.Duration
}

// CellHit locates a matching cell
type CellHit struct {
	Sheet string
	Row   uint32
	Col   uint32
	Ref   string // A1-style reference
}

// ColumnGroup holds the values read from one column during iteration
type ColumnGroup struct {
	Col     uint32
	Values  []string
	Summary *ColumnSummary // nil when the column holds no numbers
}

// ColumnSummary describes the numeric values of a column group
type ColumnSummary struct {
	Count int
	Sum   float64
	Mean  float64
	Min   float64
	Max   float64
}

// NewReport starts a report with a time-ordered run id
func NewReport(workbook, mode string) *Report {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &Report{
		RunID:    id.String(),
		Workbook: workbook,
		Mode:     mode,
		Date:     time.Now(),
		Sheets:   make([]string, 0),
		Results:  make([]*QueryResult, 0),
	}
}

// AddResult appends a query result, ignoring nil
func (r *Report) AddResult(res *QueryResult) {
	if res == nil {
		return
	}
	r.Results = append(r.Results, res)
}

// Matched reports whether the query produced anything
func (q *QueryResult) Matched() bool {
	return len(q.Hits) > 0 || len(q.MatchedSheets) > 0 || len(q.Groups) > 0
}

// Count is the number of hits, sheets or groups, whichever applies
func (q *QueryResult) Count() int {
	return len(q.Hits) + len(q.MatchedSheets) + len(q.Groups)
}

// MatchedCount returns how many results produced output
func (r *Report) MatchedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Matched() {
			n++
		}
	}
	return n
}
