package runner

import (
	"fmt"
	"strconv"
	"time"

	"excel-handler/internal/cell"
	"excel-handler/internal/config"
	"excel-handler/internal/grid"
	"excel-handler/internal/logger"
	"excel-handler/internal/model"

	"github.com/montanaflynn/stats"
)

// Queryable is the read surface of a workbook handle
type Queryable interface {
	SheetNames() []string
	FindCell(sheet string, rows, cols grid.Sequence, pred grid.CellPredicate) (grid.Coordinate, bool)
	FindSheets(rows, cols grid.Sequence, pred grid.CellPredicate, opts ...grid.Option) []string
	IterateRowValues(sheet string, rows, cols grid.Sequence, stop grid.GroupPredicate) [][]cell.Value
}

// Progress receives one step per searched sheet. *ui.ProgressBar satisfies it.
type Progress interface {
	Describe(description string)
	Increment() error
}

type nopProgress struct{}

func (nopProgress) Describe(string)  {}
func (nopProgress) Increment() error { return nil }

// Runner executes configured queries against a workbook
type Runner struct {
	book     Queryable
	progress Progress
}

// New creates a Runner. A nil progress is allowed.
func New(book Queryable, progress Progress) *Runner {
	if progress == nil {
		progress = nopProgress{}
	}
	return &Runner{book: book, progress: progress}
}

// Steps returns how many progress increments RunAll makes for queries
func (r *Runner) Steps(queries []config.QueryConfig) int {
	sheets := len(r.book.SheetNames())
	total := 0
	for _, q := range queries {
		if q.Kind == config.KindIterate || (q.Kind == config.KindFindCell && q.Sheet != "") {
			total++
			continue
		}
		total += sheets
	}
	return total
}

// RunAll executes every query and appends the results to report.
// A query that fails to build is logged and skipped.
func (r *Runner) RunAll(report *model.Report, queries []config.QueryConfig) int {
	failed := 0
	for _, q := range queries {
		res, err := r.Run(q)
		if err != nil {
			logger.Error("Query %q: %v", q.Name, err)
			failed++
			continue
		}
		report.AddResult(res)
	}
	return failed
}

// Run executes a single query
func (r *Runner) Run(q config.QueryConfig) (*model.QueryResult, error) {
	rows, err := grid.ParseSequence(q.Rows)
	if err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	cols, err := grid.ParseSequence(q.Cols)
	if err != nil {
		return nil, fmt.Errorf("cols: %w", err)
	}

	res := &model.QueryResult{
		Name:  q.Name,
		Kind:  q.Kind,
		Sheet: q.Sheet,
		Rows:  q.Rows,
		Cols:  q.Cols,
	}
	start := time.Now()

	switch q.Kind {
	case config.KindFindCell:
		pred, err := BuildPredicate(q.Match)
		if err != nil {
			return nil, err
		}
		res.Hits = r.findCell(q.Sheet, rows, cols, pred)

	case config.KindFindSheets:
		pred, err := BuildPredicate(q.Match)
		if err != nil {
			return nil, err
		}
		res.MatchedSheets = r.book.FindSheets(rows, cols, pred, grid.WithSheetObserver(r.observeSheet))

	case config.KindIterate:
		stop, err := BuildStop(q.Stop)
		if err != nil {
			return nil, err
		}
		r.progress.Describe(q.Sheet)
		groups := r.book.IterateRowValues(q.Sheet, rows, cols, stop)
		res.Groups = labelGroups(groups, cols)
		r.progress.Increment()

	default:
		return nil, fmt.Errorf("unknown query kind %q", q.Kind)
	}

	res.Elapsed = time.Since(start)
	logger.Debug("Query %q (%s) produced %d result(s) in %v", q.Name, q.Kind, res.Count(), res.Elapsed)
	return res, nil
}

// findCell searches one sheet, or each sheet in turn when sheet is empty
func (r *Runner) findCell(sheet string, rows, cols grid.Sequence, pred grid.CellPredicate) []model.CellHit {
	sheets := []string{sheet}
	if sheet == "" {
		sheets = r.book.SheetNames()
	}

	hits := make([]model.CellHit, 0)
	for _, s := range sheets {
		coord, ok := r.book.FindCell(s, rows, cols, pred)
		r.observeSheet(s, ok)
		if !ok {
			continue
		}
		hits = append(hits, model.CellHit{Sheet: s, Row: coord.Row, Col: coord.Col, Ref: coord.CellName()})
	}
	return hits
}

func (r *Runner) observeSheet(sheet string, matched bool) {
	logger.Debug("Searched sheet %q: matched=%v", sheet, matched)
	r.progress.Describe(sheet)
	r.progress.Increment()
}

// labelGroups pairs each group with the column it came from. Every column
// visited before the stop yields exactly one group, so the first len(groups)
// column indices line up.
func labelGroups(groups [][]cell.Value, cols grid.Sequence) []model.ColumnGroup {
	out := make([]model.ColumnGroup, 0, len(groups))
	if len(groups) == 0 {
		return out
	}

	for col := range cols.Indices() {
		values := groups[len(out)]
		texts := make([]string, len(values))
		for i, v := range values {
			texts[i] = v.String()
		}
		out = append(out, model.ColumnGroup{Col: col, Values: texts, Summary: Summarize(values)})
		if len(out) == len(groups) {
			break
		}
	}
	return out
}

// Summarize computes statistics over the Int and Float values of a group.
// It returns nil when there are none.
func Summarize(values []cell.Value) *model.ColumnSummary {
	data := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if !v.IsNumber() {
			continue
		}
		f, _ := v.AsFloat()
		data = append(data, f)
	}
	if len(data) == 0 {
		return nil
	}

	sum, _ := stats.Sum(data)
	mean, _ := stats.Mean(data)
	lo, _ := stats.Min(data)
	hi, _ := stats.Max(data)

	return &model.ColumnSummary{Count: len(data), Sum: sum, Mean: mean, Min: lo, Max: hi}
}

// BuildPredicate maps a configured match onto a cell predicate
func BuildPredicate(m config.MatchConfig) (grid.CellPredicate, error) {
	switch m.Op {
	case "text_equals":
		return grid.TextEquals(m.Value), nil
	case "text_fold":
		return grid.TextEqualFold(m.Value), nil
	case "is_text":
		return grid.IsText(), nil
	case "is_empty":
		return grid.IsEmpty(), nil
	case "number_equals", "number_above":
		n, err := strconv.ParseFloat(m.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("%s needs a number, got %q", m.Op, m.Value)
		}
		if m.Op == "number_equals" {
			return grid.NumberEquals(n), nil
		}
		return grid.NumberAbove(n), nil
	default:
		return nil, fmt.Errorf("unknown match op %q", m.Op)
	}
}

// BuildStop maps a configured stop condition onto a group predicate
func BuildStop(stop string) (grid.GroupPredicate, error) {
	name, arg, err := config.ParseStop(stop)
	if err != nil {
		return nil, err
	}
	switch name {
	case "all_empty":
		return grid.AllEmpty(), nil
	case "any_empty":
		return grid.AnyEmpty(), nil
	case "shorter_than":
		return grid.ShorterThan(arg), nil
	default:
		return grid.Never(), nil
	}
}
