package grid

import "excel-handler/internal/cell"

// SheetObserver is told the outcome of each per-sheet search in FindSheets
type SheetObserver func(sheet string, matched bool)

// Engine evaluates predicates over rectangular regions of a Source.
// It holds no cache: every call reads through to the Source.
type Engine struct {
	source  Source
	observe SheetObserver
}

// Option configures an Engine
type Option func(*Engine)

// WithSheetObserver installs a hook called once per sheet by FindSheets
func WithSheetObserver(fn SheetObserver) Option {
	return func(e *Engine) {
		e.observe = fn
	}
}

// NewEngine creates an Engine over src
func NewEngine(src Source, opts ...Option) *Engine {
	e := &Engine{source: src}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FindCell scans rows x cols in row-major order (row outer, column inner)
// and returns the first coordinate whose value satisfies pred.
// Absent cells never match. An unknown sheet yields no match.
func (e *Engine) FindCell(sheet string, rows, cols Sequence, pred CellPredicate) (Coordinate, bool) {
	if e.source == nil {
		return Coordinate{}, false
	}
	rng, ok := e.source.Range(sheet)
	if !ok {
		return Coordinate{}, false
	}
	return findIn(rng, rows, cols, pred)
}

func findIn(rng Range, rows, cols Sequence, pred CellPredicate) (Coordinate, bool) {
	for row := range rows.Indices() {
		for col := range cols.Indices() {
			v, ok := rng.Cell(row, col)
			if !ok {
				continue
			}
			if pred.Match(v) {
				return Coordinate{Row: row, Col: col}, true
			}
		}
	}
	return Coordinate{}, false
}

// FindSheets runs FindCell once against every sheet, in workbook order,
// and returns the names of the sheets that contain a match
func (e *Engine) FindSheets(rows, cols Sequence, pred CellPredicate) []string {
	sheets := []string{}
	if e.source == nil {
		return sheets
	}
	for _, name := range e.source.SheetNames() {
		_, matched := e.FindCell(name, rows, cols, pred)
		if e.observe != nil {
			e.observe(name, matched)
		}
		if matched {
			sheets = append(sheets, name)
		}
	}
	return sheets
}

// IterateRowValues walks columns in the outer loop and rows in the inner
// loop, collecting the present values of each column into one group.
// After a group is built, stop is evaluated on it; a true result ends the
// walk and the triggering group is dropped. Absent cells are omitted,
// so groups are not padded to a common length. An empty row sequence
// yields no groups at all.
func (e *Engine) IterateRowValues(sheet string, rows, cols Sequence, stop GroupPredicate) [][]cell.Value {
	groups := [][]cell.Value{}
	if e.source == nil {
		return groups
	}
	rng, ok := e.source.Range(sheet)
	if !ok || isEmpty(rows) {
		return groups
	}

	for col := range cols.Indices() {
		group := []cell.Value{}
		for row := range rows.Indices() {
			if v, ok := rng.Cell(row, col); ok {
				group = append(group, v)
			}
		}
		if stop.Match(group) {
			break
		}
		groups = append(groups, group)
	}
	return groups
}

func isEmpty(seq Sequence) bool {
	for range seq.Indices() {
		return false
	}
	return true
}
