package grid

import (
	"fmt"

	"excel-handler/internal/cell"

	"github.com/xuri/excelize/v2"
)

// Coordinate is an absolute, 0-based (row, column) position in a sheet
type Coordinate struct {
	Row uint32
	Col uint32
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

// CellName returns the A1-style reference, e.g. (3, 7) -> "H4"
func (c Coordinate) CellName() string {
	name, err := excelize.CoordinatesToCellName(int(c.Col)+1, int(c.Row)+1)
	if err != nil {
		return c.String()
	}
	return name
}

// Range is the populated grid of one sheet
type Range interface {
	// Cell returns the value at an absolute position. Positions outside the
	// populated extent are absent; blanks inside it are present Empty values.
	Cell(row, col uint32) (cell.Value, bool)
}

// Source is the spreadsheet engine seen by the query engine
type Source interface {
	SheetNames() []string
	// Range is absent when the sheet is unknown or cannot be read
	Range(sheet string) (Range, bool)
}

// Extent is the bounding box of populated cells, inclusive on both ends
type Extent struct {
	Start Coordinate
	End   Coordinate
	empty bool
}

// IsEmpty reports whether no cell was populated
func (e Extent) IsEmpty() bool { return e.empty }

// Contains reports whether (row, col) lies inside the extent
func (e Extent) Contains(row, col uint32) bool {
	if e.empty {
		return false
	}
	return row >= e.Start.Row && row <= e.End.Row &&
		col >= e.Start.Col && col <= e.End.Col
}

// ExtentBuilder accumulates populated positions row by row
type ExtentBuilder struct {
	ext  Extent
	seen bool
}

// AddRow records the non-blank entries of one row of raw cell text
func (b *ExtentBuilder) AddRow(row uint32, values []string) {
	for col, v := range values {
		if v == "" {
			continue
		}
		b.Add(row, uint32(col))
	}
}

// Add records one populated position
func (b *ExtentBuilder) Add(row, col uint32) {
	if !b.seen {
		b.ext.Start = Coordinate{Row: row, Col: col}
		b.ext.End = b.ext.Start
		b.seen = true
		return
	}
	b.ext.Start.Row = min(b.ext.Start.Row, row)
	b.ext.Start.Col = min(b.ext.Start.Col, col)
	b.ext.End.Row = max(b.ext.End.Row, row)
	b.ext.End.Col = max(b.ext.End.Col, col)
}

// Extent returns the accumulated bounding box
func (b *ExtentBuilder) Extent() Extent {
	if !b.seen {
		return Extent{empty: true}
	}
	return b.ext
}

// MemoryRange is a Range over values already held in memory, indexed
// from an origin coordinate. It backs delimited files and tests.
type MemoryRange struct {
	origin Coordinate
	rows   [][]cell.Value
	extent Extent
}

// NewMemoryRange places rows so that rows[0][0] sits at origin.
// Trailing positions of short rows inside the extent read as Empty.
func NewMemoryRange(origin Coordinate, rows [][]cell.Value) *MemoryRange {
	var b ExtentBuilder
	for r, row := range rows {
		for c, v := range row {
			if v.IsEmpty() {
				continue
			}
			b.Add(origin.Row+uint32(r), origin.Col+uint32(c))
		}
	}
	return &MemoryRange{origin: origin, rows: rows, extent: b.Extent()}
}

// Extent returns the populated bounding box
func (m *MemoryRange) Extent() Extent { return m.extent }

func (m *MemoryRange) Cell(row, col uint32) (cell.Value, bool) {
	if !m.extent.Contains(row, col) {
		return cell.Value{}, false
	}
	r, c := int(row-m.origin.Row), int(col-m.origin.Col)
	if r >= len(m.rows) || c >= len(m.rows[r]) {
		return cell.Empty(), true
	}
	return m.rows[r][c], true
}
