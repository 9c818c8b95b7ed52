package grid

import (
	"iter"
	"testing"

	"excel-handler/internal/cell"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSource implements Source with testify expectations
type MockSource struct {
	mock.Mock
}

func (m *MockSource) SheetNames() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockSource) Range(sheet string) (Range, bool) {
	args := m.Called(sheet)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(Range), args.Bool(1)
}

// countingRange records every lookup made against the wrapped range
type countingRange struct {
	inner   Range
	lookups map[Coordinate]int
	order   []Coordinate
}

func newCountingRange(inner Range) *countingRange {
	return &countingRange{inner: inner, lookups: make(map[Coordinate]int)}
}

func (c *countingRange) Cell(row, col uint32) (cell.Value, bool) {
	coord := Coordinate{Row: row, Col: col}
	c.lookups[coord]++
	c.order = append(c.order, coord)
	return c.inner.Cell(row, col)
}

// mapSource is a Source over in-memory sheets kept in insertion order
type mapSource struct {
	names  []string
	sheets map[string]Range
}

func (s *mapSource) SheetNames() []string { return s.names }

func (s *mapSource) Range(sheet string) (Range, bool) {
	r, ok := s.sheets[sheet]
	return r, ok
}

func newMapSource() *mapSource {
	return &mapSource{sheets: make(map[string]Range)}
}

func (s *mapSource) add(name string, r Range) {
	s.names = append(s.names, name)
	s.sheets[name] = r
}

// sheetWith builds a range holding the given cells, with A1 as the origin
// so the extent is derived purely from populated cells
func sheetWith(cells map[Coordinate]cell.Value) *MemoryRange {
	var maxRow, maxCol uint32
	for c := range cells {
		maxRow = max(maxRow, c.Row)
		maxCol = max(maxCol, c.Col)
	}
	rows := make([][]cell.Value, maxRow+1)
	for r := range rows {
		rows[r] = make([]cell.Value, maxCol+1)
	}
	for c, v := range cells {
		rows[c.Row][c.Col] = v
	}
	return NewMemoryRange(Coordinate{}, rows)
}

func TestFindCellExampleScenario(t *testing.T) {
	src := newMapSource()
	src.add("Sheet1", sheetWith(map[Coordinate]cell.Value{
		{Row: 3, Col: 7}: cell.Text("foo"),
	}))
	e := NewEngine(src)

	pred := TextEquals("foo")

	coord, ok := e.FindCell("Sheet1", Span(0, 10), Span(1, 10), pred)
	require.True(t, ok)
	assert.Equal(t, Coordinate{Row: 3, Col: 7}, coord)
	assert.Equal(t, "H4", coord.CellName())

	_, ok = e.FindCell("Sheet1", Span(0, 10), Span(1, 7), pred)
	assert.False(t, ok, "column 7 is excluded from a 1..7 span")
}

func TestFindCellReturnsFirstInRowMajorOrder(t *testing.T) {
	src := newMapSource()
	src.add("S", sheetWith(map[Coordinate]cell.Value{
		{Row: 1, Col: 5}: cell.Text("x"),
		{Row: 2, Col: 0}: cell.Text("x"),
		{Row: 1, Col: 2}: cell.Text("x"),
	}))
	e := NewEngine(src)

	coord, ok := e.FindCell("S", Span(0, 5), Span(0, 6), TextEquals("x"))
	require.True(t, ok)
	assert.Equal(t, Coordinate{Row: 1, Col: 2}, coord)

	// Descending rows visit row 2 before row 1
	coord, ok = e.FindCell("S", Descending(0, 5), Span(0, 6), TextEquals("x"))
	require.True(t, ok)
	assert.Equal(t, Coordinate{Row: 2, Col: 0}, coord)
}

func TestFindCellSoundness(t *testing.T) {
	src := newMapSource()
	src.add("S", sheetWith(map[Coordinate]cell.Value{
		{Row: 0, Col: 0}: cell.Int(1),
		{Row: 0, Col: 1}: cell.Int(7),
		{Row: 1, Col: 0}: cell.Text("7"),
		{Row: 2, Col: 2}: cell.Float(9.5),
	}))
	e := NewEngine(src)

	preds := []CellPredicate{NumberAbove(5), IsText(), TextEquals("7"), NumberEquals(1), Not(IsEmpty())}
	for _, p := range preds {
		coord, ok := e.FindCell("S", Span(0, 3), Span(0, 3), p)
		if !ok {
			continue
		}
		rng, _ := src.Range("S")
		v, present := rng.Cell(coord.Row, coord.Col)
		require.True(t, present)
		assert.True(t, p.Match(v), "returned %v fails predicate", coord)
	}
}

func TestFindCellOneLookupPerPairAndShortCircuit(t *testing.T) {
	inner := sheetWith(map[Coordinate]cell.Value{
		{Row: 0, Col: 0}: cell.Int(0),
		{Row: 2, Col: 1}: cell.Text("hit"),
		{Row: 4, Col: 4}: cell.Int(0),
	})
	counting := newCountingRange(inner)
	src := newMapSource()
	src.add("S", counting)

	coord, ok := NewEngine(src).FindCell("S", Span(0, 5), Span(0, 5), TextEquals("hit"))
	require.True(t, ok)
	assert.Equal(t, Coordinate{Row: 2, Col: 1}, coord)

	for c, n := range counting.lookups {
		assert.Equal(t, 1, n, "coordinate %v looked up %d times", c, n)
	}
	// rows 0 and 1 fully, then (2,0) and (2,1)
	assert.Len(t, counting.order, 12)
	assert.Equal(t, coord, counting.order[len(counting.order)-1])
}

func TestFindCellUnboundedColumnsStopOnMatch(t *testing.T) {
	src := newMapSource()
	src.add("S", sheetWith(map[Coordinate]cell.Value{
		{Row: 0, Col: 9}: cell.Text("end"),
	}))

	coord, ok := NewEngine(src).FindCell("S", Values(0), From(0), TextEquals("end"))
	require.True(t, ok)
	assert.Equal(t, Coordinate{Row: 0, Col: 9}, coord)
}

func TestFindCellEmptyResults(t *testing.T) {
	src := newMapSource()
	src.add("S", sheetWith(map[Coordinate]cell.Value{
		{Row: 0, Col: 0}: cell.Text("a"),
	}))
	e := NewEngine(src)
	match := IsText()

	tests := []struct {
		name  string
		sheet string
		rows  Sequence
		cols  Sequence
	}{
		{"unknown sheet", "Missing", Span(0, 3), Span(0, 3)},
		{"empty rows", "S", Span(0, 0), Span(0, 3)},
		{"empty cols", "S", Span(0, 3), Values()},
		{"outside extent", "S", Span(5, 9), Span(5, 9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := e.FindCell(tt.sheet, tt.rows, tt.cols, match)
			assert.False(t, ok)
		})
	}

	_, ok := NewEngine(nil).FindCell("S", Span(0, 3), Span(0, 3), match)
	assert.False(t, ok)
}

func TestFindCellEmptyInsideExtentMatchesIsEmpty(t *testing.T) {
	src := newMapSource()
	src.add("S", sheetWith(map[Coordinate]cell.Value{
		{Row: 0, Col: 0}: cell.Int(1),
		{Row: 3, Col: 3}: cell.Int(1),
	}))

	coord, ok := NewEngine(src).FindCell("S", Span(0, 10), Span(0, 10), IsEmpty())
	require.True(t, ok)
	assert.Equal(t, Coordinate{Row: 0, Col: 1}, coord)

	// Beyond the extent cells are absent, not Empty
	_, ok = NewEngine(src).FindCell("S", Span(4, 10), Span(0, 10), IsEmpty())
	assert.False(t, ok)
}

func TestFindSheetsMatchesFilteredSheetNames(t *testing.T) {
	src := newMapSource()
	src.add("Sheet1", sheetWith(map[Coordinate]cell.Value{{Row: 1, Col: 5}: cell.Text("foo")}))
	src.add("Sheet2", sheetWith(map[Coordinate]cell.Value{{Row: 1, Col: 2}: cell.Text("foo")}))
	src.add("Sheet3", sheetWith(map[Coordinate]cell.Value{{Row: 8, Col: 6}: cell.Text("foo")}))
	src.add("Sheet4", sheetWith(map[Coordinate]cell.Value{{Row: 0, Col: 4}: cell.Text("bar")}))
	e := NewEngine(src)

	rows, cols, pred := Step(0, 10, 1), Span(4, 10), TextEquals("foo")

	got := e.FindSheets(rows, cols, pred)
	assert.Equal(t, []string{"Sheet1", "Sheet3"}, got)

	var expected []string
	for _, name := range src.SheetNames() {
		if _, ok := e.FindCell(name, rows, cols, pred); ok {
			expected = append(expected, name)
		}
	}
	assert.Equal(t, expected, got)
}

func TestFindSheetsQueriesEverySheetOnce(t *testing.T) {
	hit := sheetWith(map[Coordinate]cell.Value{{Row: 0, Col: 0}: cell.Text("foo")})

	src := new(MockSource)
	src.On("SheetNames").Return([]string{"A", "B", "C"}).Once()
	src.On("Range", "A").Return(hit, true).Once()
	src.On("Range", "B").Return(nil, false).Once()
	src.On("Range", "C").Return(hit, true).Once()

	var observed []string
	e := NewEngine(src, WithSheetObserver(func(sheet string, matched bool) {
		observed = append(observed, sheet)
	}))

	got := e.FindSheets(Span(0, 1), Span(0, 1), TextEquals("foo"))
	assert.Equal(t, []string{"A", "C"}, got)
	assert.Equal(t, []string{"A", "B", "C"}, observed)
	src.AssertExpectations(t)
}

func TestFindSheetsRecreatesSequencesPerSheet(t *testing.T) {
	src := newMapSource()
	src.add("One", sheetWith(map[Coordinate]cell.Value{{Row: 2, Col: 2}: cell.Text("x")}))
	src.add("Two", sheetWith(map[Coordinate]cell.Value{{Row: 2, Col: 2}: cell.Text("x")}))

	calls := 0
	rows := SequenceFunc(func() iter.Seq[uint32] {
		calls++
		return Span(0, 3).Indices()
	})

	got := NewEngine(src).FindSheets(rows, Span(0, 3), IsText())
	assert.Equal(t, []string{"One", "Two"}, got)
	assert.Equal(t, 2, calls)
}

func TestFindSheetsEmptySource(t *testing.T) {
	assert.Empty(t, NewEngine(newMapSource()).FindSheets(Span(0, 5), Span(0, 5), IsText()))
	assert.Empty(t, NewEngine(nil).FindSheets(Span(0, 5), Span(0, 5), IsText()))
}

func column(values ...cell.Value) []cell.Value { return values }

func TestIterateRowValuesColumnMajor(t *testing.T) {
	src := newMapSource()
	src.add("S", sheetWith(map[Coordinate]cell.Value{
		{Row: 0, Col: 0}: cell.Int(1),
		{Row: 0, Col: 1}: cell.Int(2),
		{Row: 1, Col: 0}: cell.Int(3),
		{Row: 1, Col: 1}: cell.Int(4),
	}))

	got := NewEngine(src).IterateRowValues("S", Span(0, 2), Span(0, 2), Never())
	assert.Equal(t, [][]cell.Value{
		column(cell.Int(1), cell.Int(3)),
		column(cell.Int(2), cell.Int(4)),
	}, got)
}

func TestIterateRowValuesStopExcludesTrigger(t *testing.T) {
	src := newMapSource()
	src.add("S", sheetWith(map[Coordinate]cell.Value{
		{Row: 0, Col: 2}: cell.Int(1),
		{Row: 2, Col: 2}: cell.Int(2),
		{Row: 0, Col: 3}: cell.Int(3),
		{Row: 2, Col: 3}: cell.Int(4),
		{Row: 0, Col: 6}: cell.Int(5),
		{Row: 2, Col: 6}: cell.Int(6),
	}))

	// Column 4 is blank inside the extent, so it holds two Empty values
	got := NewEngine(src).IterateRowValues("S", Step(0, 4, 2), From(2), AllEmpty())
	assert.Equal(t, [][]cell.Value{
		column(cell.Int(1), cell.Int(2)),
		column(cell.Int(3), cell.Int(4)),
	}, got)
}

func TestIterateRowValuesOmitsAbsentCells(t *testing.T) {
	src := newMapSource()
	src.add("S", sheetWith(map[Coordinate]cell.Value{
		{Row: 0, Col: 0}: cell.Text("a"),
		{Row: 1, Col: 0}: cell.Text("b"),
	}))

	// Rows 2..4 are beyond the extent and contribute nothing
	got := NewEngine(src).IterateRowValues("S", Span(0, 5), Values(0), Never())
	assert.Equal(t, [][]cell.Value{column(cell.Text("a"), cell.Text("b"))}, got)
}

func TestIterateRowValuesStopOnFirstGroup(t *testing.T) {
	src := newMapSource()
	src.add("S", sheetWith(map[Coordinate]cell.Value{{Row: 0, Col: 0}: cell.Text("a")}))

	got := NewEngine(src).IterateRowValues("S", Values(0), Span(0, 5), GroupFunc(func([]cell.Value) bool {
		return true
	}))
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestIterateRowValuesEmptyResults(t *testing.T) {
	src := newMapSource()
	src.add("S", sheetWith(map[Coordinate]cell.Value{{Row: 0, Col: 0}: cell.Text("a")}))
	e := NewEngine(src)

	assert.Empty(t, e.IterateRowValues("Missing", Span(0, 3), Span(0, 3), Never()))
	assert.Empty(t, e.IterateRowValues("S", Span(0, 0), Span(0, 3), Never()))
	assert.Empty(t, e.IterateRowValues("S", Span(0, 3), Values(), Never()))
	assert.Empty(t, NewEngine(nil).IterateRowValues("S", Span(0, 3), Span(0, 3), Never()))
}

func TestIterateRowValuesShorterThan(t *testing.T) {
	src := newMapSource()
	src.add("S", sheetWith(map[Coordinate]cell.Value{
		{Row: 1, Col: 1}: cell.Int(10),
		{Row: 5, Col: 1}: cell.Int(20),
		{Row: 1, Col: 2}: cell.Int(30),
		{Row: 6, Col: 2}: cell.Int(40),
	}))

	// Row 6 sits inside the extent, so every column contributes three values
	// and the stop predicate never fires before the sequence ends
	got := NewEngine(src).IterateRowValues("S", Values(1, 5, 6), Span(1, 3), ShorterThan(3))
	require.Len(t, got, 2)
	assert.Equal(t, column(cell.Int(10), cell.Int(20), cell.Empty()), got[0])
	assert.Equal(t, column(cell.Int(30), cell.Empty(), cell.Int(40)), got[1])
}
