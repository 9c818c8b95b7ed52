package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"excel-handler/internal/cell"
	"excel-handler/internal/grid"
	"excel-handler/internal/logger"

	"github.com/xuri/excelize/v2"
)

// Handle owns one workbook resource and the Mode it was opened with.
//
// A Handle serialises access to its resource, but it is meant for one
// logical reader/writer at a time; callers coordinating several goroutines
// must order their calls themselves.
type Handle struct {
	mu     sync.Mutex
	path   string
	mode   Mode
	file   *excelize.File // nil for delimited files
	source grid.Source    // nil when nothing readable backs the handle
	saved  bool
}

var spreadsheetExts = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

var delimitedExts = map[string]bool{
	".csv": true,
	".txt": true,
}

// Open constructs a Handle for path in the given mode.
//
// Read and Write open an existing file and fail with an *OpenError.
// Create fails with ErrAlreadyExists if anything exists at path, and
// otherwise starts an empty workbook that is written only by Save.
func Open(path string, mode Mode) (*Handle, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch mode {
	case ModeRead, ModeWrite:
		if delimitedExts[ext] {
			if mode != ModeRead {
				return nil, &OpenError{Path: path, Err: fmt.Errorf("%w: %s is read-only", ErrUnsupportedFormat, ext)}
			}
			src, err := openCSV(path)
			if err != nil {
				return nil, &OpenError{Path: path, Err: err}
			}
			logger.Debug("Opened %s in %s mode", path, mode)
			return &Handle{path: path, mode: mode, source: src}, nil
		}

		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, &OpenError{Path: path, Err: err}
		}
		logger.Debug("Opened %s in %s mode (%d sheets)", path, mode, f.SheetCount)
		return &Handle{path: path, mode: mode, file: f, source: &xlsxSource{file: f}}, nil

	case ModeCreate:
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, path)
		}
		if !spreadsheetExts[ext] {
			return nil, fmt.Errorf("%w: cannot create %q", ErrUnsupportedFormat, ext)
		}
		logger.Debug("Created new workbook for %s", path)
		return &Handle{path: path, mode: mode, file: excelize.NewFile()}, nil

	default:
		return nil, fmt.Errorf("unknown mode %d", int(mode))
	}
}

// Path returns the path the handle was opened with
func (h *Handle) Path() string { return h.path }

// Mode returns the access mode fixed at construction
func (h *Handle) Mode() Mode { return h.mode }

// SheetNames lists sheets in workbook order. A Create handle has none.
func (h *Handle) SheetNames() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.source == nil {
		return []string{}
	}
	return h.source.SheetNames()
}

// FindCell returns the first coordinate in row-major order whose value
// satisfies pred
func (h *Handle) FindCell(sheet string, rows, cols grid.Sequence, pred grid.CellPredicate) (grid.Coordinate, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return grid.NewEngine(h.source).FindCell(sheet, rows, cols, pred)
}

// FindSheets returns the sheets holding a match, in workbook order.
// Options must not call back into the Handle.
func (h *Handle) FindSheets(rows, cols grid.Sequence, pred grid.CellPredicate, opts ...grid.Option) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return grid.NewEngine(h.source, opts...).FindSheets(rows, cols, pred)
}

// IterateRowValues collects column groups in column-major order until
// stop matches a group
func (h *Handle) IterateRowValues(sheet string, rows, cols grid.Sequence, stop grid.GroupPredicate) [][]cell.Value {
	h.mu.Lock()
	defer h.mu.Unlock()

	return grid.NewEngine(h.source).IterateRowValues(sheet, rows, cols, stop)
}

// requireWritable panics with a *ContractViolation on Read-mode handles
func (h *Handle) requireWritable(op string) {
	if h.mode.Writable() {
		return
	}
	violation := &ContractViolation{Op: op, Path: h.path, Mode: h.mode}
	logger.Error("%v", violation)
	panic(violation)
}

// AddSheet creates a sheet if it does not exist yet
func (h *Handle) AddSheet(name string) error {
	h.requireWritable("AddSheet")
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.ensureSheet(name)
}

func (h *Handle) ensureSheet(name string) error {
	if h.file == nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, h.path)
	}
	idx, err := h.file.GetSheetIndex(name)
	if err != nil {
		return fmt.Errorf("invalid sheet name %q: %w", name, err)
	}
	if idx != -1 {
		return nil
	}
	if _, err := h.file.NewSheet(name); err != nil {
		return fmt.Errorf("failed to add sheet %q: %w", name, err)
	}
	return nil
}

// SetCellValue writes one value, creating the sheet when needed
func (h *Handle) SetCellValue(sheet string, at grid.Coordinate, v cell.Value) error {
	h.requireWritable("SetCellValue")
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ensureSheet(sheet); err != nil {
		return err
	}
	return h.setCell(sheet, at, v)
}

// SetRangeValues writes a block of rows with rows[0][0] placed at origin
func (h *Handle) SetRangeValues(sheet string, origin grid.Coordinate, rows [][]cell.Value) error {
	h.requireWritable("SetRangeValues")
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ensureSheet(sheet); err != nil {
		return err
	}
	for r, row := range rows {
		for c, v := range row {
			at := grid.Coordinate{Row: origin.Row + uint32(r), Col: origin.Col + uint32(c)}
			if err := h.setCell(sheet, at, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *Handle) setCell(sheet string, at grid.Coordinate, v cell.Value) error {
	name, err := excelize.CoordinatesToCellName(int(at.Col)+1, int(at.Row)+1)
	if err != nil {
		return fmt.Errorf("invalid coordinate %v: %w", at, err)
	}
	if err := h.file.SetCellValue(sheet, name, nativeValue(v)); err != nil {
		return fmt.Errorf("failed to set %s!%s: %w", sheet, name, err)
	}
	return nil
}

// nativeValue maps a cell value onto what excelize writes natively.
// Error values have no native writer and are stored as their literal text.
func nativeValue(v cell.Value) any {
	switch v.Kind() {
	case cell.KindBool:
		b, _ := v.AsBool()
		return b
	case cell.KindInt:
		i, _ := v.AsInt()
		return i
	case cell.KindFloat:
		f, _ := v.AsFloat()
		return f
	case cell.KindText, cell.KindError:
		return v.String()
	case cell.KindDateTime:
		if t, ok := v.AsTime(); ok {
			return t
		}
		f, _ := v.AsFloat()
		return f
	default:
		return nil
	}
}

// Save writes the workbook back to its path. A Create handle refuses to
// overwrite a file that appeared after construction.
func (h *Handle) Save() error {
	h.requireWritable("Save")
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.file == nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, h.path)
	}

	if h.mode == ModeCreate && !h.saved {
		if _, err := os.Stat(h.path); err == nil {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, h.path)
		}
		if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := h.file.SaveAs(h.path); err != nil {
		return fmt.Errorf("failed to save %s: %w", h.path, err)
	}
	h.saved = true
	logger.Debug("Saved %s", h.path)
	return nil
}

// Close releases the underlying resource. Later calls are no-ops.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.file == nil {
		return nil
	}
	err := h.file.Close()
	h.file = nil
	return err
}

// Writable wraps a mutating method so that the mode check happens before
// the call, e.g. Writable(h, (*Handle).AddSheet)
func Writable(h *Handle, fn func(*Handle, string) error) func(string) error {
	return func(sheet string) error {
		h.requireWritable("Writable")
		logger.Debug("Write guard passed for %s on %s", sheet, h.path)
		return fn(h, sheet)
	}
}
