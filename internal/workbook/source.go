package workbook

import (
	"math"
	"strconv"
	"strings"
	"time"

	"excel-handler/internal/cell"
	"excel-handler/internal/grid"
	"excel-handler/internal/logger"

	"github.com/xuri/excelize/v2"
)

// xlsxSource exposes an excelize workbook to the query engine
type xlsxSource struct {
	file *excelize.File
}

func (s *xlsxSource) SheetNames() []string {
	return s.file.GetSheetList()
}

// Range resolves the populated extent of the sheet by streaming its rows.
// Cell values are not retained; they are read on demand.
func (s *xlsxSource) Range(sheet string) (grid.Range, bool) {
	if idx, err := s.file.GetSheetIndex(sheet); err != nil || idx == -1 {
		return nil, false
	}

	rows, err := s.file.Rows(sheet)
	if err != nil {
		logger.LogSheetError(s.file.Path, sheet, err)
		return nil, false
	}
	defer rows.Close()

	var b grid.ExtentBuilder
	var row uint32
	for rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			logger.LogSheetError(s.file.Path, sheet, err)
			return nil, false
		}
		b.AddRow(row, cols)
		row++
	}
	if err := rows.Error(); err != nil {
		logger.LogSheetError(s.file.Path, sheet, err)
		return nil, false
	}

	return &xlsxRange{file: s.file, sheet: sheet, extent: b.Extent()}, true
}

type xlsxRange struct {
	file   *excelize.File
	sheet  string
	extent grid.Extent
}

func (r *xlsxRange) Cell(row, col uint32) (cell.Value, bool) {
	if !r.extent.Contains(row, col) {
		return cell.Value{}, false
	}
	name, err := excelize.CoordinatesToCellName(int(col)+1, int(row)+1)
	if err != nil {
		return cell.Value{}, false
	}

	typ, err := r.file.GetCellType(r.sheet, name)
	if err != nil {
		return cell.Value{}, false
	}
	raw, err := r.file.GetCellValue(r.sheet, name, excelize.Options{RawCellValue: true})
	if err != nil {
		return cell.Value{}, false
	}
	return r.convert(name, typ, raw), true
}

func (r *xlsxRange) convert(name string, typ excelize.CellType, raw string) cell.Value {
	switch typ {
	case excelize.CellTypeBool:
		return cell.Bool(raw == "1" || strings.EqualFold(raw, "TRUE"))
	case excelize.CellTypeError:
		if code, ok := cell.ParseErrorCode(raw); ok {
			return cell.Error(code)
		}
		return cell.Error(cell.ErrorCode(raw))
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		if raw == "" {
			return cell.Empty()
		}
		return cell.Text(raw)
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return cell.DateTime(timeToSerial(t))
		}
		return cell.Text(raw)
	}

	// Number or untyped
	if raw == "" {
		return cell.Empty()
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return cell.Text(raw)
	}
	if r.isDateFormatted(name) {
		return cell.DateTime(f)
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return cell.Int(i)
	}
	return cell.Float(f)
}

func (r *xlsxRange) isDateFormatted(name string) bool {
	idx, err := r.file.GetCellStyle(r.sheet, name)
	if err != nil || idx == 0 {
		return false
	}
	style, err := r.file.GetStyle(idx)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil && isDateFormatCode(*style.CustomNumFmt) {
		return true
	}
	return isBuiltinDateFormat(style.NumFmt)
}

// isBuiltinDateFormat covers the built-in number format ids that render dates or times
func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode looks for date/time tokens outside quoted literals and
// bracketed sections such as colours or locales
func isDateFormatCode(code string) bool {
	var inQuote, inBracket bool
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case strings.ContainsRune("ymdhs", r):
			return true
		}
	}
	return false
}

var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// timeToSerial converts a time to a 1900 date-system serial
func timeToSerial(t time.Time) float64 {
	d := t.UTC().Sub(excelEpoch)
	serial := d.Hours() / 24
	return math.Round(serial*86400000) / 86400000
}
