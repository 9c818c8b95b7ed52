package workbook

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"excel-handler/internal/cell"
	"excel-handler/internal/grid"
	"excel-handler/internal/logger"

	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// csvSource serves a delimited file as a single-sheet workbook named
// after the file, without its extension
type csvSource struct {
	sheet string
	rng   *grid.MemoryRange
}

func (s *csvSource) SheetNames() []string {
	return []string{s.sheet}
}

func (s *csvSource) Range(sheet string) (grid.Range, bool) {
	if sheet != s.sheet {
		return nil, false
	}
	return s.rng, true
}

func openCSV(path string) (*csvSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data, err := decodeText(raw)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = detectDelimiter(data)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	rows := make([][]cell.Value, len(records))
	for i, rec := range records {
		rows[i] = make([]cell.Value, len(rec))
		for j, field := range rec {
			rows[i][j] = cell.Infer(field)
		}
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	logger.Debug("Loaded %s as sheet %q (%d rows)", path, name, len(rows))

	return &csvSource{sheet: name, rng: grid.NewMemoryRange(grid.Coordinate{}, rows)}, nil
}

// decodeText returns UTF-8 content, falling back to EUC-KR/CP949 for
// legacy exports that are not valid UTF-8
func decodeText(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return raw, nil
	}

	decoded, _, err := transform.Bytes(korean.EUCKR.NewDecoder(), raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode text: %w", err)
	}
	return decoded, nil
}

// delimiterCandidates in order of preference on ties
var delimiterCandidates = []rune{',', '\t', ';', '|'}

// detectDelimiter picks the candidate seen most often on the first line,
// ignoring quoted text. Comma wins when nothing is found.
func detectDelimiter(data []byte) rune {
	line, _, _ := bytes.Cut(data, []byte("\n"))

	counts := make(map[rune]int, len(delimiterCandidates))
	inQuote := false
	for _, r := range string(line) {
		if r == '"' {
			inQuote = !inQuote
			continue
		}
		if !inQuote {
			counts[r]++
		}
	}

	best := ','
	for _, c := range delimiterCandidates {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}
