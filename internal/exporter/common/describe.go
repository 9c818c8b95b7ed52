package common

import (
	"fmt"
	"strings"

	"excel-handler/internal/model"

	"github.com/xuri/excelize/v2"
)

// ColumnName converts a 0-based column index to its letter ("A", "AB")
func ColumnName(col uint32) string {
	name, err := excelize.ColumnNumberToName(int(col) + 1)
	if err != nil {
		return fmt.Sprintf("#%d", col)
	}
	return name
}

// Describe renders a one-line outcome of a query for tables
func Describe(res *model.QueryResult) string {
	if !res.Matched() {
		return "no match"
	}

	switch {
	case len(res.Hits) > 0:
		refs := make([]string, len(res.Hits))
		for i, h := range res.Hits {
			refs[i] = h.Sheet + "!" + h.Ref
		}
		return strings.Join(refs, ", ")
	case len(res.MatchedSheets) > 0:
		return strings.Join(res.MatchedSheets, ", ")
	default:
		cols := make([]string, len(res.Groups))
		for i, g := range res.Groups {
			cols[i] = ColumnName(g.Col)
		}
		return fmt.Sprintf("%d column(s): %s", len(res.Groups), strings.Join(cols, ", "))
	}
}

// Scope returns the sheet a query ran on, or a marker for cross-sheet queries
func Scope(res *model.QueryResult) string {
	if res.Sheet == "" {
		return "(all sheets)"
	}
	return res.Sheet
}

// SummarizedGroup pairs a column group with the query it belongs to
type SummarizedGroup struct {
	Query string
	Group model.ColumnGroup
}

// NumericGroups collects the groups that carry a summary in report order
func NumericGroups(report *model.Report) []SummarizedGroup {
	out := make([]SummarizedGroup, 0)
	for _, res := range report.Results {
		for _, g := range res.Groups {
			if g.Summary != nil {
				out = append(out, SummarizedGroup{Query: res.Name, Group: g})
			}
		}
	}
	return out
}

// FormatNumber trims trailing zeros for display
func FormatNumber(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", f), "0"), ".")
}
