package runner

import (
	"excel-handler/internal/cell"
	"excel-handler/internal/exporter/common"
	"excel-handler/internal/grid"
	"excel-handler/internal/logger"
	"excel-handler/internal/model"
	"excel-handler/internal/workbook"
)

// ResultsSheet is the sheet WriteResults fills
const ResultsSheet = "Query Results"

// WriteResults records the report as a table in the workbook and saves it.
// The handle must be writable; a Read handle is a contract violation.
func WriteResults(h *workbook.Handle, report *model.Report) error {
	if err := workbook.Writable(h, (*workbook.Handle).AddSheet)(ResultsSheet); err != nil {
		return err
	}

	rows := [][]cell.Value{{
		cell.Text("Name"),
		cell.Text("Kind"),
		cell.Text("Sheet"),
		cell.Text("Rows"),
		cell.Text("Cols"),
		cell.Text("Results"),
		cell.Text("Detail"),
	}}
	for _, res := range report.Results {
		rows = append(rows, []cell.Value{
			cell.Text(res.Name),
			cell.Text(res.Kind),
			cell.Text(common.Scope(res)),
			cell.Text(res.Rows),
			cell.Text(res.Cols),
			cell.Int(int64(res.Count())),
			cell.Text(common.Describe(res)),
		})
	}

	if err := h.SetRangeValues(ResultsSheet, grid.Coordinate{}, rows); err != nil {
		return err
	}
	if err := h.Save(); err != nil {
		return err
	}

	logger.Debug("Wrote %d result row(s) to %q in %s", len(report.Results), ResultsSheet, h.Path())
	return nil
}
