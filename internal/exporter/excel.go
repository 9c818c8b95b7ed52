package exporter

import (
	"fmt"
	"strings"

	"excel-handler/internal/config"
	"excel-handler/internal/exporter/common"
	"excel-handler/internal/model"

	"github.com/xuri/excelize/v2"
)

// ExcelExporter writes the report as a workbook with Overview, Queries and
// Columns sheets
type ExcelExporter struct{}

// NewExcelExporter creates a new ExcelExporter
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export generates the Excel report
func (e *ExcelExporter) Export(report *model.Report, cfg *config.Config) error {
	f := excelize.NewFile()
	defer f.Close()

	styler, err := NewStyler(f)
	if err != nil {
		return err
	}

	if err := e.writeOverview(f, styler, report); err != nil {
		return err
	}
	if err := e.writeQueries(f, styler, report); err != nil {
		return err
	}
	if err := e.writeColumns(f, styler, report); err != nil {
		return err
	}

	if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		f.DeleteSheet("Sheet1")
	}

	if err := f.SaveAs(cfg.GetOutputPath(".xlsx")); err != nil {
		return fmt.Errorf("failed to save excel report: %w", err)
	}
	return nil
}

func (e *ExcelExporter) writeOverview(f *excelize.File, s *Styler, report *model.Report) error {
	sheet := "Overview"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	e.writeRow(f, sheet, 1, []any{"Item", "Value"}, s.HeaderStyle)

	items := []struct {
		Key string
		Val any
	}{
		{"Run ID", report.RunID},
		{"Workbook", report.Workbook},
		{"Mode", report.Mode},
		{"Date", report.Date.Format("2006-01-02 15:04:05")},
		{"Sheets", strings.Join(report.Sheets, ", ")},
		{"Queries", len(report.Results)},
		{"Matched", report.MatchedCount()},
	}

	for i, it := range items {
		e.writeRow(f, sheet, i+2, []any{it.Key, it.Val}, s.DefaultStyle)
	}

	f.SetColWidth(sheet, "A", "A", 16)
	f.SetColWidth(sheet, "B", "B", 60)
	return nil
}

func (e *ExcelExporter) writeQueries(f *excelize.File, s *Styler, report *model.Report) error {
	sheet := "Queries"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []any{"No", "Name", "Kind", "Sheet", "Rows", "Cols", "Results", "Detail", "Elapsed"}
	e.writeRow(f, sheet, 1, headers, s.HeaderStyle)
	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	for i, res := range report.Results {
		style := s.MatchStyle
		if !res.Matched() {
			style = s.MissStyle
		}
		e.writeRow(f, sheet, i+2, []any{
			i + 1,
			res.Name,
			res.Kind,
			common.Scope(res),
			res.Rows,
			res.Cols,
			res.Count(),
			common.Describe(res),
			res.Elapsed.String(),
		}, style)
	}

	f.SetColWidth(sheet, "B", "B", 30)
	f.SetColWidth(sheet, "C", "F", 14)
	f.SetColWidth(sheet, "H", "H", 50)
	return nil
}

func (e *ExcelExporter) writeColumns(f *excelize.File, s *Styler, report *model.Report) error {
	sheet := "Columns"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []any{"Query", "Column", "Values", "Count", "Sum", "Mean", "Min", "Max"}
	e.writeRow(f, sheet, 1, headers, s.HeaderStyle)

	row := 2
	for _, res := range report.Results {
		for _, g := range res.Groups {
			values := []any{res.Name, common.ColumnName(g.Col), strings.Join(g.Values, ", ")}
			if g.Summary != nil {
				values = append(values, g.Summary.Count, g.Summary.Sum, g.Summary.Mean, g.Summary.Min, g.Summary.Max)
			}
			e.writeRow(f, sheet, row, values, s.DefaultStyle)
			if g.Summary != nil {
				start, _ := excelize.CoordinatesToCellName(5, row)
				end, _ := excelize.CoordinatesToCellName(8, row)
				f.SetCellStyle(sheet, start, end, s.NumberStyle)
			}
			row++
		}
	}

	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "C", "C", 50)
	return nil
}

func (e *ExcelExporter) writeRow(f *excelize.File, sheet string, row int, values []any, style int) {
	for i, val := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheet, cell, val)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}
