package word

import (
	"fmt"
	"os"
	"strings"

	"excel-handler/internal/config"
	"excel-handler/internal/exporter/common"
	"excel-handler/internal/model"

	"github.com/nguyenthenguyen/docx"
)

type WordExporter struct{}

func NewWordExporter() *WordExporter {
	return &WordExporter{}
}

func (e *WordExporter) Export(report *model.Report, cfg *config.Config) error {
	templateBytes, err := buildTemplate()
	if err != nil {
		return fmt.Errorf("failed to build template: %w", err)
	}

	// docx reads from a path, so stage the template in a temp file
	tmpFile, err := os.CreateTemp("", "excel-handler-template-*.docx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(templateBytes); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write template to temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	r, err := docx.ReadDocxFile(tmpFile.Name())
	if err != nil {
		return fmt.Errorf("failed to read docx template: %w", err)
	}
	defer r.Close()

	doc := r.Editable()

	replacements := []struct{ old, new string }{
		{phWorkbook, report.Workbook},
		{phDate, report.Date.Format("2006-01-02 15:04")},
		{phRunID, report.RunID},
		{phContent, BuildText(report)},
	}
	for _, rep := range replacements {
		if err := doc.Replace(rep.old, rep.new, -1); err != nil {
			return fmt.Errorf("failed to fill %s: %w", rep.old, err)
		}
	}

	if err := doc.WriteToFile(cfg.GetOutputPath(".docx")); err != nil {
		return fmt.Errorf("failed to write Word document: %w", err)
	}
	return nil
}

// BuildText renders the report body as fixed-width plain text
func BuildText(report *model.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Mode: %s\n", report.Mode)
	fmt.Fprintf(&sb, "Sheets: %s\n", strings.Join(report.Sheets, ", "))
	fmt.Fprintf(&sb, "Queries: %d (%d with results)\n\n", len(report.Results), report.MatchedCount())
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	for i, res := range report.Results {
		buildQueryText(&sb, i+1, res)
		if i < len(report.Results)-1 {
			sb.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
		}
	}
	return sb.String()
}

func buildQueryText(sb *strings.Builder, no int, res *model.QueryResult) {
	fmt.Fprintf(sb, "%d. %s [%s]\n", no, res.Name, res.Kind)
	fmt.Fprintf(sb, "Sheet: %s  Rows: %s  Cols: %s\n", common.Scope(res), res.Rows, res.Cols)
	fmt.Fprintf(sb, "Result: %s\n", common.Describe(res))

	if len(res.Groups) == 0 {
		return
	}

	sb.WriteString("\n")
	fmt.Fprintf(sb, "%-8s %-6s %-12s %-12s %-12s %-12s %s\n", "Column", "Count", "Sum", "Mean", "Min", "Max", "Values")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	for _, g := range res.Groups {
		values := truncate(strings.Join(g.Values, ", "), 30)
		if s := g.Summary; s != nil {
			fmt.Fprintf(sb, "%-8s %-6d %-12s %-12s %-12s %-12s %s\n",
				common.ColumnName(g.Col),
				s.Count,
				common.FormatNumber(s.Sum),
				common.FormatNumber(s.Mean),
				common.FormatNumber(s.Min),
				common.FormatNumber(s.Max),
				values)
			continue
		}
		fmt.Fprintf(sb, "%-8s %-6s %-12s %-12s %-12s %-12s %s\n",
			common.ColumnName(g.Col), "-", "-", "-", "-", "-", values)
	}
}

// truncate shortens s to at most maxLen runes
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
