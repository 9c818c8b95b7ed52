package html

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strings"

	"excel-handler/internal/config"
	"excel-handler/internal/exporter/common"
	"excel-handler/internal/model"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

type HTMLExporter struct{}

func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{}
}

// ReportData feeds ReportTemplate
type ReportData struct {
	RunID        string
	Workbook     string
	Mode         string
	Date         string
	SheetCount   int
	QueryCount   int
	MatchedCount int
	Body         template.HTML
}

func (e *HTMLExporter) Export(report *model.Report, cfg *config.Config) error {
	data := ReportData{
		RunID:        report.RunID,
		Workbook:     report.Workbook,
		Mode:         report.Mode,
		Date:         report.Date.Format("2006-01-02 15:04"),
		SheetCount:   len(report.Sheets),
		QueryCount:   len(report.Results),
		MatchedCount: report.MatchedCount(),
		Body:         template.HTML(renderMarkdown(BuildMarkdown(report))),
	}

	tmpl, err := template.New("report").Parse(ReportTemplate)
	if err != nil {
		return err
	}

	f, err := os.Create(cfg.GetOutputPath(".html"))
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

// renderMarkdown converts markdown to HTML. Raw HTML in cell text is dropped.
func renderMarkdown(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.SkipHTML})
	return markdown.ToHTML(md, p, r)
}

// BuildMarkdown lays out the report body as markdown: a query table followed
// by one section per query
func BuildMarkdown(report *model.Report) []byte {
	var b bytes.Buffer

	b.WriteString("## Queries\n\n")
	b.WriteString("| No | Name | Kind | Sheet | Rows | Cols | Result |\n")
	b.WriteString("|---:|------|------|-------|------|------|--------|\n")
	for i, res := range report.Results {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | `%s` | `%s` | %s |\n",
			i+1,
			escape(res.Name),
			escape(res.Kind),
			escape(common.Scope(res)),
			res.Rows,
			res.Cols,
			escape(common.Describe(res)))
	}
	b.WriteString("\n")

	for _, res := range report.Results {
		if len(res.Groups) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### %s\n\n", escape(res.Name))
		b.WriteString("| Column | Values | Count | Sum | Mean | Min | Max |\n")
		b.WriteString("|--------|--------|------:|----:|-----:|----:|----:|\n")
		for _, g := range res.Groups {
			fmt.Fprintf(&b, "| %s | %s |", common.ColumnName(g.Col), escape(strings.Join(g.Values, ", ")))
			if s := g.Summary; s != nil {
				fmt.Fprintf(&b, " %d | %s | %s | %s | %s |\n",
					s.Count,
					common.FormatNumber(s.Sum),
					common.FormatNumber(s.Mean),
					common.FormatNumber(s.Min),
					common.FormatNumber(s.Max))
			} else {
				b.WriteString(" | | | | |\n")
			}
		}
		b.WriteString("\n")
	}

	return b.Bytes()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", "&lt;",
	">", "&gt;",
	"\n", " ",
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
