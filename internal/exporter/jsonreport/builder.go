package jsonreport

import (
	"encoding/json"
	"os"
	"time"

	"excel-handler/internal/config"
	"excel-handler/internal/model"
)

// Document is the root of the JSON report
type Document struct {
	RunID    string   `json:"run_id"`
	Workbook string   `json:"workbook"`
	Mode     string   `json:"mode"`
	Date     string   `json:"date"`
	Sheets   []string `json:"sheets"`
	Queries  []Query  `json:"queries"`
}

type Query struct {
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	Sheet     string   `json:"sheet,omitempty"`
	Rows      string   `json:"rows"`
	Cols      string   `json:"cols"`
	Matched   bool     `json:"matched"`
	Hits      []Hit    `json:"hits,omitempty"`
	Sheets    []string `json:"sheets,omitempty"`
	Groups    []Group  `json:"groups,omitempty"`
	ElapsedMS float64  `json:"elapsed_ms"`
}

type Hit struct {
	Sheet string `json:"sheet"`
	Row   uint32 `json:"row"`
	Col   uint32 `json:"col"`
	Ref   string `json:"ref"`
}

type Group struct {
	Col     uint32   `json:"col"`
	Values  []string `json:"values"`
	Summary *Summary `json:"summary,omitempty"`
}

type Summary struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// JSONExporter writes the report as indented JSON
type JSONExporter struct{}

func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

func (b *JSONExporter) Export(report *model.Report, cfg *config.Config) error {
	doc := Build(report)

	file, err := os.Create(cfg.GetOutputPath(".json"))
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// Build converts a report into its JSON document
func Build(report *model.Report) Document {
	doc := Document{
		RunID:    report.RunID,
		Workbook: report.Workbook,
		Mode:     report.Mode,
		Date:     report.Date.Format(time.RFC3339),
		Sheets:   report.Sheets,
		Queries:  make([]Query, 0, len(report.Results)),
	}
	if doc.Sheets == nil {
		doc.Sheets = []string{}
	}

	for _, res := range report.Results {
		q := Query{
			Name:      res.Name,
			Kind:      res.Kind,
			Sheet:     res.Sheet,
			Rows:      res.Rows,
			Cols:      res.Cols,
			Matched:   res.Matched(),
			Sheets:    res.MatchedSheets,
			ElapsedMS: float64(res.Elapsed.Microseconds()) / 1000,
		}
		for _, h := range res.Hits {
			q.Hits = append(q.Hits, Hit(h))
		}
		for _, g := range res.Groups {
			group := Group{Col: g.Col, Values: g.Values}
			if g.Summary != nil {
				s := Summary(*g.Summary)
				group.Summary = &s
			}
			q.Groups = append(q.Groups, group)
		}
		doc.Queries = append(doc.Queries, q)
	}
	return doc
}
