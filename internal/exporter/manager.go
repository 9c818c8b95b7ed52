package exporter

import (
	"errors"
	"strings"
	"sync"

	"excel-handler/internal/config"
	"excel-handler/internal/exporter/html"
	"excel-handler/internal/exporter/jsonreport"
	"excel-handler/internal/exporter/word"
	"excel-handler/internal/logger"
	"excel-handler/internal/model"

	"golang.org/x/sync/errgroup"
)

// GetExporters returns one Exporter per recognised format, in request order.
// Unknown formats are skipped.
func GetExporters(formats []string) []Exporter {
	exporters := []Exporter{}
	seen := make(map[string]bool)

	for _, fmtStr := range formats {
		fmtStr = strings.ToLower(strings.TrimSpace(fmtStr))

		var key string
		var exp Exporter
		switch fmtStr {
		case "excel", "xlsx":
			key, exp = "excel", NewExcelExporter()
		case "html":
			key, exp = "html", html.NewHTMLExporter()
		case "word", "docx":
			key, exp = "word", word.NewWordExporter()
		case "json":
			key, exp = "json", jsonreport.NewJSONExporter()
		default:
			continue
		}

		if seen[key] {
			continue
		}
		seen[key] = true
		exporters = append(exporters, exp)
	}

	return exporters
}

// ExportAll runs the exporters concurrently, at most limit at a time
// (limit <= 0 means no limit). done, if set, is called after each exporter
// finishes. Failures are logged and returned joined.
func ExportAll(report *model.Report, cfg *config.Config, exporters []Exporter, limit int, done func()) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for _, exp := range exporters {
		g.Go(func() error {
			if done != nil {
				defer done()
			}
			if err := exp.Export(report, cfg); err != nil {
				logger.Error("Export failed: %v", err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return err
			}
			return nil
		})
	}

	g.Wait()
	return errors.Join(errs...)
}
