package exporter

import (
	"excel-handler/internal/config"
	"excel-handler/internal/model"
)

// Exporter writes a run report in one output format
type Exporter interface {
	Export(report *model.Report, cfg *config.Config) error
}
