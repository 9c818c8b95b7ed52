package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"excel-handler/internal/config"
	"excel-handler/internal/exporter"
	"excel-handler/internal/exporter/common"
	"excel-handler/internal/logger"
	"excel-handler/internal/model"
	"excel-handler/internal/runner"
	"excel-handler/internal/ui"
	"excel-handler/internal/workbook"
)

const (
	appName    = "Excel Handler"
	appVersion = "1.0.0"
	appDesc    = "Cell search and column iteration over spreadsheet workbooks"
)

var (
	configPath   string
	verbose      bool
	showVersion  bool
	outputDir    string
	formats      string
	workbookPath string
	mode         string
	pause        bool
)

func init() {
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging (DEBUG level)")
	flag.BoolVar(&verbose, "v", false, "Enable verbose logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.StringVar(&outputDir, "output", "", "Override output directory from config")
	flag.StringVar(&formats, "format", "", "Comma-separated report formats (excel,html,word,json); overrides config")
	flag.StringVar(&workbookPath, "workbook", "", "Override workbook path from config")
	flag.StringVar(&mode, "mode", "", "Override workbook mode (read, write, create)")
	flag.BoolVar(&pause, "pause", false, "Wait for Enter before exiting (for double-click launches)")
}

func main() {
	exitCode := run()
	if pause {
		waitForEnter()
	}
	os.Exit(exitCode)
}

func run() int {
	flag.Parse()

	if showVersion {
		fmt.Printf("%s v%s\n%s\n", appName, appVersion, appDesc)
		return 0
	}

	printBanner()

	logger.Info("Loading configuration...")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		return 1
	}
	applyOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		return 1
	}
	if err := cfg.EnsureOutputDir(); err != nil {
		fmt.Printf("❌ %v\n", err)
		return 1
	}

	if err := logger.Init(os.Stdout, cfg.GetLogPath(), verbose); err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	if logger.IsVerbose() {
		cfg.Print()
	}

	if err := runQueries(cfg); err != nil {
		logger.Error("%v", err)
		return 1
	}

	logger.Info("✅ Done. Reports are in [%s].", cfg.Output.Dir)
	return 0
}

// applyOverrides lets flags win over config file and environment values
func applyOverrides(cfg *config.Config) {
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if workbookPath != "" {
		cfg.Workbook.Path = workbookPath
	}
	if mode != "" {
		cfg.Workbook.Mode = mode
	}
	if formats != "" {
		cfg.Output.Formats = strings.Split(formats, ",")
	}
}

func runQueries(cfg *config.Config) error {
	pipeline := ui.NewPipeline(ui.DefaultPhases)
	if verbose {
		// DEBUG lines would tear the bars apart
		pipeline.Disable()
	}
	defer pipeline.Finish()

	// --- Phase 1: Opening ---
	openMode, _ := cfg.WorkbookMode()
	logger.Info("Phase 1: Opening %s (%s)...", cfg.Workbook.Path, openMode)
	openBar := pipeline.NextPhase(1)

	h, err := workbook.Open(cfg.Workbook.Path, openMode)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer h.Close()
	openBar.Increment()

	report := model.NewReport(h.Path(), h.Mode().String())
	report.Sheets = h.SheetNames()
	logger.Info("Sheets: %s", strings.Join(report.Sheets, ", "))

	// --- Phase 2: Querying ---
	logger.Info("Phase 2: Running %d queries...", len(cfg.Queries))
	r := runner.New(h, nil)
	queryBar := pipeline.NextPhase(r.Steps(cfg.Queries))
	r = runner.New(h, queryBar)

	if failed := r.RunAll(report, cfg.Queries); failed > 0 {
		logger.Warn("%d query(ies) failed, see log for details", failed)
	}
	queryBar.Finish()
	printResults(report)

	if h.Mode().Writable() {
		if err := runner.WriteResults(h, report); err != nil {
			return fmt.Errorf("failed to write results into workbook: %w", err)
		}
		logger.Info("Saved results to sheet %q of %s", runner.ResultsSheet, h.Path())
	}

	// --- Phase 3: Exporting ---
	exporters := exporter.GetExporters(cfg.Output.Formats)
	logger.Info("Phase 3: Exporting %d report(s)...", len(exporters))
	exportBar := pipeline.NextPhase(len(exporters))

	err = exporter.ExportAll(report, cfg, exporters, runtime.NumCPU(), func() { exportBar.Increment() })
	exportBar.Finish()
	if err != nil {
		return fmt.Errorf("one or more exports failed: %w", err)
	}
	return nil
}

// printResults writes each query outcome to the console
func printResults(report *model.Report) {
	for _, res := range report.Results {
		logger.InfoClean("• %s [%s] %s", res.Name, res.Kind, common.Describe(res))
		for _, g := range res.Groups {
			line := fmt.Sprintf("    %s: %s", common.ColumnName(g.Col), strings.Join(g.Values, ", "))
			if s := g.Summary; s != nil {
				line += fmt.Sprintf("  (sum=%s mean=%s)", common.FormatNumber(s.Sum), common.FormatNumber(s.Mean))
			}
			logger.InfoClean("%s", line)
		}
	}
}

// waitForEnter keeps a double-clicked console window open
func waitForEnter() {
	fmt.Println("\n==========================================")
	fmt.Println("Execution Finished. Press 'Enter' to exit.")
	fmt.Println("==========================================")
	bufio.NewReader(os.Stdin).ReadBytes('\n')
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                   EXCEL HANDLER v1.0.0                    ║
║        Cell Search and Column Walks for Workbooks         ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
