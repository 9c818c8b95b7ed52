package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"excel-handler/internal/grid"
	"excel-handler/internal/workbook"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. EXCEL_HANDLER_WORKBOOK_PATH
const EnvPrefix = "EXCEL_HANDLER"

// Query kinds
const (
	KindFindCell   = "find_cell"
	KindFindSheets = "find_sheets"
	KindIterate    = "iterate"
)

// MatchOps lists the cell predicates a query can name
var MatchOps = []string{"text_equals", "text_fold", "is_text", "is_empty", "number_equals", "number_above"}

// StopOps lists the group stop conditions an iterate query can name.
// shorter_than takes an argument: "shorter_than:3".
var StopOps = []string{"never", "all_empty", "any_empty", "shorter_than"}

// Config represents the application configuration
type Config struct {
	Workbook WorkbookConfig `mapstructure:"workbook"`
	Output   OutputConfig   `mapstructure:"output"`
	Queries  []QueryConfig  `mapstructure:"queries"`
}

// WorkbookConfig selects the file to open and how
type WorkbookConfig struct {
	Path string `mapstructure:"path"`
	Mode string `mapstructure:"mode"` // read, write or create
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir      string   `mapstructure:"dir"`       // Output directory
	FileName string   `mapstructure:"file_name"` // Report file name (without extension)
	Formats  []string `mapstructure:"formats"`   // excel, html, word, json
}

// QueryConfig describes one grid query.
// Rows and Cols use sequence notation ("0..10", "0..10:2", "5..", "1,5,6", "9>3").
type QueryConfig struct {
	Name  string      `mapstructure:"name"`
	Kind  string      `mapstructure:"kind"`
	Sheet string      `mapstructure:"sheet"` // find_cell with no sheet runs on every sheet
	Rows  string      `mapstructure:"rows"`
	Cols  string      `mapstructure:"cols"`
	Match MatchConfig `mapstructure:"match"`
	Stop  string      `mapstructure:"stop"`
}

// MatchConfig names a cell predicate and its operand
type MatchConfig struct {
	Op    string `mapstructure:"op"`
	Value string `mapstructure:"value"`
}

// Load reads the configuration from a file or uses defaults.
// A .env file in the working directory is applied first, and EXCEL_HANDLER_*
// variables override file values.
// If configPath is empty, it looks for "config.yaml" in the current directory.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		configPath = "config.yaml"
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		fmt.Println("==========================================")
		fmt.Println("Config file not found. Using defaults:")
		fmt.Printf("  Workbook: %s\n", v.GetString("workbook.path"))
		fmt.Printf("  Output:   %s\n", v.GetString("output.dir"))
		fmt.Println("==========================================")
	} else {
		fmt.Printf("Loaded config from: %s\n", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults reproduces the demo run: one lookup per sheet, a cross-sheet
// search and a column walk over Sheet1
func setDefaults(v *viper.Viper) {
	v.SetDefault("workbook.path", "sample/sample.xlsx")
	v.SetDefault("workbook.mode", "read")

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.file_name", "excel-handler-report")
	v.SetDefault("output.formats", []string{"excel"})

	v.SetDefault("queries", []map[string]any{
		{
			"name":  "foo per sheet",
			"kind":  KindFindCell,
			"rows":  "0..10",
			"cols":  "1..10",
			"match": map[string]any{"op": "text_equals", "value": "foo"},
		},
		{
			"name":  "sheets with foo",
			"kind":  KindFindSheets,
			"rows":  "0..10",
			"cols":  "4..10",
			"match": map[string]any{"op": "text_equals", "value": "foo"},
		},
		{
			"name":  "Sheet1 columns",
			"kind":  KindIterate,
			"sheet": "Sheet1",
			"rows":  "0..10:2",
			"cols":  "5..",
			"stop":  "all_empty",
		},
	})
}

// normalizePaths converts relative paths to absolute paths
func (c *Config) normalizePaths() error {
	if c.Workbook.Path != "" {
		abs, err := filepath.Abs(c.Workbook.Path)
		if err != nil {
			return fmt.Errorf("failed to resolve workbook.path: %w", err)
		}
		c.Workbook.Path = abs
	}

	absOutput, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output.dir: %w", err)
	}
	c.Output.Dir = absOutput

	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// GetOutputPath returns the report path for the given extension (".xlsx", ".html", ...)
func (c *Config) GetOutputPath(ext string) string {
	return filepath.Join(c.Output.Dir, c.Output.FileName+ext)
}

// GetLogPath returns the log file location inside the output directory
func (c *Config) GetLogPath() string {
	return filepath.Join(c.Output.Dir, "logs", "excel-handler.log")
}

// WorkbookMode parses workbook.mode
func (c *Config) WorkbookMode() (workbook.Mode, error) {
	return workbook.ParseMode(c.Workbook.Mode)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Workbook.Path == "" {
		return fmt.Errorf("workbook.path cannot be empty")
	}
	if _, err := c.WorkbookMode(); err != nil {
		return err
	}
	if c.Output.FileName == "" {
		return fmt.Errorf("output.file_name cannot be empty")
	}

	for i, q := range c.Queries {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("queries[%d] (%s): %w", i, q.Name, err)
		}
	}
	return nil
}

// Validate checks kind, sequences and predicate names of one query
func (q QueryConfig) Validate() error {
	switch q.Kind {
	case KindFindCell, KindFindSheets:
		if err := validateMatch(q.Match); err != nil {
			return err
		}
	case KindIterate:
		if q.Sheet == "" {
			return fmt.Errorf("iterate needs a sheet")
		}
		if err := validateStop(q.Stop); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown query kind %q", q.Kind)
	}

	if _, err := grid.ParseSequence(q.Rows); err != nil {
		return fmt.Errorf("rows: %w", err)
	}
	if _, err := grid.ParseSequence(q.Cols); err != nil {
		return fmt.Errorf("cols: %w", err)
	}
	return q.checkTermination()
}

// checkTermination rejects queries that could scan forever. Searches need
// bounded sequences; a column walk may run open-ended only when its stop
// fires on the empty groups found past the last populated column.
func (q QueryConfig) checkTermination() error {
	if unbounded(q.Rows) {
		return fmt.Errorf("rows %q must be bounded", q.Rows)
	}
	if !unbounded(q.Cols) {
		return nil
	}
	if q.Kind != KindIterate {
		return fmt.Errorf("cols %q must be bounded for %s", q.Cols, q.Kind)
	}
	name, n, _ := ParseStop(q.Stop)
	if name == "all_empty" || (name == "shorter_than" && n > 0) {
		return nil
	}
	return fmt.Errorf("open-ended cols %q need stop all_empty or shorter_than:n (n > 0)", q.Cols)
}

// unbounded reports whether a sequence expression has no end ("5..")
func unbounded(expr string) bool {
	return strings.HasSuffix(strings.TrimSpace(expr), "..")
}

func validateMatch(m MatchConfig) error {
	if !slices.Contains(MatchOps, m.Op) {
		return fmt.Errorf("unknown match op %q", m.Op)
	}
	if strings.HasPrefix(m.Op, "number_") {
		if _, err := strconv.ParseFloat(m.Value, 64); err != nil {
			return fmt.Errorf("%s needs a number, got %q", m.Op, m.Value)
		}
	}
	return nil
}

func validateStop(stop string) error {
	if stop == "" {
		return nil
	}
	_, _, err := ParseStop(stop)
	return err
}

// ParseStop splits "name:arg" and checks the name against StopOps.
// The argument is only allowed, and required, for shorter_than.
func ParseStop(stop string) (name string, arg int, err error) {
	name, rawArg, hasArg := strings.Cut(stop, ":")
	if name == "" {
		return "never", 0, nil
	}
	if !slices.Contains(StopOps, name) {
		return "", 0, fmt.Errorf("unknown stop %q", stop)
	}
	if name != "shorter_than" {
		if hasArg {
			return "", 0, fmt.Errorf("stop %q takes no argument", name)
		}
		return name, 0, nil
	}
	n, convErr := strconv.Atoi(rawArg)
	if !hasArg || convErr != nil || n < 0 {
		return "", 0, fmt.Errorf("shorter_than needs a non-negative count, got %q", rawArg)
	}
	return name, n, nil
}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== Excel Handler Configuration ===")
	fmt.Printf("Workbook:         %s\n", c.Workbook.Path)
	fmt.Printf("Mode:             %s\n", c.Workbook.Mode)
	fmt.Printf("Output Directory: %s\n", c.Output.Dir)
	fmt.Printf("Report Name:      %s\n", c.Output.FileName)
	fmt.Printf("Formats:          %v\n", c.Output.Formats)
	fmt.Printf("Queries:          %d\n", len(c.Queries))
	for _, q := range c.Queries {
		fmt.Printf("  - %-20s %-12s rows=%s cols=%s\n", q.Name, q.Kind, q.Rows, q.Cols)
	}
	fmt.Println("===================================")
}
