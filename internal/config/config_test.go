package config

import (
	"os"
	"path/filepath"
	"testing"

	"excel-handler/internal/workbook"
)

func TestLoadConfigWithDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Failed to load config with defaults: %v", err)
	}

	if !filepath.IsAbs(cfg.Workbook.Path) {
		t.Errorf("Expected absolute workbook path, got %s", cfg.Workbook.Path)
	}
	if filepath.Base(cfg.Workbook.Path) != "sample.xlsx" {
		t.Errorf("Unexpected default workbook %s", cfg.Workbook.Path)
	}
	if mode, err := cfg.WorkbookMode(); err != nil || mode != workbook.ModeRead {
		t.Errorf("Expected Read mode by default, got %v (%v)", mode, err)
	}
	if cfg.Output.FileName == "" {
		t.Error("Expected Output.FileName to be set")
	}
	if len(cfg.Output.Formats) == 0 {
		t.Error("Expected at least one output format")
	}

	if len(cfg.Queries) != 3 {
		t.Fatalf("Expected 3 default queries, got %d", len(cfg.Queries))
	}
	kinds := []string{KindFindCell, KindFindSheets, KindIterate}
	for i, q := range cfg.Queries {
		if q.Kind != kinds[i] {
			t.Errorf("queries[%d].Kind = %s, expected %s", i, q.Kind, kinds[i])
		}
	}
	if cfg.Queries[0].Match.Value != "foo" {
		t.Errorf("Expected default match value foo, got %q", cfg.Queries[0].Match.Value)
	}
	if cfg.Queries[2].Stop != "all_empty" {
		t.Errorf("Expected all_empty stop, got %q", cfg.Queries[2].Stop)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
workbook:
  path: ./book.xlsx
  mode: write
output:
  dir: ./reports
  file_name: weekly
  formats: [excel, json]
queries:
  - name: hoge
    kind: find_sheets
    rows: "2..10"
    cols: "1"
    match:
      op: text_equals
      value: Hoge
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if mode, _ := cfg.WorkbookMode(); mode != workbook.ModeWrite {
		t.Errorf("Expected Write mode, got %v", mode)
	}
	if cfg.Output.FileName != "weekly" {
		t.Errorf("Expected weekly, got %s", cfg.Output.FileName)
	}
	if len(cfg.Output.Formats) != 2 {
		t.Errorf("Expected 2 formats, got %v", cfg.Output.Formats)
	}
	if len(cfg.Queries) != 1 || cfg.Queries[0].Match.Value != "Hoge" {
		t.Errorf("Queries from file should replace defaults: %+v", cfg.Queries)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("EXCEL_HANDLER_WORKBOOK_MODE", "create")
	t.Setenv("EXCEL_HANDLER_OUTPUT_FILE_NAME", "from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Workbook.Mode != "create" {
		t.Errorf("Expected env override for mode, got %s", cfg.Workbook.Mode)
	}
	if cfg.Output.FileName != "from-env" {
		t.Errorf("Expected env override for file name, got %s", cfg.Output.FileName)
	}
}

func TestGetOutputPath(t *testing.T) {
	cfg := &Config{
		Output: OutputConfig{
			Dir:      "/tmp/output",
			FileName: "test-report",
		},
	}

	expected := filepath.Join("/tmp/output", "test-report.xlsx")
	if result := cfg.GetOutputPath(".xlsx"); result != expected {
		t.Errorf("GetOutputPath() = %s, expected %s", result, expected)
	}

	expected = filepath.Join("/tmp/output", "logs", "excel-handler.log")
	if result := cfg.GetLogPath(); result != expected {
		t.Errorf("GetLogPath() = %s, expected %s", result, expected)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Workbook: WorkbookConfig{Path: "/data/book.xlsx", Mode: "read"},
			Output:   OutputConfig{FileName: "report"},
			Queries: []QueryConfig{
				{Name: "q", Kind: KindFindCell, Rows: "0..10", Cols: "1..10", Match: MatchConfig{Op: "is_text"}},
			},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		shouldErr bool
	}{
		{"Valid config", func(*Config) {}, false},
		{"Empty workbook path", func(c *Config) { c.Workbook.Path = "" }, true},
		{"Unknown mode", func(c *Config) { c.Workbook.Mode = "append" }, true},
		{"Empty output filename", func(c *Config) { c.Output.FileName = "" }, true},
		{"Unknown kind", func(c *Config) { c.Queries[0].Kind = "scan" }, true},
		{"Unknown match op", func(c *Config) { c.Queries[0].Match.Op = "regex" }, true},
		{"Number op without number", func(c *Config) {
			c.Queries[0].Match = MatchConfig{Op: "number_above", Value: "five"}
		}, true},
		{"Number op with number", func(c *Config) {
			c.Queries[0].Match = MatchConfig{Op: "number_above", Value: "5"}
		}, false},
		{"Bad rows", func(c *Config) { c.Queries[0].Rows = "a..b" }, true},
		{"Zero step", func(c *Config) { c.Queries[0].Cols = "0..10:0" }, true},
		{"Iterate without sheet", func(c *Config) {
			c.Queries[0] = QueryConfig{Kind: KindIterate, Rows: "0", Cols: "0.."}
		}, true},
		{"Iterate with unknown stop", func(c *Config) {
			c.Queries[0] = QueryConfig{Kind: KindIterate, Sheet: "Sheet1", Rows: "0", Cols: "0..", Stop: "sometimes"}
		}, true},
		{"Iterate with shorter_than", func(c *Config) {
			c.Queries[0] = QueryConfig{Kind: KindIterate, Sheet: "Sheet1", Rows: "1,5,6", Cols: "2..", Stop: "shorter_than:3"}
		}, false},
		{"Open-ended walk that never stops", func(c *Config) {
			c.Queries[0] = QueryConfig{Kind: KindIterate, Sheet: "Sheet1", Rows: "0..4", Cols: "2.."}
		}, true},
		{"Open-ended walk with any_empty", func(c *Config) {
			c.Queries[0] = QueryConfig{Kind: KindIterate, Sheet: "Sheet1", Rows: "0..4", Cols: "2..", Stop: "any_empty"}
		}, true},
		{"Open-ended walk with shorter_than:0", func(c *Config) {
			c.Queries[0] = QueryConfig{Kind: KindIterate, Sheet: "Sheet1", Rows: "0..4", Cols: "2..", Stop: "shorter_than:0"}
		}, true},
		{"Bounded walk that never stops", func(c *Config) {
			c.Queries[0] = QueryConfig{Kind: KindIterate, Sheet: "Sheet1", Rows: "0..4", Cols: "2..8"}
		}, false},
		{"Open-ended rows", func(c *Config) { c.Queries[0].Rows = "3.." }, true},
		{"Open-ended search cols", func(c *Config) { c.Queries[0].Cols = "1.." }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.shouldErr && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestParseStop(t *testing.T) {
	tests := []struct {
		input     string
		name      string
		arg       int
		shouldErr bool
	}{
		{"", "never", 0, false},
		{"never", "never", 0, false},
		{"all_empty", "all_empty", 0, false},
		{"any_empty", "any_empty", 0, false},
		{"shorter_than:2", "shorter_than", 2, false},
		{"shorter_than", "", 0, true},
		{"shorter_than:-1", "", 0, true},
		{"all_empty:1", "", 0, true},
		{"bogus", "", 0, true},
	}

	for _, tt := range tests {
		name, arg, err := ParseStop(tt.input)
		if tt.shouldErr {
			if err == nil {
				t.Errorf("ParseStop(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil || name != tt.name || arg != tt.arg {
			t.Errorf("ParseStop(%q) = %s, %d, %v; expected %s, %d", tt.input, name, arg, err, tt.name, tt.arg)
		}
	}
}

func TestEnsureOutputDir(t *testing.T) {
	cfg := &Config{Output: OutputConfig{Dir: filepath.Join(t.TempDir(), "a", "b")}}
	if err := cfg.EnsureOutputDir(); err != nil {
		t.Fatalf("EnsureOutputDir failed: %v", err)
	}
	if info, err := os.Stat(cfg.Output.Dir); err != nil || !info.IsDir() {
		t.Errorf("Output dir not created: %v", err)
	}
}
