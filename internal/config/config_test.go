package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != ModeExtract {
		t.Errorf("Expected default mode to be 'extract', got '%s'", cfg.Mode)
	}

	if cfg.OutputFormat != "csv" {
		t.Errorf("Expected default format to be 'csv', got '%s'", cfg.OutputFormat)
	}

	if cfg.SegmentMode != "page" {
		t.Errorf("Expected default segment mode to be 'page', got '%s'", cfg.SegmentMode)
	}

	if cfg.Workers != DefaultWorkers {
		t.Errorf("Expected default workers to be %d, got %d", DefaultWorkers, cfg.Workers)
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.ServerName != "invoice-extractor" {
		t.Errorf("Expected default server name to be 'invoice-extractor', got '%s'", cfg.ServerName)
	}

	currentDir, _ := os.Getwd()
	if cfg.PDFDirectory != currentDir {
		t.Errorf("Expected default PDF directory to be '%s', got '%s'", currentDir, cfg.PDFDirectory)
	}
}

func TestConfigValidate(t *testing.T) {
	validConfig := func() *Config {
		cfg := DefaultConfig()
		dir := t.TempDir()
		cfg.PDFDirectory = dir
		cfg.TemplatesPath = filepath.Join(dir, "templates.json")
		cfg.OutputPath = filepath.Join(dir, "invoices.csv")
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid extract config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "valid stdio config",
			mutate:  func(c *Config) { c.Mode = ModeStdio },
			wantErr: false,
		},
		{
			name:    "invalid mode",
			mutate:  func(c *Config) { c.Mode = "server" },
			wantErr: true,
		},
		{
			name:    "invalid output format",
			mutate:  func(c *Config) { c.OutputFormat = "pdf" },
			wantErr: true,
		},
		{
			name:    "xlsx output format",
			mutate:  func(c *Config) { c.OutputFormat = "xlsx" },
			wantErr: false,
		},
		{
			name:    "invalid segment mode",
			mutate:  func(c *Config) { c.SegmentMode = "line" },
			wantErr: true,
		},
		{
			name:    "keyword segment mode",
			mutate:  func(c *Config) { c.SegmentMode = "keyword" },
			wantErr: false,
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Workers = 0 },
			wantErr: true,
		},
		{
			name:    "negative max file size",
			mutate:  func(c *Config) { c.MaxFileSize = -1 },
			wantErr: true,
		},
		{
			name:    "empty pdf directory",
			mutate:  func(c *Config) { c.PDFDirectory = "" },
			wantErr: true,
		},
		{
			name:    "empty templates path",
			mutate:  func(c *Config) { c.TemplatesPath = "" },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
		{
			name:    "debug log level",
			mutate:  func(c *Config) { c.LogLevel = "debug" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateCreatesMissingDirectory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PDFDirectory = filepath.Join(t.TempDir(), "inbox")
	cfg.TemplatesPath = filepath.Join(cfg.PDFDirectory, "templates.json")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if _, err := os.Stat(cfg.PDFDirectory); err != nil {
		t.Errorf("Expected PDF directory to be created: %v", err)
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.IsStdioMode() {
		t.Error("Expected extract mode not to report stdio")
	}
	cfg.Mode = ModeStdio
	if !cfg.IsStdioMode() {
		t.Error("Expected stdio mode to report stdio")
	}

	if cfg.IsDebug() {
		t.Error("Expected info level not to report debug")
	}
	cfg.LogLevel = "debug"
	if !cfg.IsDebug() {
		t.Error("Expected debug level to report debug")
	}

	if cfg.String() == "" {
		t.Error("Expected non-empty string representation")
	}
}
