// Package config loads and validates the application configuration from
// command line flags and INVOICE_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeExtract = "extract"
	ModeStdio   = "stdio"

	// Default values
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultWorkers     = 4
	DefaultFormat      = "csv"
	DefaultSegment     = "page"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the invoice extractor.
type Config struct {
	// Mode selects the front end: "extract" for the batch CLI, "stdio" for
	// the MCP tool server.
	Mode string

	// Input/output configuration
	PDFDirectory  string
	TemplatesPath string
	OutputPath    string
	OutputFormat  string // "csv" or "xlsx"
	Watch         bool
	ValidateOnly  bool // report PDF validity instead of extracting

	// Extraction configuration
	SegmentMode string // "page" or "keyword"
	Workers     int
	MaxFileSize int64

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:          ModeExtract,
		PDFDirectory:  currentDir,
		TemplatesPath: filepath.Join(currentDir, "templates.json"),
		OutputPath:    filepath.Join(currentDir, "invoices.csv"),
		OutputFormat:  DefaultFormat,
		SegmentMode:   DefaultSegment,
		Workers:       DefaultWorkers,
		MaxFileSize:   DefaultMaxFileSize,
		Version:       "1.0.0",
		ServerName:    "invoice-extractor",
		LogLevel:      DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths so downstream components only see absolute locations
	for _, p := range []*string{&cfg.PDFDirectory, &cfg.TemplatesPath, &cfg.OutputPath} {
		if *p != "" {
			if expanded, err := filepath.Abs(*p); err == nil {
				*p = expanded
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults.
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("INVOICE")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("dir", cfg.PDFDirectory)
	viper.SetDefault("templates", cfg.TemplatesPath)
	viper.SetDefault("output", cfg.OutputPath)
	viper.SetDefault("format", cfg.OutputFormat)
	viper.SetDefault("segment", cfg.SegmentMode)
	viper.SetDefault("workers", cfg.Workers)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("watch", cfg.Watch)
	viper.SetDefault("validate", cfg.ValidateOnly)
}

// defineCommandLineFlags sets up all command line flags.
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'extract' for batch extraction, 'stdio' for MCP standard I/O")
	pflag.String("dir", cfg.PDFDirectory, "Directory containing PDF invoices")
	pflag.String("templates", cfg.TemplatesPath, "Path to the templates JSON file")
	pflag.String("output", cfg.OutputPath, "Output file for extracted invoices")
	pflag.String("format", cfg.OutputFormat, "Output format: 'csv' or 'xlsx'")
	pflag.String("segment", cfg.SegmentMode, "Invoice segmentation: 'page' or 'keyword'")
	pflag.Int("workers", cfg.Workers, "Number of concurrent document workers")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Bool("watch", cfg.Watch, "Keep running and extract PDFs as they appear in the directory")
	pflag.Bool("validate", cfg.ValidateOnly, "Validate the PDFs in the directory and exit without extracting")
}

// bindFlagsToViper binds command line flags to viper configuration.
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "dir", "templates", "output", "format",
		"segment", "workers", "maxfilesize", "loglevel", "watch", "validate",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// populateConfigFromViper fills the config struct with values from viper.
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.PDFDirectory = viper.GetString("dir")
	cfg.TemplatesPath = viper.GetString("templates")
	cfg.OutputPath = viper.GetString("output")
	cfg.OutputFormat = viper.GetString("format")
	cfg.SegmentMode = viper.GetString("segment")
	cfg.Workers = viper.GetInt("workers")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.Watch = viper.GetBool("watch")
	cfg.ValidateOnly = viper.GetBool("validate")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Mode != ModeExtract && c.Mode != ModeStdio {
		return errors.New("mode must be either 'extract' or 'stdio'")
	}

	if c.OutputFormat != "csv" && c.OutputFormat != "xlsx" {
		return fmt.Errorf("invalid output format: %s (must be 'csv' or 'xlsx')", c.OutputFormat)
	}

	if c.SegmentMode != "page" && c.SegmentMode != "keyword" {
		return fmt.Errorf("invalid segment mode: %s (must be 'page' or 'keyword')", c.SegmentMode)
	}

	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}
	if _, err := os.Stat(c.PDFDirectory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.PDFDirectory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create PDF directory %s: %w", c.PDFDirectory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
	}

	if c.TemplatesPath == "" {
		return errors.New("templates path cannot be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// IsStdioMode returns true when running as an MCP stdio server.
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Mode: %s, Dir: %s, Templates: %s, Output: %s, Format: %s, Segment: %s, Workers: %d, MaxFileSize: %d}",
		c.Mode, c.PDFDirectory, c.TemplatesPath, c.OutputPath, c.OutputFormat, c.SegmentMode, c.Workers, c.MaxFileSize)
}
