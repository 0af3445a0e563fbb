package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/a3tai/invoice-extractor/internal/config"
	"github.com/a3tai/invoice-extractor/internal/export"
	"github.com/a3tai/invoice-extractor/internal/extract"
	"github.com/a3tai/invoice-extractor/internal/ingest"
	"github.com/a3tai/invoice-extractor/internal/invoice"
	"github.com/a3tai/invoice-extractor/internal/mcp"
	"github.com/a3tai/invoice-extractor/internal/pdffile"
	"github.com/a3tai/invoice-extractor/internal/template"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the run mode
func setupLogging(cfg *config.Config) {
	if cfg.IsStdioMode() {
		// In stdio mode, redirect log output to stderr to avoid interfering with MCP protocol
		log.SetOutput(os.Stderr)
		if !cfg.IsDebug() {
			log.SetOutput(os.NewFile(0, os.DevNull))
		}
	} else {
		log.SetFlags(log.LstdFlags)
		log.SetOutput(os.Stderr)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	service := extract.NewService(cfg.MaxFileSize, extract.SegmentMode(cfg.SegmentMode))

	store, err := template.NewStore(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to open template store: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsStdioMode() {
		runStdioMode(ctx, cfg, service, store)
		return
	}
	if cfg.ValidateOnly {
		runValidateMode(cfg)
		return
	}
	runExtractMode(ctx, cancel, cfg, service, store)
}

// runValidateMode reports the validity of every PDF under the configured
// directory and exits non-zero when any file fails.
func runValidateMode(cfg *config.Config) {
	validator := pdffile.NewValidator(cfg.MaxFileSize)

	var checked, failed int
	err := filepath.WalkDir(cfg.PDFDirectory, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !strings.HasSuffix(strings.ToLower(path), ".pdf") {
			return nil
		}
		checked++
		result, err := validator.ValidateFile(path)
		if err != nil {
			failed++
			fmt.Printf("ERROR    %s: %v\n", path, err)
			return nil
		}
		if result.Valid {
			fmt.Printf("OK       %s\n", path)
		} else {
			failed++
			fmt.Printf("INVALID  %s: %s\n", path, result.Message)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to walk %s: %v", cfg.PDFDirectory, err)
	}

	fmt.Printf("%d file(s) checked, %d invalid\n", checked, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// runStdioMode serves the extraction pipeline as MCP tools over standard I/O.
func runStdioMode(ctx context.Context, cfg *config.Config, service *extract.Service, store *template.Store) {
	srv, err := mcp.NewServer(cfg, service, store)
	if err != nil {
		log.Fatalf("Failed to create MCP server: %v", err)
	}

	// In stdio mode, the parent process controls our lifecycle
	if err := srv.Run(ctx); err != nil {
		if os.Getenv("DEBUG") != "" {
			log.Printf("Server error: %v", err)
		}
		os.Exit(1)
	}
}

// runExtractMode performs a batch extraction pass over the configured
// directory and, with --watch, keeps extracting as new PDFs arrive.
func runExtractMode(
	ctx context.Context,
	cancel context.CancelFunc,
	cfg *config.Config,
	service *extract.Service,
	store *template.Store,
) {
	templates, err := store.Load()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}
	if len(templates) == 0 {
		log.Printf("No templates defined in %s; nothing will match", cfg.TemplatesPath)
	}

	scanner := pdffile.NewScanner(cfg.MaxFileSize)
	files, err := scanner.ScanDirectory(cfg.PDFDirectory)
	if err != nil {
		log.Fatalf("Failed to scan %s: %v", cfg.PDFDirectory, err)
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}

	runner := extract.NewBatchRunner(service, cfg.Workers)
	results := runner.Run(ctx, paths, templates)

	invoices := collectInvoices(results)
	log.Printf("Extracted %d invoice(s) from %d file(s)", len(invoices), len(paths))

	if !cfg.Watch {
		if err := writeOutput(cfg, invoices); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		log.Printf("Wrote %s", cfg.OutputPath)
		return
	}

	watchForInvoices(ctx, cancel, cfg, service, templates, invoices)
}

// watchForInvoices blocks on the directory watcher, re-exporting the output
// file after every newly extracted PDF, until interrupted.
func watchForInvoices(
	ctx context.Context,
	cancel context.CancelFunc,
	cfg *config.Config,
	service *extract.Service,
	templates []template.Template,
	invoices []invoice.Invoice,
) {
	watcher, err := ingest.NewWatcher(ingest.WatchConfig{Root: cfg.PDFDirectory})
	if err != nil {
		log.Fatalf("Failed to watch %s: %v", cfg.PDFDirectory, err)
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		sig := <-signalCh
		log.Printf("Received signal: %s", sig)
		cancel()
	}()

	watchErrCh := make(chan error, 1)
	go func() {
		watchErrCh <- watcher.Run(ctx)
	}()

	if err := writeOutput(cfg, invoices); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	log.Printf("Watching %s for new PDFs", cfg.PDFDirectory)

	for {
		select {
		case path, ok := <-watcher.Events():
			if !ok {
				return
			}
			tpl, matched := service.MatchTemplate(path, templates)
			if !matched {
				log.Printf("No template matches %s", path)
				continue
			}
			extracted, err := service.ExtractInvoices(path, tpl)
			if err != nil {
				log.Printf("Extraction failed for %s: %v", path, err)
				continue
			}
			if len(extracted) == 0 {
				continue
			}
			invoices = append(invoices, extracted...)
			log.Printf("Extracted %d invoice(s) from %s", len(extracted), path)
			if err := writeOutput(cfg, invoices); err != nil {
				log.Printf("Failed to write output: %v", err)
			}
		case err := <-watchErrCh:
			if err != nil && ctx.Err() == nil {
				log.Fatalf("Watcher error: %v", err)
			}
			return
		case <-ctx.Done():
			return
		}
	}
}

// collectInvoices flattens batch results, logging per-file failures.
func collectInvoices(results []extract.FileResult) []invoice.Invoice {
	var invoices []invoice.Invoice
	for _, res := range results {
		if res.Skipped {
			log.Printf("Skipped %s: run cancelled before dispatch", res.Path)
			continue
		}
		if res.Err != nil {
			log.Printf("Extraction failed for %s: %v", res.Path, res.Err)
			continue
		}
		if !res.Matched {
			log.Printf("No template matches %s", res.Path)
			continue
		}
		invoices = append(invoices, res.Invoices...)
	}
	return invoices
}

func writeOutput(cfg *config.Config, invoices []invoice.Invoice) error {
	switch cfg.OutputFormat {
	case "xlsx":
		return export.ExportXLSX(cfg.OutputPath, invoices)
	default:
		return export.ExportCSV(cfg.OutputPath, invoices)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Invoice Extractor\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
