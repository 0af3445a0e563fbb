package extract

import (
	"context"
	"sync"

	"github.com/a3tai/invoice-extractor/internal/invoice"
	"github.com/a3tai/invoice-extractor/internal/template"
)

// FileResult is the outcome of processing one document in a batch. Skipped
// marks files the run was cancelled before reaching; for those, Matched says
// nothing about the document.
type FileResult struct {
	Path     string            `json:"path"`
	Template string            `json:"template,omitempty"`
	Matched  bool              `json:"matched"`
	Skipped  bool              `json:"skipped,omitempty"`
	Invoices []invoice.Invoice `json:"invoices,omitempty"`
	Err      error             `json:"-"`
}

// BatchRunner drives extraction across many documents on a worker pool.
// Single-document extraction stays sequential; parallelism exists only
// between documents, each of which gets its own handle.
type BatchRunner struct {
	service *Service
	workers int
}

// NewBatchRunner creates a runner with the given worker count. Counts below
// one are clamped to one.
func NewBatchRunner(service *Service, workers int) *BatchRunner {
	if workers < 1 {
		workers = 1
	}
	return &BatchRunner{service: service, workers: workers}
}

// Run processes every path against the template set and returns results in
// input order. Each file is matched against the templates in list order and
// extracted with the first one that applies; files matching no template are
// reported with Matched false. Context cancellation stops new files from
// being dispatched; in-flight extractions run to completion.
func (r *BatchRunner) Run(ctx context.Context, paths []string, templates []template.Template) []FileResult {
	results := make([]FileResult, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.processFile(paths[i], templates)
			}
		}()
	}

dispatch:
	for i := range paths {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	// Paths never dispatched still need their identity filled in, and are
	// marked skipped so callers don't read them as match failures.
	for i := range results {
		if results[i].Path == "" {
			results[i].Path = paths[i]
			results[i].Skipped = true
		}
	}
	return results
}

func (r *BatchRunner) processFile(path string, templates []template.Template) FileResult {
	result := FileResult{Path: path}

	tpl, ok := r.service.MatchTemplate(path, templates)
	if !ok {
		return result
	}
	result.Matched = true
	result.Template = tpl.Name

	invoices, err := r.service.ExtractInvoices(path, tpl)
	if err != nil {
		result.Err = err
		return result
	}
	result.Invoices = invoices
	return result
}
