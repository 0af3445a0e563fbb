// Package mcp exposes the invoice extraction pipeline as a set of MCP tools
// served over standard I/O.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/invoice-extractor/internal/config"
	"github.com/a3tai/invoice-extractor/internal/extract"
	"github.com/a3tai/invoice-extractor/internal/invoice"
	"github.com/a3tai/invoice-extractor/internal/pdffile"
	"github.com/a3tai/invoice-extractor/internal/template"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *extract.Service
	templates *template.Store
	scanner   *pdffile.Scanner
	validator *pdffile.Validator
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *extract.Service, templates *template.Store) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if templates == nil {
		return nil, fmt.Errorf("templates cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	validator := pdffile.NewValidator(cfg.MaxFileSize)

	s := &Server{
		config:    cfg,
		service:   service,
		templates: templates,
		scanner:   pdffile.NewScanner(cfg.MaxFileSize),
		validator: validator,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		"invoice_extract_file",
		mcp.WithDescription("Extract invoice records from a PDF file using a stored template"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
		mcp.WithString("template",
			mcp.Description("Template name to use (auto-detected when empty)"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtractFile)

	matchTool := mcp.NewTool(
		"invoice_match_template",
		mcp.WithDescription("Report which stored template matches a PDF file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(matchTool, s.handleMatchTemplate)

	listTool := mcp.NewTool(
		"invoice_templates_list",
		mcp.WithDescription("List the stored extraction templates and their fields"),
	)
	s.mcpServer.AddTool(listTool, s.handleTemplatesList)

	scanTool := mcp.NewTool(
		"pdf_scan_directory",
		mcp.WithDescription("List the PDF files in a directory"),
		mcp.WithString("directory",
			mcp.Description("Directory path to scan (uses default if empty)"),
		),
	)
	s.mcpServer.AddTool(scanTool, s.handleScanDirectory)

	validateTool := mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription("Validate if a file is a readable PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateTool, s.handleValidateFile)
}

// Handler functions
func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	templates, err := s.templates.Load()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	var tpl *template.Template
	if name, ok := args["template"].(string); ok && name != "" {
		found, ok := template.FindByName(templates, name)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("no template named %q", name)), nil
		}
		tpl = found
	} else {
		matched, ok := s.service.MatchTemplate(path, templates)
		if !ok {
			return mcp.NewToolResultText(fmt.Sprintf("No stored template matches %s", path)), nil
		}
		tpl = matched
	}

	invoices, err := s.service.ExtractInvoices(path, tpl)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatExtractResult(path, tpl.Name, invoices)), nil
}

func (s *Server) handleMatchTemplate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	templates, err := s.templates.Load()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	tpl, ok := s.service.MatchTemplate(path, templates)
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("No stored template matches %s", path)), nil
	}

	responseText := fmt.Sprintf("Template %q matches %s\n", tpl.Name, path)
	responseText += fmt.Sprintf("Keywords: %v\n", tpl.Keywords())
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleTemplatesList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	templates, err := s.templates.Load()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatTemplatesList(templates)), nil
}

func (s *Server) handleScanDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	directory := s.config.PDFDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	files, err := s.scanner.ScanDirectory(directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(files) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No PDF files found in directory: %s", directory)), nil
	}

	return mcp.NewToolResultText(s.formatScanResult(directory, files)), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.validator.ValidateFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

// Formatting methods
func (s *Server) formatExtractResult(path, templateName string, invoices []invoice.Invoice) string {
	text := fmt.Sprintf("Extracted %d invoice(s) from %s using template %q\n", len(invoices), path, templateName)
	if len(invoices) == 0 {
		return text
	}

	data, err := json.MarshalIndent(invoices, "", "  ")
	if err != nil {
		return text + fmt.Sprintf("failed to encode invoices: %v\n", err)
	}
	text += "\n" + string(data) + "\n"
	return text
}

// Run starts the MCP server over standard I/O
func (s *Server) Run(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting invoice extractor MCP server in stdio mode")
		log.Printf("PDF directory: %s", s.config.PDFDirectory)
		log.Printf("Templates file: %s", s.config.TemplatesPath)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

func (s *Server) formatTemplatesList(templates []template.Template) string {
	if len(templates) == 0 {
		return "No templates stored"
	}

	text := fmt.Sprintf("Stored templates: %d\n", len(templates))
	for i, tpl := range templates {
		text += fmt.Sprintf("\n%d. %s\n", i+1, tpl.Name)
		for _, f := range tpl.Fields.Values() {
			text += fmt.Sprintf("   %s: keyword=%q", f.Name, f.Keyword)
			if f.HasSpatialHint() {
				text += fmt.Sprintf(", position=(%.1f, %.1f)", f.X, f.Y)
			}
			text += "\n"
		}
	}
	return text
}

func (s *Server) formatScanResult(directory string, files []pdffile.FileInfo) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n\nFiles:\n", len(files), directory)
	for i, file := range files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(files)-1 {
			text += "\n"
		}
	}
	return text
}
