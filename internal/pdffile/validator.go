package pdffile

import (
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validator handles PDF file validation operations.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// ValidationResult reports the outcome of validating one file.
type ValidationResult struct {
	Path    string `json:"path"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// ValidateFile performs basic structural checks followed by a relaxed pdfcpu
// validation pass. Validation problems land in the result message; only
// processing failures are returned as errors.
func (v *Validator) ValidateFile(path string) (*ValidationResult, error) {
	result := &ValidationResult{Path: path}

	if err := v.validatePDFFile(path); err != nil {
		result.Message = err.Error()
		return result, nil
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		result.Message = fmt.Sprintf("pdf structure validation failed: %v", err)
		return result, nil
	}

	result.Valid = true
	return result, nil
}

// IsValidPDF performs a quick check without the deep pdfcpu pass.
func (v *Validator) IsValidPDF(path string) bool {
	return v.validatePDFFile(path) == nil
}

// validatePDFFile performs cheap file-level validation.
func (v *Validator) validatePDFFile(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	return v.ValidateFileInfo(path, fileInfo)
}

// ValidateFileInfo performs validation on already-gathered file info without
// touching the file contents. Used by directory scans to skip the extra stat.
func (v *Validator) ValidateFileInfo(path string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", path)
	}
	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}
	if v.maxFileSize > 0 && fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}
	return nil
}
