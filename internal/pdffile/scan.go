package pdffile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileInfo describes one discovered PDF file.
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Scanner discovers candidate PDF files under a directory.
type Scanner struct {
	validator *Validator
}

// NewScanner creates a scanner that filters files through the given size
// constraint.
func NewScanner(maxFileSize int64) *Scanner {
	return &Scanner{validator: NewValidator(maxFileSize)}
}

// ScanDirectory walks the directory recursively and returns every PDF file
// that passes basic validation, sorted by path for deterministic batch order.
// Unreadable entries are skipped rather than failing the whole scan.
func (s *Scanner) ScanDirectory(directory string) ([]FileInfo, error) {
	if directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}
	if _, err := os.Stat(absDirectory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", absDirectory)
	}

	var files []FileInfo
	err = filepath.Walk(absDirectory, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // continue past unreadable entries
		}
		if info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(info.Name()), ".pdf") {
			return nil
		}
		if err := s.validator.ValidateFileInfo(path, info); err != nil {
			return nil //nolint:nilerr // skip invalid files, keep walking
		}

		files = append(files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// CountPDFsInDirectory counts the valid PDF files under a directory.
func (s *Scanner) CountPDFsInDirectory(directory string) (int, error) {
	files, err := s.ScanDirectory(directory)
	if err != nil {
		return 0, err
	}
	return len(files), nil
}
