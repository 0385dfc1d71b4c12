// Package extractor pulls plain text out of uploaded document files.
// It dispatches on file extension and reports a page (or section) count
// alongside the extracted text.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrFileNotFound signals the source path did not resolve to a file.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupportedFormat signals an unrecognized file extension.
	ErrUnsupportedFormat = errors.New("unsupported file type")
)

// Result holds the extracted full text of a document and its unit count:
// pages for PDFs, sections for markdown, 1 for formats without a page
// concept.
type Result struct {
	Text      string
	PageCount int
}

// Extractor converts document files to plain text.
type Extractor struct{}

// New creates a file extractor supporting .pdf, .docx, .md and .txt.
func New() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content.
// Returns ErrFileNotFound if the path does not resolve and
// ErrUnsupportedFormat for unrecognized extensions.
func (e *Extractor) Extract(ctx context.Context, path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDOCX(path)
	case ".md", ".markdown":
		return extractMarkdown(path)
	case ".txt":
		return extractText(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// extractText reads a plain-text file as-is.
func extractText(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read text file: %w", err)
	}
	return &Result{Text: string(data), PageCount: 1}, nil
}
