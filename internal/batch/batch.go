// Package batch runs the document parsing pipeline over a folder of files
// and writes the extracted fields as CSV, one row per document.
package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"docparse/internal/extract"
	"docparse/internal/ocr"
)

// Processor parses every supported file in a folder
type Processor struct {
	engine    ocr.Engine
	extractor *extract.Extractor
}

// NewProcessor creates a new Processor
func NewProcessor(engine ocr.Engine, extractor *extract.Extractor) *Processor {
	return &Processor{
		engine:    engine,
		extractor: extractor,
	}
}

// supportedFile reports whether the batch run should pick up the file
func supportedFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".png", ".jpg", ".jpeg", ".gif", ".heic", ".heif":
		return true
	default:
		return false
	}
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// Run parses every supported file in inputDir and writes the result rows as
// CSV. A file that fails yields an ERROR row and processing continues; Run
// only errors when the folder itself cannot be read or the CSV written.
func (p *Processor) Run(inputDir string, out io.Writer) error {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return fmt.Errorf("reading input directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !supportedFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	writer := csv.NewWriter(out)
	if err := writer.Write([]string{"Filename", "Vendor", "Date", "Total"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, name := range names {
		slog.Info("Processing", "file", name)

		row, err := p.processFile(filepath.Join(inputDir, name))
		if err != nil {
			slog.Error("Failed to process file", "file", name, "error", err)
			row = []string{name, "ERROR", "ERROR", "ERROR"}
		} else {
			row = append([]string{name}, row...)
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}

	return nil
}

// processFile runs one file through OCR and extraction and returns the
// vendor/date/total columns
func (p *Processor) processFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	lines, err := p.engine.RecognizeLines(data, contentTypeFor(path))
	if err != nil {
		return nil, fmt.Errorf("recognizing text: %w", err)
	}

	result := p.extractor.Extract(lines)

	vendor := result.Vendor
	date := ""
	if result.Date != nil {
		date = result.Date.Format("2006-01-02")
	}
	total := ""
	if result.Total != nil {
		total = result.Total.StringFixed(2)
	}

	return []string{vendor, date, total}, nil
}
