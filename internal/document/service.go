package document

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"docparse/internal/extract"
	"docparse/internal/ocr"
)

// IDGenerator generates unique IDs for documents
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamp
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles document parsing operations
type Service struct {
	db          DB
	engine      ocr.Engine
	extractor   *extract.Extractor
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, engine ocr.Engine, extractor *extract.Extractor, storage Storage) *Service {
	return &Service{
		db:          db,
		engine:      engine,
		extractor:   extractor,
		storage:     storage,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, engine ocr.Engine, extractor *extract.Extractor, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		engine:      engine,
		extractor:   extractor,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	filenameCharsRe  = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	filenameSpacesRe = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up a filename by removing special characters and
// truncating length; phone-generated names can be absurdly long
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = filenameCharsRe.ReplaceAllString(base, "")
	base = filenameSpacesRe.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}
	if base == "" {
		base = "document"
	}

	return base + ext
}

// FormatResult renders an extraction result into the string fields stored on
// a Document. Missing fields render as empty strings.
func FormatResult(result extract.Result) (vendor, date, total string) {
	vendor = result.Vendor
	if result.Date != nil {
		date = result.Date.Format("2006-01-02")
	}
	if result.Total != nil {
		total = result.Total.StringFixed(2)
	}
	return vendor, date, total
}

// ParseDocument stores an upload, runs OCR and field extraction over it and
// persists the resulting record. OCR failure surfaces as an error; the
// heuristics never fail, a document with no recognizable fields is persisted
// with the fields left empty.
func (s *Service) ParseDocument(filename string, data []byte, contentType string) (*Document, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	cleanFilename := sanitizeFilename(filename)

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	lines, err := s.engine.RecognizeLines(data, contentType)
	if err != nil {
		slog.Error("OCR failed",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		// Clean up the saved file since recognition failed
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("recognizing text: %w", err)
	}

	result := s.extractor.Extract(lines)
	vendor, date, total := FormatResult(result)

	texts := make([]string, 0, len(lines))
	for _, line := range lines {
		texts = append(texts, line.Text)
	}

	doc := &Document{
		ID:            id,
		Filename:      savedPath,
		ContentType:   contentType,
		SizeBytes:     int64(len(data)),
		Vendor:        vendor,
		Date:          date,
		Total:         total,
		ExtractedText: strings.Join(texts, "\n"),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.db.SaveDocument(doc); err != nil {
		// Clean up file if database save fails
		s.storage.Delete(savedPath)
		return nil, fmt.Errorf("saving document to database: %w", err)
	}

	return doc, nil
}

// GetDocument retrieves a document by ID
func (s *Service) GetDocument(id string) (*Document, error) {
	doc, err := s.db.GetDocument(id)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns all documents
func (s *Service) ListDocuments() ([]*Document, error) {
	docs, err := s.db.ListDocuments()
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a document and its stored file
func (s *Service) DeleteDocument(id string) error {
	doc, err := s.db.GetDocument(id)
	if err != nil {
		return fmt.Errorf("getting document for deletion: %w", err)
	}

	if err := s.storage.Delete(doc.Filename); err != nil {
		// Log but continue with database deletion
		slog.Warn("Failed to delete file", "filename", doc.Filename, "error", err)
	}

	if err := s.db.DeleteDocument(id); err != nil {
		return fmt.Errorf("deleting document from database: %w", err)
	}
	return nil
}

// GetDocumentFile retrieves the original upload for a document
func (s *Service) GetDocumentFile(id string) ([]byte, string, error) {
	doc, err := s.db.GetDocument(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting document: %w", err)
	}

	data, err := s.storage.Get(doc.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting document file: %w", err)
	}

	return data, doc.ContentType, nil
}
