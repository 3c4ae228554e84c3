package receipt

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/zombor/splitbot/internal/extraction"
)

// TextExtractor produces best-effort plain text from an uploaded document.
// An unreadable document yields an empty string, never an error.
type TextExtractor interface {
	Extract(ctx context.Context, doc extraction.Document) string
}

// Service turns an uploaded document into a parsed receipt
type Service struct {
	extractor TextExtractor
	parser    *Parser
	storage   Storage
}

// NewService creates a new Service
func NewService(extractor TextExtractor, parser *Parser, storage Storage) *Service {
	return &Service{
		extractor: extractor,
		parser:    parser,
		storage:   storage,
	}
}

// ProcessUpload archives the raw document, extracts its text, and parses it.
// Returns ErrNoText when nothing readable came out of either extraction tier
// and ErrEmptyReceipt when the text contained no product lines; in both cases
// the archived file is removed again. Extraction may take seconds per page,
// so callers run this off the event dispatch path.
func (s *Service) ProcessUpload(ctx context.Context, doc extraction.Document) (*Receipt, error) {
	cleanFilename := sanitizeFilename(doc.Filename)

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", uuid.NewString(), cleanFilename), doc.Data)
	if err != nil {
		// Archiving is best-effort; the pipeline still runs
		slog.Warn("Failed to archive upload", "filename", doc.Filename, "error", err)
		savedPath = ""
	}

	text := s.extractor.Extract(ctx, doc)
	if strings.TrimSpace(text) == "" {
		slog.Error("No text extracted from document",
			"filename", doc.Filename,
			"file_size", len(doc.Data),
		)
		s.discard(savedPath)
		return nil, ErrNoText
	}

	rcpt, err := s.parser.Parse(text)
	if err != nil {
		slog.Error("Failed to parse receipt text",
			"filename", doc.Filename,
			"text_chars", len(text),
			"error", err,
		)
		s.discard(savedPath)
		return nil, fmt.Errorf("parsing receipt: %w", err)
	}

	slog.Info("Parsed receipt",
		"filename", doc.Filename,
		"products", len(rcpt.Products),
		"discount", rcpt.Discount,
	)
	return rcpt, nil
}

func (s *Service) discard(savedPath string) {
	if savedPath == "" {
		return
	}
	if err := s.storage.Delete(savedPath); err != nil {
		slog.Warn("Failed to delete archived upload", "path", savedPath, "error", err)
	}
}

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	// Get the extension
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	// Remove special characters, keep only alphanumeric, spaces, hyphens, and underscores
	reg := regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	base = reg.ReplaceAllString(base, "")

	// Replace multiple spaces with single space
	reg = regexp.MustCompile(`\s+`)
	base = reg.ReplaceAllString(base, " ")

	// Trim spaces
	base = strings.TrimSpace(base)

	// Truncate to reasonable length (50 chars for base, plus extension)
	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	// If base is empty after sanitization, use a default
	if base == "" {
		base = "receipt"
	}

	return base + ext
}
