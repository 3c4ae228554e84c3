package extraction

import (
	"context"
	"log/slog"
	"strings"
)

// Kind identifies the uploaded document format.
type Kind int

const (
	// KindPDF is a PDF document, possibly with an embedded text layer
	KindPDF Kind = iota
	// KindImage is a raster photo of a receipt
	KindImage
)

// Document carries the raw uploaded bytes plus a format hint
type Document struct {
	Data     []byte
	Kind     Kind
	Filename string
}

// Recognizer defines the interface for optical text recognition
type Recognizer interface {
	// RecognizeText transcribes all text visible in a PNG image
	RecognizeText(ctx context.Context, pngData []byte, language string) (string, error)
	// Close closes the recognizer and releases resources
	Close() error
}

// Extractor produces best-effort plain text from a receipt document using a
// two-tier strategy: the native PDF text layer first, optical recognition second.
type Extractor struct {
	recognizer Recognizer
	language   string
}

// New creates a new Extractor using the given recognizer for the OCR tier
func New(recognizer Recognizer, language string) *Extractor {
	if language == "" {
		language = "German"
	}
	return &Extractor{
		recognizer: recognizer,
		language:   language,
	}
}

// Extract returns the text of a document. PDFs with a usable text layer never
// touch the recognizer. Engine failures are absorbed; an unreadable document
// yields an empty string, which the caller treats as "no text".
func (e *Extractor) Extract(ctx context.Context, doc Document) string {
	if doc.Kind == KindPDF {
		text, err := nativePDFText(doc.Data)
		if err != nil {
			slog.Warn("Native PDF text extraction failed, falling back to OCR",
				"filename", doc.Filename,
				"error", err,
			)
		} else if strings.TrimSpace(text) != "" {
			slog.Info("Extracted native PDF text", "filename", doc.Filename, "chars", len(text))
			return text
		}
	}

	pages, err := e.renderPages(doc)
	if err != nil {
		slog.Error("Rendering document for OCR failed",
			"filename", doc.Filename,
			"error", err,
		)
		return ""
	}

	var b strings.Builder
	for i, page := range pages {
		prepared, err := prepareForOCR(page)
		if err != nil {
			slog.Warn("Preprocessing page failed, using unprocessed image", "page", i, "error", err)
			prepared = page
		}

		text, err := e.recognizer.RecognizeText(ctx, prepared, e.language)
		if err != nil {
			slog.Warn("Recognizing page failed", "page", i, "error", err)
			continue
		}
		b.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderPages produces one PNG per page, in page order. A non-PDF document is
// a single page.
func (e *Extractor) renderPages(doc Document) ([][]byte, error) {
	if doc.Kind == KindPDF {
		return renderPDFPages(doc.Data)
	}

	pngData, err := imageToPNG(doc.Data)
	if err != nil {
		return nil, err
	}
	return [][]byte{pngData}, nil
}
