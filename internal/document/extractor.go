// Package document converts uploaded résumé files into plain text.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/jonathan/cv-fit-analyzer/internal/types"
)

// pdfMagic is the header every PDF file starts with.
var pdfMagic = []byte("%PDF-")

// metadataKeys are the document information dictionary entries copied into the metadata map.
var metadataKeys = []string{"Title", "Author", "Subject", "Keywords", "Creator", "Producer", "CreationDate", "ModDate"}

// Extractor reads PDF documents and returns their text.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates an Extractor. A nil logger disables logging.
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract reads the PDF at path and returns its text, page count and metadata.
// The file at path is removed before Extract returns, whether or not extraction succeeded.
func (e *Extractor) Extract(ctx context.Context, path string) (*types.ExtractedDocument, error) {
	defer e.release(path)

	if err := ctx.Err(); err != nil {
		return nil, e.fail(path, KindUnreadable, "request cancelled", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, e.fail(path, KindUnreadable, "failed to read file", err)
	}

	doc, err := parsePDF(data)
	if err != nil {
		return nil, e.fail(path, KindUnparseable, "failed to parse PDF", err)
	}

	if strings.TrimSpace(doc.Text) == "" {
		return nil, &EmptyContentError{Path: path, PageCount: doc.PageCount}
	}

	e.logger.Debug("document extracted",
		zap.Int("pages", doc.PageCount),
		zap.Int("chars", len(doc.Text)),
	)

	return doc, nil
}

func (e *Extractor) fail(path string, kind ErrorKind, message string, cause error) error {
	e.logger.Warn("document extraction failed",
		zap.String("path", path),
		zap.String("kind", string(kind)),
		zap.Error(cause),
	)
	return &ExtractionError{Path: path, Kind: kind, Message: message, Cause: cause}
}

// release deletes the temporary upload. A missing file is not an error.
func (e *Extractor) release(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		e.logger.Warn("failed to remove uploaded file", zap.String("path", path), zap.Error(err))
	}
}

// parsePDF extracts text from all pages of an in-memory PDF.
// The pdf library panics on some malformed inputs, so panics are turned into errors.
func parsePDF(data []byte) (doc *types.ExtractedDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, fmt.Errorf("missing %s header", pdfMagic)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var textBuilder strings.Builder
	totalPages := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPages; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return &types.ExtractedDocument{
		Text:      textBuilder.String(),
		PageCount: totalPages,
		Metadata:  readMetadata(reader),
	}, nil
}

// readMetadata copies the non-empty entries of the trailer's Info dictionary.
func readMetadata(reader *pdf.Reader) map[string]string {
	metadata := make(map[string]string)

	info := reader.Trailer().Key("Info")
	if info.IsNull() {
		return metadata
	}

	for _, key := range metadataKeys {
		if value := strings.TrimSpace(info.Key(key).Text()); value != "" {
			metadata[key] = value
		}
	}

	return metadata
}
