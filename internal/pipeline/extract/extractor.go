// Package extract turns uploaded agreement documents (PDF, DOCX, plain
// text) into cleaned text plus detected sections, ready for clause
// segmentation.  PDF extraction prefers the embedded text layer and falls
// back to an external OCR binary for scanned documents.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/agreemshield/agreemshield/internal/infrastructure/monitoring/logging"
	"github.com/agreemshield/agreemshield/pkg/errors"
	"github.com/agreemshield/agreemshield/pkg/types/agreement"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// Config holds extraction parameters.
type Config struct {
	// MaxFileSizeBytes rejects uploads larger than this. Zero means the
	// default limit.
	MaxFileSizeBytes int64 `yaml:"max_file_size_bytes" json:"max_file_size_bytes"`

	// MinDirectTextChars is the threshold below which the PDF text layer is
	// considered empty and OCR is attempted.
	MinDirectTextChars int `yaml:"min_direct_text_chars" json:"min_direct_text_chars"`

	// OCREnabled toggles the OCR fallback for scanned PDFs.
	OCREnabled bool `yaml:"ocr_enabled" json:"ocr_enabled"`

	// OCRBinary is the external OCR command, looked up on PATH.
	OCRBinary string `yaml:"ocr_binary" json:"ocr_binary"`

	// OCRTimeout bounds a single OCR invocation.
	OCRTimeout time.Duration `yaml:"ocr_timeout" json:"ocr_timeout"`
}

// DefaultConfig returns the extraction defaults.
func DefaultConfig() Config {
	return Config{
		MaxFileSizeBytes:   32 << 20,
		MinDirectTextChars: 100,
		OCREnabled:         true,
		OCRBinary:          "tesseract",
		OCRTimeout:         2 * time.Minute,
	}
}

// ---------------------------------------------------------------------------
// Extractor
// ---------------------------------------------------------------------------

// Extractor converts raw document bytes into a DocumentDTO.
type Extractor struct {
	cfg Config
	log logging.Logger
}

// New constructs an Extractor. A zero-valued cfg falls back to defaults
// field by field.
func New(cfg Config, log logging.Logger) *Extractor {
	def := DefaultConfig()
	if cfg.MaxFileSizeBytes <= 0 {
		cfg.MaxFileSizeBytes = def.MaxFileSizeBytes
	}
	if cfg.MinDirectTextChars <= 0 {
		cfg.MinDirectTextChars = def.MinDirectTextChars
	}
	if cfg.OCRBinary == "" {
		cfg.OCRBinary = def.OCRBinary
	}
	if cfg.OCRTimeout <= 0 {
		cfg.OCRTimeout = def.OCRTimeout
	}
	if log == nil {
		log = logging.Default()
	}
	return &Extractor{cfg: cfg, log: log.Named("extract")}
}

// Extract dispatches on the file extension and returns the extracted
// document with cleaned text and detected sections.
func (e *Extractor) Extract(ctx context.Context, filename string, content []byte) (*agreement.DocumentDTO, error) {
	if int64(len(content)) > e.cfg.MaxFileSizeBytes {
		return nil, errors.Newf(errors.ErrCodeDocumentTooLarge,
			"document %s is %d bytes, limit is %d", filename, len(content), e.cfg.MaxFileSizeBytes)
	}
	if len(content) == 0 {
		return nil, errors.Newf(errors.ErrCodeEmptyDocument, "document %s is empty", filename)
	}

	format, err := agreement.FormatFromFilename(filename)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUnsupportedFormat, "unsupported document format")
	}

	doc := &agreement.DocumentDTO{
		Filename: filepath.Base(filename),
		Format:   format,
	}

	var text string
	switch format {
	case agreement.FormatPDF:
		text, doc.Pages, doc.ExtractionMethod, err = e.extractPDF(ctx, content)
	case agreement.FormatDOCX:
		text, err = extractDOCX(content)
		doc.ExtractionMethod = agreement.ExtractionDOCX
		doc.Pages = 1
	case agreement.FormatTXT:
		text = string(content)
		doc.ExtractionMethod = agreement.ExtractionPlain
		doc.Pages = 1
	}
	if err != nil {
		return nil, err
	}

	text = CleanText(text)
	if strings.TrimSpace(text) == "" {
		return nil, errors.Newf(errors.ErrCodeEmptyDocument,
			"no text could be extracted from %s", filename)
	}

	doc.Text = text
	doc.WordCount = len(strings.Fields(text))
	doc.Sections = DetectSections(text)

	e.log.Info("document extracted",
		logging.String("filename", doc.Filename),
		logging.String("format", string(format)),
		logging.String("method", string(doc.ExtractionMethod)),
		logging.Int("pages", doc.Pages),
		logging.Int("words", doc.WordCount),
		logging.Int("sections", len(doc.Sections)))

	return doc, nil
}

// ---------------------------------------------------------------------------
// PDF
// ---------------------------------------------------------------------------

func (e *Extractor) extractPDF(ctx context.Context, content []byte) (string, int, agreement.ExtractionMethod, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", 0, "", errors.Wrap(err, errors.ErrCodeExtractionFailed, "failed to open PDF")
	}

	pages := reader.NumPage()
	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", 0, "", errors.Wrap(err, errors.ErrCodeTimeout, "PDF extraction cancelled")
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			e.log.Warn("page text extraction failed",
				logging.Int("page", i), logging.Err(err))
			continue
		}
		fmt.Fprintf(&sb, "\n--- Page %d ---\n", i)
		sb.WriteString(pageText)
	}

	text := sb.String()
	if len(strings.TrimSpace(stripPageMarkers(text))) >= e.cfg.MinDirectTextChars {
		return text, pages, agreement.ExtractionDirect, nil
	}

	// Text layer is missing or too thin, treat as a scanned document.
	if !e.cfg.OCREnabled {
		return "", pages, "", errors.New(errors.ErrCodeOCRUnavailable,
			"PDF has no usable text layer and OCR is disabled")
	}
	ocrText, err := e.runOCR(ctx, content)
	if err != nil {
		return "", pages, "", err
	}
	return ocrText, pages, agreement.ExtractionOCRFallback, nil
}

var rePageMarker = regexp.MustCompile(`\n--- Page \d+ ---\n`)

func stripPageMarkers(text string) string {
	return rePageMarker.ReplaceAllString(text, "\n")
}

// runOCR shells out to the configured OCR binary with the document written
// to a temporary file. Output is read from stdout.
func (e *Extractor) runOCR(ctx context.Context, content []byte) (string, error) {
	bin, err := exec.LookPath(e.cfg.OCRBinary)
	if err != nil {
		return "", errors.Newf(errors.ErrCodeOCRUnavailable,
			"OCR binary %q not found on PATH", e.cfg.OCRBinary)
	}

	tmp, err := os.CreateTemp("", "agreemshield-ocr-*.pdf")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeExtractionFailed, "failed to create OCR temp file")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", errors.Wrap(err, errors.ErrCodeExtractionFailed, "failed to write OCR temp file")
	}
	tmp.Close()

	ctx, cancel := context.WithTimeout(ctx, e.cfg.OCRTimeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, tmp.Name(), "stdout")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeOCRUnavailable,
			fmt.Sprintf("OCR failed: %s", strings.TrimSpace(stderr.String())))
	}

	e.log.Info("OCR fallback used", logging.String("binary", e.cfg.OCRBinary))
	return stdout.String(), nil
}

// ---------------------------------------------------------------------------
// Text cleanup
// ---------------------------------------------------------------------------

var (
	reSpaces       = regexp.MustCompile(`[ \t]+`)
	reManyNewlines = regexp.MustCompile(`\n{3,}`)
	reControlChars = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")
)

// CleanText normalizes extracted text: control characters are removed, runs
// of spaces collapse to one, and blank-line runs collapse to a single blank
// line. Newlines are preserved so section detection still works.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = reControlChars.ReplaceAllString(text, "")
	text = reSpaces.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	text = strings.Join(lines, "\n")
	text = reManyNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
