package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"legal-sentiment/internal/logger"
	"legal-sentiment/internal/models"

	"github.com/ledongthuc/pdf"
	"github.com/sirupsen/logrus"
	"github.com/unidoc/unioffice/document"
)

// minDirectPDFText is the amount of embedded text below which a PDF is treated
// as scanned and handed to OCR.
const minDirectPDFText = 100

// OCR recognizes text in raster content.
type OCR interface {
	RecognizeImage(data []byte) (string, error)
	RecognizePDF(data []byte) (string, error)
}

// ImageDescriber produces text for an image when OCR finds none.
type ImageDescriber interface {
	DescribeImage(ctx context.Context, data []byte, mimeType string) (string, error)
}

// UnsupportedTypeError is returned for extensions the extractor does not read.
type UnsupportedTypeError struct {
	Extension string
}

func (e *UnsupportedTypeError) Error() string {
	return "Unsupported file type: " + e.Extension
}

// ReadError wraps a failure to parse a document of a known type.
type ReadError struct {
	Kind string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("Error reading %s file: %v", e.Kind, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// ErrNoText means the document was read but contained nothing to analyze.
var ErrNoText = errors.New("no text could be extracted")

type Extractor struct {
	ocr       OCR
	describer ImageDescriber
	sanitizer *TextSanitizer
	unioffice bool
}

// NewExtractor wires optional OCR and image description; either may be nil.
func NewExtractor(ocr OCR, describer ImageDescriber, sanitizer *TextSanitizer) *Extractor {
	return &Extractor{
		ocr:       ocr,
		describer: describer,
		sanitizer: sanitizer,
	}
}

// WithUnioffice routes .docx files through unioffice first. Only enable it
// once a unioffice license key has been registered.
func (e *Extractor) WithUnioffice(enabled bool) *Extractor {
	e.unioffice = enabled
	return e
}

// ExtractText returns sanitized text for a document, picking the reader by extension.
func (e *Extractor) ExtractText(ctx context.Context, file models.UploadedFile) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))

	var (
		text string
		err  error
	)
	switch ext {
	case ".txt", ".md":
		text = string(file.Data)
	case ".csv":
		text, err = e.readCSV(file.Data)
	case ".docx":
		text, err = e.readDocx(file.Data)
	case ".pdf":
		text, err = e.readPDF(file)
	case ".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff", ".webp":
		text, err = e.readImage(ctx, file, ext)
	default:
		return "", &UnsupportedTypeError{Extension: ext}
	}
	if err != nil {
		return "", err
	}

	text = e.sanitizer.SanitizeText(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func (e *Extractor) readCSV(data []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return "", &ReadError{Kind: "CSV", Err: err}
	}

	var text strings.Builder
	for _, record := range records {
		text.WriteString(strings.Join(record, " | "))
		text.WriteString("\n")
	}
	return text.String(), nil
}

func (e *Extractor) readDocx(data []byte) (string, error) {
	if e.unioffice {
		text, err := readDocxUnioffice(data)
		if err == nil {
			return text, nil
		}
		logger.WithFields(logrus.Fields{"error": err.Error()}).Warn("unioffice could not read document, parsing XML directly")
	}

	text, err := readDocxXML(data)
	if err != nil {
		return "", &ReadError{Kind: "DOCX", Err: err}
	}
	return text, nil
}

func readDocxUnioffice(data []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()

	var text strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			text.WriteString(run.Text())
		}
		text.WriteString("\n")
	}
	return text.String(), nil
}

func (e *Extractor) readPDF(file models.UploadedFile) (string, error) {
	text, err := extractPDFText(file.Data)
	if err != nil {
		if e.ocr == nil {
			return "", &ReadError{Kind: "PDF", Err: err}
		}
		logger.WithFields(logrus.Fields{
			"filename": file.Filename,
			"error":    err.Error(),
		}).Warn("Failed to extract embedded PDF text, falling back to OCR")
	}

	if len(strings.TrimSpace(text)) >= minDirectPDFText || e.ocr == nil {
		return text, nil
	}

	logger.WithFields(logrus.Fields{
		"filename":   file.Filename,
		"textLength": len(strings.TrimSpace(text)),
	}).Info("PDF has little embedded text, applying OCR")

	ocrText, ocrErr := e.ocr.RecognizePDF(file.Data)
	if ocrErr != nil {
		logger.WithFields(logrus.Fields{
			"filename": file.Filename,
			"error":    ocrErr.Error(),
		}).Warn("OCR failed")
		if err != nil {
			return "", &ReadError{Kind: "PDF", Err: err}
		}
		return text, nil
	}
	return ocrText, nil
}

// extractPDFText reads embedded page text. The pdf package panics on
// malformed cross-reference data, so panics are reported as errors.
func extractPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to create PDF reader: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"page":  i,
				"error": err.Error(),
			}).Warn("Failed to extract text from page")
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (e *Extractor) readImage(ctx context.Context, file models.UploadedFile, ext string) (string, error) {
	if e.ocr != nil {
		text, err := e.ocr.RecognizeImage(file.Data)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		if err != nil {
			logger.WithFields(logrus.Fields{
				"filename": file.Filename,
				"error":    err.Error(),
			}).Warn("OCR failed on image")
		}
	}

	if e.describer == nil {
		return "", &ReadError{Kind: "image", Err: errors.New("no OCR or vision model configured")}
	}
	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	description, err := e.describer.DescribeImage(ctx, file.Data, mimeType)
	if err != nil {
		return "", &ReadError{Kind: "image", Err: err}
	}
	return e.sanitizer.StripMarkup(description), nil
}
