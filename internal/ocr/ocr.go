// Package ocr recognizes text in images and scanned PDFs. It links MuPDF
// (go-fitz) and Tesseract (gosseract), so it is only wired in when OCR is enabled.
package ocr

import (
	"fmt"
	"strings"

	"legal-sentiment/internal/imageprep"
	"legal-sentiment/internal/logger"

	fitz "github.com/gen2brain/go-fitz"
	"github.com/otiai10/gosseract/v2"
	"github.com/sirupsen/logrus"
)

// minUsefulText is how long a recognition must be before later page
// segmentation modes are skipped.
const minUsefulText = 50

// Tried in order: automatic with orientation detection, fully automatic,
// single uniform block.
var segmentationModes = []gosseract.PageSegMode{
	gosseract.PSM_AUTO_OSD,
	gosseract.PSM_AUTO,
	gosseract.PSM_SINGLE_BLOCK,
}

type Engine struct {
	language string
}

func New(language string) *Engine {
	return &Engine{language: language}
}

// RecognizeImage runs OCR on an encoded image.
func (e *Engine) RecognizeImage(data []byte) (string, error) {
	img, err := imageprep.Decode(data)
	if err != nil {
		return "", err
	}
	png, err := imageprep.EncodePNG(imageprep.ForOCR(img))
	if err != nil {
		return "", err
	}
	return e.recognize(png)
}

// RecognizePDF renders every page and runs OCR on it. Pages without text are skipped.
func (e *Engine) RecognizePDF(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF for rendering: %w", err)
	}
	defer doc.Close()

	var pages []string
	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.Image(n)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"page":  n + 1,
				"error": err.Error(),
			}).Warn("Failed to render PDF page")
			continue
		}

		png, err := imageprep.EncodePNG(imageprep.ForOCR(img))
		if err != nil {
			return "", err
		}
		text, err := e.recognize(png)
		if err != nil {
			logger.WithFields(logrus.Fields{
				"page":  n + 1,
				"error": err.Error(),
			}).Warn("OCR failed on page")
			continue
		}
		if text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return "", fmt.Errorf("no text recognized on any of %d pages", doc.NumPage())
	}
	return strings.Join(pages, "\n\n"), nil
}

func (e *Engine) recognize(png []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.language); err != nil {
		return "", fmt.Errorf("failed to set OCR language %q: %w", e.language, err)
	}
	if err := client.SetImageFromBytes(png); err != nil {
		return "", fmt.Errorf("failed to load image into OCR: %w", err)
	}

	var best string
	var lastErr error
	for _, mode := range segmentationModes {
		if err := client.SetPageSegMode(mode); err != nil {
			lastErr = err
			continue
		}
		text, err := client.Text()
		if err != nil {
			lastErr = err
			continue
		}
		text = strings.TrimSpace(text)
		if len(text) >= minUsefulText {
			return text, nil
		}
		if len(text) > len(best) {
			best = text
		}
	}

	if best == "" && lastErr != nil {
		return "", fmt.Errorf("OCR failed: %w", lastErr)
	}
	return best, nil
}
