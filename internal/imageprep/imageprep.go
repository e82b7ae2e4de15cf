// Package imageprep decodes uploaded images and scanned pages and prepares
// them for OCR.
package imageprep

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// Decoders beyond the standard gif/jpeg/png set.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// TargetHeight is the page height OCR works best at.
const TargetHeight = 2000

// Decode reads any supported image format, honoring EXIF orientation.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// ForOCR scales to TargetHeight, converts to grayscale, stretches contrast and
// sharpens.
func ForOCR(img image.Image) *image.NRGBA {
	prepared := imaging.Resize(img, 0, TargetHeight, imaging.Lanczos)
	prepared = imaging.Grayscale(prepared)
	prepared = imaging.AdjustContrast(prepared, 20)
	return imaging.Sharpen(prepared, 1.0)
}

// EncodePNG serializes an image for OCR engines that take bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
