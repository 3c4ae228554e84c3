package extraction

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/heic"
)

// maxOCRDimension caps the longer image edge before recognition. Receipts are
// tall and narrow; anything beyond this adds latency without adding legibility.
const maxOCRDimension = 2000

// imageToPNG converts any supported image format to PNG
func imageToPNG(imageData []byte) ([]byte, error) {
	var img image.Image
	var err error

	// HEIC/HEIF (common on iPhones) is not covered by Go's standard image package
	if isHEICFormat(imageData) {
		img, err = heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(imageData))
		if err != nil {
			if strings.Contains(err.Error(), "unknown format") || strings.Contains(err.Error(), "unsupported") {
				return nil, fmt.Errorf("unsupported image format. Supported formats: JPEG, PNG, GIF, HEIC, HEIF, PDF. Error: %w", err)
			}
			return nil, fmt.Errorf("decoding image: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// isHEICFormat checks if the image data is in HEIC/HEIF format
// HEIC files typically start with specific magic bytes
func isHEICFormat(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	// ftyp box at offset 4 with an HEIC-related brand
	if string(data[4:8]) == "ftyp" {
		brand := string(data[8:12])
		if brand == "heic" || brand == "heif" || brand == "mif1" || brand == "msf1" {
			return true
		}
	}
	return false
}

// prepareForOCR normalizes a PNG page for recognition: bounded size, grayscale,
// light sharpening. Thermal receipt prints come out low-contrast; this keeps
// the recognizer from misreading the decimal digits.
func prepareForOCR(pngData []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("decoding page: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxOCRDimension || bounds.Dy() > maxOCRDimension {
		if bounds.Dx() > bounds.Dy() {
			img = imaging.Resize(img, maxOCRDimension, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, maxOCRDimension, imaging.Lanczos)
		}
	}

	img = imaging.Grayscale(img)
	img = imaging.Sharpen(img, 0.5)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encoding page: %w", err)
	}
	return buf.Bytes(), nil
}
