package ocr

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/disintegration/imaging"
)

// EnhanceForOCR applies a series of image adjustments that improve printed
// text recognition on photographed documents. Input and output are PNG.
func EnhanceForOCR(pngData []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, fmt.Errorf("decoding image for enhancement: %w", err)
	}

	// Grayscale first for contrast, then sharpen the text edges
	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 30)
	img = imaging.Sharpen(img, 1.5)
	img = imaging.AdjustBrightness(img, 10)
	img = imaging.AdjustGamma(img, 1.2)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding enhanced image: %w", err)
	}

	return buf.Bytes(), nil
}
