package ocr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"
)

// Azure implements the Engine interface using the Azure Computer Vision
// printed text API
type Azure struct {
	client *computervision.BaseClient
}

// NewAzure creates a new Azure Engine instance
func NewAzure(endpoint, apiKey string) (*Azure, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("azure endpoint is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("azure api key is required")
	}

	client := computervision.New(endpoint)
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(apiKey)

	return &Azure{client: &client}, nil
}

// RecognizeLines runs printed-text OCR on an image and returns the
// recognized lines ordered top-to-bottom
func (a *Azure) RecognizeLines(imageData []byte, contentType string) ([]Line, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pngData, err := PrepareImage(imageData, contentType)
	if err != nil {
		return nil, err
	}

	// Enhancement noticeably improves recognition of photographed receipts
	enhanced, err := EnhanceForOCR(pngData)
	if err != nil {
		return nil, err
	}

	result, err := a.client.RecognizePrintedTextInStream(
		ctx,
		true,
		io.NopCloser(bytes.NewReader(enhanced)),
		computervision.OcrLanguages(computervision.En),
	)
	if err != nil {
		return nil, fmt.Errorf("recognizing text: %w", err)
	}

	return linesFromOCRResult(result), nil
}

// linesFromOCRResult flattens the region/line/word hierarchy of the Azure
// response into positioned text lines
func linesFromOCRResult(result computervision.OcrResult) []Line {
	var lines []Line
	if result.Regions == nil {
		return lines
	}

	for _, region := range *result.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			var text strings.Builder
			var box []int

			// Bounding box comes back as "x,y,width,height"
			if line.BoundingBox != nil {
				for _, part := range strings.Split(*line.BoundingBox, ",") {
					val, _ := strconv.Atoi(part)
					box = append(box, val)
				}
			}

			if line.Words != nil {
				for _, word := range *line.Words {
					if word.Text == nil {
						continue
					}
					if text.Len() > 0 {
						text.WriteString(" ")
					}
					text.WriteString(*word.Text)
				}
			}

			if len(box) >= 4 {
				lines = append(lines, Line{
					Text:   strings.TrimSpace(text.String()),
					X:      box[0],
					Y:      box[1],
					Width:  box[2],
					Height: box[3],
				})
			}
		}
	}

	// Regions are not guaranteed to arrive in reading order
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Y < lines[j].Y
	})

	return lines
}

// Close closes the Azure engine (no-op, the client holds no resources)
func (a *Azure) Close() error {
	return nil
}
