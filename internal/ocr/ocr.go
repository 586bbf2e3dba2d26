package ocr

// Line represents one recognized line of text with its position on the page.
// Y orders lines top-to-bottom; engines that cannot report pixel positions
// use the line's ordinal index instead.
type Line struct {
	Text       string  `json:"text"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence,omitempty"` // 0-1, zero when the engine reports none
}

// Engine defines the interface for OCR backends
type Engine interface {
	// RecognizeLines runs OCR on an image/PDF and returns the recognized
	// text lines ordered top-to-bottom
	RecognizeLines(imageData []byte, contentType string) ([]Line, error)
	// Close closes the engine and releases resources
	Close() error
}
