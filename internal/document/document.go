package document

import "time"

// Document represents a parsed upload with its extracted fields.
// Vendor, Date and Total are empty strings when the heuristics found
// nothing; Date is ISO 8601 and Total carries two fractional digits.
type Document struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	ContentType   string    `json:"content_type"`
	SizeBytes     int64     `json:"size_bytes"`
	Vendor        string    `json:"vendor,omitempty"`
	Date          string    `json:"date,omitempty"`
	Total         string    `json:"total,omitempty"`
	ExtractedText string    `json:"extracted_text,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Summary is the list representation of a document, without the full
// extracted text
type Summary struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Vendor   string `json:"vendor,omitempty"`
	Date     string `json:"date,omitempty"`
	Total    string `json:"total,omitempty"`
}

// Summary returns the list representation of the document
func (d *Document) Summary() Summary {
	return Summary{
		ID:       d.ID,
		Filename: d.Filename,
		Vendor:   d.Vendor,
		Date:     d.Date,
		Total:    d.Total,
	}
}
