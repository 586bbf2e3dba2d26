// Package extract turns unstructured OCR text lines into the vendor, date
// and total fields of an invoice or receipt using positional and lexical
// heuristics. Extraction is deterministic and side-effect free: malformed
// input degrades to unset fields, it never errors.
package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"docparse/internal/ocr"
)

// Result holds the fields extracted from a document. A field the heuristics
// could not find stays at its zero value: empty vendor, nil date, nil total.
type Result struct {
	Vendor string
	Date   *time.Time
	Total  *decimal.Decimal
}

// DatePattern locates date candidates in a line of text
type DatePattern struct {
	// Expr is the regular expression that matches a date candidate
	Expr string
	// CleanDigits matches against a copy of the line with common OCR digit
	// confusions repaired (I/l -> 1, O -> 0). Month-name patterns must
	// leave this off or "Oct" becomes "0ct".
	CleanDigits bool
}

// Config carries every tunable of the heuristics. The defaults encode the
// documented behavior; tests substitute their own values.
type Config struct {
	// VendorWindow is how many non-empty lines from the top of the
	// document are considered for the vendor name
	VendorWindow int
	// BoilerplateTokens disqualify a line from being the vendor when the
	// line starts with one of them
	BoilerplateTokens []string
	// CompanyHints are words that strongly suggest a business name
	CompanyHints []string
	// DatePatterns locate date candidates, tried per line in order
	DatePatterns []DatePattern
	// DateLayouts are the time.Parse layouts tried against each candidate
	DateLayouts []string
	// TotalLabels mark an amount on the same line as the document total
	TotalLabels []string
	// CurrencyMarkers qualify an unlabeled amount as a money candidate
	CurrencyMarkers []string
	// MaxTotal is the largest amount considered plausible as a total;
	// it filters OCR garbage such as phone numbers read as amounts
	MaxTotal float64
}

// DefaultConfig returns the heuristic parameters used in production
func DefaultConfig() Config {
	return Config{
		VendorWindow: 8,
		BoilerplateTokens: []string{
			"invoice", "receipt", "date", "due", "page", "total", "tax",
			"phone", "tel", "fax", "bill to", "ship to", "amount",
			"balance", "subtotal", "description", "item", "quantity",
			"qty", "account", "address", "order", "ship", "email",
		},
		CompanyHints: []string{
			"inc", "llc", "ltd", "co", "corp", "corporation", "company",
			"gmbh", "plc",
		},
		DatePatterns: []DatePattern{
			{Expr: `\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`, CleanDigits: true},
			{Expr: `\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`, CleanDigits: true},
			{Expr: `(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.? ?\d{1,2},? ?\d{2,4}\b`},
		},
		DateLayouts: []string{
			"1/2/2006", "01/02/2006", "1/2/06", "01/02/06",
			"1-2-2006", "01-02-2006", "1-2-06", "01-02-06",
			"2006-1-2", "2006-01-02", "2006/1/2", "2006/01/02",
			"Jan 2, 2006", "Jan 2 2006", "January 2, 2006", "January 2 2006",
		},
		TotalLabels: []string{
			"grand total", "total due", "amount due", "balance due",
			"amount payable", "net total", "invoice total", "total amount",
			"total",
		},
		CurrencyMarkers: []string{"$", "€", "£"},
		MaxTotal:        1000000,
	}
}

// Extractor applies the configured heuristics to OCR output
type Extractor struct {
	cfg          Config
	datePatterns []compiledDatePattern
	labelRe      *regexp.Regexp
	moneyRe      *regexp.Regexp
	markers      map[rune]bool
	maxTotal     decimal.Decimal
}

type compiledDatePattern struct {
	re          *regexp.Regexp
	cleanDigits bool
}

// New creates an Extractor, compiling and validating the configuration
func New(cfg Config) (*Extractor, error) {
	if cfg.VendorWindow <= 0 {
		return nil, fmt.Errorf("vendor window must be positive, got %d", cfg.VendorWindow)
	}
	if len(cfg.DateLayouts) == 0 {
		return nil, fmt.Errorf("at least one date layout is required")
	}

	e := &Extractor{
		cfg:      cfg,
		markers:  make(map[rune]bool),
		maxTotal: decimal.NewFromFloat(cfg.MaxTotal),
	}

	for _, p := range cfg.DatePatterns {
		re, err := regexp.Compile(p.Expr)
		if err != nil {
			return nil, fmt.Errorf("compiling date pattern %q: %w", p.Expr, err)
		}
		e.datePatterns = append(e.datePatterns, compiledDatePattern{re: re, cleanDigits: p.CleanDigits})
	}

	labelRe, err := compileLabelPattern(cfg.TotalLabels)
	if err != nil {
		return nil, err
	}
	e.labelRe = labelRe

	moneyRe, err := compileMoneyPattern(cfg.CurrencyMarkers)
	if err != nil {
		return nil, err
	}
	e.moneyRe = moneyRe

	for _, m := range cfg.CurrencyMarkers {
		for _, r := range m {
			e.markers[r] = true
		}
	}

	return e, nil
}

// Extract runs all three heuristics over the given lines. Lines are ordered
// by vertical position before scanning; the input is not modified.
func (e *Extractor) Extract(lines []ocr.Line) Result {
	ordered := make([]ocr.Line, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Y < ordered[j].Y
	})

	return Result{
		Vendor: e.extractVendor(ordered),
		Date:   e.extractDate(ordered),
		Total:  e.extractTotal(ordered),
	}
}

// extractVendor scores the lines in the top window and returns the most
// plausible business name, or "" when nothing qualifies
func (e *Extractor) extractVendor(lines []ocr.Line) string {
	var (
		bestScore = -1
		bestText  string
		seen      int
	)

	for _, line := range lines {
		if seen >= e.cfg.VendorWindow {
			break
		}
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		seen++

		if !containsLetter(text) {
			continue
		}
		if e.isBoilerplate(text) || looksLikeContactInfo(text) {
			continue
		}

		letters, digits := countLettersDigits(text)
		score := 0
		if e.hasCompanyHint(text) {
			score += 5
		}
		if n := len(strings.Fields(text)); n > 1 && n <= 6 {
			score += 2
		}
		if letters > digits {
			score++
		}

		// Strictly greater keeps the earlier line on ties
		if score > bestScore {
			bestScore = score
			bestText = text
		}
	}

	return bestText
}

// extractDate returns the topmost date that parses under some layout.
// Regex hits that no layout accepts (month 13) are skipped.
func (e *Extractor) extractDate(lines []ocr.Line) *time.Time {
	type candidate struct {
		pos  int
		text string
	}

	for _, line := range lines {
		var candidates []candidate
		for _, p := range e.datePatterns {
			text := line.Text
			if p.cleanDigits {
				text = cleanDigitConfusions(text)
			}
			for _, loc := range p.re.FindAllStringIndex(text, -1) {
				candidates = append(candidates, candidate{pos: loc[0], text: text[loc[0]:loc[1]]})
			}
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].pos < candidates[j].pos
		})

		for _, c := range candidates {
			for _, layout := range e.cfg.DateLayouts {
				if t, err := time.Parse(layout, c.text); err == nil {
					return &t
				}
			}
		}
	}

	return nil
}

// isBoilerplate reports whether the line starts with a skip token followed
// by a word boundary
func (e *Extractor) isBoilerplate(text string) bool {
	lower := strings.ToLower(text)
	for _, token := range e.cfg.BoilerplateTokens {
		if !strings.HasPrefix(lower, token) {
			continue
		}
		if len(lower) == len(token) {
			return true
		}
		next := rune(lower[len(token)])
		if !unicode.IsLetter(next) {
			return true
		}
	}
	return false
}

// hasCompanyHint reports whether any word of the line is a company suffix
func (e *Extractor) hasCompanyHint(text string) bool {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:()")
		for _, hint := range e.cfg.CompanyHints {
			if word == hint {
				return true
			}
		}
	}
	return false
}

// looksLikeContactInfo filters emails, URLs and similar address lines
func looksLikeContactInfo(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "@") ||
		strings.Contains(lower, "http") ||
		strings.Contains(lower, "www")
}

func containsLetter(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func countLettersDigits(text string) (letters, digits int) {
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r):
			digits++
		}
	}
	return letters, digits
}

// cleanDigitConfusions repairs the digit shapes OCR most often misreads
func cleanDigitConfusions(text string) string {
	return strings.NewReplacer("I", "1", "l", "1", "O", "0").Replace(text)
}
