package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"docparse/internal/ocr"
)

var amountCharsRe = regexp.MustCompile(`[^0-9,.\-]`)

// compileLabelPattern builds a case-insensitive alternation of the total
// labels, longest first so "total due" wins over "total"
func compileLabelPattern(labels []string) (*regexp.Regexp, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("at least one total label is required")
	}

	sorted := make([]string, len(labels))
	copy(sorted, labels)
	for i := range sorted {
		sorted[i] = regexp.QuoteMeta(strings.ToLower(sorted[i]))
	}
	// Longest-first keeps the alternation greedy
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if len(sorted[j]) > len(sorted[i]) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(sorted, "|") + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("compiling total label pattern: %w", err)
	}
	return re, nil
}

// compileMoneyPattern builds the money-token expression with an optional
// currency marker prefix
func compileMoneyPattern(markers []string) (*regexp.Regexp, error) {
	class := ""
	for _, m := range markers {
		class += regexp.QuoteMeta(m)
	}

	expr := `\d{1,3}(?:[.,]\d{3})+[.,]\d{2}\b|\d+[.,]\d{2}\b`
	if class != "" {
		expr = `(?:[` + class + `]\s*)?(?:` + expr + `)`
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compiling money pattern: %w", err)
	}
	return re, nil
}

type amountCandidate struct {
	value decimal.Decimal
	// labelDist is the character distance to the nearest label on the
	// candidate's line; -1 for unlabeled candidates
	labelDist int
	order     int
}

// extractTotal picks the document total. Label-adjacent amounts beat
// unlabeled ones; among equals the numerically largest wins, ties broken by
// label proximity and then document order.
func (e *Extractor) extractTotal(lines []ocr.Line) *decimal.Decimal {
	var labeled, unlabeled []amountCandidate
	order := 0

	for _, line := range lines {
		text := line.Text
		labelLoc := e.labelRe.FindStringIndex(text)

		for _, loc := range e.moneyRe.FindAllStringIndex(text, -1) {
			order++

			value, ok := parseAmount(text[loc[0]:loc[1]])
			if !ok {
				continue
			}
			if value.LessThanOrEqual(decimal.Zero) || value.GreaterThan(e.maxTotal) {
				continue
			}

			switch {
			case labelLoc != nil:
				dist := loc[0] - labelLoc[1]
				if dist < 0 {
					dist = labelLoc[0] - loc[1]
				}
				if dist < 0 {
					dist = 0
				}
				labeled = append(labeled, amountCandidate{value: value, labelDist: dist, order: order})
			case e.hasCurrencyMarker(text, loc[0], loc[1]):
				unlabeled = append(unlabeled, amountCandidate{value: value, labelDist: -1, order: order})
			}
		}
	}

	best := pickAmount(labeled)
	if best == nil {
		best = pickAmount(unlabeled)
	}
	return best
}

// pickAmount selects the largest candidate; on equal values the one closest
// to its label wins, then the earliest in the document
func pickAmount(candidates []amountCandidate) *decimal.Decimal {
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		switch {
		case c.value.GreaterThan(best.value):
			best = c
		case c.value.Equal(best.value) && c.labelDist >= 0 && (best.labelDist < 0 || c.labelDist < best.labelDist):
			best = c
		}
	}

	value := best.value
	return &value
}

// hasCurrencyMarker reports whether the matched token carries a currency
// marker, either inside the match or directly before/after it
func (e *Extractor) hasCurrencyMarker(text string, start, end int) bool {
	for _, r := range text[start:end] {
		if e.markers[r] {
			return true
		}
	}

	// Marker directly before the match, e.g. "$ 4.50" matched from the digit
	if before := strings.TrimRight(text[:start], " \t"); before != "" {
		r, _ := utf8.DecodeLastRuneInString(before)
		if e.markers[r] {
			return true
		}
	}
	// Marker after the match, e.g. "4,50 €"
	if after := strings.TrimLeft(text[end:], " \t"); after != "" {
		r, _ := utf8.DecodeRuneInString(after)
		if e.markers[r] {
			return true
		}
	}
	return false
}

// parseAmount converts a money token to a two-decimal value, handling both
// "1,234.56" and "1.234,56" separator conventions
func parseAmount(s string) (decimal.Decimal, bool) {
	s = amountCharsRe.ReplaceAllString(s, "")
	if s == "" {
		return decimal.Zero, false
	}

	commas := strings.Count(s, ",")
	dots := strings.Count(s, ".")
	switch {
	case commas > 0 && dots > 0:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			// European style: dots group thousands, comma is decimal
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case commas > 0:
		parts := strings.Split(s, ",")
		if len(parts[len(parts)-1]) == 2 {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return value.Round(2), true
}
