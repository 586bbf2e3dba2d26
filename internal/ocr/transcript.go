package ocr

import (
	"encoding/json"
	"fmt"
	"strings"
)

// transcribePrompt is the shared prompt used by the vision-model engines.
// The models transcribe only; field extraction happens locally.
const transcribePrompt = `You are a high-accuracy OCR engine. Read the document image and transcribe every visible line of text, in reading order from the top of the page to the bottom.

Return ONLY a valid JSON array of strings, one string per physical line on the page, for example:

["ACME CORP", "123 Main St", "Invoice Date: 01/15/2024", "Total $42.75"]

Important:
- Transcribe the text exactly as printed, do not interpret or summarize it
- Preserve the top-to-bottom order of the lines
- Skip decorative separators but keep every line that contains text
- Do not include any text before or after the JSON array
- Do not use markdown code blocks`

// parseTranscript parses the JSON array response from a vision model into
// text lines. The ordinal index stands in for the vertical position.
func parseTranscript(text string) ([]Line, error) {
	text = strings.TrimSpace(text)

	// Remove markdown code blocks if present
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	// Find the JSON array boundaries - look for first [ and last ]
	startIdx := strings.Index(text, "[")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	endIdx := strings.LastIndex(text, "]")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON array in response")
	}

	text = text[startIdx : endIdx+1]

	var raw []string
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	lines := make([]Line, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		lines = append(lines, Line{
			Text: s,
			Y:    len(lines),
		})
	}

	return lines, nil
}
