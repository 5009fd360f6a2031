package weathertext

import (
	"strings"
	"unicode"
)

// lineKind tags the role a raw line plays in the worker's output.
type lineKind int

const (
	// lineUnrecognized is anything the classifier cannot place. Decoders
	// skip these lines; they are never an error.
	lineUnrecognized lineKind = iota

	// lineHeader is a trailing-colon line with no value, e.g.
	// "Current weather for Bangkok, Thailand:".
	lineHeader

	// lineDayMarker is a date line opening a forecast entry, e.g.
	// "2025-06-01:".
	lineDayMarker

	// lineField is a "Label: value" pair.
	lineField
)

// classified is the tagged form of one input line. For headers Text holds
// the header without its colon; for day markers Label holds the date; for
// fields Label and Value hold the two halves of the first colon split.
type classified struct {
	Kind  lineKind
	Text  string
	Label string
	Value string
}

// classifyLine tokenizes one raw line into its tagged form.
//
// Decorative markers (emoji, bullets, box glyphs) and surrounding
// whitespace are stripped before classification, so upstream formatting
// drift in the decoration never changes the result.
func classifyLine(raw string) classified {
	text := stripDecoration(raw)
	if text == "" {
		return classified{Kind: lineUnrecognized}
	}

	idx := strings.Index(text, ":")
	if idx < 0 {
		return classified{Kind: lineUnrecognized, Text: text}
	}

	label := strings.TrimSpace(text[:idx])
	value := strings.TrimSpace(text[idx+1:])

	if label == "" {
		return classified{Kind: lineUnrecognized, Text: text}
	}

	if isDate(label) {
		return classified{Kind: lineDayMarker, Label: label, Value: value}
	}

	if value == "" {
		return classified{Kind: lineHeader, Text: label}
	}

	return classified{Kind: lineField, Label: label, Value: value}
}

// stripDecoration trims whitespace and removes leading runes that are
// neither letters nor digits, dropping markers like "📅" or "-".
func stripDecoration(raw string) string {
	s := strings.TrimSpace(raw)

	return strings.TrimLeftFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// isDate reports whether s looks like an ISO calendar date (YYYY-MM-DD).
func isDate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}

	for i, ch := range s {
		if i == 4 || i == 7 {
			continue
		}

		if ch < '0' || ch > '9' {
			return false
		}
	}

	return true
}
