// Package broadcast turns free-form community broadcast text and OCR output
// into structured kajian entries. Classification and extraction are pure
// functions over the input text; persistence and enrichment happen in the
// caller.
package broadcast

import (
	"strings"

	"kajianhub/backend/internal/broadcast/core"
	"kajianhub/backend/internal/broadcast/parsers"
)

// Parse classifies the broadcast body and runs the matching extractor.
// Unrecognized layouts degrade to the narrative extractor; an empty result is
// a normal outcome, not an error. The only rejected input is an empty body.
func Parse(text string) ([]*core.Entry, core.Format, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, "", &core.UnsupportedInputError{Hint: "empty broadcast body"}
	}
	format := core.Classify(trimmed)
	switch format {
	case core.FormatTabular:
		return parsers.ParseTabular(trimmed), format, nil
	case core.FormatMarker:
		return parsers.ParseMarker(trimmed), format, nil
	default:
		return parsers.ParseNarrative(trimmed), format, nil
	}
}
