package core

import (
	"regexp"
	"strings"
)

var (
	// 【GRESIK】-style paired header: a short city token wrapped in the
	// lenticular brackets rekapan authors use for running city headers.
	cityHeaderRE = regexp.MustCompile(`【\s*[^【】\n]{2,24}\s*】`)

	daurohRE = regexp.MustCompile(`(?i)daur[ao]h`)
)

// Category emoji used as informal field labels in marker-driven posts.
var categoryEmoji = []string{"🗓", "📅", "📆", "📍", "🎙", "🎤", "📖", "📚"}

// Classify selects the extraction strategy for a raw broadcast body. Pure
// function of the text: cheap structural signals are enough to tell the known
// community templates apart, and the narrative fallback guarantees the
// pipeline never rejects unrecognized input.
func Classify(text string) Format {
	isDauroh := daurohRE.MatchString(text)
	if (cityHeaderRE.MatchString(text) || strings.Count(text, "】") > 5) && !isDauroh {
		return FormatTabular
	}
	if isDauroh {
		return FormatMarker
	}
	for _, emoji := range categoryEmoji {
		if strings.Contains(text, emoji) {
			return FormatMarker
		}
	}
	return FormatNarrative
}
