package extract

import (
	"regexp"
	"strings"
)

var (
	multiSpaceRE = regexp.MustCompile(`\s+`)

	// Decorative glyphs broadcast authors sprinkle around field values.
	decorGlyphRE = regexp.MustCompile(`[🕌📍🗓📅📆🎙🎤👤👳🏢🗒📖📚📝🔗🌐☎📞📱💬⏰🕰✅☑✔▪▫◾◽•◦●★☆〰➡⬇⤵🏳🏴🚩🔰💥✨⚡🔴🟢🔵【】「」『』〖〗]|\x{FE0F}|[\x{1F550}-\x{1F567}]|[\x{1F1E6}-\x{1F1FF}]`)

	markdownMarkRE = regexp.MustCompile("[*_~`]")

	comparisonStripRE = regexp.MustCompile(`[,.\-_]`)
	masjidVariantRE   = regexp.MustCompile(`\b(?:mesjid|masjid)\b`)
	ustadzVariantRE   = regexp.MustCompile(`\b(?:ustadzh?|ustadh?|ustdz?|ust)\b`)
)

// Characters trimmed from both ends of a cleaned field value: whitespace,
// leftover separators, and invisible marks copy-pasted along with the text
// (zero-width spaces/joiners, word joiner, BOM).
const edgeCutset = " \t\n\r-:|.,;=>〰—–\u200b\u200c\u200d\u2060\ufeff"

// Clean strips decoration from a single field value taken out of a broadcast
// line. Deterministic and total: any input yields a (possibly empty) string.
func Clean(raw string) string {
	s := decorGlyphRE.ReplaceAllString(raw, " ")
	s = markdownMarkRE.ReplaceAllString(s, "")
	s = multiSpaceRE.ReplaceAllString(s, " ")
	return strings.Trim(s, edgeCutset)
}

// ForComparison prepares a name for similarity scoring: lowercased, squeezed,
// punctuation-free, with the generic nouns "masjid" and "ustadz" rewritten to
// one canonical spelling so that spelling variants of the noun alone never
// count as a dissimilarity between two names.
func ForComparison(raw string) string {
	// Separators become spaces before Clean runs; its markdown strip would
	// otherwise delete underscores instead of splitting on them.
	s := comparisonStripRE.ReplaceAllString(raw, " ")
	s = strings.ToLower(Clean(s))
	s = masjidVariantRE.ReplaceAllString(s, "masjid")
	s = ustadzVariantRE.ReplaceAllString(s, "ustadz")
	s = multiSpaceRE.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SplitLines breaks a broadcast body into trimmed lines, normalizing CRLF.
func SplitLines(text string) []string {
	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

// LabelValue splits a labeled line ("Pemateri: Ustadz Fulan",
// "Waktu - 08.00") into its value part. Returns ok=false when the line does
// not start with the label.
func LabelValue(line, label string) (string, bool) {
	cleaned := strings.TrimLeft(line, edgeCutset)
	if len(cleaned) < len(label) || !strings.EqualFold(cleaned[:len(label)], label) {
		return "", false
	}
	rest := cleaned[len(label):]
	if rest == "" {
		return "", true
	}
	switch rest[0] {
	case ':', '-', '=', ' ', '\t':
	default:
		// "PemateriX" is not a Pemateri label.
		return "", false
	}
	rest = strings.TrimLeft(rest, " \t")
	if rest != "" && (rest[0] == ':' || rest[0] == '-' || rest[0] == '=') {
		rest = rest[1:]
	}
	return Clean(rest), true
}
