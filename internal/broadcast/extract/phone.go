package extract

import (
	"regexp"
	"strings"
)

var phoneRE = regexp.MustCompile(`(?:\+62|62|08)[\s.-]?\d[\d\s.-]{6,14}\d`)

// FindPhones returns the phone numbers found in the text, digits only apart
// from a leading plus, deduplicated in order of appearance.
func FindPhones(text string) []string {
	matches := phoneRE.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, raw := range matches {
		number := compactPhone(raw)
		if number == "" {
			continue
		}
		if _, ok := seen[number]; ok {
			continue
		}
		seen[number] = struct{}{}
		out = append(out, number)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func compactPhone(raw string) string {
	var b strings.Builder
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	number := b.String()
	if len(strings.TrimPrefix(number, "+")) < 8 {
		return ""
	}
	return number
}
