package parsers

import (
	"regexp"
	"strings"

	"kajianhub/backend/internal/broadcast/core"
	"kajianhub/backend/internal/broadcast/extract"
)

var (
	dateGlyphs     = []string{"🗓", "📅", "📆"}
	locationGlyphs = []string{"📍", "🕌", "🏢"}
	speakerGlyphs  = []string{"🎙", "🎤", "👤", "👳"}
	topicGlyphs    = []string{"📖", "📚", "📝", "🗒"}
	linkGlyphs     = []string{"🔗", "🌐"}
	phoneGlyphs    = []string{"☎", "📞", "📱", "💬"}

	// 1️⃣, 2️⃣ ...: digit + optional variation selector + combining keycap.
	keycapRE = regexp.MustCompile(`^\s*[0-9]\x{FE0F}?\x{20E3}`)

	// ⏰, 🕰 and the clock-face block.
	timeGlyphRE = regexp.MustCompile(`[⏰🕰]|[\x{1F550}-\x{1F567}]`)

	italicLineRE = regexp.MustCompile(`^_[^_]+_\s*$`)
)

// ParseMarker extracts entries from icon-delimited multi-session posts.
// Authors of this layout signal fields by glyph type rather than labels; the
// only reliable record boundary is a field marker firing for a field the
// current record already holds. That heuristic mis-splits a venue announced
// with two back-to-back location lines, and that behavior is kept as is.
func ParseMarker(text string) []*core.Entry {
	lines := extract.SplitLines(text)

	var (
		commonDate    string
		commonMasjid  string
		commonAddress string
		commonCP      string
		current       core.Entry
		results       []*core.Entry
	)
	flush := func() {
		if current.HasIdentity() {
			entry := current
			results = append(results, &entry)
		}
		current = core.Entry{}
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			continue
		}
		switch {
		case containsAny(line, dateGlyphs) && !timeGlyphRE.MatchString(line):
			// Document-wide date; never starts or ends a record.
			if v := extract.Clean(line); v != "" {
				commonDate = v
			}
		case timeGlyphRE.MatchString(line):
			if current.Time != "" {
				flush()
			}
			current.Time = extract.Clean(line)
		case containsAny(line, locationGlyphs):
			if current.Venue != "" {
				flush()
			}
			current.Venue = extract.Clean(line)
			// Greedily take marker-free follow-up lines as the address.
			for i+1 < len(lines) {
				next := lines[i+1]
				if next == "" || hasAnyMarker(next) || strings.HasPrefix(next, "_") {
					break
				}
				if addr := extract.Clean(next); addr != "" {
					if current.Address == "" {
						current.Address = addr
					} else {
						current.Address += ", " + addr
					}
				}
				i++
			}
			if commonMasjid == "" {
				commonMasjid = current.Venue
				commonAddress = current.Address
			}
		case isSpeakerLine(line):
			value := speakerValue(line)
			if value != "" {
				if current.Speaker != "" {
					current.Speaker += " & " + value
				} else {
					current.Speaker = value
				}
			}
			// An italic-wrapped line right under a speaker is that session's
			// inline topic.
			if i+1 < len(lines) && italicLineRE.MatchString(lines[i+1]) {
				if topic := extract.Clean(lines[i+1]); topic != "" {
					if current.Topic != "" {
						current.Topic += " / " + topic
					} else {
						current.Topic = topic
					}
				}
				i++
			}
		case isTopicLine(line):
			if value := topicValue(line); value != "" {
				if current.Topic != "" {
					current.Topic += " / " + value
				} else {
					current.Topic = value
				}
			}
		case containsAny(line, linkGlyphs) || extract.IsMapLink(line):
			link := extract.FindURL(line)
			if link == "" {
				link = extract.Clean(line)
			}
			if extract.IsMapLink(link) {
				if current.MapURL == "" {
					current.MapURL = link
				}
			} else if current.Contact == "" {
				current.Contact = link
			}
		case containsAny(line, phoneGlyphs):
			value := extract.Clean(line)
			if len(value) > 5 || strings.Contains(strings.ToLower(value), "http") {
				if current.Contact == "" {
					current.Contact = value
				} else {
					current.Contact += ", " + value
				}
				if commonCP == "" {
					commonCP = value
				}
			}
		}
	}
	flush()

	for _, entry := range results {
		if entry.Venue == "" {
			if commonMasjid != "" {
				entry.Venue = commonMasjid
				if entry.Address == "" {
					entry.Address = commonAddress
				}
			} else {
				entry.Venue = core.TBD
			}
		}
		if entry.Address == "" {
			entry.Address = commonAddress
		}
		if entry.Date == "" {
			entry.Date = commonDate
		}
		if entry.Contact == "" {
			entry.Contact = commonCP
		}
		if entry.MapURL == "" && entry.Venue != core.TBD {
			entry.MapURL = extract.MapsSearchURL(entry.Venue, entry.Address)
		}
		entry.City = lastAddressToken(entry.Address)
		if entry.City == "" {
			entry.City = core.TBD
		}
		fillPlaceholders(entry)
	}
	return results
}

func containsAny(line string, glyphs []string) bool {
	for _, glyph := range glyphs {
		if strings.Contains(line, glyph) {
			return true
		}
	}
	return false
}

func hasAnyMarker(line string) bool {
	if containsAny(line, dateGlyphs) || containsAny(line, locationGlyphs) ||
		containsAny(line, speakerGlyphs) || containsAny(line, topicGlyphs) ||
		containsAny(line, linkGlyphs) || containsAny(line, phoneGlyphs) {
		return true
	}
	if timeGlyphRE.MatchString(line) || keycapRE.MatchString(line) {
		return true
	}
	if _, ok := extract.LabelValue(line, "Pemateri"); ok {
		return true
	}
	if _, ok := extract.LabelValue(line, "Tema"); ok {
		return true
	}
	return extract.IsMapLink(line)
}

func isSpeakerLine(line string) bool {
	if containsAny(line, speakerGlyphs) || keycapRE.MatchString(line) {
		return true
	}
	_, ok := extract.LabelValue(line, "Pemateri")
	return ok
}

func speakerValue(line string) string {
	if value, ok := extract.LabelValue(line, "Pemateri"); ok {
		return value
	}
	return extract.Clean(keycapRE.ReplaceAllString(line, " "))
}

func isTopicLine(line string) bool {
	if containsAny(line, topicGlyphs) {
		return true
	}
	_, ok := extract.LabelValue(line, "Tema")
	return ok
}

func topicValue(line string) string {
	if value, ok := extract.LabelValue(line, "Tema"); ok {
		return value
	}
	return extract.Clean(line)
}

func lastAddressToken(address string) string {
	parts := strings.Split(address, ",")
	for i := len(parts) - 1; i >= 0; i-- {
		if token := extract.Clean(parts[i]); token != "" {
			return token
		}
	}
	return ""
}
