package parsers

import (
	"regexp"
	"strings"

	"kajianhub/backend/internal/broadcast/core"
	"kajianhub/backend/internal/broadcast/extract"
)

// DefaultCity is the hard fallback when neither the entry nor the running
// header resolved a city.
const DefaultCity = "Surabaya"

const headerScanLines = 30

var (
	cityHeaderRE = regexp.MustCompile(`【\s*([^【】\n]{2,24}?)\s*】`)

	headerDateGlyphRE = regexp.MustCompile(`[🗓📅📆➡]\s*:?\s*(.+)`)
	dayDateRE         = regexp.MustCompile(`(?i)^(senin|selasa|rabu|kamis|jum'?at|sabtu|ahad|minggu)\b[,.]?\s*\d{1,2}\s+\S+\s+\d{4}`)

	sentinelRE = regexp.MustCompile(`^\*{3,}$`)
)

// ParseTabular extracts entries from a rekapan broadcast: a global date/city
// header followed by repeated venue blocks of labeled lines, each terminated
// by a sentinel line or the next venue glyph. All context lives in local
// accumulators; calls are independent.
func ParseTabular(text string) []*core.Entry {
	lines := extract.SplitLines(text)

	currentDate := ""
	currentCity := ""

	// Header scan: the recap date and opening city header sit in the first
	// few lines, before any venue block.
	limit := len(lines)
	if limit > headerScanLines {
		limit = headerScanLines
	}
	for _, line := range lines[:limit] {
		if currentDate == "" {
			if m := headerDateGlyphRE.FindStringSubmatch(line); m != nil {
				if v := extract.Clean(m[1]); v != "" {
					currentDate = v
				}
			} else if dayDateRE.MatchString(line) {
				currentDate = extract.Clean(line)
			}
		}
		if currentCity == "" {
			if m := cityHeaderRE.FindStringSubmatch(line); m != nil {
				currentCity = extract.Clean(m[1])
			}
		}
		if currentDate != "" && currentCity != "" {
			break
		}
	}

	var (
		pending *core.Entry
		results []*core.Entry
	)
	finalize := func() {
		if pending == nil {
			return
		}
		entry := pending
		pending = nil
		// A block that never resolved a venue name is noise, not a record.
		if entry.Venue == "" {
			return
		}
		if entry.City == "" {
			entry.City = currentCity
		}
		if entry.City == "" {
			entry.City = DefaultCity
		}
		if entry.Date == "" {
			entry.Date = currentDate
		}
		fillPlaceholders(entry)
		results = append(results, entry)
	}

	for _, line := range lines {
		if line == "" {
			continue
		}
		if sentinelRE.MatchString(line) || line == "." {
			finalize()
			continue
		}
		if m := cityHeaderRE.FindStringSubmatch(line); m != nil {
			// Running city header: applies to every entry until overwritten.
			if city := extract.Clean(m[1]); city != "" {
				currentCity = city
			}
			continue
		}
		if strings.Contains(line, "🕌") {
			finalize()
			pending = &core.Entry{Venue: extract.Clean(line)}
			continue
		}
		if value, ok := extract.LabelValue(line, "Pemateri"); ok {
			if pending != nil && pending.Speaker != "" {
				// Second labeled session without an intervening venue line.
				// The recap grammar gives no better boundary signal, so the
				// block is split here and the new record starts venueless.
				finalize()
				pending = &core.Entry{}
			}
			if pending == nil {
				pending = &core.Entry{}
			}
			pending.Speaker = value
			continue
		}
		if value, ok := extract.LabelValue(line, "Tema"); ok {
			if pending == nil {
				pending = &core.Entry{}
			}
			pending.Topic = value
			continue
		}
		if value, ok := extract.LabelValue(line, "Waktu"); ok {
			if pending == nil {
				pending = &core.Entry{}
			}
			pending.Time = value
			continue
		}
		if value, ok := extract.LabelValue(line, "CP"); ok {
			if extract.IsChatGroupLink(value) {
				// Group invite links are registration links, not contacts.
				continue
			}
			if pending != nil {
				pending.Contact = value
			}
			continue
		}
		if extract.IsMapLink(line) {
			if pending != nil && pending.MapURL == "" {
				pending.MapURL = extract.FindURL(line)
			}
			continue
		}
		if pending != nil && pending.Speaker == "" && pending.Topic == "" {
			// Unlabeled line between the venue glyph and the first label:
			// address continuation.
			if addr := extract.Clean(line); addr != "" {
				if pending.Address == "" {
					pending.Address = addr
				} else {
					pending.Address += ", " + addr
				}
			}
		}
	}
	finalize()
	return results
}

func fillPlaceholders(entry *core.Entry) {
	if entry.Speaker == "" {
		entry.Speaker = core.TBD
	}
	if entry.Topic == "" {
		entry.Topic = core.TBD
	}
	if entry.Time == "" {
		entry.Time = core.TBD
	}
	if entry.Date == "" {
		entry.Date = core.TBD
	}
	if entry.Contact == "" {
		entry.Contact = core.TBD
	}
}
