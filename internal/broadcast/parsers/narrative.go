package parsers

import (
	"regexp"
	"strings"

	"kajianhub/backend/internal/broadcast/core"
	"kajianhub/backend/internal/broadcast/extract"
)

// Common OCR misreads of the anchor words the field patterns key on. Applied
// before matching; field values themselves are not spell-corrected.
var ocrFixes = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\brnasjid\b`), "masjid"},
	{regexp.MustCompile(`(?i)\bmas jid\b`), "masjid"},
	{regexp.MustCompile(`(?i)\brnesjid\b`), "mesjid"},
	{regexp.MustCompile(`(?i)\bustaz\b`), "ustadz"},
	{regexp.MustCompile(`(?i)\busta dz\b`), "ustadz"},
	{regexp.MustCompile(`(?i)\bk[l1]tab\b`), "kitab"},
}

var (
	narrativeVenueRE = regexp.MustCompile(`(?i)\b((?:masjid|mesjid|musholl?a|ponpes|pondok pesantren)\b[^\n,.;|]{0,60})`)

	narrativeSpeakerRE = regexp.MustCompile(`(?i)\b((?:al[- ]ustadz|ustadz|ustad)\b\.?\s+[^\n(|]{2,60})`)

	narrativeTopicRE = regexp.MustCompile(`(?i)\b(?:tema|kitab|pembahasan)\s*:?\s+([^\n|]{3,100})`)

	narrativeDateRE = regexp.MustCompile(`(?i)\b((?:(?:senin|selasa|rabu|kamis|jum'?at|sabtu|ahad|minggu)[,.]?\s+)?\d{1,2}\s+(?:januari|februari|maret|april|mei|juni|juli|agustus|september|oktober|november|desember)\s+\d{4})`)

	narrativeTimeRE      = regexp.MustCompile(`(?i)\b((?:pukul|jam)\s*\d{1,2}(?:[.:]\d{2})?(?:\s*(?:-|–|s\.?d\.?)\s*\d{1,2}(?:[.:]\d{2})?)?(?:\s*(?:wib|wita|wit))?)`)
	narrativeClockTimeRE = regexp.MustCompile(`(?i)\b(\d{1,2}[.:]\d{2}\s*(?:wib|wita|wit))`)
)

// Anchor words that terminate a captured field value when they run together
// on one OCR line.
var fieldStopWords = []string{
	"masjid", "mesjid", "musholla", "mushola",
	"ustadz", "ustad", "pemateri", "bersama",
	"tema", "kitab", "pembahasan",
	"waktu", "pukul", "jam",
	"tempat", "lokasi", "alamat", "tanggal",
	"cp", "info",
}

// Well-known cities, tested in this order; the first one mentioned anywhere
// in the text wins regardless of where it appears.
var cityShortlist = []string{
	"Surabaya", "Gresik", "Sidoarjo", "Malang", "Jakarta", "Bandung",
	"Yogyakarta", "Semarang", "Solo", "Medan", "Makassar", "Bekasi",
	"Depok", "Tangerang",
}

// ParseNarrative is the best-effort fallback for unstructured prose, chiefly
// OCR output from scanned posters. Each field is filled independently; a
// single entry is returned only when a venue was resolved, since this format
// never guesses a location well enough to fabricate one.
func ParseNarrative(text string) []*core.Entry {
	fixed := text
	for _, fix := range ocrFixes {
		fixed = fix.re.ReplaceAllString(fixed, fix.repl)
	}

	entry := &core.Entry{}
	if m := narrativeVenueRE.FindStringSubmatch(fixed); m != nil {
		entry.Venue = cutAtStopWord(extract.Clean(m[1]))
	}
	if entry.Venue == "" {
		return nil
	}

	if m := narrativeSpeakerRE.FindStringSubmatch(fixed); m != nil {
		entry.Speaker = cutAtStopWord(extract.Clean(m[1]))
	}
	if m := narrativeTopicRE.FindStringSubmatch(fixed); m != nil {
		entry.Topic = cutAtStopWord(extract.Clean(m[1]))
	}
	if m := narrativeDateRE.FindStringSubmatch(fixed); m != nil {
		entry.Date = extract.Clean(m[1])
	}
	if m := narrativeTimeRE.FindStringSubmatch(fixed); m != nil {
		entry.Time = extract.Clean(m[1])
	} else if m := narrativeClockTimeRE.FindStringSubmatch(fixed); m != nil {
		entry.Time = extract.Clean(m[1])
	}
	if phones := extract.FindPhones(fixed); len(phones) > 0 {
		entry.Contact = strings.Join(phones, ", ")
	}

	lower := strings.ToLower(fixed)
	for _, city := range cityShortlist {
		if strings.Contains(lower, strings.ToLower(city)) {
			entry.City = city
			break
		}
	}
	if entry.City == "" {
		entry.City = core.TBD
	}

	entry.MapURL = extract.MapsSearchURL(entry.Venue, placeholderToEmpty(entry.City))
	fillPlaceholders(entry)
	return []*core.Entry{entry}
}

// cutAtStopWord truncates a captured value at the next anchor word, for OCR
// lines where several fields ran together without separators.
func cutAtStopWord(value string) string {
	lower := strings.ToLower(value)
	// Skip the leading anchor that is part of the value itself
	// ("Masjid Al-Falah", "Al-Ustadz Abu Fulan").
	from := leadingAnchorLen(lower)
	cut := len(value)
	for _, word := range fieldStopWords {
		idx := indexWord(lower, word, from)
		if idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return strings.Trim(value[:cut], " \t-:|,.")
}

func leadingAnchorLen(lower string) int {
	for _, prefix := range []string{"al ustadz", "al-ustadz", "pondok pesantren"} {
		if strings.HasPrefix(lower, prefix) {
			return len(prefix)
		}
	}
	if i := strings.IndexByte(lower, ' '); i > 0 {
		return i
	}
	return len(lower)
}

// indexWord finds a whole-word occurrence of word in s at or after position
// from. Returns -1 when absent.
func indexWord(s, word string, from int) int {
	for start := from; start <= len(s)-len(word); {
		idx := strings.Index(s[start:], word)
		if idx < 0 {
			return -1
		}
		pos := start + idx
		beforeOK := pos == 0 || !isWordByte(s[pos-1])
		afterOK := pos+len(word) >= len(s) || !isWordByte(s[pos+len(word)])
		if beforeOK && afterOK {
			return pos
		}
		start = pos + 1
	}
	return -1
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func placeholderToEmpty(value string) string {
	if value == core.TBD {
		return ""
	}
	return value
}
