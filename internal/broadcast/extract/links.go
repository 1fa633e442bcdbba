package extract

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/publicsuffix"
)

var urlRE = regexp.MustCompile(`https?://[^\s<>"]+`)

var mapHostFragments = []string{
	"maps.google.",
	"google.com/maps",
	"goo.gl/maps",
	"maps.app.goo.gl",
	"gmaps.app",
}

// FindURL returns the first URL-shaped token in the line, trimmed of trailing
// punctuation, or "".
func FindURL(line string) string {
	match := urlRE.FindString(line)
	if match == "" {
		return ""
	}
	return strings.Trim(match, ".,);]")
}

// IsMapLink reports whether the value points at a known map service.
func IsMapLink(value string) bool {
	lower := strings.ToLower(value)
	for _, fragment := range mapHostFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// IsChatGroupLink reports whether the value is a chat-service group or invite
// link. CP lines carrying these are registration links, not phone contacts.
func IsChatGroupLink(value string) bool {
	raw := FindURL(value)
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "t.me" || strings.HasSuffix(host, ".t.me") {
		return true
	}
	eTLD1, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		eTLD1 = host
	}
	switch eTLD1 {
	case "whatsapp.com", "telegram.org", "telegram.me":
		return true
	default:
		return false
	}
}

// MapsSearchURL synthesizes a map search link from a venue name and locality
// when the broadcast carried no explicit map link. Input that is not valid
// UTF-8 (seen in OCR output) is degraded to printable ASCII rather than
// producing a broken query.
func MapsSearchURL(venue, locality string) string {
	query := strings.TrimSpace(strings.TrimSpace(venue) + " " + strings.TrimSpace(locality))
	if query == "" {
		return ""
	}
	if !utf8.ValidString(query) {
		var b strings.Builder
		for i := 0; i < len(query); i++ {
			if c := query[i]; c >= 0x20 && c < 0x7f {
				b.WriteByte(c)
			}
		}
		query = strings.TrimSpace(b.String())
		if query == "" {
			return ""
		}
	}
	return "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(query)
}
