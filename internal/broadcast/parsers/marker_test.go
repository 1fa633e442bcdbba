package parsers

import (
	"strings"
	"testing"

	"kajianhub/backend/internal/broadcast/core"
)

const markerSample = `🗓 Ahad, 14 September 2026
📍 Masjid An-Nur
Jl. Pahlawan No. 10
Gresik
🎙 Ustadz Abdullah
_Adab Penuntut Ilmu_
⏰ 09.00 WIB
📞 0812-3456-7890`

func TestParseMarkerSingleSession(t *testing.T) {
	entries := ParseMarker(markerSample)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d: %+v", len(entries), entries)
	}
	entry := entries[0]
	if entry.Venue != "Masjid An-Nur" {
		t.Fatalf("unexpected venue: %q", entry.Venue)
	}
	if entry.Address != "Jl. Pahlawan No. 10, Gresik" {
		t.Fatalf("unexpected address: %q", entry.Address)
	}
	if entry.Speaker != "Ustadz Abdullah" {
		t.Fatalf("unexpected speaker: %q", entry.Speaker)
	}
	if entry.Topic != "Adab Penuntut Ilmu" {
		t.Fatalf("unexpected topic: %q", entry.Topic)
	}
	if entry.Time != "09.00 WIB" {
		t.Fatalf("unexpected time: %q", entry.Time)
	}
	if entry.Date != "Ahad, 14 September 2026" {
		t.Fatalf("unexpected date: %q", entry.Date)
	}
	if entry.Contact != "0812-3456-7890" {
		t.Fatalf("unexpected contact: %q", entry.Contact)
	}
	// City comes from the trailing address token.
	if entry.City != "Gresik" {
		t.Fatalf("unexpected city: %q", entry.City)
	}
	if !strings.HasPrefix(entry.MapURL, "https://www.google.com/maps/search/?api=1&query=") {
		t.Fatalf("expected synthesized map url, got %q", entry.MapURL)
	}
}

func TestParseMarkerJoinsMultipleSpeakers(t *testing.T) {
	text := `📍 Masjid An-Nur
🎙 Ustadz Abdullah
🎙 Ustadz Hasan
⏰ 09.00 WIB`
	entries := ParseMarker(text)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Speaker != "Ustadz Abdullah & Ustadz Hasan" {
		t.Fatalf("unexpected speaker join: %q", entries[0].Speaker)
	}
}

func TestParseMarkerKeycapSessions(t *testing.T) {
	text := "📍 Masjid An-Nur\n1️⃣ Ustadz Abdullah\n2️⃣ Ustadz Hasan"
	entries := ParseMarker(text)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Speaker != "Ustadz Abdullah & Ustadz Hasan" {
		t.Fatalf("unexpected speaker join: %q", entries[0].Speaker)
	}
}

func TestParseMarkerMultiSessionByRepeatedTime(t *testing.T) {
	text := `🗓 Sabtu, 20 September 2026
📍 Masjid An-Nur
Jl. Pahlawan No. 10, Gresik
⏰ 09.00 WIB
🎙 Ustadz Abdullah
⏰ 13.00 WIB
🎙 Ustadz Hasan`
	entries := ParseMarker(text)
	if len(entries) != 2 {
		t.Fatalf("expected 2 sessions, got %d: %+v", len(entries), entries)
	}
	first, second := entries[0], entries[1]
	if first.Time != "09.00 WIB" || first.Speaker != "Ustadz Abdullah" {
		t.Fatalf("unexpected first session: %+v", first)
	}
	if second.Time != "13.00 WIB" || second.Speaker != "Ustadz Hasan" {
		t.Fatalf("unexpected second session: %+v", second)
	}
	// The second session inherits the shared venue, address and date.
	if second.Venue != "Masjid An-Nur" || second.Date != first.Date {
		t.Fatalf("shared context not inherited: %+v", second)
	}
	if second.City != "Gresik" {
		t.Fatalf("unexpected city: %q", second.City)
	}
}

func TestParseMarkerBackToBackLocationsSplit(t *testing.T) {
	// Two consecutive location markers read as two records; the address line
	// wrongly becomes the second record's venue. The boundary heuristic has no
	// better signal, so this stays as is.
	text := `📍 Masjid Raya
📍 Jl. Merdeka 1
🎙 Ustadz Salim`
	entries := ParseMarker(text)
	if len(entries) != 2 {
		t.Fatalf("expected the documented mis-split into 2 entries, got %d", len(entries))
	}
	if entries[0].Venue != "Masjid Raya" {
		t.Fatalf("unexpected first venue: %q", entries[0].Venue)
	}
	if entries[1].Venue != "Jl. Merdeka 1" || entries[1].Speaker != "Ustadz Salim" {
		t.Fatalf("unexpected second record: %+v", entries[1])
	}
}

func TestParseMarkerMapAndContactLinks(t *testing.T) {
	text := `📍 Masjid An-Nur
🔗 https://maps.app.goo.gl/abc123
🌐 https://kajian.example.com/info
🎙 Ustadz Abdullah`
	entries := ParseMarker(text)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].MapURL != "https://maps.app.goo.gl/abc123" {
		t.Fatalf("unexpected map url: %q", entries[0].MapURL)
	}
	if entries[0].Contact != "https://kajian.example.com/info" {
		t.Fatalf("unexpected contact: %q", entries[0].Contact)
	}
}

func TestParseMarkerNoIdentityYieldsNothing(t *testing.T) {
	entries := ParseMarker("🗓 Ahad, 14 September 2026\nsampai jumpa")
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %+v", entries)
	}
}

func TestParseMarkerVenueFallsBackToTBD(t *testing.T) {
	entries := ParseMarker("🎙 Ustadz Abdullah\n⏰ 09.00 WIB")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Venue != core.TBD {
		t.Fatalf("expected TBD venue, got %q", entries[0].Venue)
	}
	if entries[0].MapURL != "" {
		t.Fatalf("no map url should be synthesized without a venue: %q", entries[0].MapURL)
	}
}
