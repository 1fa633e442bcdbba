package parsers

import (
	"strings"
	"testing"

	"kajianhub/backend/internal/broadcast/core"
)

const narrativeSample = `Hadirilah kajian ilmiah
bersama Ustadz Budi Santoso
di Masjid Al-Ikhlas Surabaya
Ahad, 5 Oktober 2026 pukul 09.00 - 11.00 WIB
Info: 0812-3456-7890 / 0812 3456 7890`

func TestParseNarrativeFields(t *testing.T) {
	entries := ParseNarrative(narrativeSample)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Venue != "Masjid Al-Ikhlas Surabaya" {
		t.Fatalf("unexpected venue: %q", entry.Venue)
	}
	if entry.Speaker != "Ustadz Budi Santoso" {
		t.Fatalf("unexpected speaker: %q", entry.Speaker)
	}
	if entry.Date != "Ahad, 5 Oktober 2026" {
		t.Fatalf("unexpected date: %q", entry.Date)
	}
	if entry.Time != "pukul 09.00 - 11.00 WIB" {
		t.Fatalf("unexpected time: %q", entry.Time)
	}
	// Repeated numbers with different separators collapse to one contact.
	if entry.Contact != "081234567890" {
		t.Fatalf("unexpected contact: %q", entry.Contact)
	}
	if entry.City != "Surabaya" {
		t.Fatalf("unexpected city: %q", entry.City)
	}
	if entry.Topic != core.TBD {
		t.Fatalf("expected TBD topic, got %q", entry.Topic)
	}
	if !strings.HasPrefix(entry.MapURL, "https://www.google.com/maps/search/?api=1&query=") {
		t.Fatalf("expected synthesized map url, got %q", entry.MapURL)
	}
}

func TestParseNarrativeTopicLabel(t *testing.T) {
	text := "Kajian di Masjid An-Nur Gresik\nTema: Sifat Shalat Nabi\nbersama Ustadz Hasan"
	entries := ParseNarrative(text)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Topic != "Sifat Shalat Nabi" {
		t.Fatalf("unexpected topic: %q", entries[0].Topic)
	}
	if entries[0].City != "Gresik" {
		t.Fatalf("unexpected city: %q", entries[0].City)
	}
}

func TestParseNarrativeWithoutVenueYieldsNothing(t *testing.T) {
	entries := ParseNarrative("Kajian bersama Ustadz Budi, Ahad pukul 09.00 WIB")
	if entries != nil {
		t.Fatalf("expected nil without a venue, got %+v", entries)
	}
}

func TestParseNarrativeOCRFixes(t *testing.T) {
	entries := ParseNarrative("Kajian rutin di rnasjid Al-Huda bersama usta dz Salim")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Venue != "masjid Al-Huda" {
		t.Fatalf("ocr fix not applied to venue: %q", entries[0].Venue)
	}
	if entries[0].Speaker != "ustadz Salim" {
		t.Fatalf("ocr fix not applied to speaker: %q", entries[0].Speaker)
	}
}

func TestParseNarrativeClockOnlyTime(t *testing.T) {
	text := "Kajian di Masjid Al-Falah Surabaya, 09.30 WIB"
	entries := ParseNarrative(text)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Time != "09.30 WIB" {
		t.Fatalf("unexpected time: %q", entries[0].Time)
	}
}

func TestCutAtStopWordKeepsLeadingAnchor(t *testing.T) {
	got := cutAtStopWord("Al-Ustadz Abu Fulan tema kitab tauhid")
	if got != "Al-Ustadz Abu Fulan" {
		t.Fatalf("unexpected cut: %q", got)
	}
	if cutAtStopWord("Masjid Al-Falah") != "Masjid Al-Falah" {
		t.Fatalf("value without stop words must pass through")
	}
}
