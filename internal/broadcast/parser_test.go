package broadcast

import (
	"errors"
	"testing"

	"kajianhub/backend/internal/broadcast/core"
)

func TestParseRejectsEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\t\n"} {
		_, _, err := Parse(input)
		if err == nil {
			t.Fatalf("expected error for %q", input)
		}
		var unsupported *core.UnsupportedInputError
		if !errors.As(err, &unsupported) {
			t.Fatalf("expected UnsupportedInputError, got %T", err)
		}
	}
}

func TestParseDispatchesByFormat(t *testing.T) {
	cases := []struct {
		text string
		want core.Format
	}{
		{"【SURABAYA】\n🕌 Masjid Al-Falah\nPemateri: Ustadz Ahmad\n***", core.FormatTabular},
		{"📍 Masjid An-Nur\n🎙 Ustadz Abdullah", core.FormatMarker},
		{"Kajian rutin di Masjid Al-Ikhlas bersama Ustadz Budi", core.FormatNarrative},
	}
	for _, tc := range cases {
		entries, format, err := Parse(tc.text)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tc.text, err)
		}
		if format != tc.want {
			t.Fatalf("Parse(%q) format = %q, want %q", tc.text, format, tc.want)
		}
		if len(entries) == 0 {
			t.Fatalf("Parse(%q) returned no entries", tc.text)
		}
	}
}

func TestParseUnrecognizedLayoutDegradesToNarrative(t *testing.T) {
	entries, format, err := Parse("pengumuman tanpa struktur apapun")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format != core.FormatNarrative {
		t.Fatalf("expected narrative fallback, got %q", format)
	}
	if entries != nil {
		t.Fatalf("expected no entries for venueless prose, got %+v", entries)
	}
}
