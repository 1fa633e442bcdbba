package extract

import (
	"reflect"
	"testing"
)

func TestCleanStripsDecoration(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"🕌 Masjid Al-Falah", "Masjid Al-Falah"},
		{"*Ustadz Fulan*", "Ustadz Fulan"},
		{"  📍 Jl.  Raya   Darmo 137 ", "Jl. Raya Darmo 137"},
		{"〰〰 Kajian Rutin 〰〰", "Kajian Rutin"},
		{"🗓", ""},
		{"", ""},
		// Zero-width marks and a BOM pasted along with the value.
		{"\ufeff\u200bMasjid Al-Falah\u200d\u2060", "Masjid Al-Falah"},
	}
	for _, tc := range cases {
		if got := Clean(tc.in); got != tc.want {
			t.Fatalf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestForComparisonFoldsNounVariants(t *testing.T) {
	cases := []struct {
		a, b string
	}{
		{"Masjid Al-Ikhlas", "Mesjid Al Ikhlas"},
		{"Ustadz Ahmad", "Ust. Ahmad"},
		{"Ustad Ahmad", "Ustadzh Ahmad"},
		{"MASJID  BAITUL_HAQ", "masjid baitul haq"},
	}
	for _, tc := range cases {
		if got, want := ForComparison(tc.a), ForComparison(tc.b); got != want {
			t.Fatalf("ForComparison mismatch: %q -> %q, %q -> %q", tc.a, got, tc.b, want)
		}
	}
	if got := ForComparison("Musholla An-Nur"); got != "musholla an nur" {
		t.Fatalf("unexpected normalization: %q", got)
	}
	// Underscores split into spaces; they must not vanish into a joined word.
	if got := ForComparison("MASJID  BAITUL_HAQ"); got != "masjid baitul haq" {
		t.Fatalf("underscore not rewritten to space: %q", got)
	}
}

func TestSplitLinesNormalizesCRLF(t *testing.T) {
	got := SplitLines("a\r\n b \rc\n")
	want := []string{"a", "b", "c", ""}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected lines: got=%v want=%v", got, want)
	}
}

func TestLabelValue(t *testing.T) {
	cases := []struct {
		line  string
		label string
		want  string
		ok    bool
	}{
		{"Pemateri: Ustadz Fulan", "Pemateri", "Ustadz Fulan", true},
		{"Waktu - 08.00 WIB", "Waktu", "08.00 WIB", true},
		{"pemateri = Ustadz Fulan", "Pemateri", "Ustadz Fulan", true},
		{"Pemateri Ustadz Fulan", "Pemateri", "Ustadz Fulan", true},
		{"PemateriX", "Pemateri", "", false},
		{"Tema", "Tema", "", true},
		{"CP: 0812345678", "CP", "0812345678", true},
		{"Something else", "Pemateri", "", false},
	}
	for _, tc := range cases {
		got, ok := LabelValue(tc.line, tc.label)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("LabelValue(%q, %q) = (%q, %v), want (%q, %v)",
				tc.line, tc.label, got, ok, tc.want, tc.ok)
		}
	}
}
