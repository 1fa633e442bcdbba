package dedup

import "testing"

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"masjid", "mesjid", 1},
		{"ustadz", "ustadz", 0},
		{"héllo", "hello", 1},
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Fatalf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	if got := similarity("masjid al falah", "masjid al falah"); got != 1.0 {
		t.Fatalf("identical strings must score 1.0, got %v", got)
	}
	if got := similarity("", ""); got != 1.0 {
		t.Fatalf("empty strings must score 1.0, got %v", got)
	}
	if similarity("abc", "xyz") != 0.0 {
		t.Fatalf("disjoint strings must score 0.0")
	}
	if similarity("masjid muslim", "masjid muslimun") != similarity("masjid muslimun", "masjid muslim") {
		t.Fatalf("similarity must be symmetric")
	}
	got := similarity("ustadz ahmad", "ustadz achmad")
	if got < 0.85 || got >= 1.0 {
		t.Fatalf("unexpected score for near-duplicate: %v", got)
	}
}
