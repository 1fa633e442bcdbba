package dedup

import (
	"reflect"
	"testing"
)

func TestFindDuplicatesVenueSpellingVariants(t *testing.T) {
	records := []NameRecord{
		{Name: "Masjid Al-Ikhlas", Cities: "Surabaya", Addresses: "Jl. Raya Darmo 137"},
		{Name: "Mesjid Al Ikhlas", Cities: "Surabaya", Addresses: ""},
		{Name: "Masjid Baitul Haq", Cities: "Surabaya", Addresses: ""},
	}
	groups := FindDuplicates(records, EntityVenue)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d: %+v", len(groups), groups)
	}
	group := groups[0]
	if group.Canonical != "Masjid Al-Ikhlas" {
		t.Fatalf("canonical must be the first-seen spelling, got %q", group.Canonical)
	}
	if !reflect.DeepEqual(group.Variants, []string{"Mesjid Al Ikhlas"}) {
		t.Fatalf("unexpected variants: %v", group.Variants)
	}
	if loc, ok := group.Locations["Masjid Al-Ikhlas"]; !ok || loc.Addresses != "Jl. Raya Darmo 137" {
		t.Fatalf("location metadata not echoed: %+v", group.Locations)
	}
}

func TestFindDuplicatesVenueThresholdIsStrict(t *testing.T) {
	records := []NameRecord{
		{Name: "Masjid Muslim", Cities: "Surabaya"},
		{Name: "Masjid Muslimun", Cities: "Surabaya"},
	}
	if groups := FindDuplicates(records, EntityVenue); len(groups) != 0 {
		t.Fatalf("distinct short names must not merge: %+v", groups)
	}
}

func TestFindDuplicatesVenueCityVeto(t *testing.T) {
	records := []NameRecord{
		{Name: "Masjid Nurul Iman", Cities: "Surabaya"},
		{Name: "Mesjid Nurul Iman", Cities: "Gresik"},
	}
	if groups := FindDuplicates(records, EntityVenue); len(groups) != 0 {
		t.Fatalf("disjoint cities must veto a venue match: %+v", groups)
	}

	// A name with no recorded city never vetoes.
	records[1].Cities = ""
	groups := FindDuplicates(records, EntityVenue)
	if len(groups) != 1 {
		t.Fatalf("empty city side must not veto, got %+v", groups)
	}

	// Overlapping multi-city aggregates do not veto either.
	records[1].Cities = "Malang, Surabaya"
	if groups := FindDuplicates(records, EntityVenue); len(groups) != 1 {
		t.Fatalf("overlapping cities must not veto, got %+v", groups)
	}
}

func TestFindDuplicatesSpeakerGrouping(t *testing.T) {
	records := []NameRecord{
		{Name: "Ustadz Ahmad", Cities: "Surabaya"},
		{Name: "Ustadz Achmad", Cities: "Gresik"},
		{Name: "Ust. Ahmad", Cities: "Malang"},
		{Name: "Ustadz Zainal", Cities: "Surabaya"},
	}
	groups := FindDuplicates(records, EntitySpeaker)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d: %+v", len(groups), groups)
	}
	group := groups[0]
	if group.Canonical != "Ustadz Ahmad" {
		t.Fatalf("unexpected canonical: %q", group.Canonical)
	}
	// Speakers travel; no city veto applies.
	if !reflect.DeepEqual(group.Variants, []string{"Ustadz Achmad", "Ust. Ahmad"}) {
		t.Fatalf("unexpected variants: %v", group.Variants)
	}
}

func TestFindDuplicatesConsumeOnce(t *testing.T) {
	records := []NameRecord{
		{Name: "Ustadz Ahmad"},
		{Name: "Ustadz Achmad"},
		{Name: "Ustadz Achmed"},
	}
	groups := FindDuplicates(records, EntitySpeaker)
	seen := map[string]int{}
	for _, group := range groups {
		seen[group.Canonical]++
		for _, variant := range group.Variants {
			seen[variant]++
		}
	}
	for name, count := range seen {
		if count > 1 {
			t.Fatalf("name %q appears in %d groups", name, count)
		}
	}
}

func TestFindDuplicatesEmptyAndSingleton(t *testing.T) {
	if groups := FindDuplicates(nil, EntityVenue); len(groups) != 0 {
		t.Fatalf("nil input must yield no groups: %+v", groups)
	}
	if groups := FindDuplicates([]NameRecord{{Name: "Masjid Al-Falah"}}, EntityVenue); len(groups) != 0 {
		t.Fatalf("singleton input must yield no groups: %+v", groups)
	}
	if groups := FindDuplicates([]NameRecord{{Name: " "}, {Name: ""}}, EntityVenue); len(groups) != 0 {
		t.Fatalf("blank names must be skipped: %+v", groups)
	}
}

func TestEntityTypeValid(t *testing.T) {
	if !EntityVenue.Valid() || !EntitySpeaker.Valid() {
		t.Fatalf("known types must be valid")
	}
	if EntityType("topic").Valid() {
		t.Fatalf("unknown type must be invalid")
	}
}
