// Package dedup flags near-duplicate spellings of venue and speaker names.
// It is advisory and read-only: groups are suggestions for the caller, which
// owns the merge decision and the merge write.
package dedup

import (
	"strings"

	"kajianhub/backend/internal/broadcast/extract"
)

// EntityType selects the similarity threshold and whether the location veto
// applies.
type EntityType string

const (
	EntityVenue   EntityType = "venue"
	EntitySpeaker EntityType = "speaker"
)

// Valid reports whether the entity type is known.
func (t EntityType) Valid() bool {
	return t == EntityVenue || t == EntitySpeaker
}

// Venues need the stricter cut: short distinguishing tokens ("Muslim" vs
// "Muslimun") are common and must not collapse. Speaker spellings vary more
// (honorifics, transliteration) and a false merge is less costly there.
const (
	venueThreshold   = 0.95
	speakerThreshold = 0.85
)

// NameRecord is one distinct stored name with its aggregated location
// metadata: comma-joined city and address lists as returned by the store's
// group-by query. The metadata is passed through untouched and only consulted
// for the location veto and for display.
type NameRecord struct {
	Name      string `json:"name"`
	Cities    string `json:"cities"`
	Addresses string `json:"addresses"`
}

// Location is the per-name metadata echoed back inside a group.
type Location struct {
	Cities    string `json:"cities"`
	Addresses string `json:"addresses"`
}

// Group is one duplicate suggestion: the canonical spelling, the variants
// folded under it, and each name's location metadata.
type Group struct {
	EntityType EntityType          `json:"entityType"`
	Canonical  string              `json:"canonicalName"`
	Variants   []string            `json:"variants"`
	Locations  map[string]Location `json:"locationInfo"`
}

// FindDuplicates groups near-duplicate spellings in one pass over the input.
// Each not-yet-consumed name seeds a group in input order and collects every
// later unconsumed name whose similarity clears the type threshold (or that
// is identical after comparison normalization). A name joins at most one
// group. Groups without variants are not emitted. Never errors: empty or
// singleton input yields an empty result.
func FindDuplicates(records []NameRecord, entityType EntityType) []Group {
	threshold := speakerThreshold
	if entityType == EntityVenue {
		threshold = venueThreshold
	}

	normalized := make([]string, len(records))
	for i, record := range records {
		normalized[i] = extract.ForComparison(record.Name)
	}

	consumed := make([]bool, len(records))
	var groups []Group
	for i := range records {
		if consumed[i] || strings.TrimSpace(records[i].Name) == "" {
			continue
		}
		consumed[i] = true
		group := Group{
			EntityType: entityType,
			Canonical:  records[i].Name,
			Locations: map[string]Location{
				records[i].Name: {Cities: records[i].Cities, Addresses: records[i].Addresses},
			},
		}
		for j := i + 1; j < len(records); j++ {
			if consumed[j] || strings.TrimSpace(records[j].Name) == "" {
				continue
			}
			if normalized[i] != normalized[j] && similarity(normalized[i], normalized[j]) < threshold {
				continue
			}
			if entityType == EntityVenue && citySetsDisjoint(records[i].Cities, records[j].Cities) {
				// Same spelling pattern, different towns: two distinct
				// venues, not a duplicate.
				continue
			}
			consumed[j] = true
			group.Variants = append(group.Variants, records[j].Name)
			group.Locations[records[j].Name] = Location{Cities: records[j].Cities, Addresses: records[j].Addresses}
		}
		if len(group.Variants) > 0 {
			groups = append(groups, group)
		}
	}
	return groups
}

// citySetsDisjoint reports whether both names carry at least one known city
// and the two city sets share none. A name with no recorded city never vetoes
// a match; ambiguity resolves toward flagging a possible duplicate, since the
// caller makes the final call.
func citySetsDisjoint(aggA, aggB string) bool {
	setA := citySet(aggA)
	setB := citySet(aggB)
	if len(setA) == 0 || len(setB) == 0 {
		return false
	}
	for city := range setA {
		if _, ok := setB[city]; ok {
			return false
		}
	}
	return true
}

func citySet(agg string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, part := range strings.Split(agg, ",") {
		city := strings.ToLower(strings.TrimSpace(part))
		if city == "" {
			continue
		}
		set[city] = struct{}{}
	}
	return set
}
