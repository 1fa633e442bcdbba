package core

import "fmt"

// TBD is the placeholder stored for fields a broadcast never resolved.
// Entries are kept with placeholders; only entries with no identifying field
// at all are dropped.
const TBD = "TBD"

// Entry is the normalized output unit of every extractor. All fields are free
// text as written by the broadcast author; nothing is parsed into machine
// time or coordinates here.
type Entry struct {
	Region  string `json:"region"`
	City    string `json:"city"`
	Venue   string `json:"venue"`
	Address string `json:"address"`
	MapURL  string `json:"mapUrl"`
	Speaker string `json:"speaker"`
	Topic   string `json:"topic"`
	Time    string `json:"time"`
	Date    string `json:"date"`
	Contact string `json:"contact"`
}

// HasIdentity reports whether the entry carries at least one identifying
// field. Extractors drop entries for which this is false.
func (e *Entry) HasIdentity() bool {
	if e == nil {
		return false
	}
	return isSet(e.Venue) || isSet(e.Speaker) || isSet(e.Topic) || isSet(e.Time)
}

func isSet(value string) bool {
	return value != "" && value != TBD
}

// Format identifies which extraction strategy handles a broadcast. The set is
// closed; the classifier always yields one of the three.
type Format string

const (
	FormatTabular   Format = "tabular"
	FormatMarker    Format = "marker"
	FormatNarrative Format = "narrative"
)

// Valid reports whether the format is one of the known strategies.
func (f Format) Valid() bool {
	switch f {
	case FormatTabular, FormatMarker, FormatNarrative:
		return true
	default:
		return false
	}
}

// UnsupportedInputError is returned for input the engine refuses outright
// (currently only empty input). Unrecognized layouts never error; they fall
// through to the narrative extractor.
type UnsupportedInputError struct {
	Hint string
}

func (e *UnsupportedInputError) Error() string {
	if e == nil || e.Hint == "" {
		return "unsupported input"
	}
	return fmt.Sprintf("unsupported input: %s", e.Hint)
}
