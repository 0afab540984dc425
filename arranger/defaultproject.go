package arranger

import "github.com/vlehtola/tahti"

// defaultProject is the project a fresh model starts from. Do not modify
// during runtime.
var defaultProject = tahti.Project{
	BPM:           120,
	TimeSignature: tahti.TimeSignature{Numerator: 4, Denominator: 4},
	Key:           "C",
	Bars:          16,
	Tracks: []tahti.Track{{
		ID:         1,
		Name:       "Keys",
		Index:      0,
		Kind:       tahti.TrackKindMidi,
		Instrument: "Acoustic Grand Piano",
		Volume:     1,
	}, {
		ID:         2,
		Name:       "Bass",
		Index:      1,
		Kind:       tahti.TrackKindMidi,
		Instrument: "Electric Bass (finger)",
		Volume:     1,
	}},
}
