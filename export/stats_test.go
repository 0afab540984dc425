package export_test

import (
	"reflect"
	"testing"

	"github.com/vlehtola/tahti"
	"github.com/vlehtola/tahti/export"
)

func TestCollect(t *testing.T) {
	project := tahti.Project{
		BPM:           120,
		TimeSignature: tahti.TimeSignature{Numerator: 4, Denominator: 4},
		Bars:          8,
		Tracks: []tahti.Track{
			{ID: 1, Index: 0, Name: "Keys", Kind: tahti.TrackKindMidi, Volume: 1,
				Regions: []tahti.Region{
					{ID: "r1", TrackID: 1, Kind: tahti.RegionKindMidi, LengthInBeats: 4,
						Notes: []tahti.Note{
							{ID: "n1", StartBeat: 0, EndBeat: 1, Pitch: 60, Velocity: 90},
							{ID: "n2", StartBeat: 1, EndBeat: 1.5, Pitch: 64, Velocity: 100},
						}},
					{ID: "r2", TrackID: 1, Kind: tahti.RegionKindMidi, StartFromBeat: 4, LengthInBeats: 4,
						Notes: []tahti.Note{
							// a note dragged backwards still sounds for a quarter beat
							{ID: "n3", StartBeat: 1, EndBeat: 0.75, Pitch: 68, Velocity: 110},
						}},
				}},
			{ID: 2, Index: 1, Name: "Vox", Kind: tahti.TrackKindAudio, Volume: 1,
				Regions: []tahti.Region{
					{ID: "r3", TrackID: 2, TrackIndex: 1, Kind: tahti.RegionKindAudio, LengthInBeats: 8},
				}},
		},
	}
	expected := export.Stats{
		Tracks:       2,
		Regions:      3,
		Notes:        3,
		TotalBeats:   1.75,
		PitchMin:     60,
		PitchMax:     68,
		PitchMean:    64,
		VelocityMin:  90,
		VelocityMax:  110,
		VelocityMean: 100,
	}
	got := export.Collect(&project)
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("got: %+v expected: %+v", got, expected)
	}
}

func TestCollectNoNotes(t *testing.T) {
	project := tahti.Project{
		BPM:           120,
		TimeSignature: tahti.TimeSignature{Numerator: 4, Denominator: 4},
		Bars:          8,
		Tracks:        []tahti.Track{{ID: 1, Name: "Keys", Kind: tahti.TrackKindMidi, Volume: 1}},
	}
	expected := export.Stats{Tracks: 1}
	got := export.Collect(&project)
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("got: %+v expected: %+v", got, expected)
	}
}
