package tahti

import (
	"errors"

	"github.com/google/uuid"
)

type (
	// Project is the root of the arrangement: an ordered list of tracks plus
	// the global playback settings. BPM is a float, as fractional tempos are
	// common when syncing to picture. Bars sets the length of the timeline;
	// regions are free to hang over the end, the transport just never gets
	// there.
	Project struct {
		BPM           float64
		TimeSignature TimeSignature
		Key           string `yaml:",omitempty"`
		Bars          int
		LoopEnabled   bool `yaml:",omitempty"`
		Loop          LoopRange
		Tracks        []Track
	}

	// TimeSignature is the meter of the project: Numerator beats per bar,
	// with Denominator giving the note value of one beat (4 = quarter note,
	// 8 = eighth note). All positions in the model are in beats, so the
	// denominator only matters when converting to other formats.
	TimeSignature struct {
		Numerator   int
		Denominator int
	}

	// LoopRange is an inclusive 0-based range of bars that the transport
	// cycles over when looping is enabled.
	LoopRange struct {
		StartBar int `yaml:",omitempty"`
		EndBar   int `yaml:",omitempty"`
	}
)

// BeatsPerBar returns the length of one bar in beats, which is just the time
// signature numerator; or 4 if the numerator is not positive.
func (p *Project) BeatsPerBar() float64 {
	if p.TimeSignature.Numerator < 1 {
		return 4
	}
	return float64(p.TimeSignature.Numerator)
}

// LengthInBeats returns just Bars * BeatsPerBar, as Bars is the length of
// the project in bars.
func (p *Project) LengthInBeats() float64 {
	return float64(p.Bars) * p.BeatsPerBar()
}

// FindTrack returns a pointer to the track with the given id. The pointer is
// transient: anything that reorders the track list invalidates it.
func (p *Project) FindTrack(id int) (*Track, bool) {
	for i := range p.Tracks {
		if p.Tracks[i].ID == id {
			return &p.Tracks[i], true
		}
	}
	return nil, false
}

// TrackIndex returns the position of the track with the given id in the
// track list, or -1 if there is no such track.
func (p *Project) TrackIndex(id int) int {
	for i := range p.Tracks {
		if p.Tracks[i].ID == id {
			return i
		}
	}
	return -1
}

// FindRegion scans all tracks for the region with the given id, returning
// also the track containing it.
func (p *Project) FindRegion(id string) (*Region, *Track, bool) {
	for i := range p.Tracks {
		if r, ok := p.Tracks[i].FindRegion(id); ok {
			return r, &p.Tracks[i], true
		}
	}
	return nil, nil, false
}

// NextTrackID returns an id one larger than the largest track id in use, so
// that track ids never get reused within a project.
func (p *Project) NextTrackID() int {
	ret := 1
	for _, t := range p.Tracks {
		if t.ID >= ret {
			ret = t.ID + 1
		}
	}
	return ret
}

// Copy makes a deep copy of a Project.
func (p *Project) Copy() Project {
	tracks := make([]Track, len(p.Tracks))
	for i, t := range p.Tracks {
		tracks[i] = t.Copy()
	}
	return Project{
		BPM:           p.BPM,
		TimeSignature: p.TimeSignature,
		Key:           p.Key,
		Bars:          p.Bars,
		LoopEnabled:   p.LoopEnabled,
		Loop:          p.Loop,
		Tracks:        tracks,
	}
}

// Validate checks if the Project looks like a valid project: BPM > 0, a
// positive time signature, at least one bar, unique track ids and a loop
// range that stays within the bars.
func (p *Project) Validate() error {
	if p.BPM <= 0 {
		return errors.New("BPM should be > 0")
	}
	if p.TimeSignature.Numerator < 1 || p.TimeSignature.Denominator < 1 {
		return errors.New("time signature should be positive")
	}
	if p.Bars < 1 {
		return errors.New("project should have at least one bar")
	}
	seen := make(map[int]bool)
	for _, t := range p.Tracks {
		if seen[t.ID] {
			return errors.New("Tracks should have unique ids")
		}
		seen[t.ID] = true
	}
	if p.LoopEnabled {
		if p.Loop.StartBar < 0 || p.Loop.EndBar < p.Loop.StartBar || p.Loop.EndBar >= p.Bars {
			return errors.New("loop range is outside the project")
		}
	}
	return nil
}

// FixupIDs makes the ids in a freshly loaded project consistent: missing or
// duplicate track, region and note ids are replaced with fresh ones, and the
// Index, TrackID and TrackIndex fields are re-stamped from the actual
// containment, whatever the file claimed.
func (p *Project) FixupIDs() {
	seenTrack := make(map[int]bool)
	seen := make(map[string]bool)
	for i := range p.Tracks {
		t := &p.Tracks[i]
		if t.ID < 1 || seenTrack[t.ID] {
			t.ID = p.NextTrackID()
		}
		seenTrack[t.ID] = true
		t.Index = i
		for j := range t.Regions {
			r := &t.Regions[j]
			if r.ID == "" || seen[r.ID] {
				r.ID = uuid.New().String()
			}
			seen[r.ID] = true
			r.TrackID = t.ID
			r.TrackIndex = i
			for k := range r.Notes {
				n := &r.Notes[k]
				if n.ID == "" || seen[n.ID] {
					n.ID = uuid.New().String()
				}
				seen[n.ID] = true
			}
		}
	}
}

// ApplyDefaults fills in the zero values a hand-written project file may
// omit: BPM 120, 4/4 time, 16 bars and full track volume.
func (p *Project) ApplyDefaults() {
	if p.BPM == 0 {
		p.BPM = 120
	}
	if p.TimeSignature.Numerator == 0 {
		p.TimeSignature.Numerator = 4
	}
	if p.TimeSignature.Denominator == 0 {
		p.TimeSignature.Denominator = 4
	}
	if p.Bars == 0 {
		p.Bars = 16
	}
	for i := range p.Tracks {
		if p.Tracks[i].Volume == 0 {
			p.Tracks[i].Volume = 1
		}
	}
}
