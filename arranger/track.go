package arranger

import (
	"errors"
	"fmt"

	"github.com/vlehtola/tahti"
	"github.com/vlehtola/tahti/arranger/types"
)

// AddTrack appends a track to the project. Midi tracks get a synth from
// the audio interface when they appear.
type AddTrack struct {
	Track tahti.Track

	executed bool
}

// NewAddTrack returns a command that appends the track to the project. The
// track id is claimed here from the project, so redo reuses it. A zero
// volume means the default 1.
func NewAddTrack(m *Model, track tahti.Track) *AddTrack {
	track = track.Copy()
	track.ID = m.d.Project.NextTrackID()
	if track.Volume == 0 {
		track.Volume = 1
	}
	return &AddTrack{Track: track}
}

func (c *AddTrack) Execute(m *Model) error {
	if _, ok := m.d.Project.FindTrack(c.Track.ID); ok {
		return fmt.Errorf("AddTrack: track id %v is already in use", c.Track.ID)
	}
	track := c.Track.Copy()
	track.SetIndex(len(m.d.Project.Tracks))
	m.d.Project.Tracks = append(m.d.Project.Tracks, track)
	if track.Kind == tahti.TrackKindMidi {
		m.audioCreateSynth(track.ID, track.Instrument)
		m.audioSetVolume(track.ID, track.Volume)
	}
	c.executed = true
	return nil
}

func (c *AddTrack) Undo(m *Model) error {
	if !c.executed {
		return errors.New("AddTrack: undo before execute")
	}
	index := m.d.Project.TrackIndex(c.Track.ID)
	if index < 0 {
		return fmt.Errorf("AddTrack: no track with id %v", c.Track.ID)
	}
	track := &m.d.Project.Tracks[index]
	for i := range track.Regions {
		m.closeEditorFor(track.Regions[i].ID)
		m.deselectRegion(&track.Regions[i])
	}
	if track.Kind == tahti.TrackKindMidi {
		m.audioRemoveSynth(track.ID)
	}
	m.d.Project.Tracks = append(m.d.Project.Tracks[:index], m.d.Project.Tracks[index+1:]...)
	m.reindexTracks()
	c.executed = false
	return nil
}

func (c *AddTrack) Description() string { return "add track" }

// RemoveTrack deletes a track with everything on it. Undo puts the track
// back at its original position in the track list.
type RemoveTrack struct {
	TrackID int

	index    int
	backup   tahti.Track
	executed bool
}

func NewRemoveTrack(trackID int) *RemoveTrack {
	return &RemoveTrack{TrackID: trackID}
}

func (c *RemoveTrack) Execute(m *Model) error {
	index := m.d.Project.TrackIndex(c.TrackID)
	if index < 0 {
		return fmt.Errorf("RemoveTrack: no track with id %v", c.TrackID)
	}
	track := &m.d.Project.Tracks[index]
	for i := range track.Regions {
		m.closeEditorFor(track.Regions[i].ID)
		m.deselectRegion(&track.Regions[i])
	}
	c.index = index
	c.backup = track.Copy()
	if track.Kind == tahti.TrackKindMidi {
		m.audioRemoveSynth(track.ID)
	}
	m.d.Project.Tracks = append(m.d.Project.Tracks[:index], m.d.Project.Tracks[index+1:]...)
	m.reindexTracks()
	c.executed = true
	return nil
}

func (c *RemoveTrack) Undo(m *Model) error {
	if !c.executed {
		return errors.New("RemoveTrack: undo before execute")
	}
	if _, ok := m.d.Project.FindTrack(c.TrackID); ok {
		return fmt.Errorf("RemoveTrack: track id %v is already in use", c.TrackID)
	}
	m.d.Project.Tracks = insertAt(m.d.Project.Tracks, c.index, c.backup.Copy())
	m.reindexTracks()
	if c.backup.Kind == tahti.TrackKindMidi {
		m.audioCreateSynth(c.backup.ID, c.backup.Instrument)
		m.audioSetVolume(c.backup.ID, c.backup.Volume)
	}
	c.executed = false
	return nil
}

func (c *RemoveTrack) Description() string { return "remove track" }

// UpdateTrack updates track properties. Only fields that actually differ
// get recorded, so undo touches nothing else, and the audio interface
// hears only about fields that changed. An update where nothing differs
// returns ErrNoChange and stays out of the history.
type UpdateTrack struct {
	TrackID    int
	Name       types.Optional[string]
	Volume     types.Optional[float64]
	Instrument types.Optional[string]

	prevName       types.Optional[string]
	prevVolume     types.Optional[float64]
	prevInstrument types.Optional[string]
	executed       bool
}

func NewUpdateTrack(trackID int, name types.Optional[string], volume types.Optional[float64], instrument types.Optional[string]) *UpdateTrack {
	return &UpdateTrack{TrackID: trackID, Name: name, Volume: volume, Instrument: instrument}
}

func (c *UpdateTrack) Execute(m *Model) error {
	track, ok := m.d.Project.FindTrack(c.TrackID)
	if !ok {
		return fmt.Errorf("UpdateTrack: no track with id %v", c.TrackID)
	}
	if v, ok := c.Instrument.Unpack(); ok && v != "" && track.Kind != tahti.TrackKindMidi {
		return fmt.Errorf("UpdateTrack: an audio track has no instrument")
	}
	c.prevName = types.NewEmptyOptional[string]()
	c.prevVolume = types.NewEmptyOptional[float64]()
	c.prevInstrument = types.NewEmptyOptional[string]()
	if v, ok := c.Name.Unpack(); ok && v != track.Name {
		c.prevName = types.NewOptionalOf(track.Name)
		track.Name = v
	}
	if v, ok := c.Volume.Unpack(); ok && v != track.Volume {
		c.prevVolume = types.NewOptionalOf(track.Volume)
		track.Volume = v
		m.audioSetVolume(track.ID, v)
	}
	if v, ok := c.Instrument.Unpack(); ok && v != track.Instrument {
		c.prevInstrument = types.NewOptionalOf(track.Instrument)
		track.Instrument = v
		m.audioSetInstrument(track.ID, v)
	}
	if c.prevName.Empty() && c.prevVolume.Empty() && c.prevInstrument.Empty() {
		return ErrNoChange
	}
	c.executed = true
	return nil
}

func (c *UpdateTrack) Undo(m *Model) error {
	if !c.executed {
		return errors.New("UpdateTrack: undo before execute")
	}
	track, ok := m.d.Project.FindTrack(c.TrackID)
	if !ok {
		return fmt.Errorf("UpdateTrack: no track with id %v", c.TrackID)
	}
	if v, ok := c.prevName.Unpack(); ok {
		track.Name = v
	}
	if v, ok := c.prevVolume.Unpack(); ok {
		track.Volume = v
		m.audioSetVolume(track.ID, v)
	}
	if v, ok := c.prevInstrument.Unpack(); ok {
		track.Instrument = v
		m.audioSetInstrument(track.ID, v)
	}
	c.executed = false
	return nil
}

func (c *UpdateTrack) Description() string { return "update track" }

// ReorderTrack moves a track to a new position in the track list. The
// Index field of every track is restamped after the move.
type ReorderTrack struct {
	TrackID int
	ToIndex int

	fromIndex int
	executed  bool
}

// NewReorderTrack returns a command that moves the track to the given
// position. The target index is clamped to the list.
func NewReorderTrack(trackID int, toIndex int) *ReorderTrack {
	return &ReorderTrack{TrackID: trackID, ToIndex: toIndex}
}

func (c *ReorderTrack) Execute(m *Model) error {
	from := m.d.Project.TrackIndex(c.TrackID)
	if from < 0 {
		return fmt.Errorf("ReorderTrack: no track with id %v", c.TrackID)
	}
	c.fromIndex = from
	moveTrack(m, from, clamp(c.ToIndex, 0, len(m.d.Project.Tracks)-1))
	c.executed = true
	return nil
}

func (c *ReorderTrack) Undo(m *Model) error {
	if !c.executed {
		return errors.New("ReorderTrack: undo before execute")
	}
	from := m.d.Project.TrackIndex(c.TrackID)
	if from < 0 {
		return fmt.Errorf("ReorderTrack: no track with id %v", c.TrackID)
	}
	moveTrack(m, from, c.fromIndex)
	c.executed = false
	return nil
}

func moveTrack(m *Model, from, to int) {
	track := m.d.Project.Tracks[from]
	tracks := append(m.d.Project.Tracks[:from], m.d.Project.Tracks[from+1:]...)
	m.d.Project.Tracks = insertAt(tracks, to, track)
	m.reindexTracks()
}

func (c *ReorderTrack) Description() string { return "reorder track" }
