package arranger

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/vlehtola/tahti"
	"github.com/vlehtola/tahti/arranger/types"
)

func regionFitsTrack(kind tahti.RegionKind, track *tahti.Track) bool {
	return (kind == tahti.RegionKindMidi) == (track.Kind == tahti.TrackKindMidi)
}

// CreateRegion appends a region to a track.
type CreateRegion struct {
	TrackID int
	Region  tahti.Region

	executed bool
}

// NewCreateRegion returns a command that appends the region to the given
// track. The region id is generated here, so redo puts back the same id;
// ids of any notes the region starts with get reassigned too.
func NewCreateRegion(trackID int, region tahti.Region) *CreateRegion {
	region = region.Copy()
	region.ID = uuid.New().String()
	for i := range region.Notes {
		region.Notes[i].ID = uuid.New().String()
		if region.Notes[i].Velocity == 0 {
			region.Notes[i].Velocity = 127
		}
	}
	if region.LengthInBeats < tahti.MinRegionLength {
		region.LengthInBeats = tahti.MinRegionLength
	}
	return &CreateRegion{TrackID: trackID, Region: region}
}

func (c *CreateRegion) Execute(m *Model) error {
	track, ok := m.d.Project.FindTrack(c.TrackID)
	if !ok {
		return fmt.Errorf("CreateRegion: no track with id %v", c.TrackID)
	}
	if !regionFitsTrack(c.Region.Kind, track) {
		return fmt.Errorf("CreateRegion: a %s region does not go on a %s track", c.Region.Kind, track.Kind)
	}
	region := c.Region.Copy()
	region.TrackID = track.ID
	region.TrackIndex = track.Index
	track.Regions = append(track.Regions, region)
	c.executed = true
	return nil
}

func (c *CreateRegion) Undo(m *Model) error {
	if !c.executed {
		return errors.New("CreateRegion: undo before execute")
	}
	region, track, ok := m.d.Project.FindRegion(c.Region.ID)
	if !ok {
		return fmt.Errorf("CreateRegion: no region with id %v", c.Region.ID)
	}
	m.closeEditorFor(region.ID)
	m.deselectRegion(region)
	index := track.RegionIndex(c.Region.ID)
	track.Regions = append(track.Regions[:index], track.Regions[index+1:]...)
	c.executed = false
	return nil
}

func (c *CreateRegion) Description() string { return "create region" }

// DeleteRegions deletes a batch of regions, possibly from several tracks,
// and puts every one back at its original index on undo.
type DeleteRegions struct {
	Refs []tahti.Ref

	backups []regionBackup
}

type regionBackup struct {
	trackID int
	index   int
	region  tahti.Region
}

func NewDeleteRegions(refs []tahti.Ref) *DeleteRegions {
	return &DeleteRegions{Refs: dedupeRefs(refs)}
}

func (c *DeleteRegions) Execute(m *Model) error {
	type target struct {
		trackID int
		index   int
		id      string
	}
	targets := make([]target, 0, len(c.Refs))
	for _, ref := range c.Refs {
		if ref.Kind != tahti.KindRegion {
			return fmt.Errorf("DeleteRegions: %v is not a region ref", ref.Kind)
		}
		region, track, ok := m.d.Project.FindRegion(ref.RegionID)
		if !ok {
			return fmt.Errorf("DeleteRegions: no region with id %v", ref.RegionID)
		}
		targets = append(targets, target{trackID: track.ID, index: track.RegionIndex(region.ID), id: region.ID})
	}
	for _, t := range targets {
		region, _, _ := m.d.Project.FindRegion(t.id)
		m.closeEditorFor(t.id)
		m.deselectRegion(region)
	}
	// delete from the back so the remaining indices stay valid
	sort.SliceStable(targets, func(i, j int) bool {
		if targets[i].trackID != targets[j].trackID {
			return targets[i].trackID < targets[j].trackID
		}
		return targets[i].index > targets[j].index
	})
	backups := make([]regionBackup, 0, len(targets))
	for _, t := range targets {
		track, _ := m.d.Project.FindTrack(t.trackID)
		backups = append(backups, regionBackup{trackID: t.trackID, index: t.index, region: track.Regions[t.index].Copy()})
		track.Regions = append(track.Regions[:t.index], track.Regions[t.index+1:]...)
	}
	c.backups = backups
	return nil
}

func (c *DeleteRegions) Undo(m *Model) error {
	if c.backups == nil {
		return errors.New("DeleteRegions: undo before execute")
	}
	for _, b := range c.backups {
		if _, ok := m.d.Project.FindTrack(b.trackID); !ok {
			return fmt.Errorf("DeleteRegions: no track with id %v", b.trackID)
		}
	}
	restore := make([]regionBackup, len(c.backups))
	copy(restore, c.backups)
	sort.SliceStable(restore, func(i, j int) bool {
		if restore[i].trackID != restore[j].trackID {
			return restore[i].trackID < restore[j].trackID
		}
		return restore[i].index < restore[j].index
	})
	for _, b := range restore {
		track, _ := m.d.Project.FindTrack(b.trackID)
		track.Regions = insertAt(track.Regions, b.index, b.region.Copy())
	}
	c.backups = nil
	return nil
}

func (c *DeleteRegions) Description() string {
	if len(c.Refs) == 1 {
		return "delete region"
	}
	return fmt.Sprintf("delete %d regions", len(c.Refs))
}

// MoveRegion moves a region in time and possibly to another track. A move
// within one track just changes the start; a move across tracks removes
// the region from one list and appends it to the other, so the position in
// the region list is not kept across undo.
type MoveRegion struct {
	RegionID  string
	ToTrackID int
	ToBeat    float64

	fromTrackID int
	fromBeat    float64
	executed    bool
}

func NewMoveRegion(regionID string, toTrackID int, toBeat float64) *MoveRegion {
	return &MoveRegion{RegionID: regionID, ToTrackID: toTrackID, ToBeat: toBeat}
}

func (c *MoveRegion) Execute(m *Model) error {
	region, fromTrack, ok := m.d.Project.FindRegion(c.RegionID)
	if !ok {
		return fmt.Errorf("MoveRegion: no region with id %v", c.RegionID)
	}
	c.fromTrackID = fromTrack.ID
	c.fromBeat = region.StartFromBeat
	if err := c.move(m, c.ToTrackID, c.ToBeat); err != nil {
		return err
	}
	c.executed = true
	return nil
}

func (c *MoveRegion) Undo(m *Model) error {
	if !c.executed {
		return errors.New("MoveRegion: undo before execute")
	}
	if err := c.move(m, c.fromTrackID, c.fromBeat); err != nil {
		return err
	}
	c.executed = false
	return nil
}

func (c *MoveRegion) move(m *Model, toTrackID int, toBeat float64) error {
	region, fromTrack, ok := m.d.Project.FindRegion(c.RegionID)
	if !ok {
		return fmt.Errorf("MoveRegion: no region with id %v", c.RegionID)
	}
	toTrack, ok := m.d.Project.FindTrack(toTrackID)
	if !ok {
		return fmt.Errorf("MoveRegion: no track with id %v", toTrackID)
	}
	if !regionFitsTrack(region.Kind, toTrack) {
		return fmt.Errorf("MoveRegion: a %s region does not go on a %s track", region.Kind, toTrack.Kind)
	}
	if fromTrack.ID == toTrack.ID {
		region.StartFromBeat = toBeat
		return nil
	}
	index := fromTrack.RegionIndex(c.RegionID)
	moved := fromTrack.Regions[index]
	fromTrack.Regions = append(fromTrack.Regions[:index], fromTrack.Regions[index+1:]...)
	moved.StartFromBeat = toBeat
	moved.TrackID = toTrack.ID
	moved.TrackIndex = toTrack.Index
	toTrack.Regions = append(toTrack.Regions, moved)
	return nil
}

func (c *MoveRegion) Description() string { return "move region" }

// ResizeRegion moves one edge of a region. Dragging the start edge keeps
// the notes anchored where they sound, so their region-relative offsets
// shift by the opposite amount. The length never goes below
// MinRegionLength; the delta that actually got applied is what undo
// reverses.
type ResizeRegion struct {
	RegionID string
	Edge     Edge
	Delta    float64

	effective     float64
	noteOriginals []noteTimes
	executed      bool
}

type noteTimes struct {
	id    string
	start float64
	end   float64
}

func NewResizeRegion(regionID string, edge Edge, delta float64) *ResizeRegion {
	return &ResizeRegion{RegionID: regionID, Edge: edge, Delta: delta}
}

func (c *ResizeRegion) Execute(m *Model) error {
	region, _, ok := m.d.Project.FindRegion(c.RegionID)
	if !ok {
		return fmt.Errorf("ResizeRegion: no region with id %v", c.RegionID)
	}
	c.noteOriginals = c.noteOriginals[:0]
	switch c.Edge {
	case EdgeStart:
		effective := c.Delta
		if region.LengthInBeats-effective < tahti.MinRegionLength {
			effective = region.LengthInBeats - tahti.MinRegionLength
		}
		region.StartFromBeat += effective
		region.LengthInBeats -= effective
		for i := range region.Notes {
			n := &region.Notes[i]
			c.noteOriginals = append(c.noteOriginals, noteTimes{id: n.ID, start: n.StartBeat, end: n.EndBeat})
			n.StartBeat -= effective
			n.EndBeat -= effective
		}
		c.effective = effective
	case EdgeEnd:
		length := region.LengthInBeats + c.Delta
		if length < tahti.MinRegionLength {
			length = tahti.MinRegionLength
		}
		c.effective = length - region.LengthInBeats
		region.LengthInBeats = length
	}
	c.executed = true
	return nil
}

func (c *ResizeRegion) Undo(m *Model) error {
	if !c.executed {
		return errors.New("ResizeRegion: undo before execute")
	}
	region, _, ok := m.d.Project.FindRegion(c.RegionID)
	if !ok {
		return fmt.Errorf("ResizeRegion: no region with id %v", c.RegionID)
	}
	switch c.Edge {
	case EdgeStart:
		region.StartFromBeat -= c.effective
		region.LengthInBeats += c.effective
		// restore the recorded times instead of shifting back, so repeated
		// undo and redo do not accumulate float error
		for _, orig := range c.noteOriginals {
			if n, ok := region.FindNote(orig.id); ok {
				n.StartBeat = orig.start
				n.EndBeat = orig.end
			}
		}
	case EdgeEnd:
		region.LengthInBeats -= c.effective
	}
	c.executed = false
	return nil
}

func (c *ResizeRegion) Description() string { return "resize region" }

// PasteRegions adds a batch of regions to one track, keeping their offsets
// relative to the earliest of them.
type PasteRegions struct {
	TrackID int
	AtBeat  float64
	Regions []tahti.Region

	executed bool
}

// NewPasteRegions returns a command that pastes the regions onto the given
// track so that the earliest one starts at atBeat. Region and note ids are
// all reassigned here, so pasting twice creates distinct regions, while
// redo recreates the same ones.
func NewPasteRegions(trackID int, atBeat float64, regions []tahti.Region) *PasteRegions {
	rs := make([]tahti.Region, len(regions))
	base := 0.0
	if len(regions) > 0 {
		base = regions[0].StartFromBeat
		for _, r := range regions[1:] {
			if r.StartFromBeat < base {
				base = r.StartFromBeat
			}
		}
	}
	for i := range regions {
		r := regions[i].Copy()
		r.ID = uuid.New().String()
		for j := range r.Notes {
			r.Notes[j].ID = uuid.New().String()
		}
		r.StartFromBeat = atBeat + (r.StartFromBeat - base)
		rs[i] = r
	}
	return &PasteRegions{TrackID: trackID, AtBeat: atBeat, Regions: rs}
}

func (c *PasteRegions) Execute(m *Model) error {
	track, ok := m.d.Project.FindTrack(c.TrackID)
	if !ok {
		return fmt.Errorf("PasteRegions: no track with id %v", c.TrackID)
	}
	for _, r := range c.Regions {
		if !regionFitsTrack(r.Kind, track) {
			return fmt.Errorf("PasteRegions: a %s region does not go on a %s track", r.Kind, track.Kind)
		}
	}
	for _, r := range c.Regions {
		region := r.Copy()
		region.TrackID = track.ID
		region.TrackIndex = track.Index
		track.Regions = append(track.Regions, region)
	}
	c.executed = true
	return nil
}

func (c *PasteRegions) Undo(m *Model) error {
	if !c.executed {
		return errors.New("PasteRegions: undo before execute")
	}
	track, ok := m.d.Project.FindTrack(c.TrackID)
	if !ok {
		return fmt.Errorf("PasteRegions: no track with id %v", c.TrackID)
	}
	for _, r := range c.Regions {
		if track.RegionIndex(r.ID) < 0 {
			return fmt.Errorf("PasteRegions: no region with id %v on track %v", r.ID, c.TrackID)
		}
	}
	for _, r := range c.Regions {
		region, _ := track.FindRegion(r.ID)
		m.closeEditorFor(r.ID)
		m.deselectRegion(region)
		index := track.RegionIndex(r.ID)
		track.Regions = append(track.Regions[:index], track.Regions[index+1:]...)
	}
	c.executed = false
	return nil
}

func (c *PasteRegions) Description() string {
	if len(c.Regions) == 1 {
		return "paste region"
	}
	return fmt.Sprintf("paste %d regions", len(c.Regions))
}

// UpdateRegion updates region properties. Only fields that actually differ
// get recorded, so undo touches nothing else. An update where nothing
// differs returns ErrNoChange and stays out of the history.
type UpdateRegion struct {
	RegionID string
	Name     types.Optional[string]

	prevName types.Optional[string]
	executed bool
}

func NewUpdateRegion(regionID string, name types.Optional[string]) *UpdateRegion {
	return &UpdateRegion{RegionID: regionID, Name: name}
}

func (c *UpdateRegion) Execute(m *Model) error {
	region, _, ok := m.d.Project.FindRegion(c.RegionID)
	if !ok {
		return fmt.Errorf("UpdateRegion: no region with id %v", c.RegionID)
	}
	c.prevName = types.NewEmptyOptional[string]()
	if v, ok := c.Name.Unpack(); ok && v != region.Name {
		c.prevName = types.NewOptionalOf(region.Name)
		region.Name = v
	}
	if c.prevName.Empty() {
		return ErrNoChange
	}
	c.executed = true
	return nil
}

func (c *UpdateRegion) Undo(m *Model) error {
	if !c.executed {
		return errors.New("UpdateRegion: undo before execute")
	}
	region, _, ok := m.d.Project.FindRegion(c.RegionID)
	if !ok {
		return fmt.Errorf("UpdateRegion: no region with id %v", c.RegionID)
	}
	if v, ok := c.prevName.Unpack(); ok {
		region.Name = v
	}
	c.executed = false
	return nil
}

func (c *UpdateRegion) Description() string { return "update region" }

// SplitRegion cuts a midi region in two at an absolute beat. Notes at or
// after the cut move to the new region with rebased offsets; a note
// straddling the cut stays in the first half. The moved notes drop out of
// the selection, as their refs change.
type SplitRegion struct {
	RegionID string
	AtBeat   float64

	newRegionID string
	executed    bool
}

func NewSplitRegion(regionID string, atBeat float64) *SplitRegion {
	return &SplitRegion{RegionID: regionID, AtBeat: atBeat, newRegionID: uuid.New().String()}
}

func (c *SplitRegion) Execute(m *Model) error {
	region, track, ok := m.d.Project.FindRegion(c.RegionID)
	if !ok {
		return fmt.Errorf("SplitRegion: no region with id %v", c.RegionID)
	}
	if region.Kind != tahti.RegionKindMidi {
		return fmt.Errorf("SplitRegion: region %v is not a midi region", c.RegionID)
	}
	if c.AtBeat <= region.StartFromBeat || c.AtBeat >= region.EndBeat() {
		return fmt.Errorf("SplitRegion: beat %v is outside region %v", c.AtBeat, c.RegionID)
	}
	cut := c.AtBeat - region.StartFromBeat
	for i := range region.Notes {
		if region.Notes[i].StartBeat >= cut {
			m.Selection().Deselect(tahti.NoteRef(region.ID, region.Notes[i].ID))
		}
	}
	var left, right []tahti.Note
	for _, n := range region.Notes {
		if n.StartBeat >= cut {
			n.StartBeat -= cut
			n.EndBeat -= cut
			right = append(right, n)
		} else {
			left = append(left, n)
		}
	}
	end := region.EndBeat()
	region.Notes = left
	region.LengthInBeats = c.AtBeat - region.StartFromBeat
	track.Regions = append(track.Regions, tahti.Region{
		ID:            c.newRegionID,
		TrackID:       track.ID,
		TrackIndex:    track.Index,
		Name:          region.Name,
		StartFromBeat: c.AtBeat,
		LengthInBeats: end - c.AtBeat,
		Kind:          tahti.RegionKindMidi,
		Notes:         right,
	})
	c.executed = true
	return nil
}

func (c *SplitRegion) Undo(m *Model) error {
	if !c.executed {
		return errors.New("SplitRegion: undo before execute")
	}
	region, _, ok := m.d.Project.FindRegion(c.RegionID)
	if !ok {
		return fmt.Errorf("SplitRegion: no region with id %v", c.RegionID)
	}
	newRegion, track, ok := m.d.Project.FindRegion(c.newRegionID)
	if !ok {
		return fmt.Errorf("SplitRegion: no region with id %v", c.newRegionID)
	}
	m.closeEditorFor(c.newRegionID)
	m.deselectRegion(newRegion)
	cut := c.AtBeat - region.StartFromBeat
	region.LengthInBeats += newRegion.LengthInBeats
	for _, n := range newRegion.Notes {
		n.StartBeat += cut
		n.EndBeat += cut
		region.Notes = append(region.Notes, n)
	}
	index := track.RegionIndex(c.newRegionID)
	track.Regions = append(track.Regions[:index], track.Regions[index+1:]...)
	c.executed = false
	return nil
}

func (c *SplitRegion) Description() string { return "split region" }
