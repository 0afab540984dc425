package arranger

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/viterin/vek"

	"github.com/vlehtola/tahti"
)

// resolveNotes resolves note refs to pointers, failing without touching
// anything when any of them is missing. The pointers are good only until
// the next command runs.
func resolveNotes(m *Model, refs []tahti.Ref, op string) ([]*tahti.Note, error) {
	ret := make([]*tahti.Note, len(refs))
	for i, ref := range refs {
		if ref.Kind != tahti.KindNote {
			return nil, fmt.Errorf("%s: %v is not a note ref", op, ref.Kind)
		}
		region, _, ok := m.d.Project.FindRegion(ref.RegionID)
		if !ok {
			return nil, fmt.Errorf("%s: no region with id %v", op, ref.RegionID)
		}
		note, ok := region.FindNote(ref.NoteID)
		if !ok {
			return nil, fmt.Errorf("%s: no note with id %v in region %v", op, ref.NoteID, ref.RegionID)
		}
		ret[i] = note
	}
	return ret, nil
}

// dedupeRefs drops duplicate refs, keeping the first occurence of each.
func dedupeRefs(refs []tahti.Ref) []tahti.Ref {
	ret := make([]tahti.Ref, 0, len(refs))
	seen := make(map[tahti.Ref]bool, len(refs))
	for _, r := range refs {
		if seen[r] {
			continue
		}
		seen[r] = true
		ret = append(ret, r)
	}
	return ret
}

// CreateNote adds a single note to a midi region.
type CreateNote struct {
	RegionID string
	Note     tahti.Note

	executed bool
}

// NewCreateNote returns a command that adds the note to the given midi
// region. The note id is generated here, so redo puts back the same id. A
// zero velocity means the default 127.
func NewCreateNote(regionID string, note tahti.Note) *CreateNote {
	note.ID = uuid.New().String()
	if note.Velocity == 0 {
		note.Velocity = 127
	}
	return &CreateNote{RegionID: regionID, Note: note}
}

func (c *CreateNote) Execute(m *Model) error {
	region, _, ok := m.d.Project.FindRegion(c.RegionID)
	if !ok {
		return fmt.Errorf("CreateNote: no region with id %v", c.RegionID)
	}
	if region.Kind != tahti.RegionKindMidi {
		return fmt.Errorf("CreateNote: region %v is not a midi region", c.RegionID)
	}
	region.Notes = append(region.Notes, c.Note)
	c.executed = true
	return nil
}

func (c *CreateNote) Undo(m *Model) error {
	if !c.executed {
		return errors.New("CreateNote: undo before execute")
	}
	region, _, ok := m.d.Project.FindRegion(c.RegionID)
	if !ok {
		return fmt.Errorf("CreateNote: no region with id %v", c.RegionID)
	}
	index := region.NoteIndex(c.Note.ID)
	if index < 0 {
		return fmt.Errorf("CreateNote: no note with id %v in region %v", c.Note.ID, c.RegionID)
	}
	m.Selection().Deselect(tahti.NoteRef(c.RegionID, c.Note.ID))
	region.Notes = append(region.Notes[:index], region.Notes[index+1:]...)
	c.executed = false
	return nil
}

func (c *CreateNote) Description() string { return "create note" }

// DeleteNotes deletes a batch of notes, possibly from several regions, and
// puts every one back at its original index on undo.
type DeleteNotes struct {
	Refs []tahti.Ref

	backups []noteBackup
}

type noteBackup struct {
	regionID string
	index    int
	note     tahti.Note
}

func NewDeleteNotes(refs []tahti.Ref) *DeleteNotes {
	return &DeleteNotes{Refs: dedupeRefs(refs)}
}

func (c *DeleteNotes) Execute(m *Model) error {
	type target struct {
		regionID string
		index    int
	}
	targets := make([]target, 0, len(c.Refs))
	for _, ref := range c.Refs {
		if ref.Kind != tahti.KindNote {
			return fmt.Errorf("DeleteNotes: %v is not a note ref", ref.Kind)
		}
		region, _, ok := m.d.Project.FindRegion(ref.RegionID)
		if !ok {
			return fmt.Errorf("DeleteNotes: no region with id %v", ref.RegionID)
		}
		index := region.NoteIndex(ref.NoteID)
		if index < 0 {
			return fmt.Errorf("DeleteNotes: no note with id %v in region %v", ref.NoteID, ref.RegionID)
		}
		targets = append(targets, target{regionID: ref.RegionID, index: index})
	}
	for _, ref := range c.Refs {
		m.Selection().Deselect(ref)
	}
	// delete from the back so the remaining indices stay valid
	sort.SliceStable(targets, func(i, j int) bool {
		if targets[i].regionID != targets[j].regionID {
			return targets[i].regionID < targets[j].regionID
		}
		return targets[i].index > targets[j].index
	})
	backups := make([]noteBackup, 0, len(targets))
	for _, t := range targets {
		region, _, _ := m.d.Project.FindRegion(t.regionID)
		backups = append(backups, noteBackup{regionID: t.regionID, index: t.index, note: region.Notes[t.index]})
		region.Notes = append(region.Notes[:t.index], region.Notes[t.index+1:]...)
	}
	c.backups = backups
	return nil
}

func (c *DeleteNotes) Undo(m *Model) error {
	if c.backups == nil {
		return errors.New("DeleteNotes: undo before execute")
	}
	for _, b := range c.backups {
		if _, _, ok := m.d.Project.FindRegion(b.regionID); !ok {
			return fmt.Errorf("DeleteNotes: no region with id %v", b.regionID)
		}
	}
	// restore in ascending index order to recreate the original layout
	restore := make([]noteBackup, len(c.backups))
	copy(restore, c.backups)
	sort.SliceStable(restore, func(i, j int) bool {
		if restore[i].regionID != restore[j].regionID {
			return restore[i].regionID < restore[j].regionID
		}
		return restore[i].index < restore[j].index
	})
	for _, b := range restore {
		region, _, _ := m.d.Project.FindRegion(b.regionID)
		region.Notes = insertAt(region.Notes, b.index, b.note)
	}
	c.backups = nil
	return nil
}

func (c *DeleteNotes) Description() string {
	if len(c.Refs) == 1 {
		return "delete note"
	}
	return fmt.Sprintf("delete %d notes", len(c.Refs))
}

// MoveNotes shifts a batch of notes in time and pitch by one shared delta,
// the way a drag gesture moves the whole selection by the amount the
// primary note moved.
type MoveNotes struct {
	Refs       []tahti.Ref
	DeltaBeats float64
	DeltaPitch int

	executed bool
}

func NewMoveNotes(refs []tahti.Ref, deltaBeats float64, deltaPitch int) *MoveNotes {
	return &MoveNotes{Refs: dedupeRefs(refs), DeltaBeats: deltaBeats, DeltaPitch: deltaPitch}
}

func (c *MoveNotes) Execute(m *Model) error {
	notes, err := resolveNotes(m, c.Refs, "MoveNotes")
	if err != nil {
		return err
	}
	for _, n := range notes {
		n.StartBeat += c.DeltaBeats
		n.EndBeat += c.DeltaBeats
		n.Pitch += c.DeltaPitch
	}
	c.executed = true
	return nil
}

func (c *MoveNotes) Undo(m *Model) error {
	if !c.executed {
		return errors.New("MoveNotes: undo before execute")
	}
	notes, err := resolveNotes(m, c.Refs, "MoveNotes")
	if err != nil {
		return err
	}
	for _, n := range notes {
		n.StartBeat -= c.DeltaBeats
		n.EndBeat -= c.DeltaBeats
		n.Pitch -= c.DeltaPitch
	}
	c.executed = false
	return nil
}

func (c *MoveNotes) Description() string {
	if len(c.Refs) == 1 {
		return "move note"
	}
	return fmt.Sprintf("move %d notes", len(c.Refs))
}

// ResizeNotes moves one edge of a batch of notes by one shared delta. The
// result is kept as is, even when an end gets dragged past its start.
type ResizeNotes struct {
	Refs  []tahti.Ref
	Edge  Edge
	Delta float64

	executed bool
}

func NewResizeNotes(refs []tahti.Ref, edge Edge, delta float64) *ResizeNotes {
	return &ResizeNotes{Refs: dedupeRefs(refs), Edge: edge, Delta: delta}
}

func (c *ResizeNotes) Execute(m *Model) error {
	notes, err := resolveNotes(m, c.Refs, "ResizeNotes")
	if err != nil {
		return err
	}
	for _, n := range notes {
		if c.Edge == EdgeStart {
			n.StartBeat += c.Delta
		} else {
			n.EndBeat += c.Delta
		}
	}
	c.executed = true
	return nil
}

func (c *ResizeNotes) Undo(m *Model) error {
	if !c.executed {
		return errors.New("ResizeNotes: undo before execute")
	}
	notes, err := resolveNotes(m, c.Refs, "ResizeNotes")
	if err != nil {
		return err
	}
	for _, n := range notes {
		if c.Edge == EdgeStart {
			n.StartBeat -= c.Delta
		} else {
			n.EndBeat -= c.Delta
		}
	}
	c.executed = false
	return nil
}

func (c *ResizeNotes) Description() string {
	if len(c.Refs) == 1 {
		return "resize note"
	}
	return fmt.Sprintf("resize %d notes", len(c.Refs))
}

// PasteNotes adds a batch of notes to one region, keeping their offsets
// relative to the earliest of them.
type PasteNotes struct {
	RegionID string
	AtBeat   float64
	Notes    []tahti.Note

	executed bool
}

// NewPasteNotes returns a command that pastes the notes into the region so
// that the earliest one starts at atBeat. Fresh ids are generated here:
// pasting the same clipboard twice creates distinct notes, while redo
// recreates the same ones.
func NewPasteNotes(regionID string, atBeat float64, notes []tahti.Note) *PasteNotes {
	ns := make([]tahti.Note, len(notes))
	copy(ns, notes)
	base := 0.0
	if len(ns) > 0 {
		base = ns[0].StartBeat
		for _, n := range ns[1:] {
			if n.StartBeat < base {
				base = n.StartBeat
			}
		}
	}
	for i := range ns {
		length := ns[i].EndBeat - ns[i].StartBeat
		ns[i].ID = uuid.New().String()
		ns[i].StartBeat = atBeat + (ns[i].StartBeat - base)
		ns[i].EndBeat = ns[i].StartBeat + length
		if ns[i].Velocity == 0 {
			ns[i].Velocity = 127
		}
	}
	return &PasteNotes{RegionID: regionID, AtBeat: atBeat, Notes: ns}
}

func (c *PasteNotes) Execute(m *Model) error {
	region, _, ok := m.d.Project.FindRegion(c.RegionID)
	if !ok {
		return fmt.Errorf("PasteNotes: no region with id %v", c.RegionID)
	}
	if region.Kind != tahti.RegionKindMidi {
		return fmt.Errorf("PasteNotes: region %v is not a midi region", c.RegionID)
	}
	region.Notes = append(region.Notes, c.Notes...)
	c.executed = true
	return nil
}

func (c *PasteNotes) Undo(m *Model) error {
	if !c.executed {
		return errors.New("PasteNotes: undo before execute")
	}
	region, _, ok := m.d.Project.FindRegion(c.RegionID)
	if !ok {
		return fmt.Errorf("PasteNotes: no region with id %v", c.RegionID)
	}
	for _, n := range c.Notes {
		if region.NoteIndex(n.ID) < 0 {
			return fmt.Errorf("PasteNotes: no note with id %v in region %v", n.ID, c.RegionID)
		}
	}
	for _, n := range c.Notes {
		m.Selection().Deselect(tahti.NoteRef(c.RegionID, n.ID))
		index := region.NoteIndex(n.ID)
		region.Notes = append(region.Notes[:index], region.Notes[index+1:]...)
	}
	c.executed = false
	return nil
}

func (c *PasteNotes) Description() string {
	if len(c.Notes) == 1 {
		return "paste note"
	}
	return fmt.Sprintf("paste %d notes", len(c.Notes))
}

// NormalizeVelocities scales the velocities of a batch of notes so that the
// loudest one hits the target, keeping the relative dynamics.
type NormalizeVelocities struct {
	Refs   []tahti.Ref
	Target int

	originals []int
}

func NewNormalizeVelocities(refs []tahti.Ref, target int) *NormalizeVelocities {
	return &NormalizeVelocities{Refs: dedupeRefs(refs), Target: clamp(target, 1, 127)}
}

func (c *NormalizeVelocities) Execute(m *Model) error {
	notes, err := resolveNotes(m, c.Refs, "NormalizeVelocities")
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		return errors.New("NormalizeVelocities: nothing to normalize")
	}
	velocities := make([]float64, len(notes))
	for i, n := range notes {
		velocities[i] = float64(n.Velocity)
	}
	peak := vek.Max(velocities)
	if peak <= 0 {
		return errors.New("NormalizeVelocities: every velocity is zero")
	}
	vek.MulNumber_Inplace(velocities, float64(c.Target)/peak)
	originals := make([]int, len(notes))
	for i, n := range notes {
		originals[i] = n.Velocity
		n.Velocity = clamp(int(math.Round(velocities[i])), 1, 127)
	}
	c.originals = originals
	return nil
}

func (c *NormalizeVelocities) Undo(m *Model) error {
	if c.originals == nil {
		return errors.New("NormalizeVelocities: undo before execute")
	}
	notes, err := resolveNotes(m, c.Refs, "NormalizeVelocities")
	if err != nil {
		return err
	}
	for i, n := range notes {
		n.Velocity = c.originals[i]
	}
	c.originals = nil
	return nil
}

func (c *NormalizeVelocities) Description() string { return "normalize velocities" }
