package arranger_test

import (
	"reflect"
	"testing"

	"github.com/vlehtola/tahti"
	"github.com/vlehtola/tahti/arranger"
	"github.com/vlehtola/tahti/arranger/types"
)

func TestCreateRegion(t *testing.T) {
	m := newModel()
	cmd := arranger.NewCreateRegion(1, tahti.Region{Name: "Verse", StartFromBeat: 8, LengthInBeats: 16, Kind: tahti.RegionKindMidi})
	mustExecute(t, m, cmd)
	region, track, ok := m.Project().FindRegion(cmd.Region.ID)
	if !ok {
		t.Fatalf("the region did not end up in the project")
	}
	if track.ID != 1 || region.TrackID != 1 || region.TrackIndex != 0 {
		t.Fatalf("the region containment stamps are wrong: %+v", region)
	}
	if !m.Undo() {
		t.Fatalf("undo failed")
	}
	if _, _, ok := m.Project().FindRegion(cmd.Region.ID); ok {
		t.Fatalf("undo did not remove the region")
	}
}

func TestCreateRegionKindMismatch(t *testing.T) {
	m := newModel()
	if m.Execute(arranger.NewCreateRegion(1, tahti.Region{LengthInBeats: 4, Kind: tahti.RegionKindAudio})) {
		t.Fatalf("an audio region should not go on a midi track")
	}
	if m.Execute(arranger.NewCreateRegion(99, tahti.Region{LengthInBeats: 4, Kind: tahti.RegionKindMidi})) {
		t.Fatalf("creating a region on a missing track should fail")
	}
}

func TestCreateRegionClampsLength(t *testing.T) {
	m := newModel()
	cmd := arranger.NewCreateRegion(1, tahti.Region{Kind: tahti.RegionKindMidi})
	if cmd.Region.LengthInBeats != tahti.MinRegionLength {
		t.Fatalf("got: %v expected: %v", cmd.Region.LengthInBeats, tahti.MinRegionLength)
	}
}

func TestDeleteRegionsRestoresLayout(t *testing.T) {
	m := newModel()
	a := addMidiRegion(t, m, 1, 0, 8)
	b := addMidiRegion(t, m, 1, 8, 8)
	c := addMidiRegion(t, m, 2, 0, 8)
	addNote(t, m, a, 0, 1, 60, 100)
	track1, _ := m.Project().FindTrack(1)
	track2, _ := m.Project().FindTrack(2)
	original1 := append([]tahti.Region{}, track1.Regions...)
	original2 := append([]tahti.Region{}, track2.Regions...)
	refs := []tahti.Ref{tahti.RegionRef(a), tahti.RegionRef(b), tahti.RegionRef(c)}
	mustExecute(t, m, arranger.NewDeleteRegions(refs))
	track1, _ = m.Project().FindTrack(1)
	track2, _ = m.Project().FindTrack(2)
	if len(track1.Regions) != 0 || len(track2.Regions) != 0 {
		t.Fatalf("the regions were not deleted")
	}
	if !m.Undo() {
		t.Fatalf("undo failed")
	}
	track1, _ = m.Project().FindTrack(1)
	track2, _ = m.Project().FindTrack(2)
	if !reflect.DeepEqual(track1.Regions, original1) {
		t.Fatalf("got: %v expected: %v", track1.Regions, original1)
	}
	if !reflect.DeepEqual(track2.Regions, original2) {
		t.Fatalf("got: %v expected: %v", track2.Regions, original2)
	}
}

func TestMoveRegionWithinTrack(t *testing.T) {
	m := newModel()
	a := addMidiRegion(t, m, 1, 0, 8)
	b := addMidiRegion(t, m, 1, 8, 8)
	mustExecute(t, m, arranger.NewMoveRegion(a, 1, 16))
	track, _ := m.Project().FindTrack(1)
	// a move within one track keeps the region list order
	if track.Regions[0].ID != a || track.Regions[1].ID != b {
		t.Fatalf("moving within a track should not reorder the region list")
	}
	if track.Regions[0].StartFromBeat != 16 {
		t.Fatalf("got: %v expected: %v", track.Regions[0].StartFromBeat, 16.0)
	}
	if !m.Undo() {
		t.Fatalf("undo failed")
	}
	track, _ = m.Project().FindTrack(1)
	if track.Regions[0].StartFromBeat != 0 {
		t.Fatalf("undo did not restore the start beat")
	}
}

func TestMoveRegionAcrossTracks(t *testing.T) {
	m := newModel()
	a := addMidiRegion(t, m, 1, 0, 8)
	b := addMidiRegion(t, m, 1, 8, 8)
	noteID := addNote(t, m, a, 0, 1, 60, 100)
	mustExecute(t, m, arranger.NewMoveRegion(a, 2, 4))
	track1, _ := m.Project().FindTrack(1)
	track2, _ := m.Project().FindTrack(2)
	if len(track1.Regions) != 1 || track1.Regions[0].ID != b {
		t.Fatalf("the region did not leave track 1")
	}
	if len(track2.Regions) != 1 || track2.Regions[0].ID != a {
		t.Fatalf("the region did not arrive on track 2")
	}
	moved := &track2.Regions[0]
	if moved.StartFromBeat != 4 || moved.TrackID != 2 || moved.TrackIndex != 1 {
		t.Fatalf("the moved region stamps are wrong: %+v", moved)
	}
	if _, ok := moved.FindNote(noteID); !ok {
		t.Fatalf("the notes should travel with the region")
	}
	if !m.Undo() {
		t.Fatalf("undo failed")
	}
	track1, _ = m.Project().FindTrack(1)
	track2, _ = m.Project().FindTrack(2)
	if len(track2.Regions) != 0 {
		t.Fatalf("undo did not move the region back")
	}
	// undo appends: the region returns to track 1 but at the end of the list
	if len(track1.Regions) != 2 || track1.Regions[1].ID != a {
		t.Fatalf("undo should append the region back to track 1")
	}
	if track1.Regions[1].StartFromBeat != 0 || track1.Regions[1].TrackID != 1 {
		t.Fatalf("undo did not restore the region stamps: %+v", track1.Regions[1])
	}
}

func TestMoveRegionKindMismatch(t *testing.T) {
	m := newModel()
	audioTrack := arranger.NewAddTrack(m, tahti.Track{Name: "Vox", Kind: tahti.TrackKindAudio})
	mustExecute(t, m, audioTrack)
	a := addMidiRegion(t, m, 1, 0, 8)
	if m.Execute(arranger.NewMoveRegion(a, audioTrack.Track.ID, 0)) {
		t.Fatalf("a midi region should not move onto an audio track")
	}
}

func TestResizeRegionStartShiftsNotes(t *testing.T) {
	m := newModel()
	regionID := addMidiRegion(t, m, 1, 4, 4)
	noteID := addNote(t, m, regionID, 1, 2, 60, 100)
	mustExecute(t, m, arranger.NewResizeRegion(regionID, arranger.EdgeStart, 2))
	region, _, _ := m.Project().FindRegion(regionID)
	if region.StartFromBeat != 6 || region.LengthInBeats != 2 {
		t.Fatalf("got: %v/%v expected: 6/2", region.StartFromBeat, region.LengthInBeats)
	}
	note, _ := region.FindNote(noteID)
	// the note keeps sounding at absolute beat 5, so its offset shifts
	if note.StartBeat != -1 || note.EndBeat != 0 {
		t.Fatalf("the note offset did not shift: %+v", note)
	}
	if !m.Undo() {
		t.Fatalf("undo failed")
	}
	region, _, _ = m.Project().FindRegion(regionID)
	note, _ = region.FindNote(noteID)
	if region.StartFromBeat != 4 || region.LengthInBeats != 4 || note.StartBeat != 1 || note.EndBeat != 2 {
		t.Fatalf("undo did not restore the region: %+v %+v", region, note)
	}
	// growing leftwards: start 4 -> 2, the note stays at absolute beat 5
	mustExecute(t, m, arranger.NewResizeRegion(regionID, arranger.EdgeStart, -2))
	region, _, _ = m.Project().FindRegion(regionID)
	note, _ = region.FindNote(noteID)
	if region.StartFromBeat != 2 || region.LengthInBeats != 6 {
		t.Fatalf("got: %v/%v expected: 2/6", region.StartFromBeat, region.LengthInBeats)
	}
	if note.StartBeat != 3 || note.EndBeat != 4 {
		t.Fatalf("the note offset did not shift: %+v", note)
	}
}

func TestResizeRegionClampsToMinLength(t *testing.T) {
	m := newModel()
	regionID := addMidiRegion(t, m, 1, 0, 4)
	mustExecute(t, m, arranger.NewResizeRegion(regionID, arranger.EdgeStart, 100))
	region, _, _ := m.Project().FindRegion(regionID)
	if region.LengthInBeats != tahti.MinRegionLength {
		t.Fatalf("got: %v expected: %v", region.LengthInBeats, tahti.MinRegionLength)
	}
	if !m.Undo() {
		t.Fatalf("undo failed")
	}
	region, _, _ = m.Project().FindRegion(regionID)
	if region.StartFromBeat != 0 || region.LengthInBeats != 4 {
		t.Fatalf("undo did not revert the clamped resize: %+v", region)
	}
	mustExecute(t, m, arranger.NewResizeRegion(regionID, arranger.EdgeEnd, -100))
	region, _, _ = m.Project().FindRegion(regionID)
	if region.LengthInBeats != tahti.MinRegionLength {
		t.Fatalf("got: %v expected: %v", region.LengthInBeats, tahti.MinRegionLength)
	}
}

func TestPasteRegionsRebasesToEarliest(t *testing.T) {
	m := newModel()
	source := []tahti.Region{
		{ID: "src-1", StartFromBeat: 8, LengthInBeats: 4, Kind: tahti.RegionKindMidi},
		{ID: "src-2", StartFromBeat: 4, LengthInBeats: 2, Kind: tahti.RegionKindMidi,
			Notes: []tahti.Note{{ID: "src-note", StartBeat: 0, EndBeat: 1, Pitch: 60, Velocity: 100}}},
	}
	cmd := arranger.NewPasteRegions(2, 16, source)
	mustExecute(t, m, cmd)
	track, _ := m.Project().FindTrack(2)
	if len(track.Regions) != 2 {
		t.Fatalf("got: %v expected: %v", len(track.Regions), 2)
	}
	if track.Regions[0].StartFromBeat != 20 || track.Regions[1].StartFromBeat != 16 {
		t.Fatalf("pasted regions are misplaced: %v %v", track.Regions[0].StartFromBeat, track.Regions[1].StartFromBeat)
	}
	for i := range track.Regions {
		r := &track.Regions[i]
		if r.ID == "src-1" || r.ID == "src-2" {
			t.Fatalf("pasting should generate fresh region ids")
		}
		if r.TrackID != 2 || r.TrackIndex != 1 {
			t.Fatalf("pasted region stamps are wrong: %+v", r)
		}
	}
	if len(track.Regions[1].Notes) != 1 || track.Regions[1].Notes[0].ID == "src-note" {
		t.Fatalf("pasted notes should get fresh ids too")
	}
	if !m.Undo() {
		t.Fatalf("undo failed")
	}
	track, _ = m.Project().FindTrack(2)
	if len(track.Regions) != 0 {
		t.Fatalf("undo did not remove the pasted regions")
	}
}

func TestUpdateRegion(t *testing.T) {
	m := newModel()
	regionID := addMidiRegion(t, m, 1, 0, 8)
	mustExecute(t, m, arranger.NewUpdateRegion(regionID, types.NewOptionalOf("Chorus")))
	region, _, _ := m.Project().FindRegion(regionID)
	if region.Name != "Chorus" {
		t.Fatalf("got: %v expected: %v", region.Name, "Chorus")
	}
	if !m.Undo() {
		t.Fatalf("undo failed")
	}
	region, _, _ = m.Project().FindRegion(regionID)
	if region.Name != "" {
		t.Fatalf("undo did not restore the name")
	}
}

func TestUpdateRegionNoChange(t *testing.T) {
	m := newModel()
	regionID := addMidiRegion(t, m, 1, 0, 8)
	mustExecute(t, m, arranger.NewUpdateRegion(regionID, types.NewOptionalOf("Chorus")))
	if !m.Execute(arranger.NewUpdateRegion(regionID, types.NewOptionalOf("Chorus"))) {
		t.Fatalf("renaming a region to its current name should still succeed")
	}
	// the no-change rename leaves the real rename on top of the stack
	if desc, ok := m.History().UndoDescription(); !ok || desc != "update region" {
		t.Fatalf("got: %v expected: %v", desc, "update region")
	}
	if !m.Undo() {
		t.Fatalf("undo failed")
	}
	region, _, _ := m.Project().FindRegion(regionID)
	if region.Name != "" {
		t.Fatalf("undo should revert the real rename, not the no-change one")
	}
	// a no-change update must not clear the redo stack either
	if !m.Execute(arranger.NewUpdateRegion(regionID, types.NewOptionalOf(""))) {
		t.Fatalf("renaming a region to its current name should still succeed")
	}
	if !m.Redo() {
		t.Fatalf("redo failed")
	}
	region, _, _ = m.Project().FindRegion(regionID)
	if region.Name != "Chorus" {
		t.Fatalf("got: %v expected: %v", region.Name, "Chorus")
	}
}

func TestSplitRegion(t *testing.T) {
	m := newModel()
	cmd := arranger.NewCreateRegion(1, tahti.Region{Name: "Verse", StartFromBeat: 0, LengthInBeats: 8, Kind: tahti.RegionKindMidi,
		Notes: []tahti.Note{
			{StartBeat: 1, EndBeat: 2, Pitch: 60, Velocity: 100},
			{StartBeat: 3, EndBeat: 5, Pitch: 62, Velocity: 100}, // straddles the cut, stays left
			{StartBeat: 6, EndBeat: 7, Pitch: 64, Velocity: 100},
		}})
	mustExecute(t, m, cmd)
	regionID := cmd.Region.ID
	region, _, _ := m.Project().FindRegion(regionID)
	original := region.Copy()
	movedRef := tahti.NoteRef(regionID, region.Notes[2].ID)
	m.Selection().Select(movedRef)

	mustExecute(t, m, arranger.NewSplitRegion(regionID, 4))
	track, _ := m.Project().FindTrack(1)
	if len(track.Regions) != 2 {
		t.Fatalf("got: %v expected: %v", len(track.Regions), 2)
	}
	left, _, _ := m.Project().FindRegion(regionID)
	right := &track.Regions[1]
	if left.LengthInBeats != 4 || len(left.Notes) != 2 {
		t.Fatalf("the left half is wrong: %+v", left)
	}
	if right.StartFromBeat != 4 || right.LengthInBeats != 4 || right.Name != "Verse" {
		t.Fatalf("the right half is wrong: %+v", right)
	}
	if len(right.Notes) != 1 || right.Notes[0].StartBeat != 2 || right.Notes[0].EndBeat != 3 {
		t.Fatalf("the moved note was not rebased: %+v", right.Notes)
	}
	if m.Selection().Contains(movedRef) {
		t.Fatalf("a note that moved to the new region should drop out of the selection")
	}

	if !m.Undo() {
		t.Fatalf("undo failed")
	}
	track, _ = m.Project().FindTrack(1)
	if len(track.Regions) != 1 {
		t.Fatalf("undo did not remove the new region")
	}
	region, _, _ = m.Project().FindRegion(regionID)
	if !reflect.DeepEqual(*region, original) {
		t.Fatalf("got: %+v expected: %+v", *region, original)
	}
}

func TestSplitRegionOutsideBounds(t *testing.T) {
	m := newModel()
	regionID := addMidiRegion(t, m, 1, 4, 4)
	if m.Execute(arranger.NewSplitRegion(regionID, 4)) {
		t.Fatalf("splitting exactly at the region start should fail")
	}
	if m.Execute(arranger.NewSplitRegion(regionID, 10)) {
		t.Fatalf("splitting past the region end should fail")
	}
}
