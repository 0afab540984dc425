package arranger_test

import (
	"testing"

	"github.com/vlehtola/tahti"
	"github.com/vlehtola/tahti/arranger"
)

func TestCopyPasteNotes(t *testing.T) {
	m := newModel()
	regionID := addMidiRegion(t, m, 1, 0, 32)
	a := addNote(t, m, regionID, 0, 1, 60, 100)
	b := addNote(t, m, regionID, 1, 2, 64, 100)
	m.Selection().Select(tahti.NoteRef(regionID, a))
	m.Selection().Select(tahti.NoteRef(regionID, b))
	if !m.Clipboard().CopySelection() {
		t.Fatalf("copy failed")
	}
	if !m.Clipboard().PasteNotes(regionID, 8) {
		t.Fatalf("paste failed")
	}
	if !m.Clipboard().PasteNotes(regionID, 16) {
		t.Fatalf("second paste failed")
	}
	region, _, _ := m.Project().FindRegion(regionID)
	if len(region.Notes) != 6 {
		t.Fatalf("got: %v expected: %v", len(region.Notes), 6)
	}
	seen := make(map[string]bool)
	for i := range region.Notes {
		if seen[region.Notes[i].ID] {
			t.Fatalf("pasting the same clipboard twice should create distinct notes")
		}
		seen[region.Notes[i].ID] = true
	}
	if region.Notes[2].StartBeat != 8 || region.Notes[4].StartBeat != 16 {
		t.Fatalf("pasted notes are misplaced: %v %v", region.Notes[2].StartBeat, region.Notes[4].StartBeat)
	}
}

func TestClipboardIsImmuneToLaterEdits(t *testing.T) {
	m := newModel()
	regionID := addMidiRegion(t, m, 1, 0, 32)
	a := addNote(t, m, regionID, 0, 1, 60, 100)
	ref := tahti.NoteRef(regionID, a)
	m.Selection().Select(ref)
	if !m.Clipboard().CopySelection() {
		t.Fatalf("copy failed")
	}
	mustExecute(t, m, arranger.NewMoveNotes([]tahti.Ref{ref}, 4, 12))
	if !m.Clipboard().PasteNotes(regionID, 2) {
		t.Fatalf("paste failed")
	}
	region, _, _ := m.Project().FindRegion(regionID)
	pasted := &region.Notes[1]
	// the paste reproduces the note as it was at copy time, not as it is now
	if pasted.StartBeat != 2 || pasted.EndBeat != 3 || pasted.Pitch != 60 {
		t.Fatalf("the paste should not see edits made after the copy: %+v", pasted)
	}
}

func TestCopySelectionPrefersRegions(t *testing.T) {
	m := newModel()
	regionID := addMidiRegion(t, m, 1, 0, 8)
	otherID := addMidiRegion(t, m, 1, 8, 8)
	noteID := addNote(t, m, otherID, 0, 1, 60, 100)
	m.Selection().Select(tahti.NoteRef(otherID, noteID))
	m.Selection().Select(tahti.RegionRef(regionID))
	if !m.Clipboard().CopySelection() {
		t.Fatalf("copy failed")
	}
	if m.Clipboard().PasteNotes(regionID, 0) {
		t.Fatalf("a region clipboard should not paste as notes")
	}
	if !m.Clipboard().PasteRegions(2, 0) {
		t.Fatalf("paste regions failed")
	}
	track, _ := m.Project().FindTrack(2)
	if len(track.Regions) != 1 || track.Regions[0].StartFromBeat != 0 {
		t.Fatalf("the region was not pasted: %+v", track.Regions)
	}
}

func TestCopySelectionEmpty(t *testing.T) {
	m := newModel()
	if m.Clipboard().CopySelection() {
		t.Fatalf("copying an empty selection should do nothing")
	}
}

func TestCutSelection(t *testing.T) {
	m := newModel()
	regionID := addMidiRegion(t, m, 1, 0, 8)
	noteID := addNote(t, m, regionID, 0, 1, 60, 100)
	m.Selection().Select(tahti.NoteRef(regionID, noteID))
	if !m.Clipboard().CutSelection() {
		t.Fatalf("cut failed")
	}
	region, _, _ := m.Project().FindRegion(regionID)
	if len(region.Notes) != 0 {
		t.Fatalf("the cut did not delete the note")
	}
	if !m.Clipboard().PasteNotes(regionID, 4) {
		t.Fatalf("paste failed")
	}
	if !m.Undo() || !m.Undo() {
		t.Fatalf("a cut should be undoable")
	}
	region, _, _ = m.Project().FindRegion(regionID)
	if len(region.Notes) != 1 || region.Notes[0].ID != noteID {
		t.Fatalf("undo did not restore the cut note: %+v", region.Notes)
	}
}

func TestClipboardBytes(t *testing.T) {
	m := newModel()
	regionID := addMidiRegion(t, m, 1, 0, 8)
	noteID := addNote(t, m, regionID, 0, 1, 60, 100)
	m.Selection().Select(tahti.NoteRef(regionID, noteID))
	if !m.Clipboard().CopySelection() {
		t.Fatalf("copy failed")
	}
	b := m.Clipboard().Bytes()
	if len(b) == 0 {
		t.Fatalf("the clipboard should serialize to something")
	}

	// carry the contents over to another model, as if through the system
	// clipboard
	m2 := newModel()
	otherID := addMidiRegion(t, m2, 1, 0, 8)
	m2.Clipboard().SetBytes(b)
	if !m2.Clipboard().PasteNotes(otherID, 0) {
		t.Fatalf("paste failed on the receiving model")
	}
	region, _, _ := m2.Project().FindRegion(otherID)
	if len(region.Notes) != 1 || region.Notes[0].Pitch != 60 {
		t.Fatalf("the note did not survive the trip: %+v", region.Notes)
	}
}

func TestClipboardGarbage(t *testing.T) {
	m := newModel()
	regionID := addMidiRegion(t, m, 1, 0, 8)
	m.Clipboard().SetBytes([]byte("\tnot yaml"))
	if m.Clipboard().PasteNotes(regionID, 0) {
		t.Fatalf("pasting garbage should fail")
	}
	if !alertContains(m, "Error unmarshaling the clipboard") {
		t.Fatalf("pasting garbage should alert the user")
	}
}
