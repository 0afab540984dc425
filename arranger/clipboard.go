package arranger

import (
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/vlehtola/tahti"
)

// Clipboard is a view to the model for copying and pasting entities. The
// contents are serialized at copy time, so later edits to the project do
// not change what a paste produces.
type Clipboard Model

func (m *Model) Clipboard() *Clipboard { return (*Clipboard)(m) }

type clipboardData struct {
	Notes   []tahti.Note   `yaml:",omitempty"`
	Regions []tahti.Region `yaml:",omitempty"`
}

// CopySelection serializes the selected entities to the clipboard. With
// both regions and notes selected, the regions win and their notes travel
// inside them. Ids are reassigned already here, so the clipboard never
// refers back to the entities it was copied from.
func (c *Clipboard) CopySelection() bool {
	m := (*Model)(c)
	var data clipboardData
	if regions := m.Selection().Regions(); len(regions) > 0 {
		for _, ref := range regions {
			if region, _, ok := m.d.Project.FindRegion(ref.RegionID); ok {
				data.Regions = append(data.Regions, region.Copy())
			}
		}
	} else {
		for _, ref := range m.Selection().Notes() {
			region, _, ok := m.d.Project.FindRegion(ref.RegionID)
			if !ok {
				continue
			}
			if note, ok := region.FindNote(ref.NoteID); ok {
				data.Notes = append(data.Notes, *note)
			}
		}
	}
	if len(data.Notes) == 0 && len(data.Regions) == 0 {
		return false
	}
	for i := range data.Regions {
		data.Regions[i].ID = uuid.New().String()
		for j := range data.Regions[i].Notes {
			data.Regions[i].Notes[j].ID = uuid.New().String()
		}
	}
	for i := range data.Notes {
		data.Notes[i].ID = uuid.New().String()
	}
	b, err := yaml.Marshal(data)
	if err != nil {
		m.Alerts().Add(fmt.Sprintf("Error marshaling the clipboard: %v", err), Error)
		return false
	}
	c.clipboard = b
	return true
}

// CutSelection copies the selection and deletes it through the normal
// command path, so the cut is undoable.
func (c *Clipboard) CutSelection() bool {
	m := (*Model)(c)
	if !c.CopySelection() {
		return false
	}
	if regions := m.Selection().Regions(); len(regions) > 0 {
		return m.Execute(NewDeleteRegions(regions))
	}
	return m.Execute(NewDeleteNotes(m.Selection().Notes()))
}

// PasteNotes pastes the clipboard notes into the region, the earliest one
// starting at atBeat.
func (c *Clipboard) PasteNotes(regionID string, atBeat float64) bool {
	m := (*Model)(c)
	data, ok := c.unmarshal()
	if !ok || len(data.Notes) == 0 {
		return false
	}
	return m.Execute(NewPasteNotes(regionID, atBeat, data.Notes))
}

// PasteRegions pastes the clipboard regions onto the track, the earliest
// one starting at atBeat.
func (c *Clipboard) PasteRegions(trackID int, atBeat float64) bool {
	m := (*Model)(c)
	data, ok := c.unmarshal()
	if !ok || len(data.Regions) == 0 {
		return false
	}
	return m.Execute(NewPasteRegions(trackID, atBeat, data.Regions))
}

// Bytes returns the serialized clipboard contents, e.g. for mirroring to
// the system clipboard.
func (c *Clipboard) Bytes() []byte { return c.clipboard }

// SetBytes replaces the clipboard contents with data from outside, e.g.
// from the system clipboard.
func (c *Clipboard) SetBytes(b []byte) {
	c.clipboard = make([]byte, len(b))
	copy(c.clipboard, b)
}

func (c *Clipboard) unmarshal() (clipboardData, bool) {
	var data clipboardData
	if len(c.clipboard) == 0 {
		return data, false
	}
	if err := yaml.Unmarshal(c.clipboard, &data); err != nil {
		(*Model)(c).Alerts().Add(fmt.Sprintf("Error unmarshaling the clipboard: %v", err), Error)
		return data, false
	}
	return data, true
}
