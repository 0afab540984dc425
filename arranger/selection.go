package arranger

import (
	"github.com/vlehtola/tahti"
)

// Selection is the selection view of the model: an ordered list of refs to
// the currently selected notes and regions. The order matters, as the first
// selected note anchors gesture deltas. The authoritative selected flags
// live in the entities themselves; the list only preserves the order and
// must stay in sync with the flags.
type Selection Model

func (m *Model) Selection() *Selection { return (*Selection)(m) }

// Select adds the entity to the selection, if it resolves and is not
// selected yet.
func (s *Selection) Select(ref tahti.Ref) {
	if s.Contains(ref) {
		return
	}
	if !(*Model)(s).setSelected(ref, true) {
		return
	}
	s.d.Selection = append(s.d.Selection, ref)
	(*Model)(s).selectionChanged()
}

// Deselect removes the entity from the selection.
func (s *Selection) Deselect(ref tahti.Ref) {
	for i, r := range s.d.Selection {
		if r == ref {
			s.d.Selection = append(s.d.Selection[:i], s.d.Selection[i+1:]...)
			(*Model)(s).setSelected(ref, false)
			(*Model)(s).selectionChanged()
			return
		}
	}
}

// Toggle selects the entity if it is not selected and deselects it if it is.
func (s *Selection) Toggle(ref tahti.Ref) {
	if s.Contains(ref) {
		s.Deselect(ref)
	} else {
		s.Select(ref)
	}
}

// Clear deselects everything.
func (s *Selection) Clear() {
	if len(s.d.Selection) == 0 {
		return
	}
	for _, r := range s.d.Selection {
		(*Model)(s).setSelected(r, false)
	}
	s.d.Selection = s.d.Selection[:0]
	(*Model)(s).selectionChanged()
}

func (s *Selection) Contains(ref tahti.Ref) bool {
	for _, r := range s.d.Selection {
		if r == ref {
			return true
		}
	}
	return false
}

// Refs returns a copy of the selection, in selection order.
func (s *Selection) Refs() []tahti.Ref {
	ret := make([]tahti.Ref, len(s.d.Selection))
	copy(ret, s.d.Selection)
	return ret
}

// Notes returns the refs of the selected notes, in selection order.
func (s *Selection) Notes() []tahti.Ref {
	var ret []tahti.Ref
	for _, r := range s.d.Selection {
		if r.Kind == tahti.KindNote {
			ret = append(ret, r)
		}
	}
	return ret
}

// Regions returns the refs of the selected regions, in selection order.
func (s *Selection) Regions() []tahti.Ref {
	var ret []tahti.Ref
	for _, r := range s.d.Selection {
		if r.Kind == tahti.KindRegion {
			ret = append(ret, r)
		}
	}
	return ret
}

// PrimaryNote returns the ref of the first selected note, the anchor of
// note gestures.
func (s *Selection) PrimaryNote() (tahti.Ref, bool) {
	for _, r := range s.d.Selection {
		if r.Kind == tahti.KindNote {
			return r, true
		}
	}
	return tahti.Ref{}, false
}

// resync re-stamps the selected flags in the project tree from the selection
// list, dropping refs that no longer resolve. Called after loading, as the
// flags do not survive serialization.
func (s *Selection) resync() {
	refs := s.d.Selection
	s.d.Selection = nil
	for _, r := range refs {
		if (*Model)(s).setSelected(r, true) {
			s.d.Selection = append(s.d.Selection, r)
		}
	}
}

// setSelected resolves the ref and stamps its selected flag, returning false
// if the ref does not resolve to anything in the project.
func (m *Model) setSelected(ref tahti.Ref, value bool) bool {
	switch ref.Kind {
	case tahti.KindRegion:
		if r, _, ok := m.d.Project.FindRegion(ref.RegionID); ok {
			r.SetSelected(value)
			return true
		}
	case tahti.KindNote:
		if r, _, ok := m.d.Project.FindRegion(ref.RegionID); ok {
			if n, ok := r.FindNote(ref.NoteID); ok {
				n.SetSelected(value)
				return true
			}
		}
	}
	return false
}

func (m *Model) selectionChanged() {
	TrySend(m.broker.ToUI, MsgToUI{Kind: UIMessageSelectionChanged})
}

// deselectRegion scrubs the region and every note inside it from the
// selection, for commands that are about to take the region out of the
// tree.
func (m *Model) deselectRegion(region *tahti.Region) {
	m.Selection().Deselect(tahti.RegionRef(region.ID))
	for i := range region.Notes {
		m.Selection().Deselect(tahti.NoteRef(region.ID, region.Notes[i].ID))
	}
}
