package tahti

// RegionKind tags what a Region holds. Midi regions carry notes; audio
// regions carry no payload yet, they just occupy a span of the timeline.
type RegionKind string

const (
	RegionKindMidi  RegionKind = "midi"
	RegionKindAudio RegionKind = "audio"
)

// MinRegionLength is the shortest a region gets when resized, in beats.
// Resizing clamps to this instead of erroring, so a region can never vanish
// by dragging alone.
const MinRegionLength = 1.0 / 16

// Region is a clip on the timeline of one track. StartFromBeat is the
// absolute position of the region start in the project, in beats; the notes
// inside are relative to it. TrackID and TrackIndex denormalize the
// containing track and must always agree with actual containment. The
// selected flag is transient state and never serialized.
type Region struct {
	ID            string
	TrackID       int
	TrackIndex    int
	Name          string `yaml:",omitempty"`
	StartFromBeat float64
	LengthInBeats float64
	Kind          RegionKind
	Notes         []Note `yaml:",omitempty"`

	selected bool
}

func (r *Region) Selected() bool { return r.selected }

func (r *Region) SetSelected(value bool) { r.selected = value }

// EndBeat returns the absolute end of the region in beats.
func (r *Region) EndBeat() float64 {
	return r.StartFromBeat + r.LengthInBeats
}

func (r *Region) FindNote(id string) (*Note, bool) {
	for i := range r.Notes {
		if r.Notes[i].ID == id {
			return &r.Notes[i], true
		}
	}
	return nil, false
}

func (r *Region) NoteIndex(id string) int {
	for i := range r.Notes {
		if r.Notes[i].ID == id {
			return i
		}
	}
	return -1
}

// Copy makes a deep copy of a Region. The copy comes back unselected, as do
// all the notes in it.
func (r *Region) Copy() Region {
	notes := make([]Note, len(r.Notes))
	copy(notes, r.Notes)
	for i := range notes {
		notes[i].selected = false
	}
	return Region{
		ID:            r.ID,
		TrackID:       r.TrackID,
		TrackIndex:    r.TrackIndex,
		Name:          r.Name,
		StartFromBeat: r.StartFromBeat,
		LengthInBeats: r.LengthInBeats,
		Kind:          r.Kind,
		Notes:         notes,
	}
}
