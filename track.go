package tahti

// TrackKind tags what a Track holds. Midi tracks carry an instrument name;
// audio tracks do not.
type TrackKind string

const (
	TrackKindMidi  TrackKind = "midi"
	TrackKindAudio TrackKind = "audio"
)

// Track is one lane of the arrangement: an ordered list of regions plus the
// mixer settings of the lane. ID is unique within the project and stable for
// the life of the track; Index is the position of the track in the project
// list and is re-stamped on every add, remove and reorder.
type Track struct {
	ID         int
	Name       string
	Index      int
	Kind       TrackKind
	Instrument string `yaml:",omitempty"` // gm program name; midi tracks only
	Volume     float64
	Regions    []Region `yaml:",omitempty"`
}

// SetIndex stamps the position of the track in the project list, cascading
// to the TrackIndex of every contained region.
func (t *Track) SetIndex(index int) {
	t.Index = index
	for i := range t.Regions {
		t.Regions[i].TrackIndex = index
	}
}

func (t *Track) FindRegion(id string) (*Region, bool) {
	for i := range t.Regions {
		if t.Regions[i].ID == id {
			return &t.Regions[i], true
		}
	}
	return nil, false
}

func (t *Track) RegionIndex(id string) int {
	for i := range t.Regions {
		if t.Regions[i].ID == id {
			return i
		}
	}
	return -1
}

// Copy makes a deep copy of a Track.
func (t *Track) Copy() Track {
	regions := make([]Region, len(t.Regions))
	for i, r := range t.Regions {
		regions[i] = r.Copy()
	}
	return Track{
		ID:         t.ID,
		Name:       t.Name,
		Index:      t.Index,
		Kind:       t.Kind,
		Instrument: t.Instrument,
		Volume:     t.Volume,
		Regions:    regions,
	}
}
