package tahti

// Note is a single note event inside a midi region. StartBeat and EndBeat
// are relative to the region start. A resize gesture can push EndBeat before
// StartBeat; the model keeps such notes as they are and they only get
// straightened out when exporting.
type Note struct {
	ID        string
	StartBeat float64
	EndBeat   float64
	Pitch     int
	Velocity  int

	selected bool
}

func (n *Note) Selected() bool { return n.selected }

func (n *Note) SetSelected(value bool) { n.selected = value }

// Duration returns EndBeat - StartBeat, which can be negative.
func (n *Note) Duration() float64 {
	return n.EndBeat - n.StartBeat
}
