package arranger

import (
	"fmt"
	"math"

	"github.com/vlehtola/tahti"
)

// Recorder accumulates the note events of one recording take.
type Recorder struct {
	BPM     float64 // the tempo when the take started, for converting millis to beats
	TrackID int
	Events  []NoteEvent
}

func (r *Recorder) Record(ev NoteEvent) {
	r.Events = append(r.Events, ev)
}

// Notes converts the recorded events to notes, with beat zero at the first
// event. A note still held at the end of the take ends with the take.
func (r *Recorder) Notes() []tahti.Note {
	if len(r.Events) == 0 {
		return nil
	}
	base := r.Events[0].Millis
	last := base
	for _, e := range r.Events {
		if e.Millis > last {
			last = e.Millis
		}
	}
	var notes []tahti.Note
	for i, m := range r.Events {
		if !m.On {
			continue
		}
		// the note ends at the next event for the same key on the same
		// channel, be it an off or a retrigger
		endMillis := last
		for j := i + 1; j < len(r.Events); j++ {
			if r.Events[j].Channel == m.Channel && r.Events[j].Key == m.Key {
				endMillis = r.Events[j].Millis
				break
			}
		}
		notes = append(notes, tahti.Note{
			StartBeat: r.beat(m.Millis - base),
			EndBeat:   r.beat(endMillis - base),
			Pitch:     int(m.Key),
			Velocity:  int(m.Velocity),
		})
	}
	return notes
}

func (r *Recorder) beat(millis int32) float64 {
	return float64(millis) / 60000 * r.BPM
}

// StartRecording starts collecting note events from the MIDI input into a
// new take on the given midi track.
func (m *Model) StartRecording(trackID int) error {
	track, ok := m.d.Project.FindTrack(trackID)
	if !ok {
		return fmt.Errorf("StartRecording: no track with id %v", trackID)
	}
	if track.Kind != tahti.TrackKindMidi {
		return fmt.Errorf("StartRecording: track %v is not a midi track", trackID)
	}
	m.recorder = &Recorder{BPM: m.d.Project.BPM, TrackID: trackID}
	return nil
}

func (m *Model) IsRecording() bool { return m.recorder != nil }

// FinishRecording turns the take into a region at the start of the track
// the recording was started on. The region goes in through the normal
// command path, so a take is undoable like any other edit. Returns false
// when nothing got recorded.
func (m *Model) FinishRecording() bool {
	recorder := m.recorder
	m.recorder = nil
	if recorder == nil || len(recorder.Events) == 0 {
		return false
	}
	notes := recorder.Notes()
	length := 0.0
	for _, n := range notes {
		if n.StartBeat > length {
			length = n.StartBeat
		}
		if n.EndBeat > length {
			length = n.EndBeat
		}
	}
	// pad the take to whole bars
	beatsPerBar := m.d.Project.BeatsPerBar()
	length = math.Ceil(length/beatsPerBar) * beatsPerBar
	if length < beatsPerBar {
		length = beatsPerBar
	}
	return m.Execute(NewCreateRegion(recorder.TrackID, tahti.Region{
		Name:          "Take",
		LengthInBeats: length,
		Kind:          tahti.RegionKindMidi,
		Notes:         notes,
	}))
}
