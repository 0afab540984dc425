// Package export renders projects to external formats: standard MIDI
// files and textual reports.
package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/vlehtola/tahti"
)

const ticksPerQuarterNote = 960

// Note ons sort after note offs on the same tick, so a note retriggered
// right where the previous one ends does not get cut by the off of the
// old one. A degenerate note keeps its on first.
const (
	rankOff = iota
	rankOn
	rankDegenerateOff
)

type tickEvent struct {
	tick uint32
	rank int
	msg  []byte
}

// WriteSMF renders the project as a format 1 standard MIDI file. The
// first track carries the tempo and the meter; every midi track of the
// project becomes one SMF track on its own channel. Channel 9 is skipped,
// as general MIDI reserves it for percussion.
func WriteSMF(p *tahti.Project, w io.Writer) error {
	if err := p.Validate(); err != nil {
		return err
	}
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(ticksPerQuarterNote)
	var conductor smf.Track
	conductor.Add(0, smf.MetaTempo(p.BPM))
	conductor.Add(0, smf.MetaMeter(uint8(p.TimeSignature.Numerator), uint8(p.TimeSignature.Denominator)))
	conductor.Close(0)
	if err := sm.Add(conductor); err != nil {
		return fmt.Errorf("adding the conductor track failed: %w", err)
	}
	channel := 0
	for i := range p.Tracks {
		t := &p.Tracks[i]
		if t.Kind != tahti.TrackKindMidi {
			continue
		}
		if err := sm.Add(buildTrack(p, t, uint8(channel))); err != nil {
			return fmt.Errorf("adding track %v failed: %w", t.ID, err)
		}
		// the channels just wrap around when a project has more midi
		// tracks than general MIDI has melodic channels
		channel++
		if channel == 9 {
			channel++
		}
		if channel > 15 {
			channel = 0
		}
	}
	_, err := sm.WriteTo(w)
	return err
}

// WriteSMFFile renders the project to a standard MIDI file at path.
func WriteSMFFile(p *tahti.Project, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSMF(p, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func buildTrack(p *tahti.Project, t *tahti.Track, channel uint8) smf.Track {
	var events []tickEvent
	for i := range t.Regions {
		r := &t.Regions[i]
		if r.Kind != tahti.RegionKindMidi {
			continue
		}
		for j := range r.Notes {
			n := &r.Notes[j]
			key := uint8(min(max(n.Pitch, 0), 127))
			velocity := uint8(min(max(n.Velocity, 1), 127))
			start := beatToTick(p, r.StartFromBeat+n.StartBeat)
			end := beatToTick(p, r.StartFromBeat+n.EndBeat)
			if end <= start {
				// a note dragged to zero or negative length still plays,
				// as an off right at the on
				events = append(events,
					tickEvent{tick: start, rank: rankOn, msg: midi.NoteOn(channel, key, velocity)},
					tickEvent{tick: start, rank: rankDegenerateOff, msg: midi.NoteOff(channel, key)})
				continue
			}
			events = append(events,
				tickEvent{tick: start, rank: rankOn, msg: midi.NoteOn(channel, key, velocity)},
				tickEvent{tick: end, rank: rankOff, msg: midi.NoteOff(channel, key)})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].rank < events[j].rank
	})
	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(t.Name))
	if program := tahti.GMProgramNumber(t.Instrument); program >= 0 {
		track.Add(0, midi.ProgramChange(channel, uint8(program)))
	}
	track.Add(0, midi.ControlChange(channel, 7, uint8(min(max(int(math.Round(t.Volume*127)), 0), 127)))) // CC 7, channel volume
	prev := uint32(0)
	for _, e := range events {
		track.Add(e.tick-prev, e.msg)
		prev = e.tick
	}
	track.Close(0)
	return track
}

// beatToTick converts an absolute beat to MIDI ticks. A beat is one
// 1/Denominator note, while MetricTicks counts quarter notes, hence the
// 4/Denominator scaling.
func beatToTick(p *tahti.Project, beat float64) uint32 {
	ticks := beat * ticksPerQuarterNote * 4 / float64(p.TimeSignature.Denominator)
	if ticks < 0 {
		return 0
	}
	return uint32(math.Round(ticks))
}
