package export

import (
	"math"

	"github.com/viterin/vek"

	"github.com/vlehtola/tahti"
)

// Stats summarizes the notes of a project for the report.
type Stats struct {
	Tracks  int
	Regions int
	Notes   int

	TotalBeats float64 // total sounding length, i.e. the note durations summed

	PitchMin  int
	PitchMax  int
	PitchMean float64

	VelocityMin  int
	VelocityMax  int
	VelocityMean float64
}

// Collect computes summary statistics over every note of the project.
func Collect(p *tahti.Project) Stats {
	s := Stats{Tracks: len(p.Tracks)}
	var pitches, velocities, durations []float64
	for i := range p.Tracks {
		for j := range p.Tracks[i].Regions {
			r := &p.Tracks[i].Regions[j]
			s.Regions++
			for k := range r.Notes {
				n := &r.Notes[k]
				pitches = append(pitches, float64(n.Pitch))
				velocities = append(velocities, float64(n.Velocity))
				durations = append(durations, math.Abs(n.Duration()))
			}
		}
	}
	s.Notes = len(pitches)
	if s.Notes == 0 {
		return s
	}
	s.TotalBeats = vek.Sum(durations)
	s.PitchMin = int(vek.Min(pitches))
	s.PitchMax = int(vek.Max(pitches))
	s.PitchMean = vek.Mean(pitches)
	s.VelocityMin = int(vek.Min(velocities))
	s.VelocityMax = int(vek.Max(velocities))
	s.VelocityMean = vek.Mean(velocities)
	return s
}
