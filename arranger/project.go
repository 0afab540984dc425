package arranger

import (
	"errors"
	"fmt"

	"github.com/vlehtola/tahti"
	"github.com/vlehtola/tahti/arranger/types"
)

// SetLoop sets the loop range and whether looping is on at all.
type SetLoop struct {
	Enabled bool
	Loop    tahti.LoopRange

	prevEnabled bool
	prevLoop    tahti.LoopRange
	executed    bool
}

// NewSetLoop returns a command that sets the loop range. The bar pair is
// put in order here, so the stored range always has StartBar <= EndBar.
func NewSetLoop(enabled bool, loop tahti.LoopRange) *SetLoop {
	if loop.EndBar < loop.StartBar {
		loop.StartBar, loop.EndBar = loop.EndBar, loop.StartBar
	}
	return &SetLoop{Enabled: enabled, Loop: loop}
}

func (c *SetLoop) Execute(m *Model) error {
	p := &m.d.Project
	if c.Enabled && (c.Loop.StartBar < 0 || c.Loop.EndBar >= p.Bars) {
		return fmt.Errorf("SetLoop: bars %v-%v are outside the project", c.Loop.StartBar, c.Loop.EndBar)
	}
	c.prevEnabled = p.LoopEnabled
	c.prevLoop = p.Loop
	p.LoopEnabled = c.Enabled
	p.Loop = c.Loop
	c.executed = true
	return nil
}

func (c *SetLoop) Undo(m *Model) error {
	if !c.executed {
		return errors.New("SetLoop: undo before execute")
	}
	m.d.Project.LoopEnabled = c.prevEnabled
	m.d.Project.Loop = c.prevLoop
	c.executed = false
	return nil
}

func (c *SetLoop) Description() string { return "set loop" }

// UpdateProject updates project wide properties. Only fields that actually
// differ get recorded, so undo touches nothing else. An update where
// nothing differs returns ErrNoChange and stays out of the history.
type UpdateProject struct {
	BPM           types.Optional[float64]
	TimeSignature types.Optional[tahti.TimeSignature]
	Key           types.Optional[string]

	prevBPM           types.Optional[float64]
	prevTimeSignature types.Optional[tahti.TimeSignature]
	prevKey           types.Optional[string]
	executed          bool
}

func NewUpdateProject(bpm types.Optional[float64], timeSignature types.Optional[tahti.TimeSignature], key types.Optional[string]) *UpdateProject {
	return &UpdateProject{BPM: bpm, TimeSignature: timeSignature, Key: key}
}

func (c *UpdateProject) Execute(m *Model) error {
	p := &m.d.Project
	if v, ok := c.BPM.Unpack(); ok && v <= 0 {
		return errors.New("UpdateProject: BPM should be > 0")
	}
	if v, ok := c.TimeSignature.Unpack(); ok && (v.Numerator < 1 || v.Denominator < 1) {
		return errors.New("UpdateProject: time signature should be positive")
	}
	c.prevBPM = types.NewEmptyOptional[float64]()
	c.prevTimeSignature = types.NewEmptyOptional[tahti.TimeSignature]()
	c.prevKey = types.NewEmptyOptional[string]()
	if v, ok := c.BPM.Unpack(); ok && v != p.BPM {
		c.prevBPM = types.NewOptionalOf(p.BPM)
		p.BPM = v
	}
	if v, ok := c.TimeSignature.Unpack(); ok && v != p.TimeSignature {
		c.prevTimeSignature = types.NewOptionalOf(p.TimeSignature)
		p.TimeSignature = v
	}
	if v, ok := c.Key.Unpack(); ok && v != p.Key {
		c.prevKey = types.NewOptionalOf(p.Key)
		p.Key = v
	}
	if c.prevBPM.Empty() && c.prevTimeSignature.Empty() && c.prevKey.Empty() {
		return ErrNoChange
	}
	c.executed = true
	return nil
}

func (c *UpdateProject) Undo(m *Model) error {
	if !c.executed {
		return errors.New("UpdateProject: undo before execute")
	}
	p := &m.d.Project
	if v, ok := c.prevBPM.Unpack(); ok {
		p.BPM = v
	}
	if v, ok := c.prevTimeSignature.Unpack(); ok {
		p.TimeSignature = v
	}
	if v, ok := c.prevKey.Unpack(); ok {
		p.Key = v
	}
	c.executed = false
	return nil
}

func (c *UpdateProject) Description() string { return "update project" }
