package arranger

import "strings"

type (
	// NoteEvent is a note on or off from a MIDI input device. The
	// timestamp is milliseconds since the driver started listening.
	NoteEvent struct {
		On       bool
		Channel  int
		Key      byte
		Velocity byte
		Millis   int32
	}

	MIDIContext interface {
		Inputs(yield func(input MIDIInputDevice) bool)
		Close()
		Support() MIDISupport
	}

	MIDIInputDevice interface {
		Open() error
		Close() error
		IsOpen() bool
		String() string
	}

	MIDISupport int
)

const (
	MIDISupportNotCompiled MIDISupport = iota
	MIDISupportNoDriver
	MIDISupported
)

// FindMIDIInputByPrefix returns the first input device whose name starts
// with the given prefix. An empty prefix matches the first device.
func FindMIDIInputByPrefix(context MIDIContext, prefix string) (MIDIInputDevice, bool) {
	for input := range context.Inputs {
		if strings.HasPrefix(input.String(), prefix) {
			return input, true
		}
	}
	return nil, false
}

// NullMIDIContext is a mockup MIDIContext if you don't want to create a real
// one.
type NullMIDIContext struct{}

func (m NullMIDIContext) Inputs(yield func(input MIDIInputDevice) bool) {}
func (m NullMIDIContext) Close()                                        {}
func (m NullMIDIContext) Support() MIDISupport                          { return MIDISupportNotCompiled }
