//go:build !cgo

package cmd

import (
	"github.com/vlehtola/tahti/arranger"
)

func NewMidiContext(broker *arranger.Broker) arranger.MIDIContext {
	// with no cgo, we cannot use MIDI, so return a null context
	return arranger.NullMIDIContext{}
}
