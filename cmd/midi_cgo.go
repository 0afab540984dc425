//go:build cgo

package cmd

import (
	"github.com/vlehtola/tahti/arranger"
	"github.com/vlehtola/tahti/arranger/gomidi"
)

func NewMidiContext(broker *arranger.Broker) arranger.MIDIContext {
	return gomidi.NewContext(broker)
}
