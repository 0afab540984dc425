package tahti

// AudioInterface is the arranger's connection to the audio engine. The
// arranger notifies the engine about every change it might care about, but
// never depends on it: a failing call becomes an alert for the user, not a
// failed command.
type AudioInterface interface {
	CreateSynth(trackID int, instrument string) error
	RemoveSynth(trackID int) error
	SetInstrument(trackID int, instrument string) error
	SetVolume(trackID int, volume float64) error
}

// UIStore answers which region editors the user has open, so that commands
// deleting a region can close its editor before the region disappears.
type UIStore interface {
	IsEditorOpen(regionID string) bool
	CloseEditor(regionID string)
}

// NullAudio is a mockup AudioInterface if you don't want to create a real one.
type NullAudio struct{}

func (NullAudio) CreateSynth(trackID int, instrument string) error   { return nil }
func (NullAudio) RemoveSynth(trackID int) error                      { return nil }
func (NullAudio) SetInstrument(trackID int, instrument string) error { return nil }
func (NullAudio) SetVolume(trackID int, volume float64) error        { return nil }
