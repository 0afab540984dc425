package arranger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vlehtola/tahti"
)

type (
	// modelData is the part of the model that gets saved to the recovery file
	modelData struct {
		Project   tahti.Project
		Selection []tahti.Ref

		FilePath         string
		ChangedSinceSave bool

		RecoveryFilePath     string
		ChangedSinceRecovery bool
	}

	// Model implements the mutable state of the arranger: the project being
	// edited, the selection, the clipboard, the alerts and the undo/redo
	// history. It is owned by a single goroutine; other goroutines
	// communicate with it through the broker channels.
	Model struct {
		d modelData

		history   *History
		alerts    []Alert
		prefs     Preferences
		clipboard []byte

		broker *Broker
		audio  tahti.AudioInterface
		ui     tahti.UIStore

		recorder *Recorder
	}
)

// NewModel creates a model with the default starter project. audio may be
// nil, in which case synth notifications go to the broker ToAudio channel;
// ui may be nil when there are no editors to close. If recoveryFilePath is
// not empty and such a file exists, the model state is loaded from it.
func NewModel(broker *Broker, audio tahti.AudioInterface, ui tahti.UIStore, recoveryFilePath string) *Model {
	ret := &Model{broker: broker, audio: audio, ui: ui}
	if ret.broker == nil {
		ret.broker = NewBroker()
	}
	if ret.audio == nil {
		ret.audio = BrokerAudio{Broker: ret.broker}
	}
	ret.prefs = MakePreferences()
	if ret.prefs.YmlError != nil {
		ret.Alerts().Add(fmt.Sprintf("Preferences could not be loaded: %v", ret.prefs.YmlError), Warning)
	}
	ret.history = NewHistory(ret.prefs.MaxUndo, ret.historyChanged)
	ret.d.Project = defaultProject.Copy()
	ret.d.RecoveryFilePath = recoveryFilePath
	if recoveryFilePath != "" {
		if bytes2, err := os.ReadFile(ret.d.RecoveryFilePath); err == nil {
			ret.UnmarshalRecovery(bytes2)
		}
	}
	ret.notifyAudioProject()
	return ret
}

func (m *Model) Project() *tahti.Project { return &m.d.Project }
func (m *Model) History() *History       { return m.history }
func (m *Model) Broker() *Broker         { return m.broker }

func (m *Model) FilePath() string { return m.d.FilePath }

func (m *Model) ChangedSinceSave() bool { return m.d.ChangedSinceSave }

// Execute runs a command through the history. A failed command becomes an
// alert and is not recorded. ErrNoChange counts as success: nothing
// happened, so there is nothing to alert, record or save.
func (m *Model) Execute(cmd Command) bool {
	if err := m.history.Execute(m, cmd); err != nil {
		if errors.Is(err, ErrNoChange) {
			return true
		}
		m.Alerts().Add(fmt.Sprintf("%s failed: %v", cmd.Description(), err), Error)
		return false
	}
	m.markChanged()
	return true
}

// Undo reverts the newest command, returning false when there was nothing
// to undo or undoing it failed.
func (m *Model) Undo() bool {
	if !m.history.Undo(m) {
		return false
	}
	m.markChanged()
	return true
}

// Redo reapplies the newest undone command, returning false when there was
// nothing to redo or reapplying it failed.
func (m *Model) Redo() bool {
	if !m.history.Redo(m) {
		return false
	}
	m.markChanged()
	return true
}

// markChanged records that the project differs from what is on disk and
// pokes the UI.
func (m *Model) markChanged() {
	m.d.ChangedSinceSave = true
	m.d.ChangedSinceRecovery = true
	TrySend(m.broker.ToUI, MsgToUI{Kind: UIMessageProjectChanged})
}

func (m *Model) historyChanged() {
	TrySend(m.broker.ToUI, MsgToUI{Kind: UIMessageHistoryChanged})
}

// ProcessMsg handles a message that another goroutine sent to the model.
func (m *Model) ProcessMsg(msg MsgToModel) {
	if msg.HasNoteEvent && m.recorder != nil {
		m.recorder.Record(msg.NoteEvent)
	}
	switch e := msg.Data.(type) {
	case Alert:
		m.Alerts().AddAlert(e)
	case func():
		e()
	}
}

// MarshalRecovery marshals the current model data to a byte slice for
// recovery saving.
func (m *Model) MarshalRecovery() []byte {
	out, err := json.Marshal(m.d)
	if err != nil {
		return nil
	}
	if m.d.RecoveryFilePath != "" {
		os.Remove(m.d.RecoveryFilePath)
	}
	m.d.ChangedSinceRecovery = false
	return out
}

// SaveRecovery saves the current model data to the recovery file on disk if
// there are unsaved changes.
func (m *Model) SaveRecovery() error {
	if !m.d.ChangedSinceRecovery {
		return nil
	}
	if m.d.RecoveryFilePath == "" {
		return errors.New("no recovery file path")
	}
	out, err := json.Marshal(m.d)
	if err != nil {
		return fmt.Errorf("could not marshal recovery data: %w", err)
	}
	dir := filepath.Dir(m.d.RecoveryFilePath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		os.MkdirAll(dir, os.ModePerm)
	}
	file, err := os.Create(m.d.RecoveryFilePath)
	if err != nil {
		return fmt.Errorf("could not create recovery file: %w", err)
	}
	_, err = file.Write(out)
	if err != nil {
		return fmt.Errorf("could not write recovery file: %w", err)
	}
	m.d.ChangedSinceRecovery = false
	return nil
}

// UnmarshalRecovery unmarshals the model data from a byte slice, then
// checking if a recovery file exists on disk and loading it instead. The
// undo history does not survive this: commands hold inverses for one
// particular project, so the stacks are cleared.
func (m *Model) UnmarshalRecovery(bytes []byte) {
	var data modelData
	err := json.Unmarshal(bytes, &data)
	if err != nil {
		return
	}
	m.d = data
	if m.d.RecoveryFilePath != "" { // check if there's a recovery file on disk and load it instead
		if bytes2, err := os.ReadFile(m.d.RecoveryFilePath); err == nil {
			var data modelData
			if json.Unmarshal(bytes2, &data) == nil {
				m.d = data
			}
		}
	}
	m.d.ChangedSinceRecovery = false
	m.d.Project.FixupIDs()
	m.Selection().resync()
	m.history.Clear()
	m.notifyAudioProject()
	TrySend(m.broker.ToUI, MsgToUI{Kind: UIMessageProjectChanged})
}

// notifyAudioProject tells the audio engine about every synth the current
// project needs, e.g. after loading a project or recovering one.
func (m *Model) notifyAudioProject() {
	for i := range m.d.Project.Tracks {
		t := &m.d.Project.Tracks[i]
		if t.Kind != tahti.TrackKindMidi {
			continue
		}
		m.audioCreateSynth(t.ID, t.Instrument)
		m.audioSetVolume(t.ID, t.Volume)
	}
}

// The audio interface is best effort: failures become alerts for the user,
// never failed commands.

func (m *Model) audioCreateSynth(trackID int, instrument string) {
	if err := m.audio.CreateSynth(trackID, instrument); err != nil {
		m.Alerts().AddNamed("AudioInterface", fmt.Sprintf("Audio engine failed to create a synth: %v", err), Warning)
	}
}

func (m *Model) audioRemoveSynth(trackID int) {
	if err := m.audio.RemoveSynth(trackID); err != nil {
		m.Alerts().AddNamed("AudioInterface", fmt.Sprintf("Audio engine failed to remove a synth: %v", err), Warning)
	}
}

func (m *Model) audioSetInstrument(trackID int, instrument string) {
	if err := m.audio.SetInstrument(trackID, instrument); err != nil {
		m.Alerts().AddNamed("AudioInterface", fmt.Sprintf("Audio engine failed to set an instrument: %v", err), Warning)
	}
}

func (m *Model) audioSetVolume(trackID int, volume float64) {
	if err := m.audio.SetVolume(trackID, volume); err != nil {
		m.Alerts().AddNamed("AudioInterface", fmt.Sprintf("Audio engine failed to set a volume: %v", err), Warning)
	}
}

// closeEditorFor closes the note editor of a region that is about to
// disappear. Nil-safe: a headless model has no UI store.
func (m *Model) closeEditorFor(regionID string) {
	if m.ui == nil {
		return
	}
	if m.ui.IsEditorOpen(regionID) {
		m.ui.CloseEditor(regionID)
	}
}

// reindexTracks re-stamps the Index of every track from its actual position
// in the list, cascading to the TrackIndex of the regions.
func (m *Model) reindexTracks() {
	for i := range m.d.Project.Tracks {
		m.d.Project.Tracks[i].SetIndex(i)
	}
}
