package arranger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vlehtola/tahti"
)

// ReadProject loads a project from r, replacing the current one. Both the
// json and yaml formats are tried. The undo history is cleared, as the old
// edits no longer apply to the loaded project.
func (m *Model) ReadProject(r io.ReadCloser) {
	b, err := io.ReadAll(r)
	if err != nil {
		return
	}
	err = r.Close()
	if err != nil {
		return
	}
	var project tahti.Project
	if errJSON := json.Unmarshal(b, &project); errJSON != nil {
		if errYaml := yaml.Unmarshal(b, &project); errYaml != nil {
			m.Alerts().Add(fmt.Sprintf("Error unmarshaling a project file: %v / %v", errYaml, errJSON), Error)
			return
		}
	}
	m.setProject(project)
	if f, ok := r.(*os.File); ok {
		m.d.FilePath = f.Name()
		// when the project is loaded from a file, we are quite confident that
		// the file is persisted and thus we can close tahti without worrying
		// about losing changes
		m.d.ChangedSinceSave = false
	}
}

// WriteProject saves the project to w, as json if the file name ends with
// .json and as yaml otherwise.
func (m *Model) WriteProject(w io.WriteCloser) {
	path := ""
	if f, ok := w.(*os.File); ok {
		path = f.Name()
	}
	var contents []byte
	var err error
	if filepath.Ext(path) == ".json" {
		contents, err = json.Marshal(m.d.Project)
	} else {
		contents, err = yaml.Marshal(m.d.Project)
	}
	if err != nil {
		m.Alerts().Add(fmt.Sprintf("Error marshaling a project file: %v", err), Error)
		return
	}
	if _, err := w.Write(contents); err != nil {
		m.Alerts().Add(fmt.Sprintf("Error writing to file: %v", err), Error)
		return
	}
	if err := w.Close(); err != nil {
		m.Alerts().Add(fmt.Sprintf("Error closing the file: %v", err), Error)
		return
	}
	if path != "" {
		m.d.FilePath = path
		m.d.ChangedSinceSave = false
	}
}

// SaveProject writes the project back to the file it came from, returning
// false when the model has no file path yet and the caller should ask the
// user for one.
func (m *Model) SaveProject() bool {
	if m.d.FilePath == "" {
		return false
	}
	f, err := os.Create(m.d.FilePath)
	if err != nil {
		m.Alerts().Add("Error creating file: "+err.Error(), Error)
		return false
	}
	m.WriteProject(f)
	return true
}

// NewProject replaces the current project with the default starter
// project.
func (m *Model) NewProject() {
	m.setProject(defaultProject.Copy())
	m.d.FilePath = ""
	m.d.ChangedSinceSave = false
}

// setProject installs a project into the model: synths of the old tracks
// are torn down, ids are fixed up, the selection and the undo history are
// reset and the audio interface is synced to the new tracks.
func (m *Model) setProject(project tahti.Project) {
	for i := range m.d.Project.Tracks {
		if m.d.Project.Tracks[i].Kind == tahti.TrackKindMidi {
			m.audioRemoveSynth(m.d.Project.Tracks[i].ID)
		}
	}
	project.ApplyDefaults()
	project.FixupIDs()
	m.d.Project = project
	m.d.Selection = nil
	m.selectionChanged()
	m.history.Clear()
	m.notifyAudioProject()
	m.markChanged()
}
