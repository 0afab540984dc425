package arranger_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/vlehtola/tahti/arranger"
)

func TestMakePreferences(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME steers the config dir only on linux")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	prefs := arranger.MakePreferences()
	if prefs.MaxUndo != 30 || prefs.YmlError != nil {
		t.Fatalf("got: %+v expected the embedded defaults", prefs)
	}
	if err := os.MkdirAll(filepath.Join(dir, "tahti"), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	path := filepath.Join(dir, "tahti", "preferences.yml")
	if err := os.WriteFile(path, []byte("maxundo: 5\nmidi:\n    input: \"USB\"\n"), 0644); err != nil {
		t.Fatalf("writing preferences failed: %v", err)
	}
	prefs = arranger.MakePreferences()
	if prefs.MaxUndo != 5 || prefs.Midi.Input != "USB" || prefs.YmlError != nil {
		t.Fatalf("got: %+v expected maxundo 5 and input USB", prefs)
	}
	if err := os.WriteFile(path, []byte("\tbroken"), 0644); err != nil {
		t.Fatalf("writing preferences failed: %v", err)
	}
	prefs = arranger.MakePreferences()
	if prefs.YmlError == nil {
		t.Fatalf("a broken preferences file should surface as YmlError")
	}
	if prefs.MaxUndo != 30 {
		t.Fatalf("got: %v expected the default to survive a broken file", prefs.MaxUndo)
	}
}
