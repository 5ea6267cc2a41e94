package manifest_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/wasya-io/les-environs/app/boundary/manifest"
)

const sample = `
[project]
name = "bouncing-particles"

[files]
supercollider-files = ["synth.scd", "fx.scd"]
javascript-files = ["sketch.js"]
css-files = ["style.css"]

[interpreter.scd]
command = "/opt/sclang"
args = ["-i", "les-environs"]

[keymap]
"Ctrl-Enter" = "run-block"
`

func writeManifest(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, manifest.FileName), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, sample)

	m, err := manifest.Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if m.Project.Name != "bouncing-particles" {
		t.Errorf("Project.Name = %q", m.Project.Name)
	}
	if got := m.SourceFiles(); !reflect.DeepEqual(got, []string{"synth.scd", "fx.scd", "sketch.js"}) {
		t.Errorf("SourceFiles() = %v", got)
	}
	if !reflect.DeepEqual(m.Files.CSS, []string{"style.css"}) {
		t.Errorf("Files.CSS = %v", m.Files.CSS)
	}

	scd := m.Interpreter["scd"]
	if scd.Command != "/opt/sclang" || scd.Terminator != "\f" {
		t.Errorf("scd interpreter = %+v", scd)
	}
	if js := m.Interpreter["js"]; js.Terminator != "\n" {
		t.Errorf("js terminator = %q", js.Terminator)
	}
	if m.Keymap["Ctrl-Enter"] != "run-block" {
		t.Errorf("Keymap = %v", m.Keymap)
	}
	if m.Path("synth.scd") != filepath.Join(m.Dir, "synth.scd") {
		t.Errorf("Path() = %q", m.Path("synth.scd"))
	}
}

func TestLoadDefaultsProjectName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-sketch")
	os.Mkdir(dir, 0755)
	writeManifest(t, dir, "")

	m, err := manifest.Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if m.Project.Name != "my-sketch" {
		t.Errorf("Project.Name = %q, want directory name", m.Project.Name)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := manifest.Load(t.TempDir()); err == nil {
		t.Error("Load() should fail without a manifest")
	}

	dir := t.TempDir()
	writeManifest(t, dir, "[project\nname=")
	if _, err := manifest.Load(dir); err == nil {
		t.Error("Load() should fail on invalid toml")
	}
}

func TestFindAndLoad(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, sample)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	m, err := manifest.FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad() error: %v", err)
	}
	if m == nil || m.Project.Name != "bouncing-particles" {
		t.Fatalf("FindAndLoad() = %+v", m)
	}
}

func TestEmpty(t *testing.T) {
	m := manifest.Empty("/tmp/sketch")
	if len(m.SourceFiles()) != 0 {
		t.Error("empty manifest should have no files")
	}
	if m.Interpreter["scd"].Terminator != "\f" {
		t.Error("defaults should apply to an empty manifest")
	}
}
