package keymap_test

import (
	"errors"
	"testing"

	"github.com/wasya-io/les-environs/app/usecase/keymap"
	"github.com/wasya-io/les-environs/app/usecase/parser"
)

func newKeymap() *keymap.Keymap {
	return keymap.New(parser.NewStandardChordParser(nil))
}

func TestDefaultBindings(t *testing.T) {
	km := newKeymap()

	tests := []struct {
		chord string
		want  keymap.Action
	}{
		{"Cmd-Enter", keymap.ActionRunBlock},
		{"Shift-Enter", keymap.ActionRunLine},
		{"Cmd-.", keymap.ActionStop},
		{"Shift-Ctrl-Enter", keymap.ActionRunAll},
		{"Ctrl-Shift-Enter", keymap.ActionRunAll},
		{"command-return", keymap.ActionRunBlock},
	}
	for _, tt := range tests {
		got, err := km.Lookup(tt.chord)
		if err != nil {
			t.Errorf("Lookup(%q) error: %v", tt.chord, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Lookup(%q) = %q, want %q", tt.chord, got, tt.want)
		}
	}

	if len(km.Bindings()) != 4 {
		t.Errorf("Bindings() = %v", km.Bindings())
	}
}

func TestLookupUnbound(t *testing.T) {
	km := newKeymap()
	if _, err := km.Lookup("Ctrl-Enter"); !errors.Is(err, keymap.ErrUnboundKey) {
		t.Errorf("Lookup(Ctrl-Enter) error = %v, want ErrUnboundKey", err)
	}
	if _, err := km.Lookup("Hyper-X"); !errors.Is(err, parser.ErrInvalidChord) {
		t.Errorf("Lookup(Hyper-X) error = %v, want ErrInvalidChord", err)
	}
}

func TestApplyOverrides(t *testing.T) {
	km := newKeymap()
	err := km.Apply(map[string]string{
		"Ctrl-Enter": "run-block",
		"Cmd-Enter":  "run-line",
	})
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	if got, _ := km.Lookup("Ctrl-Enter"); got != keymap.ActionRunBlock {
		t.Errorf("Ctrl-Enter = %q", got)
	}
	if got, _ := km.Lookup("Cmd-Enter"); got != keymap.ActionRunLine {
		t.Errorf("Cmd-Enter should be overridden, got %q", got)
	}
}

func TestApplyRejectsUnknownAction(t *testing.T) {
	km := newKeymap()
	err := km.Apply(map[string]string{"Ctrl-Enter": "save"})
	if !errors.Is(err, keymap.ErrUnknownAction) {
		t.Errorf("Apply() error = %v, want ErrUnknownAction", err)
	}
	if _, err := keymap.ParseAction("stop"); err != nil {
		t.Errorf("ParseAction(stop) error: %v", err)
	}
}
