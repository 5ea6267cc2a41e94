package resolver_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/wasya-io/les-environs/app/entity/contents"
	"github.com/wasya-io/les-environs/app/entity/selection"
	"github.com/wasya-io/les-environs/app/usecase/resolver"
)

func at(line, col int) contents.Position {
	return contents.NewPosition(col, line)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		cursor contents.Position
		sel    *selection.Selection
		want   string
	}{
		{
			name:   "single line",
			lines:  []string{"x = 1;"},
			cursor: at(0, 0),
			want:   "x = 1;",
		},
		{
			name:   "block around cursor",
			lines:  []string{"(", "foo();", "bar();", ")"},
			cursor: at(2, 0),
			want:   "foo();\nbar();",
		},
		{
			name:   "selection wins",
			lines:  []string{"a", "b", "c"},
			cursor: at(2, 0),
			sel:    &selection.Selection{Anchor: at(0, 0), Head: at(1, 1)},
			want:   "a\nb",
		},
		{
			name:   "does not reach across a closed block",
			lines:  []string{"(", "x", ")", "(", "y", ")"},
			cursor: at(4, 0),
			want:   "y",
		},
		{
			name:   "nested blocks",
			lines:  []string{"(", "(", "a", ")", "b", ")"},
			cursor: at(2, 0),
			want:   "a\n)\nb",
		},
		{
			name:   "inner block closed before cursor",
			lines:  []string{"(", "(", "x", ")", "y", ")"},
			cursor: at(4, 0),
			want:   "(\nx\n)\ny",
		},
		{
			name:   "between blocks falls back to line",
			lines:  []string{"(", "x", ")", "y", "(", "z", ")"},
			cursor: at(3, 0),
			want:   "y",
		},
		{
			name:   "cursor on first line",
			lines:  []string{"(", "a", ")"},
			cursor: at(0, 0),
			want:   "(",
		},
		{
			name:   "cursor on closing line",
			lines:  []string{"(", "a", "b", ")"},
			cursor: at(3, 0),
			want:   "a\nb",
		},
		{
			name:   "unclosed block falls back to line",
			lines:  []string{"(", "a", "b"},
			cursor: at(1, 0),
			want:   "a",
		},
		{
			name:   "stray open above an inner block",
			lines:  []string{"(", "stray", "(", "a", ")"},
			cursor: at(3, 0),
			want:   "a",
		},
		{
			name:   "indented bracket lines",
			lines:  []string{"  (  ", "\tSynthDef(\\a, {}).add;", "\t)"},
			cursor: at(1, 4),
			want:   "\tSynthDef(\\a, {}).add;",
		},
		{
			name:   "brackets inside code are not block lines",
			lines:  []string{"f = (", "1 + 2", ");"},
			cursor: at(1, 0),
			want:   "1 + 2",
		},
		{
			name:   "bracket line inside a string is still a bracket line",
			lines:  []string{"(", "x = \"", ")", "\";", ")"},
			cursor: at(1, 0),
			want:   "x = \"",
		},
		{
			name:   "empty selection is ignored",
			lines:  []string{"(", "a", ")"},
			cursor: at(1, 0),
			sel:    &selection.Selection{Anchor: at(1, 1), Head: at(1, 1)},
			want:   "a",
		},
		{
			name:   "cursor beyond buffer is clamped",
			lines:  []string{"a", "b"},
			cursor: at(12, 0),
			want:   "b",
		},
		{
			name:   "negative cursor is clamped",
			lines:  []string{"a", "b"},
			cursor: at(-3, 0),
			want:   "a",
		},
		{
			name:   "empty buffer",
			lines:  nil,
			cursor: at(0, 0),
			want:   "",
		},
		{
			name:   "empty block",
			lines:  []string{"(", ")"},
			cursor: at(1, 0),
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolver.Resolve(tt.lines, tt.cursor, tt.sel); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveBlockForEveryCursorLine(t *testing.T) {
	body := []string{"SynthDef(\\sine, {", "\tOut.ar(0, SinOsc.ar(440));", "}).add;"}
	lines := append(append([]string{"("}, body...), ")")

	for line := 1; line <= len(body); line++ {
		got := resolver.Resolve(lines, at(line, 0), nil)
		if got != strings.Join(body, "\n") {
			t.Errorf("cursor line %d: Resolve() = %q", line, got)
		}
	}
}

func TestResolveWithoutBracketLinesReturnsCursorLine(t *testing.T) {
	lines := []string{"s.boot;", "x = Synth(\\sine);", "x.free;"}
	for k := range lines {
		if got := resolver.Resolve(lines, at(k, 3), nil); got != lines[k] {
			t.Errorf("line %d: Resolve() = %q, want %q", k, got, lines[k])
		}
	}
}

func TestResolveSelectionVerbatim(t *testing.T) {
	lines := []string{"(", "  a = 1;  ", ")"}
	sel := &selection.Selection{Anchor: at(1, 0), Head: at(1, 10)}

	for line := range lines {
		if got := resolver.Resolve(lines, at(line, 0), sel); got != "  a = 1;  " {
			t.Errorf("cursor line %d: Resolve() = %q", line, got)
		}
	}
}

func TestResolveIsPureAndIdempotent(t *testing.T) {
	lines := []string{"(", "(", "a", ")", "b", ")"}
	original := append([]string{}, lines...)
	cur := at(2, 1)
	sel := &selection.Selection{Anchor: at(4, 0), Head: at(4, 0)}
	selCopy := *sel

	first := resolver.Resolve(lines, cur, sel)
	second := resolver.Resolve(lines, cur, sel)

	if first != second {
		t.Errorf("Resolve() is not idempotent: %q vs %q", first, second)
	}
	if !reflect.DeepEqual(lines, original) {
		t.Errorf("buffer mutated: %q", lines)
	}
	if cur != at(2, 1) {
		t.Errorf("cursor mutated: %+v", cur)
	}
	if *sel != selCopy {
		t.Errorf("selection mutated: %+v", *sel)
	}
}
