package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/wasya-io/les-environs/app/entity/core"
	"github.com/wasya-io/les-environs/app/entity/key"
)

var ErrInvalidChord = errors.New("invalid key chord")

type StandardChordParser struct {
	logger core.Logger
}

type ChordParser interface {
	Parse(s string) (key.Chord, error)
}

func NewStandardChordParser(logger core.Logger) *StandardChordParser {
	return &StandardChordParser{
		logger: logger,
	}
}

// Parse は "Shift-Ctrl-Enter" のような表記を解析する
// 修飾キーは順不同・大文字小文字を区別しない
func (p *StandardChordParser) Parse(s string) (key.Chord, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return key.Chord{}, fmt.Errorf("%w: empty", ErrInvalidChord)
	}

	// 最後の "-" より後ろがキー。"Cmd--" のようにキー自体が "-" の場合もある
	var chord key.Chord
	name := s
	if i := strings.LastIndex(s[:len(s)-1], "-"); i >= 0 {
		name = s[i+1:]
		for _, part := range strings.Split(s[:i], "-") {
			mod, ok := p.parseModifier(part)
			if !ok {
				return key.Chord{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidChord, part, s)
			}
			chord.Mods |= mod
		}
	}

	k, ok := p.parseKey(name)
	if !ok {
		return key.Chord{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidChord, name, s)
	}
	chord.Key = k

	if p.logger != nil {
		p.logger.Log("parser", fmt.Sprintf("parsed chord %q as %s", s, chord))
	}
	return chord, nil
}

// parseModifier は修飾キーの別名を解決する
func (p *StandardChordParser) parseModifier(s string) (key.Modifier, bool) {
	switch strings.ToLower(s) {
	case "shift", "s":
		return key.ModShift, true
	case "cmd", "command", "meta", "super", "m":
		return key.ModCmd, true
	case "ctrl", "control", "c":
		return key.ModCtrl, true
	case "alt", "option", "opt", "a":
		return key.ModAlt, true
	}
	return 0, false
}

// parseKey はキー名を正規化する。1文字のキーは英字なら大文字にする
func (p *StandardChordParser) parseKey(s string) (string, bool) {
	switch strings.ToLower(s) {
	case "enter", "return", "ret":
		return key.KeyEnter, true
	case "tab":
		return key.KeyTab, true
	case "esc", "escape":
		return key.KeyEsc, true
	case "space", "spc":
		return key.KeySpace, true
	case "backspace", "bs":
		return key.KeyBackspace, true
	case "up":
		return key.KeyUp, true
	case "down":
		return key.KeyDown, true
	case "left":
		return key.KeyLeft, true
	case "right":
		return key.KeyRight, true
	}

	if utf8.RuneCountInString(s) == 1 {
		return strings.ToUpper(s), true
	}
	return "", false
}
