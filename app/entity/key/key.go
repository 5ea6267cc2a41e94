package key

import "strings"

// Modifier は修飾キーのビットフラグ
type Modifier int

const (
	ModShift Modifier = 1 << iota
	ModCmd
	ModCtrl
	ModAlt
)

// modifierNames は正規化した表記での並び順
var modifierNames = []struct {
	mod  Modifier
	name string
}{
	{ModShift, "Shift"},
	{ModCmd, "Cmd"},
	{ModCtrl, "Ctrl"},
	{ModAlt, "Alt"},
}

// 名前付きのキー
const (
	KeyEnter     = "Enter"
	KeyTab       = "Tab"
	KeyEsc       = "Esc"
	KeySpace     = "Space"
	KeyBackspace = "Backspace"
	KeyUp        = "Up"
	KeyDown      = "Down"
	KeyLeft      = "Left"
	KeyRight     = "Right"
)

// Chord は修飾キーとキーの組み合わせ（"Shift-Ctrl-Enter" など）
type Chord struct {
	Mods Modifier
	Key  string
}

// Has は修飾キーが含まれているかを返す
func (c Chord) Has(mod Modifier) bool {
	return c.Mods&mod != 0
}

// String は "Shift-Cmd-Ctrl-Alt-Key" の順に正規化した表記を返す
func (c Chord) String() string {
	var b strings.Builder
	for _, m := range modifierNames {
		if c.Has(m.mod) {
			b.WriteString(m.name)
			b.WriteByte('-')
		}
	}
	b.WriteString(c.Key)
	return b.String()
}
