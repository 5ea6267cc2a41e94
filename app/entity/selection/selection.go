// selection パッケージはエディタの選択範囲を表す
package selection

import (
	"strings"

	"github.com/wasya-io/les-environs/app/entity/contents"
)

// Selection は anchor（選択開始位置）と head（選択を伸ばした先）の組
type Selection struct {
	Anchor contents.Position
	Head   contents.Position
}

// New は新しいSelectionを作成する
func New(anchor, head contents.Position) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// IsEmpty は anchor と head が同じ位置かどうかを返す
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Ordered は文書順に並べた (start, end) を返す
func (s Selection) Ordered() (contents.Position, contents.Position) {
	if contents.Compare(s.Anchor, s.Head) <= 0 {
		return s.Anchor, s.Head
	}
	return s.Head, s.Anchor
}

// Text は lines 上の選択範囲のテキストを返す。
// 列はルーン単位で、範囲外の位置はバッファ内に収められる
func (s Selection) Text(lines []string) string {
	if len(lines) == 0 || s.IsEmpty() {
		return ""
	}

	start, end := s.Ordered()
	start = clamp(start, lines)
	end = clamp(end, lines)
	if start == end {
		return ""
	}

	if start.Y == end.Y {
		return contents.NewRow(lines[start.Y]).Slice(start.X, end.X)
	}

	parts := make([]string, 0, end.Y-start.Y+1)
	first := contents.NewRow(lines[start.Y])
	parts = append(parts, first.Slice(start.X, first.GetRuneCount()))
	for y := start.Y + 1; y < end.Y; y++ {
		parts = append(parts, lines[y])
	}
	parts = append(parts, contents.NewRow(lines[end.Y]).Slice(0, end.X))

	return strings.Join(parts, "\n")
}

// clamp は位置をバッファ内に収める。最終行より後ろは最終行の末尾とみなす
func clamp(p contents.Position, lines []string) contents.Position {
	if p.Y < 0 {
		return contents.Position{X: 0, Y: 0}
	}
	if p.Y >= len(lines) {
		last := len(lines) - 1
		return contents.Position{X: contents.NewRow(lines[last]).GetRuneCount(), Y: last}
	}
	p.X = contents.NewRow(lines[p.Y]).ClampOffset(p.X)
	return p
}
