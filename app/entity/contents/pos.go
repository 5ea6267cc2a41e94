package contents

// Position はバッファ内の位置を表す（X は列、Y は行。どちらも0始まり）
type Position struct {
	X, Y int
}

func NewPosition(x, y int) Position {
	return Position{X: x, Y: y}
}

// Compare は a と b の文書順を比較する
func Compare(a, b Position) int {
	if a.Y != b.Y {
		if a.Y < b.Y {
			return -1
		}
		return 1
	}
	if a.X < b.X {
		return -1
	}
	if a.X > b.X {
		return 1
	}
	return 0
}
