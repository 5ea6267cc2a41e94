package cursor

import "github.com/wasya-io/les-environs/app/entity/contents"

// Cursor はバッファ内のキャレット位置を保持する
// 列はルーン単位。行の長さへの丸めは読む側で行う
type Cursor struct {
	position contents.Position
}

func NewCursor() *Cursor {
	return &Cursor{}
}

func (c *Cursor) ToPosition() contents.Position {
	return c.position
}

func (c *Cursor) SetCursor(x, y int) {
	c.position = contents.NewPosition(x, y)
}

// SetPosition は Position からカーソルを設定する
func (c *Cursor) SetPosition(pos contents.Position) {
	c.position = pos
}

func (c *Cursor) Row() int {
	return c.position.Y
}

func (c *Cursor) Col() int {
	return c.position.X
}
