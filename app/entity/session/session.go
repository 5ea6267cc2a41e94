// session パッケージは1つの編集中ファイルに対応するエディタ状態を表す
package session

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/wasya-io/les-environs/app/entity/contents"
	"github.com/wasya-io/les-environs/app/entity/cursor"
	"github.com/wasya-io/les-environs/app/entity/selection"
)

// Kind はセッションが扱うコードの種類
type Kind string

const (
	KindSuperCollider Kind = "scd" // 音響合成言語のソース
	KindJavaScript    Kind = "js"  // ビジュアル用のスケッチ
)

// Kinds はコンソールやファイル一覧で使う表示順
var Kinds = []Kind{KindSuperCollider, KindJavaScript}

// KindOf はファイル名の拡張子から種類を判定する
func KindOf(filename string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".scd", ".sc":
		return KindSuperCollider, true
	case ".js", ".mjs":
		return KindJavaScript, true
	default:
		return "", false
	}
}

// Session はバッファ・カーソル・選択範囲をまとめたエディタ状態
type Session struct {
	ID        string
	Name      string
	Path      string // 元ファイルのパス。ファイルに紐づかなければ空
	Kind      Kind
	Contents  *contents.Contents
	Cursor    *cursor.Cursor
	Selection selection.Selection
}

// New は新しいSessionを作成する
func New(name string, kind Kind, c *contents.Contents) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Name:     name,
		Kind:     kind,
		Contents: c,
		Cursor:   cursor.NewCursor(),
	}
}

// Lines はバッファの全行のコピーを返す
func (s *Session) Lines() []string {
	return s.Contents.GetAllLines()
}

// CurrentLine はカーソル行の内容を返す
func (s *Session) CurrentLine() string {
	return s.Contents.GetContentLine(s.Cursor.Row())
}

// MoveCursor はカーソルを移動し、選択範囲を解除する
func (s *Session) MoveCursor(line, col int) {
	s.Cursor.SetCursor(col, line)
	s.Selection = selection.New(s.Cursor.ToPosition(), s.Cursor.ToPosition())
}

// Select は選択範囲を設定し、カーソルを head に置く
func (s *Session) Select(anchor, head contents.Position) {
	s.Selection = selection.New(anchor, head)
	s.Cursor.SetPosition(head)
}

// ActiveSelection は空でない選択範囲を返す。選択が無ければ nil
func (s *Session) ActiveSelection() *selection.Selection {
	if s.Selection.IsEmpty() {
		return nil
	}
	sel := s.Selection
	return &sel
}

// Snapshot はバッファを共有し、カーソルと選択範囲だけを複製したセッションを返す
// 同じドキュメントへの要求が並行しても互いのカーソルを書き換えない
func (s *Session) Snapshot() *Session {
	c := cursor.NewCursor()
	c.SetPosition(s.Cursor.ToPosition())
	return &Session{
		ID:        s.ID,
		Name:      s.Name,
		Path:      s.Path,
		Kind:      s.Kind,
		Contents:  s.Contents,
		Cursor:    c,
		Selection: s.Selection,
	}
}
