package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wasya-io/les-environs/app/entity/contents"
	"github.com/wasya-io/les-environs/app/entity/session"
)

var errInvalidLocation = errors.New("invalid location")

// location は -line / -col / -sel で指定されたカーソル位置と選択範囲
// 行と列は 0 始まり、列はルーン単位
type location struct {
	line   int
	col    int
	sel    string // "aL:aC-hL:hC"
	anchor contents.Position
	head   contents.Position
	hasSel bool
}

// parse は sel を解釈する。sel が空なら選択なし
func (l *location) parse() error {
	if l.line < 0 || l.col < 0 {
		return fmt.Errorf("%w: line and column must not be negative", errInvalidLocation)
	}
	if l.sel == "" {
		return nil
	}

	anchor, head, err := parseSelection(l.sel)
	if err != nil {
		return err
	}
	l.anchor, l.head, l.hasSel = anchor, head, true
	return nil
}

// apply はセッションにカーソルと選択範囲を設定する
func (l *location) apply(s *session.Session) {
	s.MoveCursor(l.line, l.col)
	if l.hasSel {
		s.Select(l.anchor, l.head)
	}
}

// parseSelection は "aL:aC-hL:hC" を anchor と head に分ける
func parseSelection(s string) (contents.Position, contents.Position, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return contents.Position{}, contents.Position{}, fmt.Errorf("%w: %q", errInvalidLocation, s)
	}
	anchor, err := parsePosition(from)
	if err != nil {
		return contents.Position{}, contents.Position{}, err
	}
	head, err := parsePosition(to)
	if err != nil {
		return contents.Position{}, contents.Position{}, err
	}
	return anchor, head, nil
}

// parsePosition は "L:C" を Position に変換する
func parsePosition(s string) (contents.Position, error) {
	lineText, colText, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return contents.Position{}, fmt.Errorf("%w: %q", errInvalidLocation, s)
	}
	line, err := strconv.Atoi(lineText)
	if err != nil || line < 0 {
		return contents.Position{}, fmt.Errorf("%w: line %q", errInvalidLocation, lineText)
	}
	col, err := strconv.Atoi(colText)
	if err != nil || col < 0 {
		return contents.Position{}, fmt.Errorf("%w: column %q", errInvalidLocation, colText)
	}
	return contents.NewPosition(col, line), nil
}
