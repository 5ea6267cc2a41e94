package lsp

import (
	"errors"
	"fmt"
	"unicode/utf16"

	"github.com/wasya-io/les-environs/app/entity/contents"
	"github.com/wasya-io/les-environs/app/entity/selection"
)

var ErrInvalidArguments = errors.New("invalid command arguments")

// location は executeCommand の引数で指定された位置
type location struct {
	uri       string
	line      int
	character int // UTF-16 単位
	selection *[4]int
}

// parseLocation は [uri, line, character] または
// [uri, line, character, anchorLine, anchorChar, headLine, headChar] を解析する
func parseLocation(args []any) (location, error) {
	if len(args) != 3 && len(args) != 7 {
		return location{}, fmt.Errorf("%w: want 3 or 7 arguments, got %d", ErrInvalidArguments, len(args))
	}

	uri, ok := args[0].(string)
	if !ok || uri == "" {
		return location{}, fmt.Errorf("%w: uri must be a string", ErrInvalidArguments)
	}

	nums := make([]int, 0, 6)
	for i, arg := range args[1:] {
		n, err := toInt(arg)
		if err != nil {
			return location{}, fmt.Errorf("%w: argument %d: %v", ErrInvalidArguments, i+1, err)
		}
		nums = append(nums, n)
	}

	loc := location{uri: uri, line: nums[0], character: nums[1]}
	if len(nums) == 6 {
		loc.selection = &[4]int{nums[2], nums[3], nums[4], nums[5]}
	}
	return loc, nil
}

// toInt は JSON の数値（float64）を int にする
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n < 0 || n != float64(int(n)) {
			return 0, fmt.Errorf("not a non-negative integer: %v", n)
		}
		return int(n), nil
	case int:
		if n < 0 {
			return 0, fmt.Errorf("negative: %d", n)
		}
		return n, nil
	}
	return 0, fmt.Errorf("not a number: %T", v)
}

// runeColumn は UTF-16 単位の列をルーン単位の列に変換する
func runeColumn(line string, units int) int {
	col := 0
	for _, r := range line {
		if units <= 0 {
			break
		}
		units -= utf16.RuneLen(r)
		col++
	}
	return col
}

// position は UTF-16 の行・列をバッファ上の位置にする
func position(lines []string, line, units int) contents.Position {
	col := 0
	if line >= 0 && line < len(lines) {
		col = runeColumn(lines[line], units)
	}
	return contents.NewPosition(col, line)
}

// toSelection は引数の選択範囲をバッファ上の Selection にする
func (l location) toSelection(lines []string) *selection.Selection {
	if l.selection == nil {
		return nil
	}
	s := l.selection
	sel := selection.New(position(lines, s[0], s[1]), position(lines, s[2], s[3]))
	return &sel
}
