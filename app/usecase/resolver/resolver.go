// resolver パッケージは「実行」要求に対してインタプリタへ送るテキストを決定する。
//
// 括弧ブロックの規約は単純なテキスト規約で、前後の空白を除いた内容が "(" だけの行が
// ブロックを開き、")" だけの行がブロックを閉じる。文字列やコメントは解釈しない。
package resolver

import (
	"strings"

	"github.com/wasya-io/les-environs/app/entity/contents"
	"github.com/wasya-io/les-environs/app/entity/selection"
)

const (
	openBracket  = "("
	closeBracket = ")"
)

// Resolve は実行するテキストを次の優先順で決定する。
//
//  1. 空でない選択範囲があればそのテキスト
//  2. カーソルを囲む括弧ブロックの中身（括弧行自体は含まない）
//  3. カーソル行
//
// lines・cur・sel は変更しない。空のバッファには空文字列を返す。
func Resolve(lines []string, cur contents.Position, sel *selection.Selection) string {
	if text, ok := selectedText(lines, sel); ok {
		return text
	}
	if len(lines) == 0 {
		return ""
	}

	line := clampLine(cur.Y, len(lines))
	if block, ok := bracketBlock(lines, line); ok {
		return block
	}
	return lines[line]
}

// IsOpenLine は行が単独の "(" かどうかを返す
func IsOpenLine(line string) bool {
	return strings.TrimSpace(line) == openBracket
}

// IsCloseLine は行が単独の ")" かどうかを返す
func IsCloseLine(line string) bool {
	return strings.TrimSpace(line) == closeBracket
}

// bracketBlock はカーソル行 line を囲むブロックを組み立てる
func bracketBlock(lines []string, line int) (string, bool) {
	start, depth, found := scanBackward(lines, line)
	if !found {
		return "", false
	}

	var body []string
	for i := start; i < len(lines); i++ {
		if i >= line {
			if IsCloseLine(lines[i]) {
				depth--
			} else if IsOpenLine(lines[i]) {
				depth++
			}
			if depth == 0 {
				return strings.Join(body, "\n"), true
			}
		}
		body = append(body, lines[i])
	}

	// 閉じ括弧が見つからないままバッファの終端に達した
	return "", false
}

// scanBackward はカーソル行の直前から行0まで遡る。
// 単独の ")" は未対応の閉じ括弧として数え、単独の "(" はそれがあれば相殺する。
// 相殺されなかった "(" がブロックの開始候補で、最も近いものの次の行が start になる。
// depth は受理した "(" の数。
func scanBackward(lines []string, line int) (start, depth int, found bool) {
	unmatchedClose := 0
	for i := line - 1; i >= 0; i-- {
		switch {
		case IsCloseLine(lines[i]):
			unmatchedClose++
		case IsOpenLine(lines[i]):
			if unmatchedClose > 0 {
				unmatchedClose--
				continue
			}
			if !found {
				start = i + 1
				found = true
			}
			depth++
		}
	}
	return start, depth, found
}

// selectedText は空でない選択範囲のテキストを返す
func selectedText(lines []string, sel *selection.Selection) (string, bool) {
	if sel == nil || sel.IsEmpty() {
		return "", false
	}
	text := sel.Text(lines)
	if text == "" {
		return "", false
	}
	return text, true
}

func clampLine(line, lineCount int) int {
	if line < 0 {
		return 0
	}
	if line >= lineCount {
		return lineCount - 1
	}
	return line
}
