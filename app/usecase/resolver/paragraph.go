package resolver

import (
	"strings"

	"github.com/wasya-io/les-environs/app/entity/contents"
	"github.com/wasya-io/les-environs/app/entity/selection"
)

// ResolveParagraph は空行で区切られた段落を実行単位とする（スケッチ用エディタの規約）。
// 選択範囲があればそれを優先し、カーソル行が空行なら空文字列を返す。
func ResolveParagraph(lines []string, cur contents.Position, sel *selection.Selection) string {
	if text, ok := selectedText(lines, sel); ok {
		return text
	}
	if len(lines) == 0 {
		return ""
	}

	line := clampLine(cur.Y, len(lines))
	if isBlank(lines[line]) {
		return ""
	}

	start := line
	for start > 0 && !isBlank(lines[start-1]) {
		start--
	}
	end := line
	for end < len(lines)-1 && !isBlank(lines[end+1]) {
		end++
	}

	return strings.Join(lines[start:end+1], "\n")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
