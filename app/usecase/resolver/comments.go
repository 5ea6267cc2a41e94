package resolver

import "strings"

// RewriteLineComments は各行の "// ..." を "/* ... */" に書き換える。
// 文字列リテラル中の "//" はそのまま残す。
func RewriteLineComments(code string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = rewriteLine(line)
	}
	return strings.Join(lines, "\n")
}

func rewriteLine(line string) string {
	at := lineCommentIndex(line)
	if at < 0 {
		return line
	}
	body := strings.TrimSpace(line[at+2:])
	body = strings.ReplaceAll(body, "*/", "* /")
	if body == "" {
		return strings.TrimRight(line[:at], " \t")
	}
	return line[:at] + "/* " + body + " */"
}

// lineCommentIndex は文字列リテラルとブロックコメントの外にある "//" の位置を返す
func lineCommentIndex(line string) int {
	var quote byte
	inBlock := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case inBlock:
			if ch == '*' && i+1 < len(line) && line[i+1] == '/' {
				inBlock = false
				i++
			}
		case quote != 0:
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '/' && i+1 < len(line):
			switch line[i+1] {
			case '/':
				return i
			case '*':
				inBlock = true
				i++
			}
		}
	}
	return -1
}
