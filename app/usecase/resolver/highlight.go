package resolver

// MatchingOpen は line が単独の ")" のとき、対応する単独の "(" の行を返す。
// 対応する行が無い場合や line が閉じ括弧でない場合は false を返す。
func MatchingOpen(lines []string, line int) (int, bool) {
	if line < 0 || line >= len(lines) || !IsCloseLine(lines[line]) {
		return 0, false
	}

	balance := 1
	for i := line - 1; i >= 0; i-- {
		switch {
		case IsCloseLine(lines[i]):
			balance++
		case IsOpenLine(lines[i]):
			balance--
		}
		if balance == 0 {
			return i, true
		}
	}
	return 0, false
}
