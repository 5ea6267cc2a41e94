package contents

// Row は1行のテキストデータとルーン単位のアクセスを提供する
type Row struct {
	chars     string
	runeSlice []rune
}

// NewRow は新しいRow構造体を作成する
func NewRow(chars string) *Row {
	return &Row{
		chars:     chars,
		runeSlice: []rune(chars),
	}
}

// GetContent は行の内容を文字列として返す
func (r *Row) GetContent() string {
	return r.chars
}

// GetRuneCount は行の文字数を返す
func (r *Row) GetRuneCount() int {
	return len(r.runeSlice)
}

// ClampOffset は列オフセットを 0..文字数 の範囲に収める
func (r *Row) ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(r.runeSlice) {
		return len(r.runeSlice)
	}
	return offset
}

// Slice は [from, to) の範囲の文字列を返す。範囲は行内に収められる
func (r *Row) Slice(from, to int) string {
	from = r.ClampOffset(from)
	to = r.ClampOffset(to)
	if from >= to {
		return ""
	}
	return string(r.runeSlice[from:to])
}
