package contents

import (
	"strings"
	"sync"

	"github.com/wasya-io/les-environs/app/entity/core"
)

// Contents はテキストバッファを管理する構造体
type Contents struct {
	logger core.Logger
	mu     sync.RWMutex
	lines  []string
}

// NewContents は新しいContentsインスタンスを作成する
func NewContents(logger core.Logger) *Contents {
	return &Contents{
		logger: logger,
		lines:  make([]string, 0),
	}
}

// LoadContent はバッファに内容をロードする
func (b *Contents) LoadContent(lines []string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines = append([]string{}, lines...)
}

// LoadText は改行区切りのテキストをバッファにロードする
func (b *Contents) LoadText(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	b.LoadContent(strings.Split(text, "\n"))
}

// ReplaceText は編集によってテキスト全体が置き換わったときに使用する
func (b *Contents) ReplaceText(text string) {
	b.LoadText(text)

	if b.logger != nil {
		b.logger.Log("contents", "buffer replaced")
	}
}

// GetContentLine は指定行の内容を取得する
func (b *Contents) GetContentLine(lineNum int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if lineNum >= 0 && lineNum < len(b.lines) {
		return b.lines[lineNum]
	}
	return ""
}

// GetAllLines はバッファの全内容を[]string形式で取得する
func (b *Contents) GetAllLines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return append([]string{}, b.lines...)
}

// GetText はバッファの全内容を改行で連結して返す
func (b *Contents) GetText() string {
	return strings.Join(b.GetAllLines(), "\n")
}

// GetLineCount は行数を返す
func (b *Contents) GetLineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.lines)
}

// Initialize はバッファを空の1行にリセットする
func (b *Contents) Initialize() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lines = []string{""}
}
