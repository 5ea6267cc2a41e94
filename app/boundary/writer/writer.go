package writer

import (
	"io"
	"sync"
)

// ConsoleWriter はコンソールの出力先
type ConsoleWriter interface {
	Write(s string) error
}

// StandardConsoleWriter は io.Writer へ書き出す ConsoleWriter
type StandardConsoleWriter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleWriter は out へ書き出す ConsoleWriter を作成する
func NewConsoleWriter(out io.Writer) *StandardConsoleWriter {
	return &StandardConsoleWriter{out: out}
}

func (w *StandardConsoleWriter) Write(s string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, err := io.WriteString(w.out, s)
	return err
}

// DiscardConsoleWriter は何も書き出さない ConsoleWriter
// LSP モードでは標準出力がプロトコルに使われるため、これを使う
type DiscardConsoleWriter struct{}

func (DiscardConsoleWriter) Write(string) error {
	return nil
}
