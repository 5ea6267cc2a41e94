// interpreter パッケージは解決したコードを外部のインタプリタへ送信する
package interpreter

import (
	"context"
	"errors"
)

// ErrClosed は終了済みのインタプリタへ送信したときのエラー
var ErrClosed = errors.New("interpreter is closed")

// Interpreter はコードの送信先
type Interpreter interface {
	// Interpret は code を1回の評価として送信する。評価結果は待たない
	Interpret(ctx context.Context, code string) error
	Close() error
}

// Starter は最初の送信までプロセスを起動しない Interpreter
type Starter interface {
	Started() bool
}

// OutputFunc はインタプリタの出力1行ごとに呼ばれる
type OutputFunc func(source, line string)
