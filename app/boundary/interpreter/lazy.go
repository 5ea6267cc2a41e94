package interpreter

import (
	"context"
	"sync"

	"github.com/wasya-io/les-environs/app/entity/core"
)

// Lazy は最初の送信時にプロセスを起動する Interpreter
// プロセスが終了していれば次の送信で起動し直す
type Lazy struct {
	mu      sync.Mutex
	config  ProcessConfig
	output  OutputFunc
	logger  core.Logger
	process *Process
	closed  bool
}

// NewLazy は新しい Lazy を作成する。この時点ではプロセスを起動しない
func NewLazy(config ProcessConfig, output OutputFunc, logger core.Logger) *Lazy {
	return &Lazy{
		config: config,
		output: output,
		logger: logger,
	}
}

// Interpret は必要ならプロセスを起動してから code を送信する
func (l *Lazy) Interpret(ctx context.Context, code string) error {
	p, err := l.ensure()
	if err != nil {
		return err
	}
	return p.Interpret(ctx, code)
}

func (l *Lazy) ensure() (*Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil, ErrClosed
	}
	if l.process != nil {
		select {
		case <-l.process.Exited():
			l.process = nil
		default:
			return l.process, nil
		}
	}

	p, err := Start(l.config, l.output, l.logger)
	if err != nil {
		return nil, err
	}
	l.process = p
	return p, nil
}

// Started はプロセスが動いているかを返す。終了したプロセスは数えない
func (l *Lazy) Started() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.process == nil {
		return false
	}
	select {
	case <-l.process.Exited():
		return false
	default:
		return true
	}
}

// Close は動いているプロセスを止め、以後の送信を拒否する
func (l *Lazy) Close() error {
	l.mu.Lock()
	p := l.process
	l.process = nil
	l.closed = true
	l.mu.Unlock()

	if p != nil {
		return p.Close()
	}
	return nil
}
