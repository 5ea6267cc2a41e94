package interpreter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"

	"golang.org/x/sys/unix"
	"golang.org/x/text/encoding/charmap"

	"github.com/wasya-io/les-environs/app/entity/core"
)

const (
	maxLineSize = 1024 * 1024
	killTimeout = 2 * time.Second
)

// ProcessConfig は外部インタプリタの起動設定
type ProcessConfig struct {
	Name       string // 出力元として使う名前（"scd" など）
	Command    string
	Args       []string
	Dir        string
	Terminator string // 1回の評価の終わりを示す文字列
}

type request struct {
	code string
	done chan error
}

// Process は外部インタプリタのプロセス
// 標準入力への書き込みは1つのゴルーチンに直列化される
type Process struct {
	config  ProcessConfig
	logger  core.Logger
	output  OutputFunc
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	readers sync.WaitGroup

	requests  chan request
	quit      chan struct{}
	exited    chan struct{}
	closeOnce sync.Once
	waitErr   error
}

// Start はインタプリタを起動する
func Start(config ProcessConfig, output OutputFunc, logger core.Logger) (*Process, error) {
	cmd := exec.Command(config.Command, config.Args...)
	cmd.Dir = config.Dir
	// 子プロセスごと止められるように独立したプロセスグループにする
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, startError(config, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, startError(config, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, startError(config, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, startError(config, err)
	}

	p := &Process{
		config:   config,
		logger:   logger,
		output:   output,
		cmd:      cmd,
		stdin:    stdin,
		requests: make(chan request, 64),
		quit:     make(chan struct{}),
		exited:   make(chan struct{}),
	}

	p.readers.Add(2)
	go p.readLines(stdout)
	go p.readLines(stderr)
	go p.wait()
	go p.loop()

	p.log(fmt.Sprintf("started %s (pid %d)", config.Command, cmd.Process.Pid))
	return p, nil
}

func startError(config ProcessConfig, err error) error {
	return core.NewStructuredError(core.ErrorCategoryInterpreter, "failed to start interpreter", err).
		WithContext("name", config.Name).
		WithContext("command", config.Command)
}

// Interpret は code に区切り文字を付けて標準入力へ書き込む
func (p *Process) Interpret(ctx context.Context, code string) error {
	req := request{
		code: code,
		done: make(chan error, 1),
	}

	select {
	case <-p.quit:
		return ErrClosed
	case <-p.exited:
		return ErrClosed
	default:
	}

	select {
	case p.requests <- req:
	case <-p.quit:
		return ErrClosed
	case <-p.exited:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.done:
		return err
	case <-p.quit:
	case <-p.exited:
	case <-ctx.Done():
		return ctx.Err()
	}

	// 終了と同時に書き込みが済んでいればその結果を返す
	select {
	case err := <-req.done:
		return err
	default:
		return ErrClosed
	}
}

// loop は書き込み要求を順番に処理する
// 終了時に残っている要求には ErrClosed を返す
func (p *Process) loop() {
	defer p.drain()

	for {
		select {
		case req := <-p.requests:
			req.done <- p.write(req.code)
		case <-p.quit:
			return
		case <-p.exited:
			return
		}
	}
}

func (p *Process) drain() {
	for {
		select {
		case req := <-p.requests:
			req.done <- ErrClosed
		default:
			return
		}
	}
}

func (p *Process) write(code string) error {
	if _, err := io.WriteString(p.stdin, code+p.config.Terminator); err != nil {
		return core.NewStructuredError(core.ErrorCategoryInterpreter, "failed to submit code", err).
			WithContext("name", p.config.Name)
	}
	p.log(fmt.Sprintf("submitted %d bytes", len(code)))
	return nil
}

// readLines は出力を1行ずつ OutputFunc に渡す
func (p *Process) readLines(r io.Reader) {
	defer p.readers.Done()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if p.output != nil {
			p.output(p.config.Name, decodeLine(scanner.Bytes()))
		}
	}
}

// wait は出力を読み切ってからプロセスの終了を待つ
func (p *Process) wait() {
	p.readers.Wait()
	p.waitErr = p.cmd.Wait()
	p.log(fmt.Sprintf("exited: %v", p.waitErr))
	close(p.exited)
}

// Close はプロセスグループに SIGTERM を送り、終了しなければ SIGKILL を送る
func (p *Process) Close() error {
	p.closeOnce.Do(func() {
		close(p.quit)
		p.stdin.Close()

		pgid := p.cmd.Process.Pid
		select {
		case <-p.exited:
			return
		default:
		}

		if err := unix.Kill(-pgid, unix.SIGTERM); err != nil && err != unix.ESRCH {
			p.log(fmt.Sprintf("SIGTERM failed: %v", err))
		}

		select {
		case <-p.exited:
		case <-time.After(killTimeout):
			unix.Kill(-pgid, unix.SIGKILL)
			<-p.exited
		}
	})
	return nil
}

// Exited はプロセスが終了すると閉じられるチャネルを返す
func (p *Process) Exited() <-chan struct{} {
	return p.exited
}

func (p *Process) log(message string) {
	if p.logger != nil {
		p.logger.Log("interpreter", fmt.Sprintf("[%s] %s", p.config.Name, message))
	}
}

// decodeLine は UTF-8 でない出力を Latin-1 として読む
func decodeLine(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(decoded)
}
