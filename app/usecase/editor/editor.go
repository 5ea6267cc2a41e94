package editor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"
	"time"

	"github.com/wasya-io/les-environs/app/boundary/console"
	"github.com/wasya-io/les-environs/app/boundary/interpreter"
	"github.com/wasya-io/les-environs/app/config"
	"github.com/wasya-io/les-environs/app/entity/core"
	"github.com/wasya-io/les-environs/app/entity/event"
	"github.com/wasya-io/les-environs/app/entity/session"
	"github.com/wasya-io/les-environs/app/usecase/controller"
)

// Server はエディタと接続して動くフロントエンド（LSP サーバーなど）
type Server interface {
	Run() error
	OnShutdown(fn func())
}

// Editor はライブコーディング環境の状態を管理する構造体
// インタプリタ、履歴、イベントバスの後始末をまとめて持つ
type Editor struct {
	controller   *controller.Controller
	console      *console.Console
	config       *config.Config
	interpreters map[session.Kind]interpreter.Interpreter
	history      io.Closer
	cleanupOnce  sync.Once
	cleanupChan  chan struct{}
	stopOnce     sync.Once
	logger       core.Logger
	eventBus     *event.Bus
	unsubscribe  []func()
}

// New は新しいEditorインスタンスを作成する
// handleSignals が true のとき SIGINT / SIGTERM で後始末して終了する
func New(
	handleSignals bool,
	conf *config.Config,
	logger core.Logger,
	c *controller.Controller,
	cons *console.Console,
	interpreters map[session.Kind]interpreter.Interpreter,
	history io.Closer,
	eventBus *event.Bus,
) *Editor {
	e := &Editor{
		controller:   c,
		console:      cons,
		config:       conf,
		interpreters: interpreters,
		history:      history,
		cleanupChan:  make(chan struct{}),
		logger:       logger,
		eventBus:     eventBus,
	}

	if eventBus != nil {
		if cons != nil {
			e.unsubscribe = append(e.unsubscribe, eventBus.Subscribe(cons))
		}
		e.unsubscribe = append(e.unsubscribe, eventBus.Subscribe(
			event.NewSingleTypeHandler(event.TypeQuit, e.handleQuit),
		))
		eventBus.SetDefaultHandler(event.NewTypedHandler(e.handleUnhandled))
	}

	if handleSignals {
		go e.setupCleanupHandler()
	}

	return e
}

// Controller はエディタが使うコントローラーを返す
func (e *Editor) Controller() *controller.Controller {
	return e.controller
}

// Console はエディタのコンソールを返す
func (e *Editor) Console() *console.Console {
	return e.console
}

// Bus はエディタのイベントバスを返す
func (e *Editor) Bus() *event.Bus {
	return e.eventBus
}

// Logger はエディタのロガーを返す
func (e *Editor) Logger() core.Logger {
	return e.logger
}

// setupCleanupHandler はクリーンアップハンドラをセットアップする
func (e *Editor) setupCleanupHandler() {
	defer func() {
		if r := recover(); r != nil {
			// パニック時もインタプリタを止める
			e.Cleanup()
			fmt.Fprintf(os.Stderr, "Editor panic: %v\n", r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
		e.Cleanup()
		os.Exit(0)
	case <-e.cleanupChan:
		return
	}
}

// handleQuit は終了イベントを受けてインタプリタを止める
func (e *Editor) handleQuit(event.Event) (bool, error) {
	e.stopInterpreters()
	return true, nil
}

// handleUnhandled は購読者のいないイベントを記録する
func (e *Editor) handleUnhandled(ev event.Event) (bool, error) {
	e.log("event", fmt.Sprintf("Unhandled event: %s", ev.Type))
	return true, nil
}

func (e *Editor) stopInterpreters() {
	e.stopOnce.Do(func() {
		for kind, interp := range e.interpreters {
			if interp == nil {
				continue
			}
			if err := interp.Close(); err != nil {
				e.log("error", fmt.Sprintf("Failed to stop %s interpreter: %v", kind, err))
			}
		}
	})
}

// Cleanup は終了時の後処理を行う
func (e *Editor) Cleanup() {
	e.cleanupOnce.Do(func() {
		e.stopInterpreters()

		// 残っている出力を配送してからバスを閉じる
		if e.eventBus != nil {
			e.eventBus.Sync()
			for _, unsubscribe := range e.unsubscribe {
				unsubscribe()
			}
			e.eventBus.Shutdown()
		}

		if e.history != nil {
			if err := e.history.Close(); err != nil {
				e.log("error", fmt.Sprintf("Failed to close history: %v", err))
			}
		}

		e.log("system", "Editor shutting down")
		// 最後にログをフラッシュする
		if e.logger != nil {
			e.logger.Flush()
		}

		close(e.cleanupChan)
	})
}

// Serve はフロントエンドのサーバーを動かす。shutdown 要求でインタプリタを止め、
// サーバーが戻ったら後始末をする
func (e *Editor) Serve(s Server) error {
	defer e.Cleanup()

	e.log("system", "Editor starting")

	s.OnShutdown(func() {
		if e.eventBus != nil {
			e.eventBus.Publish(event.NewQuitEvent())
		}
	})

	if err := s.Run(); err != nil {
		e.log("error", fmt.Sprintf("Server error: %v", err))
		return err
	}
	return nil
}

// WaitOutput はインタプリタの出力がコンソールに届くのを待つ
// 設定の OutputWaitMS だけ待ち、ctx が終われば早めに戻る
func (e *Editor) WaitOutput(ctx context.Context) {
	wait := time.Duration(0)
	if e.config != nil {
		wait = time.Duration(e.config.OutputWaitMS) * time.Millisecond
	}

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
	}

	if e.eventBus != nil {
		e.eventBus.Sync()
	}
}

func (e *Editor) log(messageType, message string) {
	if e.logger != nil {
		e.logger.Log(messageType, message)
	}
}
