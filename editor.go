package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/tliron/commonlog"

	"github.com/wasya-io/les-environs/app/boundary/console"
	"github.com/wasya-io/les-environs/app/boundary/filemanager"
	"github.com/wasya-io/les-environs/app/boundary/history"
	"github.com/wasya-io/les-environs/app/boundary/interpreter"
	"github.com/wasya-io/les-environs/app/boundary/logger"
	"github.com/wasya-io/les-environs/app/boundary/manifest"
	"github.com/wasya-io/les-environs/app/boundary/writer"
	"github.com/wasya-io/les-environs/app/config"
	"github.com/wasya-io/les-environs/app/entity/core"
	"github.com/wasya-io/les-environs/app/entity/event"
	"github.com/wasya-io/les-environs/app/entity/session"
	"github.com/wasya-io/les-environs/app/usecase/controller"
	"github.com/wasya-io/les-environs/app/usecase/editor"
	"github.com/wasya-io/les-environs/app/usecase/keymap"
	"github.com/wasya-io/les-environs/app/usecase/parser"
)

// editorOptions はサブコマンドごとに変わる組み立て方
type editorOptions struct {
	console writer.ConsoleWriter // nil なら出力しない
	history bool                 // 評価履歴を SQLite に残すか
	signals bool
}

// NewEditor は設定とマニフェストからエディタを組み立てる
func NewEditor(conf *config.Config, opts editorOptions) (*editor.Editor, *manifest.Manifest, error) {
	log := newLogger(conf)

	// イベントバスの初期化
	eventBus := event.NewBus()

	m, err := loadManifest(conf.ProjectDir)
	if err != nil {
		eventBus.Shutdown()
		return nil, nil, err
	}

	fileManager := filemanager.NewFileManager(log)
	ws, err := fileManager.OpenWorkspace(m)
	if err != nil {
		eventBus.Shutdown()
		return nil, nil, err
	}

	km := keymap.New(parser.NewStandardChordParser(log))
	if err := km.Apply(m.Keymap); err != nil {
		eventBus.Shutdown()
		return nil, nil, fmt.Errorf("%s: %w", manifest.FileName, err)
	}

	// インタプリタの出力はコンソールイベントとしてバスに流す
	output := func(source, line string) {
		eventBus.Publish(event.NewConsoleEvent(source, line))
	}
	interpreters := newInterpreters(conf, m, output, log)

	var store *history.Store
	var recorder history.Recorder
	if opts.history {
		store, err = history.Open(conf.HistoryDB)
		if err != nil {
			// 履歴が使えなくても評価はできる
			log.Log("error", fmt.Sprintf("Failed to open history: %v", err))
			store = nil
		} else {
			recorder = store
		}
	}

	c := controller.NewController(ws, interpreters, recorder, km, log, eventBus)
	c.SetRewriteComments(conf.RewriteComments)

	cons := console.New(opts.console, conf.ConsoleScrollback, log)

	var closer io.Closer
	if store != nil {
		closer = store
	}

	ed := editor.New(opts.signals, conf, log, c, cons, interpreters, closer, eventBus)
	return ed, m, nil
}

func newLogger(conf *config.Config) *logger.Logger {
	return logger.New(conf.DebugMode, conf.LogDir)
}

// loadManifest はプロジェクトのマニフェストを探す。見つからなければ空のマニフェストを使う
func loadManifest(dir string) (*manifest.Manifest, error) {
	m, err := manifest.FindAndLoad(dir)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return manifest.Empty(dir), nil
	}
	return m, nil
}

// newInterpreters は種類ごとのインタプリタを用意する。プロセスは最初の送信で起動する
// マニフェストの設定が環境変数より優先される
func newInterpreters(conf *config.Config, m *manifest.Manifest, output interpreter.OutputFunc, log core.Logger) map[session.Kind]interpreter.Interpreter {
	interpreters := make(map[session.Kind]interpreter.Interpreter)

	scd := m.Interpreter[string(session.KindSuperCollider)]
	scdConfig := interpreter.ProcessConfig{
		Name:       string(session.KindSuperCollider),
		Command:    conf.SclangPath,
		Args:       conf.SclangArgs,
		Dir:        m.Dir,
		Terminator: scd.Terminator,
	}
	if scd.Command != "" {
		scdConfig.Command = scd.Command
		scdConfig.Args = scd.Args
	}
	interpreters[session.KindSuperCollider] = interpreter.NewLazy(scdConfig, output, log)

	js := m.Interpreter[string(session.KindJavaScript)]
	jsConfig := interpreter.ProcessConfig{
		Name:       string(session.KindJavaScript),
		Command:    conf.JSInterpreter,
		Dir:        m.Dir,
		Terminator: js.Terminator,
	}
	if js.Command != "" {
		jsConfig.Command = js.Command
		jsConfig.Args = js.Args
	}
	if jsConfig.Command != "" {
		interpreters[session.KindJavaScript] = interpreter.NewLazy(jsConfig, output, log)
	}

	return interpreters
}

// configureLSPLog は LSP 用の commonlog を設定する。標準出力はプロトコルに使うのでファイルへ書く
func configureLSPLog(conf *config.Config) {
	if !conf.DebugMode {
		commonlog.Configure(0, nil)
		return
	}
	path := filepath.Join(conf.LogDir, "lsp.log")
	commonlog.Configure(2, &path)
}
