// lsp パッケージはエディタとの間を Language Server Protocol でつなぐ
// ドキュメントの同期とキー操作の受け付けを行い、コンソール出力を logMessage で返す
package lsp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/wasya-io/les-environs/app/entity/contents"
	"github.com/wasya-io/les-environs/app/entity/core"
	"github.com/wasya-io/les-environs/app/entity/event"
	"github.com/wasya-io/les-environs/app/entity/session"
	"github.com/wasya-io/les-environs/app/usecase/controller"
	"github.com/wasya-io/les-environs/app/usecase/keymap"
	"github.com/wasya-io/les-environs/app/usecase/resolver"

	_ "github.com/tliron/commonlog/simple"
)

const lspName = "les-environs"

// インタプリタが応答しなくてもリクエストを抱え込まない
const commandTimeout = 10 * time.Second

// executeCommand で受け付けるコマンド
const (
	CommandRunBlock = "les-environs.runBlock"
	CommandRunLine  = "les-environs.runLine"
	CommandRunAll   = "les-environs.runAll"
	CommandStop     = "les-environs.stop"
	CommandResolve  = "les-environs.resolve"
	CommandKey      = "les-environs.key"
	CommandControl  = "les-environs.control"
)

var Commands = []string{
	CommandRunBlock, CommandRunLine, CommandRunAll, CommandStop,
	CommandResolve, CommandKey, CommandControl,
}

var (
	ErrUnknownDocument = errors.New("document is not open")
	ErrUnknownCommand  = errors.New("unknown command")
)

// Server は LSP のハンドラをまとめたもの
type Server struct {
	controller *controller.Controller
	logger     core.Logger
	log        commonlog.Logger

	mu   sync.Mutex
	docs map[protocol.DocumentUri]*session.Session

	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	onShutdown  func()
	unsubscribe func()

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

// NewServer は新しい Server を作成し、バスのコンソール出力を購読する
func NewServer(c *controller.Controller, bus *event.Bus, logger core.Logger, version string) *Server {
	s := &Server{
		controller: c,
		logger:     logger,
		log:        commonlog.GetLogger("les-environs.lsp"),
		docs:       make(map[protocol.DocumentUri]*session.Session),
		version:    version,
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentDocumentHighlight: s.textDocumentDocumentHighlight,
		WorkspaceExecuteCommand:       s.workspaceExecuteCommand,
	}
	s.server = glspserver.NewServer(&s.handler, lspName, false)

	if bus != nil {
		s.unsubscribe = bus.Subscribe(event.NewSingleTypeHandler(event.TypeConsole, s.forwardConsole))
	}
	return s
}

// OnShutdown は shutdown 要求を受けたときに呼ぶ関数を設定する
func (s *Server) OnShutdown(fn func()) {
	s.onShutdown = fn
}

// Run は標準入出力でサーバーを動かす。クライアントが切断するまで戻らない
func (s *Server) Run() error {
	return s.server.RunStdio()
}

// --- ライフサイクル ---

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.log.Info("initializing")
	s.setNotify(ctx.Notify)

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}
	capabilities.DocumentHighlightProvider = true
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: Commands,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.setNotify(ctx.Notify)
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	if s.onShutdown != nil {
		s.onShutdown()
	}
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

func (s *Server) setNotify(notify glsp.NotifyFunc) {
	if notify == nil {
		return
	}
	s.notifyMu.Lock()
	s.notify = notify
	s.notifyMu.Unlock()
}

// --- ドキュメント同期 ---

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	name := fileName(uri)
	kind, ok := session.KindOf(name)
	if !ok {
		// scd と js 以外は扱わない
		return nil
	}

	// 同名でも別ディレクトリのファイルは別のセッションにする
	docPath := documentPath(uri)
	ws := s.controller.Workspace()
	sess, found := ws.Get(name)
	if found && sess.Path == docPath {
		sess.Contents.LoadText(params.TextDocument.Text)
	} else {
		buffer := contents.NewContents(s.logger)
		buffer.LoadText(params.TextDocument.Text)
		sess = session.New(name, kind, buffer)
		sess.Path = docPath
		if !found {
			if err := ws.Add(sess); err != nil {
				return err
			}
		}
	}

	s.mu.Lock()
	s.docs[uri] = sess
	s.mu.Unlock()

	s.logf("opened %s as %s", uri, sess.ID)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	sess, ok := s.document(params.TextDocument.URI)
	if !ok || len(params.ContentChanges) == 0 {
		return nil
	}

	// 全体同期なので最後の変更が文書全体
	last := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := last.(protocol.TextDocumentContentChangeEventWhole); ok {
		sess.Contents.ReplaceText(whole.Text)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.docs, params.TextDocument.URI)
	s.mu.Unlock()
	return nil
}

func (s *Server) document(uri protocol.DocumentUri) (*session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.docs[uri]
	return sess, ok
}

// --- 機能 ---

// textDocumentDocumentHighlight はカーソルが単独の ")" 行にあるとき、対応する "(" 行からのブロックを返す
func (s *Server) textDocumentDocumentHighlight(ctx *glsp.Context, params *protocol.DocumentHighlightParams) ([]protocol.DocumentHighlight, error) {
	sess, ok := s.document(params.TextDocument.URI)
	if !ok || sess.Kind != session.KindSuperCollider {
		return nil, nil
	}

	line := int(params.Position.Line)
	open, ok := resolver.MatchingOpen(sess.Lines(), line)
	if !ok {
		return nil, nil
	}

	kind := protocol.DocumentHighlightKindText
	return []protocol.DocumentHighlight{{
		Range: protocol.Range{
			Start: protocol.Position{Line: protocol.UInteger(open), Character: 0},
			End:   protocol.Position{Line: protocol.UInteger(line), Character: 0},
		},
		Kind: &kind,
	}}, nil
}

func (s *Server) workspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	s.setNotify(ctx.Notify)
	execCtx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	result, err := s.execute(execCtx, params.Command, params.Arguments)
	if err != nil {
		s.log.Errorf("%s: %v", params.Command, err)
		s.logf("%s failed: %v", params.Command, err)
	}
	return result, err
}

// execute はコマンドを実行する。resolve と control は結果の文字列を返す
func (s *Server) execute(ctx context.Context, command string, args []any) (any, error) {
	switch command {
	case CommandStop:
		return nil, s.controller.HandleStop(ctx)
	case CommandControl:
		return s.control(args)
	case CommandKey:
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: missing key", ErrInvalidArguments)
		}
		chord, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: key must be a string", ErrInvalidArguments)
		}
		sess, err := s.sessionAt(args[1:])
		if err != nil {
			return nil, err
		}
		return nil, s.controller.HandleKey(ctx, chord, sess)
	}

	sess, err := s.sessionAt(args)
	if err != nil {
		return nil, err
	}

	switch command {
	case CommandRunBlock:
		return nil, s.controller.HandleAction(ctx, keymap.ActionRunBlock, sess)
	case CommandRunLine:
		return nil, s.controller.HandleAction(ctx, keymap.ActionRunLine, sess)
	case CommandRunAll:
		return nil, s.controller.HandleAction(ctx, keymap.ActionRunAll, sess)
	case CommandResolve:
		return s.controller.Resolve(sess), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, command)
}

// control はアプリ操作コマンドを実行し、表示するメッセージを返す
func (s *Server) control(args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: want 1 argument", ErrInvalidArguments)
	}
	input, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: input must be a string", ErrInvalidArguments)
	}

	message, err := s.controller.HandleControl(input)
	if errors.Is(err, controller.ErrInvalidControl) {
		message, err = controller.InvalidControlMessage, nil
	}
	if err != nil {
		return nil, err
	}
	if message != "" {
		s.sendLogMessage(protocol.MessageTypeInfo, message)
	}
	return message, nil
}

// sessionAt は引数の位置にカーソルを置いたセッションのスナップショットを返す
func (s *Server) sessionAt(args []any) (*session.Session, error) {
	loc, err := parseLocation(args)
	if err != nil {
		return nil, err
	}

	sess, ok := s.document(protocol.DocumentUri(loc.uri))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, loc.uri)
	}

	snap := sess.Snapshot()
	lines := snap.Lines()
	snap.MoveCursor(loc.line, position(lines, loc.line, loc.character).X)
	if sel := loc.toSelection(lines); sel != nil {
		snap.Select(sel.Anchor, sel.Head)
	}
	return snap, nil
}

// --- 通知 ---

// forwardConsole はコンソールの1行を window/logMessage で送る
func (s *Server) forwardConsole(e event.Event) (bool, error) {
	payload, ok := e.Payload.(event.ConsoleEvent)
	if !ok {
		return false, fmt.Errorf("unexpected console payload: %T", e.Payload)
	}
	return s.sendLogMessage(protocol.MessageTypeLog, fmt.Sprintf("%s> %s", payload.Source, payload.Line)), nil
}

func (s *Server) sendLogMessage(messageType protocol.MessageType, message string) bool {
	s.notifyMu.Lock()
	notify := s.notify
	s.notifyMu.Unlock()

	if notify == nil {
		return false
	}
	notify(protocol.ServerWindowLogMessage, protocol.LogMessageParams{
		Type:    messageType,
		Message: message,
	})
	return true
}

func (s *Server) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Log("lsp", fmt.Sprintf(format, args...))
	}
}

// fileName は URI のファイル名部分を返す
func fileName(uri protocol.DocumentUri) string {
	if u, err := url.Parse(string(uri)); err == nil {
		if u.Path != "" {
			return path.Base(u.Path)
		}
		if u.Opaque != "" {
			return path.Base(u.Opaque)
		}
	}
	return path.Base(string(uri))
}

// documentPath は file URI ならファイルパスを、それ以外は URI をそのまま返す
func documentPath(uri protocol.DocumentUri) string {
	if u, err := url.Parse(string(uri)); err == nil && u.Scheme == "file" && u.Path != "" {
		return filepath.Clean(u.Path)
	}
	return string(uri)
}

func boolPtr(b bool) *bool {
	return &b
}
