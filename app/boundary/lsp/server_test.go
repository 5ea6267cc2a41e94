package lsp

import (
	"errors"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/wasya-io/les-environs/app/boundary/interpreter"
	mock_interpreter "github.com/wasya-io/les-environs/app/boundary/interpreter/mock"
	"github.com/wasya-io/les-environs/app/entity/event"
	"github.com/wasya-io/les-environs/app/entity/session"
	"github.com/wasya-io/les-environs/app/entity/workspace"
	"github.com/wasya-io/les-environs/app/usecase/controller"
	"github.com/wasya-io/les-environs/app/usecase/keymap"
	"github.com/wasya-io/les-environs/app/usecase/parser"
)

const synthURI = "file:///sketch/synth.scd"

// notifications は送られた通知を記録する
type notifications struct {
	mu       sync.Mutex
	messages []protocol.LogMessageParams
}

func (n *notifications) notify(method string, params any) {
	if method != protocol.ServerWindowLogMessage {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, params.(protocol.LogMessageParams))
}

func (n *notifications) list() []protocol.LogMessageParams {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]protocol.LogMessageParams{}, n.messages...)
}

type testServer struct {
	server *Server
	scd    *mock_interpreter.MockInterpreter
	bus    *event.Bus
	ctx    *glsp.Context
	notes  *notifications
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctrl := gomock.NewController(t)
	scd := mock_interpreter.NewMockInterpreter(ctrl)

	bus := event.NewBus()
	t.Cleanup(bus.Shutdown)

	c := controller.NewController(
		workspace.New(),
		map[session.Kind]interpreter.Interpreter{session.KindSuperCollider: scd},
		nil,
		keymap.New(parser.NewStandardChordParser(nil)),
		nil,
		bus,
	)

	notes := &notifications{}
	ts := &testServer{
		server: NewServer(c, bus, nil, "test"),
		scd:    scd,
		bus:    bus,
		ctx:    &glsp.Context{Notify: notes.notify},
		notes:  notes,
	}
	return ts
}

func (ts *testServer) open(t *testing.T, uri, text string) {
	t.Helper()
	err := ts.server.textDocumentDidOpen(ts.ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "supercollider", Version: 1, Text: text},
	})
	if err != nil {
		t.Fatalf("didOpen error: %v", err)
	}
}

func (ts *testServer) execute(command string, args ...any) (any, error) {
	return ts.server.workspaceExecuteCommand(ts.ctx, &protocol.ExecuteCommandParams{
		Command:   command,
		Arguments: args,
	})
}

func TestInitializeAdvertisesCommands(t *testing.T) {
	ts := newTestServer(t)
	result, err := ts.server.initialize(ts.ctx, &protocol.InitializeParams{})
	if err != nil {
		t.Fatalf("initialize error: %v", err)
	}
	init := result.(protocol.InitializeResult)
	if init.Capabilities.ExecuteCommandProvider == nil || len(init.Capabilities.ExecuteCommandProvider.Commands) != len(Commands) {
		t.Errorf("ExecuteCommandProvider = %+v", init.Capabilities.ExecuteCommandProvider)
	}
	if init.ServerInfo == nil || init.ServerInfo.Name != "les-environs" {
		t.Errorf("ServerInfo = %+v", init.ServerInfo)
	}
}

func TestExecuteRunBlock(t *testing.T) {
	ts := newTestServer(t)
	ts.open(t, synthURI, "(\nfoo();\nbar();\n)")

	ts.scd.EXPECT().Interpret(gomock.Any(), "foo();\nbar();").Return(nil)

	if _, err := ts.execute(CommandRunBlock, synthURI, float64(2), float64(0)); err != nil {
		t.Fatalf("runBlock error: %v", err)
	}
}

func TestExecuteResolveFollowsChanges(t *testing.T) {
	ts := newTestServer(t)
	ts.open(t, synthURI, "x = 1;")

	got, err := ts.execute(CommandResolve, synthURI, float64(0), float64(0))
	if err != nil || got != "x = 1;" {
		t.Fatalf("resolve = %v, %v", got, err)
	}

	err = ts.server.textDocumentDidChange(ts.ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: synthURI},
			Version:                2,
		},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "a\nb\nc"}},
	})
	if err != nil {
		t.Fatalf("didChange error: %v", err)
	}

	got, err = ts.execute(CommandResolve, synthURI, float64(0), float64(0), float64(0), float64(0), float64(1), float64(1))
	if err != nil || got != "a\nb" {
		t.Errorf("resolve with selection = %v, %v", got, err)
	}
}

func TestExecuteKeyAndStop(t *testing.T) {
	ts := newTestServer(t)
	ts.open(t, synthURI, "(\nfoo();\n)\nbar();")

	gomock.InOrder(
		ts.scd.EXPECT().Interpret(gomock.Any(), "bar();").Return(nil),
		ts.scd.EXPECT().Interpret(gomock.Any(), controller.StopCode).Return(nil),
	)

	if _, err := ts.execute(CommandKey, "Shift-Enter", synthURI, float64(3), float64(0)); err != nil {
		t.Fatalf("key error: %v", err)
	}
	if _, err := ts.execute(CommandStop); err != nil {
		t.Fatalf("stop error: %v", err)
	}
}

func TestExecuteErrors(t *testing.T) {
	ts := newTestServer(t)

	if _, err := ts.execute(CommandRunBlock, "file:///closed.scd", float64(0), float64(0)); !errors.Is(err, ErrUnknownDocument) {
		t.Errorf("runBlock on closed document error = %v", err)
	}
	ts.open(t, synthURI, "x")
	if _, err := ts.execute("les-environs.save", synthURI, float64(0), float64(0)); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("unknown command error = %v", err)
	}
	if _, err := ts.execute(CommandKey); !errors.Is(err, ErrInvalidArguments) {
		t.Errorf("key without arguments error = %v", err)
	}
}

func TestExecuteControl(t *testing.T) {
	ts := newTestServer(t)
	ts.open(t, synthURI, "")
	ts.open(t, "file:///sketch/sketch.js", "")

	got, err := ts.execute(CommandControl, "ls")
	if err != nil || got != "synth.scd, sketch.js" {
		t.Errorf("control ls = %v, %v", got, err)
	}

	got, err = ts.execute(CommandControl, "curtain")
	if err != nil || got != controller.InvalidControlMessage {
		t.Errorf("control curtain = %v, %v", got, err)
	}

	messages := ts.notes.list()
	if len(messages) != 2 || messages[1].Message != "Invalid command." {
		t.Errorf("log messages = %+v", messages)
	}
}

func TestDidOpenIgnoresOtherFiles(t *testing.T) {
	ts := newTestServer(t)
	ts.open(t, "file:///sketch/style.css", "body {}")
	if _, ok := ts.server.document("file:///sketch/style.css"); ok {
		t.Error("css documents should not become sessions")
	}
}

func TestDidOpenKeepsSameNamedFilesApart(t *testing.T) {
	ts := newTestServer(t)
	ts.open(t, "file:///a/synth.scd", "a-only;")
	ts.open(t, "file:///b/synth.scd", "b-only;")

	got, err := ts.execute(CommandResolve, "file:///a/synth.scd", float64(0), float64(0))
	if err != nil || got != "a-only;" {
		t.Errorf("resolve a = %v, %v", got, err)
	}
	got, err = ts.execute(CommandResolve, "file:///b/synth.scd", float64(0), float64(0))
	if err != nil || got != "b-only;" {
		t.Errorf("resolve b = %v, %v", got, err)
	}

	// ワークスペースには最初に開いた方が残る
	sess, ok := ts.server.controller.Workspace().Get("synth.scd")
	if !ok || sess.Path != "/a/synth.scd" {
		t.Errorf("workspace session = %+v", sess)
	}
}

func TestDidOpenReusesWorkspaceSession(t *testing.T) {
	ts := newTestServer(t)
	ws := ts.server.controller.Workspace()

	ts.open(t, synthURI, "first;")
	before, _ := ws.Get("synth.scd")
	ts.open(t, synthURI, "second;")
	after, _ := ws.Get("synth.scd")

	if before != after {
		t.Error("reopening the same file should keep its session")
	}
	if doc, _ := ts.server.document(synthURI); doc != after || doc.CurrentLine() != "second;" {
		t.Errorf("document = %+v", doc)
	}
}

func TestDidCloseForgetsDocument(t *testing.T) {
	ts := newTestServer(t)
	ts.open(t, synthURI, "x")
	ts.server.textDocumentDidClose(ts.ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: synthURI},
	})
	if _, ok := ts.server.document(synthURI); ok {
		t.Error("closed document still tracked")
	}
}

func TestDocumentHighlight(t *testing.T) {
	ts := newTestServer(t)
	ts.open(t, synthURI, "(\na\n(\nb\n)\n)")

	highlight := func(line int) []protocol.DocumentHighlight {
		got, err := ts.server.textDocumentDocumentHighlight(ts.ctx, &protocol.DocumentHighlightParams{
			TextDocumentPositionParams: protocol.TextDocumentPositionParams{
				TextDocument: protocol.TextDocumentIdentifier{URI: synthURI},
				Position:     protocol.Position{Line: protocol.UInteger(line)},
			},
		})
		if err != nil {
			t.Fatalf("documentHighlight error: %v", err)
		}
		return got
	}

	got := highlight(5)
	if len(got) != 1 || got[0].Range.Start.Line != 0 || got[0].Range.End.Line != 5 {
		t.Errorf("highlight(5) = %+v", got)
	}
	got = highlight(4)
	if len(got) != 1 || got[0].Range.Start.Line != 2 {
		t.Errorf("highlight(4) = %+v", got)
	}
	if got := highlight(1); got != nil {
		t.Errorf("highlight(1) = %+v, want nil", got)
	}
}

func TestConsoleForwardedAsLogMessage(t *testing.T) {
	ts := newTestServer(t)
	if _, err := ts.server.initialize(ts.ctx, &protocol.InitializeParams{}); err != nil {
		t.Fatal(err)
	}

	ts.bus.Publish(event.NewConsoleEvent("scd", "-> a Synth"))
	if err := ts.bus.Sync(); err != nil {
		t.Fatal(err)
	}

	messages := ts.notes.list()
	if len(messages) != 1 || messages[0].Message != "scd> -> a Synth" || messages[0].Type != protocol.MessageTypeLog {
		t.Errorf("log messages = %+v", messages)
	}

	// shutdown 後は転送しない
	ts.server.shutdown(ts.ctx)
	ts.bus.Publish(event.NewConsoleEvent("scd", "late"))
	ts.bus.Sync()
	if n := len(ts.notes.list()); n != 1 {
		t.Errorf("got %d messages after shutdown, want 1", n)
	}
}
