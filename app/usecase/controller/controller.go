package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wasya-io/les-environs/app/boundary/history"
	"github.com/wasya-io/les-environs/app/boundary/interpreter"
	"github.com/wasya-io/les-environs/app/entity/core"
	"github.com/wasya-io/les-environs/app/entity/event"
	"github.com/wasya-io/les-environs/app/entity/session"
	"github.com/wasya-io/les-environs/app/entity/workspace"
	"github.com/wasya-io/les-environs/app/usecase/command"
	"github.com/wasya-io/les-environs/app/usecase/keymap"
	"github.com/wasya-io/les-environs/app/usecase/resolver"
)

const (
	// StopCode は scd インタプリタで再生中の音をすべて止めるコード
	StopCode = "CmdPeriod.run;"
	// InvalidControlMessage は不正なアプリ操作コマンドに対して表示するメッセージ
	InvalidControlMessage = "Invalid command."
)

var (
	ErrNoInterpreter  = errors.New("no interpreter for session kind")
	ErrNothingToRun   = errors.New("nothing to evaluate")
	ErrInvalidControl = errors.New("invalid control command")
)

type Controller struct {
	workspace       *workspace.Workspace
	interpreters    map[session.Kind]interpreter.Interpreter
	recorder        history.Recorder
	keymap          *keymap.Keymap
	logger          core.Logger
	eventBus        *event.Bus
	rewriteComments bool
}

func NewController(
	ws *workspace.Workspace,
	interpreters map[session.Kind]interpreter.Interpreter,
	recorder history.Recorder,
	km *keymap.Keymap,
	logger core.Logger,
	eventBus *event.Bus,
) *Controller {
	if interpreters == nil {
		interpreters = make(map[session.Kind]interpreter.Interpreter)
	}
	return &Controller{
		workspace:    ws,
		interpreters: interpreters,
		recorder:     recorder,
		keymap:       km,
		logger:       logger,
		eventBus:     eventBus,
	}
}

// SetRewriteComments は scd の送信前に行コメントを書き換えるかを設定する
func (c *Controller) SetRewriteComments(enabled bool) {
	c.rewriteComments = enabled
}

// Workspace はコントローラーが管理しているワークスペースを返す
func (c *Controller) Workspace() *workspace.Workspace {
	return c.workspace
}

// Resolve はセッションのカーソル位置から送信するコードを決める
// scd は括弧行で囲まれたブロック、js は空行で区切られた段落
func (c *Controller) Resolve(s *session.Session) string {
	lines := s.Lines()
	cur := s.Cursor.ToPosition()
	sel := s.ActiveSelection()

	if s.Kind == session.KindJavaScript {
		return resolver.ResolveParagraph(lines, cur, sel)
	}
	return resolver.Resolve(lines, cur, sel)
}

// HandleRunCommand はカーソル位置のブロックを送信する
func (c *Controller) HandleRunCommand(ctx context.Context, s *session.Session) error {
	return c.submit(ctx, s.Kind, s.ID, s.Name, c.Resolve(s))
}

// HandleRunLine はカーソル行だけを送信する
func (c *Controller) HandleRunLine(ctx context.Context, s *session.Session) error {
	return c.submit(ctx, s.Kind, s.ID, s.Name, s.CurrentLine())
}

// HandleRunAll はバッファ全体を送信する
func (c *Controller) HandleRunAll(ctx context.Context, s *session.Session) error {
	return c.submit(ctx, s.Kind, s.ID, s.Name, s.Contents.GetText())
}

// HandleStop は scd インタプリタに停止コードを送信する
// インタプリタがまだ起動していなければ鳴っている音もないので何もしない
func (c *Controller) HandleStop(ctx context.Context) error {
	if s, ok := c.interpreters[session.KindSuperCollider].(interpreter.Starter); ok && !s.Started() {
		c.log("submit", "Stop ignored: interpreter not running")
		return nil
	}
	return c.submit(ctx, session.KindSuperCollider, "", "", StopCode)
}

// HandleKey はキーに割り当てられた操作を実行する
func (c *Controller) HandleKey(ctx context.Context, chord string, s *session.Session) error {
	action, err := c.keymap.Lookup(chord)
	if err != nil {
		c.log("key", fmt.Sprintf("Lookup failed for %q: %v", chord, err))
		return err
	}

	cmd, err := c.createCommand(ctx, action, s)
	if err != nil {
		return err
	}
	c.log("command", fmt.Sprintf("Executing %s for %s", action, chord))
	return cmd.Execute()
}

// HandleAction は操作名を指定して実行する
func (c *Controller) HandleAction(ctx context.Context, action keymap.Action, s *session.Session) error {
	cmd, err := c.createCommand(ctx, action, s)
	if err != nil {
		return err
	}
	return cmd.Execute()
}

// createCommand は操作に対応するコマンドを作成する
func (c *Controller) createCommand(ctx context.Context, action keymap.Action, s *session.Session) (command.Command, error) {
	switch action {
	case keymap.ActionRunBlock:
		return command.NewEvaluateCommand(ctx, string(action), func(ctx context.Context) error {
			return c.HandleRunCommand(ctx, s)
		}), nil
	case keymap.ActionRunLine:
		return command.NewEvaluateCommand(ctx, string(action), func(ctx context.Context) error {
			return c.HandleRunLine(ctx, s)
		}), nil
	case keymap.ActionRunAll:
		return command.NewEvaluateCommand(ctx, string(action), func(ctx context.Context) error {
			return c.HandleRunAll(ctx, s)
		}), nil
	case keymap.ActionStop:
		return command.NewEvaluateCommand(ctx, string(action), c.HandleStop), nil
	}
	return nil, fmt.Errorf("%w: %q", keymap.ErrUnknownAction, action)
}

// HandleControl はアプリ操作コマンド（ls, cc, load）を実行し、表示するメッセージを返す
func (c *Controller) HandleControl(input string) (string, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return "", ErrInvalidControl
	}

	switch fields[0] {
	case "ls":
		if len(fields) != 1 {
			return "", ErrInvalidControl
		}
		return strings.Join(c.workspace.Names(), ", "), nil
	case "cc":
		if len(fields) != 1 {
			return "", ErrInvalidControl
		}
		if c.eventBus != nil {
			c.eventBus.Publish(event.NewClearEvent())
		}
		return "", nil
	case "load", "l":
		if len(fields) != 2 {
			return "", ErrInvalidControl
		}
		s, err := c.workspace.Activate(fields[1])
		if err != nil {
			return "", err
		}
		c.log("control", fmt.Sprintf("Loaded %s", s.Name))
		return fmt.Sprintf("Loaded %s.", s.Name), nil
	}

	c.log("control", fmt.Sprintf("Invalid command: %q", input))
	return "", ErrInvalidControl
}

// submit はコードを種類ごとのインタプリタへ送信し、履歴に残す
func (c *Controller) submit(ctx context.Context, kind session.Kind, sessionID, file, code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrNothingToRun
	}

	interp, ok := c.interpreters[kind]
	if !ok || interp == nil {
		return fmt.Errorf("%w: %s", ErrNoInterpreter, kind)
	}

	if c.rewriteComments && kind == session.KindSuperCollider {
		code = resolver.RewriteLineComments(code)
	}

	if err := interp.Interpret(ctx, code); err != nil {
		c.log("error", fmt.Sprintf("Failed to submit to %s: %v", kind, err))
		return err
	}
	c.log("submit", fmt.Sprintf("Submitted %d bytes from %q to %s", len(code), file, kind))

	if c.recorder != nil {
		err := c.recorder.Record(ctx, history.Evaluation{
			SessionID: sessionID,
			File:      file,
			Kind:      string(kind),
			Code:      code,
		})
		if err != nil {
			// 履歴の失敗で送信を失敗にはしない
			c.log("error", fmt.Sprintf("Failed to record history: %v", err))
		}
	}

	if c.eventBus != nil {
		c.eventBus.Publish(event.NewEvaluatedEvent(sessionID, file, string(kind), code))
	}
	return nil
}

func (c *Controller) log(messageType, message string) {
	if c.logger != nil {
		c.logger.Log(messageType, message)
	}
}
