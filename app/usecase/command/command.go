package command

import "context"

type (
	Command interface {
		Execute() error
	}

	// EvaluateCommand はセッションのコードをインタプリタへ送信するコマンド
	EvaluateCommand struct {
		ctx  context.Context
		name string
		fn   func(context.Context) error
	}
)

func NewEvaluateCommand(ctx context.Context, name string, execute func(context.Context) error) EvaluateCommand {
	return EvaluateCommand{ctx: ctx, name: name, fn: execute}
}

func (c EvaluateCommand) Execute() error {
	return c.fn(c.ctx)
}

// Name はログ用の操作名を返す
func (c EvaluateCommand) Name() string {
	return c.name
}
