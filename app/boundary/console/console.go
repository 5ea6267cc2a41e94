// console パッケージはインタプリタの出力と送信したコードを表示・保持する
package console

import (
	"fmt"
	"strings"
	"sync"

	"github.com/wasya-io/les-environs/app/boundary/writer"
	"github.com/wasya-io/les-environs/app/entity/core"
	"github.com/wasya-io/les-environs/app/entity/event"
)

// Line はコンソールの1行
type Line struct {
	Source string
	Text   string
}

func (l Line) String() string {
	return fmt.Sprintf("%s> %s", l.Source, l.Text)
}

// Console は直近の出力を limit 行まで保持する
type Console struct {
	mu     sync.Mutex
	writer writer.ConsoleWriter
	logger core.Logger
	lines  []Line
	limit  int
}

// New は新しいConsoleを作成する
func New(w writer.ConsoleWriter, limit int, logger core.Logger) *Console {
	if w == nil {
		w = writer.DiscardConsoleWriter{}
	}
	if limit <= 0 {
		limit = 1
	}
	return &Console{
		writer: w,
		logger: logger,
		limit:  limit,
	}
}

// Append は1行を追加する。空行と空白だけの行は捨てる
func (c *Console) Append(source, text string) {
	text = strings.TrimRight(text, "\r")
	if strings.TrimSpace(text) == "" {
		return
	}

	line := Line{Source: source, Text: text}

	c.mu.Lock()
	c.lines = append(c.lines, line)
	if over := len(c.lines) - c.limit; over > 0 {
		c.lines = append([]Line{}, c.lines[over:]...)
	}
	c.mu.Unlock()

	if err := c.writer.Write(line.String() + "\n"); err != nil && c.logger != nil {
		c.logger.Log("console", fmt.Sprintf("write failed: %v", err))
	}
}

// Clear は保持している行を消去する
func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
}

// Lines は保持している行のコピーを返す
func (c *Console) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]Line{}, c.lines...)
}

// HandleEvent はバスからのイベントをコンソールに反映する
func (c *Console) HandleEvent(e event.Event) (bool, error) {
	switch e.Type {
	case event.TypeConsole:
		payload, ok := e.Payload.(event.ConsoleEvent)
		if !ok {
			return false, fmt.Errorf("unexpected console payload: %T", e.Payload)
		}
		c.Append(payload.Source, payload.Line)
		return true, nil
	case event.TypeEvaluated:
		payload, ok := e.Payload.(event.EvaluatedEvent)
		if !ok {
			return false, fmt.Errorf("unexpected evaluated payload: %T", e.Payload)
		}
		// 送信したコードもコンソールに残す
		for _, line := range strings.Split(payload.Code, "\n") {
			if strings.TrimSpace(line) != "" {
				c.Append(payload.Kind, "> "+line)
			}
		}
		return true, nil
	case event.TypeClear:
		c.Clear()
		return true, nil
	}
	return false, nil
}

// GetHandledEventTypes は処理するイベントの種類を返す
func (c *Console) GetHandledEventTypes() []event.EventType {
	return []event.EventType{event.TypeConsole, event.TypeEvaluated, event.TypeClear}
}
