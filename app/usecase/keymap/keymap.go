// keymap パッケージはキーの組み合わせとエディタ操作の対応を管理する
package keymap

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/wasya-io/les-environs/app/usecase/parser"
)

// Action はキーに割り当てる操作
type Action string

const (
	ActionRunBlock Action = "run-block"
	ActionRunLine  Action = "run-line"
	ActionStop     Action = "stop"
	ActionRunAll   Action = "run-all"
)

var actions = map[Action]bool{
	ActionRunBlock: true,
	ActionRunLine:  true,
	ActionStop:     true,
	ActionRunAll:   true,
}

var (
	ErrUnboundKey    = errors.New("key is not bound")
	ErrUnknownAction = errors.New("unknown action")
)

// defaults は既定の割り当て
var defaults = map[string]Action{
	"Cmd-Enter":        ActionRunBlock,
	"Shift-Enter":      ActionRunLine,
	"Cmd-.":            ActionStop,
	"Shift-Ctrl-Enter": ActionRunAll,
}

// Keymap は正規化したキー表記から操作を引く
type Keymap struct {
	mu       sync.RWMutex
	parser   parser.ChordParser
	bindings map[string]Action
}

// New は既定の割り当てを持つKeymapを作成する
func New(p parser.ChordParser) *Keymap {
	km := &Keymap{
		parser:   p,
		bindings: make(map[string]Action),
	}
	for chord, action := range defaults {
		if err := km.Bind(chord, action); err != nil {
			panic(fmt.Sprintf("invalid default binding %q: %v", chord, err))
		}
	}
	return km
}

// ParseAction は文字列を Action に変換する
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !actions[a] {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return a, nil
}

// Bind はキーに操作を割り当てる
func (k *Keymap) Bind(chord string, action Action) error {
	if !actions[action] {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	c, err := k.parser.Parse(chord)
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.bindings[c.String()] = action
	return nil
}

// Apply はマニフェストの [keymap] で既定の割り当てを上書きする
func (k *Keymap) Apply(overrides map[string]string) error {
	for chord, name := range overrides {
		action, err := ParseAction(name)
		if err != nil {
			return fmt.Errorf("keymap %q: %w", chord, err)
		}
		if err := k.Bind(chord, action); err != nil {
			return fmt.Errorf("keymap %q: %w", chord, err)
		}
	}
	return nil
}

// Lookup はキーに割り当てられた操作を返す
func (k *Keymap) Lookup(chord string) (Action, error) {
	c, err := k.parser.Parse(chord)
	if err != nil {
		return "", err
	}

	k.mu.RLock()
	defer k.mu.RUnlock()
	action, ok := k.bindings[c.String()]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnboundKey, c)
	}
	return action, nil
}

// Bindings は割り当ての一覧をキー表記の順に返す
func (k *Keymap) Bindings() []Binding {
	k.mu.RLock()
	defer k.mu.RUnlock()

	list := make([]Binding, 0, len(k.bindings))
	for chord, action := range k.bindings {
		list = append(list, Binding{Chord: chord, Action: action})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Chord < list[j].Chord })
	return list
}

// Binding はキーと操作の組
type Binding struct {
	Chord  string
	Action Action
}
