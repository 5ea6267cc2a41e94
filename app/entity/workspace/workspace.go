// workspace パッケージはプロジェクト内のセッション一覧と、種類ごとのアクティブなセッションを管理する
package workspace

import (
	"errors"
	"fmt"
	"sync"

	"github.com/wasya-io/les-environs/app/entity/session"
)

var (
	ErrUnknownFile   = errors.New("unknown file")
	ErrDuplicateFile = errors.New("file already in workspace")
)

// Workspace はセッションを名前とIDで引けるようにまとめたもの
type Workspace struct {
	mu       sync.RWMutex
	sessions []*session.Session
	active   map[session.Kind]string
}

// New は空のWorkspaceを作成する
func New() *Workspace {
	return &Workspace{
		active: make(map[session.Kind]string),
	}
}

// Add はセッションを追加する。その種類で最初のセッションはアクティブになる
func (w *Workspace) Add(s *session.Session) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, existing := range w.sessions {
		if existing.Name == s.Name {
			return fmt.Errorf("%w: %s", ErrDuplicateFile, s.Name)
		}
	}
	w.sessions = append(w.sessions, s)
	if _, ok := w.active[s.Kind]; !ok {
		w.active[s.Kind] = s.ID
	}
	return nil
}

// Remove は名前でセッションを取り除く
func (w *Workspace) Remove(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, s := range w.sessions {
		if s.Name != name {
			continue
		}
		w.sessions = append(w.sessions[:i], w.sessions[i+1:]...)
		if w.active[s.Kind] == s.ID {
			delete(w.active, s.Kind)
			for _, other := range w.sessions {
				if other.Kind == s.Kind {
					w.active[s.Kind] = other.ID
					break
				}
			}
		}
		return
	}
}

// Get は名前でセッションを取得する
func (w *Workspace) Get(name string) (*session.Session, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	for _, s := range w.sessions {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// GetByID はIDでセッションを取得する
func (w *Workspace) GetByID(id string) (*session.Session, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.findByID(id)
}

func (w *Workspace) findByID(id string) (*session.Session, bool) {
	for _, s := range w.sessions {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Names は種類の表示順（scd, js）、追加順にファイル名を返す
func (w *Workspace) Names() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	names := make([]string, 0, len(w.sessions))
	for _, kind := range session.Kinds {
		for _, s := range w.sessions {
			if s.Kind == kind {
				names = append(names, s.Name)
			}
		}
	}
	return names
}

// Activate は名前のセッションをその種類のアクティブなセッションにする
func (w *Workspace) Activate(name string) (*session.Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, s := range w.sessions {
		if s.Name == name {
			w.active[s.Kind] = s.ID
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFile, name)
}

// Active は種類ごとのアクティブなセッションを返す
func (w *Workspace) Active(kind session.Kind) (*session.Session, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	id, ok := w.active[kind]
	if !ok {
		return nil, false
	}
	return w.findByID(id)
}
