// manifest パッケージは les-environs.toml（スケッチのプロジェクト設定）を扱う
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName はマニフェストのファイル名
const FileName = "les-environs.toml"

// インタプリタの既定の区切り文字
const (
	DefaultSuperColliderTerminator = "\f"
	DefaultJavaScriptTerminator    = "\n"
)

// Manifest は les-environs.toml の内容
type Manifest struct {
	Project     Project                `toml:"project"`
	Files       Files                  `toml:"files"`
	Interpreter map[string]Interpreter `toml:"interpreter"`
	Keymap      map[string]string      `toml:"keymap"`

	// Dir はマニフェストのあるディレクトリ（ロード時に設定）
	Dir string `toml:"-"`
}

// Project はスケッチのメタデータ
type Project struct {
	Name string `toml:"name"`
}

// Files はスケッチを構成するファイル
type Files struct {
	SuperCollider []string `toml:"supercollider-files"`
	JavaScript    []string `toml:"javascript-files"`
	CSS           []string `toml:"css-files"`
}

// Interpreter は種類ごとのインタプリタ設定。空の項目は環境変数の設定が使われる
type Interpreter struct {
	Command    string   `toml:"command"`
	Args       []string `toml:"args"`
	Terminator string   `toml:"terminator"`
}

// Load は dir にある les-environs.toml を読み込む
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	m.applyDefaults()
	return &m, nil
}

// FindAndLoad は startDir から親方向に les-environs.toml を探して読み込む
// 見つからなければ nil, nil を返す
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// Empty はファイルを持たないマニフェストを dir に対して作る
func Empty(dir string) *Manifest {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	m := &Manifest{Dir: abs}
	m.applyDefaults()
	return m
}

func (m *Manifest) applyDefaults() {
	if m.Project.Name == "" && m.Dir != "" {
		m.Project.Name = filepath.Base(m.Dir)
	}
	if m.Interpreter == nil {
		m.Interpreter = make(map[string]Interpreter)
	}
	if m.Keymap == nil {
		m.Keymap = make(map[string]string)
	}

	scd := m.Interpreter["scd"]
	if scd.Terminator == "" {
		scd.Terminator = DefaultSuperColliderTerminator
	}
	m.Interpreter["scd"] = scd

	js := m.Interpreter["js"]
	if js.Terminator == "" {
		js.Terminator = DefaultJavaScriptTerminator
	}
	m.Interpreter["js"] = js
}

// Path はマニフェストのディレクトリからの相対パスを絶対パスにする
func (m *Manifest) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.Dir, name)
}

// SourceFiles は編集対象のファイル（scd, js の順）を返す
func (m *Manifest) SourceFiles() []string {
	files := make([]string, 0, len(m.Files.SuperCollider)+len(m.Files.JavaScript))
	files = append(files, m.Files.SuperCollider...)
	files = append(files, m.Files.JavaScript...)
	return files
}
