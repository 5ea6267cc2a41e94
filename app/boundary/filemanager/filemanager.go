package filemanager

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wasya-io/les-environs/app/boundary/manifest"
	"github.com/wasya-io/les-environs/app/entity/contents"
	"github.com/wasya-io/les-environs/app/entity/core"
	"github.com/wasya-io/les-environs/app/entity/session"
	"github.com/wasya-io/les-environs/app/entity/workspace"
)

// StandardFileManager はファイルからセッションを作る
type StandardFileManager struct {
	logger core.Logger
}

type FileManager interface {
	ReadLines(filename string) ([]string, error)
	OpenFile(filename string) (*session.Session, error)
	OpenWorkspace(m *manifest.Manifest) (*workspace.Workspace, error)
}

// エラー定義
var (
	ErrNoFilename      = errors.New("no filename specified")
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// NewFileManager は新しいFileManagerを作成する
func NewFileManager(logger core.Logger) *StandardFileManager {
	return &StandardFileManager{
		logger: logger,
	}
}

// ReadLines はファイルを行に分けて読み込む
func (fm *StandardFileManager) ReadLines(filename string) ([]string, error) {
	if filename == "" {
		return nil, ErrNoFilename
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, core.NewStructuredError(core.ErrorCategoryIO, "failed to read file", err).
			WithContext("file", filename)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(text, "\n"), nil
}

// OpenFile は指定されたファイルを開き、セッションを作成する
// セッション名はファイルのベース名
func (fm *StandardFileManager) OpenFile(filename string) (*session.Session, error) {
	kind, ok := session.KindOf(filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filename)
	}

	lines, err := fm.ReadLines(filename)
	if err != nil {
		return nil, err
	}

	buffer := contents.NewContents(fm.logger)
	buffer.LoadContent(lines)

	if fm.logger != nil {
		fm.logger.Log("filemanager", fmt.Sprintf("opened %s (%d lines)", filename, len(lines)))
	}
	s := session.New(filepath.Base(filename), kind, buffer)
	if abs, err := filepath.Abs(filename); err == nil {
		s.Path = abs
	} else {
		s.Path = filename
	}
	return s, nil
}

// OpenWorkspace はマニフェストにあるファイルをすべて開く
// 存在しないファイルは空のバッファとして開く
func (fm *StandardFileManager) OpenWorkspace(m *manifest.Manifest) (*workspace.Workspace, error) {
	ws := workspace.New()
	for _, name := range m.SourceFiles() {
		s, err := fm.OpenFile(m.Path(name))
		if errors.Is(err, os.ErrNotExist) {
			kind, _ := session.KindOf(name)
			buffer := contents.NewContents(fm.logger)
			buffer.Initialize()
			s = session.New(filepath.Base(name), kind, buffer)
			s.Path = m.Path(name)
		} else if err != nil {
			return nil, err
		}
		if err := ws.Add(s); err != nil {
			return nil, err
		}
	}
	return ws, nil
}
