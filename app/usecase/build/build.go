// build パッケージはスケッチのファイルを組み込んだ index.html を作る
package build

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/wasya-io/les-environs/app/boundary/manifest"
	"github.com/wasya-io/les-environs/app/entity/core"
)

const (
	AppDir        = "app"
	TempDir       = "temp"
	StructureFile = "structure.html"
	IndexFile     = "index.html"

	// この行の直前にスケッチのタグを挿入する
	editorScriptMarker = `<script src="editor-class.js"`
	emptyTitle         = "<title></title>"
)

// Builder は root/<sketch> のスケッチを root/app に組み込む
type Builder struct {
	root   string
	logger core.Logger
}

// NewBuilder は新しいBuilderを作成する
func NewBuilder(root string, logger core.Logger) *Builder {
	return &Builder{root: root, logger: logger}
}

// Build はスケッチのマニフェストにある js と css を app/temp にコピーし、
// structure.html にタグとタイトルを入れて index.html を書き出す
func (b *Builder) Build(sketch string) error {
	if sketch == "" || strings.ContainsAny(sketch, `/\`) {
		return core.NewStructuredError(core.ErrorCategoryValidation, "invalid sketch name", nil).
			WithContext("sketch", sketch)
	}

	m, err := manifest.Load(filepath.Join(b.root, sketch))
	if err != nil {
		return fmt.Errorf("loading sketch %s: %w", sketch, err)
	}

	appDir := filepath.Join(b.root, AppDir)
	structure, err := os.ReadFile(filepath.Join(appDir, StructureFile))
	if err != nil {
		return core.NewStructuredError(core.ErrorCategoryIO, "failed to read structure", err).
			WithContext("dir", appDir)
	}

	tempDir := filepath.Join(appDir, TempDir)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return core.NewStructuredError(core.ErrorCategoryIO, "failed to create temp dir", err).
			WithContext("dir", tempDir)
	}

	var head strings.Builder
	for _, name := range m.Files.JavaScript {
		url, err := b.copyToTemp(m, name, tempDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(&head, "<script src=\"%s\" type=\"text/javascript\"></script>\n", url)
	}
	for _, name := range m.Files.CSS {
		url, err := b.copyToTemp(m, name, tempDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(&head, "<link rel=\"stylesheet\" type=\"text/css\" href=\"%s\">\n", url)
	}

	index := Inject(string(structure), head.String(), sketch)
	indexPath := filepath.Join(appDir, IndexFile)
	if err := os.WriteFile(indexPath, []byte(index), 0644); err != nil {
		return core.NewStructuredError(core.ErrorCategoryIO, "failed to write index", err).
			WithContext("file", indexPath)
	}

	b.log(fmt.Sprintf("%s written for %s", indexPath, sketch))
	return nil
}

// Inject は structure の editor-class.js の前に head を入れ、空のタイトルを title にする
func Inject(structure, head, title string) string {
	out := strings.ReplaceAll(structure, editorScriptMarker, head+editorScriptMarker)
	return strings.ReplaceAll(out, emptyTitle, "<title>"+html.EscapeString(title)+"</title>")
}

// copyToTemp はファイルを temp にコピーし、index.html から参照する URL を返す
func (b *Builder) copyToTemp(m *manifest.Manifest, name, tempDir string) (string, error) {
	data, err := os.ReadFile(m.Path(name))
	if err != nil {
		return "", core.NewStructuredError(core.ErrorCategoryIO, "failed to read sketch file", err).
			WithContext("file", name)
	}

	dst := filepath.Join(tempDir, name)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", core.NewStructuredError(core.ErrorCategoryIO, "failed to create temp dir", err).
			WithContext("file", name)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return "", core.NewStructuredError(core.ErrorCategoryIO, "failed to write sketch file", err).
			WithContext("file", name)
	}
	return "./" + TempDir + "/" + filepath.ToSlash(name), nil
}

func (b *Builder) log(message string) {
	if b.logger != nil {
		b.logger.Log("build", message)
	}
}
