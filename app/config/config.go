package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultLogDir            = "."
	defaultSclangPath        = "sclang"
	defaultHistoryDB         = "les-environs-history.db"
	defaultConsoleScrollback = 1000
	defaultOutputWaitMS      = 500
)

var defaultSclangArgs = []string{"-i", "les-environs"}

// Config はアプリケーションの設定を保持する構造体
type Config struct {
	DebugMode         bool
	LogDir            string   // デバッグログの出力先
	ProjectDir        string   // マニフェストを探し始めるディレクトリ
	SclangPath        string   // scd を評価するインタプリタ
	SclangArgs        []string // インタプリタの引数
	JSInterpreter     string   // js を評価するコマンド。空なら js は送信しない
	HistoryDB         string   // 評価履歴の SQLite ファイル
	RewriteComments   bool     // 送信前に行コメントをブロックコメントへ書き換えるか
	ConsoleScrollback int      // コンソールに保持する行数
	OutputWaitMS      int      // run コマンドが出力を待つ時間（ミリ秒）
}

// LoadConfig は.envファイルから設定を読み込む
func LoadConfig() *Config {
	// .envファイルを読み込む
	godotenv.Load()

	config := &Config{
		DebugMode:         false,
		LogDir:            defaultLogDir,
		ProjectDir:        ".",
		SclangPath:        defaultSclangPath,
		SclangArgs:        append([]string{}, defaultSclangArgs...),
		HistoryDB:         defaultHistoryDB,
		ConsoleScrollback: defaultConsoleScrollback,
		OutputWaitMS:      defaultOutputWaitMS,
	}

	// DEBUG環境変数から設定を読み込む
	if debug := os.Getenv("DEBUG"); debug != "" {
		config.DebugMode = debug == "true"
	}

	if dir := os.Getenv("LOG_DIR"); dir != "" {
		config.LogDir = dir
	}

	if dir := os.Getenv("PROJECT_DIR"); dir != "" {
		config.ProjectDir = dir
	}

	if path := os.Getenv("SCLANG_PATH"); path != "" {
		config.SclangPath = path
	}

	// 空白区切り
	if args := os.Getenv("SCLANG_ARGS"); args != "" {
		config.SclangArgs = strings.Fields(args)
	}

	config.JSInterpreter = os.Getenv("JS_INTERPRETER")

	if db := os.Getenv("HISTORY_DB"); db != "" {
		config.HistoryDB = db
	}

	if rewrite := os.Getenv("REWRITE_COMMENTS"); rewrite != "" {
		config.RewriteComments = rewrite != "0" && rewrite != "false"
	}

	if lines := os.Getenv("CONSOLE_SCROLLBACK"); lines != "" {
		if val, err := strconv.Atoi(lines); err == nil && val > 0 {
			config.ConsoleScrollback = val
		}
	}

	if wait := os.Getenv("OUTPUT_WAIT_MS"); wait != "" {
		if val, err := strconv.Atoi(wait); err == nil && val >= 0 {
			config.OutputWaitMS = val
		}
	}

	return config
}
