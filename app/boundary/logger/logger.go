package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const arrayClose = "\n]\n"

// LogEntry はログのエントリを表す構造体
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
	Type      string `json:"type"`
}

// Logger はロギング機能を提供する構造体
// LSP のハンドラとインタプリタの出力ゴルーチンから同時に呼ばれる
type Logger struct {
	mu        sync.Mutex
	debugMode bool
	entries   []LogEntry
	written   int // ファイルに書き出したエントリ数
	filePath  string
	maxBuffer int
	startTime time.Time
}

// New は新しいLoggerインスタンスを作成する
// ログファイルは dir の下に作られる
func New(debugMode bool, dir string) *Logger {
	startTime := time.Now()
	if dir == "" {
		dir = "."
	}
	return &Logger{
		debugMode: debugMode,
		entries:   make([]LogEntry, 0),
		filePath:  filepath.Join(dir, fmt.Sprintf("log-%s.json", startTime.Format("20060102-150405"))),
		maxBuffer: 100,
		startTime: startTime,
	}
}

// Log はメッセージをログに記録する
func (l *Logger) Log(messageType string, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.debugMode {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		Message:   message,
		Type:      messageType,
	}
	l.entries = append(l.entries, entry)

	// バッファが一定量に達したらフラッシュ
	if len(l.entries) >= l.maxBuffer {
		l.flush()
	}
}

// Flush は現在のログエントリをファイルに書き出す
func (l *Logger) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.flush()
}

// flush はロックを保持した状態で呼ぶ
// ファイルは常に正しい JSON 配列で、新しいエントリは末尾の "]" の前に追記する
func (l *Logger) flush() {
	if len(l.entries) == 0 {
		return
	}

	var body bytes.Buffer
	n := 0
	for _, entry := range l.entries {
		data, err := json.MarshalIndent(entry, "  ", "  ")
		if err != nil {
			continue
		}
		if n > 0 || l.written > 0 {
			body.WriteString(",\n")
		}
		body.WriteString("  ")
		body.Write(data)
		n++
	}
	body.WriteString(arrayClose)

	if n > 0 {
		if err := l.appendEntries(body.Bytes()); err == nil {
			l.written += n
		}
	}

	// ログをクリア
	l.entries = l.entries[:0]
}

func (l *Logger) appendEntries(body []byte) error {
	if l.written == 0 {
		if err := os.MkdirAll(filepath.Dir(l.filePath), 0755); err != nil {
			return err
		}
		return os.WriteFile(l.filePath, append([]byte("[\n"), body...), 0644)
	}

	f, err := os.OpenFile(l.filePath, os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	// 閉じ括弧を上書きする
	offset := info.Size() - int64(len(arrayClose))
	if offset < 0 {
		return fmt.Errorf("log file %s is truncated", l.filePath)
	}
	if _, err := f.WriteAt(body, offset); err != nil {
		return err
	}
	return nil
}

// FilePath はログファイルのパスを返す
func (l *Logger) FilePath() string {
	return l.filePath
}
