// history パッケージはインタプリタへ送信したコードを SQLite に記録する
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Evaluation は送信したコード1件
type Evaluation struct {
	ID          int64
	SessionID   string
	File        string
	Kind        string
	Code        string
	EvaluatedAt time.Time
}

// Recorder は評価履歴の保存先
type Recorder interface {
	Record(ctx context.Context, e Evaluation) error
	Recent(ctx context.Context, n int) ([]Evaluation, error)
	Close() error
}

// Store は SQLite による Recorder
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// Open はデータベースを開き、テーブルが無ければ作成する
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// LSP とコマンドラインから同時に開かれることがある
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS evaluations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		file TEXT NOT NULL,
		kind TEXT NOT NULL,
		code TEXT NOT NULL,
		evaluated_at INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// Record は評価を1件保存する。EvaluatedAt が空なら現在時刻を使う
func (s *Store) Record(ctx context.Context, e Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.EvaluatedAt.IsZero() {
		e.EvaluatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO evaluations (session_id, file, kind, code, evaluated_at) VALUES (?, ?, ?, ?, ?)",
		e.SessionID, e.File, e.Kind, e.Code, e.EvaluatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("recording evaluation: %w", err)
	}
	return nil
}

// Recent は新しい順に最大 n 件を返す
func (s *Store) Recent(ctx context.Context, n int) ([]Evaluation, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, session_id, file, kind, code, evaluated_at FROM evaluations ORDER BY id DESC LIMIT ?",
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("querying evaluations: %w", err)
	}
	defer rows.Close()

	var evaluations []Evaluation
	for rows.Next() {
		var e Evaluation
		var at int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.File, &e.Kind, &e.Code, &at); err != nil {
			return nil, fmt.Errorf("scanning evaluation: %w", err)
		}
		e.EvaluatedAt = time.Unix(0, at)
		evaluations = append(evaluations, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating evaluations: %w", err)
	}
	return evaluations, nil
}

// Close はデータベース接続を閉じる
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
