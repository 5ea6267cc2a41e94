package core

// Logger はアプリケーション全体で使用するロガーのインターフェース
type Logger interface {
	Log(messageType string, message string)
	Flush()
}
