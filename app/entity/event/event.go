// event パッケージはアプリケーション内でのイベント処理を定義します。
package event

// EventType はイベントの種類を表す型です。
type EventType string

// 定義済みイベントタイプ
const (
	TypeConsole   EventType = "console"   // インタプリタ出力の1行
	TypeEvaluated EventType = "evaluated" // コード送信済み
	TypeClear     EventType = "clear"     // コンソール消去
	TypeQuit      EventType = "quit"      // 終了
	TypeResponse  EventType = "response"  // 応答イベント
)

// Event はアプリケーション内で発生するイベントを表します。
type Event struct {
	Type    EventType // イベントの種類
	Payload any       // イベントデータ
}

// ConsoleEvent はコンソールに表示する1行を表します。
type ConsoleEvent struct {
	Source string // 出力元（"scd" や "js"）
	Line   string // 出力内容
}

// EvaluatedEvent はインタプリタへ送信したコードを表します。
type EvaluatedEvent struct {
	SessionID string // 送信元セッション
	File      string // ファイル名
	Kind      string // セッションの種類
	Code      string // 送信したコード
}

// ResponseEvent は応答イベントのペイロードを表します。
type ResponseEvent struct {
	Success bool   // 成功したかどうか
	Message string // メッセージ
	Error   error  // エラー情報
}

// NewEvent は新しいイベントを作成します。
func NewEvent(eventType EventType, payload any) Event {
	return Event{
		Type:    eventType,
		Payload: payload,
	}
}

// NewConsoleEvent は新しいコンソールイベントを作成します。
func NewConsoleEvent(source, line string) Event {
	return NewEvent(TypeConsole, ConsoleEvent{
		Source: source,
		Line:   line,
	})
}

// NewEvaluatedEvent は新しい送信済みイベントを作成します。
func NewEvaluatedEvent(sessionID, file, kind, code string) Event {
	return NewEvent(TypeEvaluated, EvaluatedEvent{
		SessionID: sessionID,
		File:      file,
		Kind:      kind,
		Code:      code,
	})
}

// NewClearEvent は新しいコンソール消去イベントを作成します。
func NewClearEvent() Event {
	return NewEvent(TypeClear, nil)
}

// NewQuitEvent は新しい終了イベントを作成します。
func NewQuitEvent() Event {
	return NewEvent(TypeQuit, nil)
}

// NewResponseEvent は新しい応答イベントを作成します。
func NewResponseEvent(success bool, message string, err error) Event {
	return NewEvent(TypeResponse, ResponseEvent{
		Success: success,
		Message: message,
		Error:   err,
	})
}
