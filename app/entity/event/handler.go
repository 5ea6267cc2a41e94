package event

// Handler はイベントを処理するためのインターフェースです。
type Handler interface {
	// HandleEvent はイベントを処理します。
	// 処理が成功したかどうかとエラーを返します。
	HandleEvent(event Event) (bool, error)

	// GetHandledEventTypes は、このハンドラーが処理できるイベントタイプのリストを返します。
	GetHandledEventTypes() []EventType
}

// HandlerFunc はイベントを処理する関数型です。
type HandlerFunc func(event Event) (bool, error)

// TypedHandler は指定したイベントタイプだけを処理するハンドラーです。
type TypedHandler struct {
	EventTypes []EventType
	Handler    HandlerFunc
}

// HandleEvent はイベントを処理します。
func (h *TypedHandler) HandleEvent(event Event) (bool, error) {
	for _, t := range h.EventTypes {
		if event.Type == t {
			return h.Handler(event)
		}
	}
	return false, nil
}

// GetHandledEventTypes は、このハンドラーが処理できるイベントタイプのリストを返します。
func (h *TypedHandler) GetHandledEventTypes() []EventType {
	return h.EventTypes
}

// NewSingleTypeHandler は1つのイベントタイプだけを処理するハンドラーを作成します。
func NewSingleTypeHandler(eventType EventType, handler HandlerFunc) *TypedHandler {
	return NewTypedHandler(handler, eventType)
}

// NewTypedHandler は複数のイベントタイプを処理するハンドラーを作成します。
func NewTypedHandler(handler HandlerFunc, eventTypes ...EventType) *TypedHandler {
	return &TypedHandler{
		EventTypes: eventTypes,
		Handler:    handler,
	}
}
