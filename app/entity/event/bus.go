package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrBusClosed はシャットダウン済みのバスに対する操作で返されます。
var ErrBusClosed = errors.New("bus is shutting down")

// envelope はイベントと、処理完了を通知するチャネルの組です。
type envelope struct {
	event Event
	done  chan Event
}

// Bus はイベントの発行と購読を管理するイベントバスです。
// イベントは1つのゴルーチンで発行順に配送されます。
type Bus struct {
	handlers       map[EventType][]subscription
	eventChan      chan envelope
	mutex          sync.RWMutex
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	defaultHandler Handler
	nextID         int
}

type subscription struct {
	id      int
	handler Handler
}

// NewBus は新しいイベントバスを作成します。
func NewBus() *Bus {
	ctx, cancel := context.WithCancel(context.Background())
	bus := &Bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan envelope, 256), // インタプリタ出力をまとめて受けるためのバッファ
		ctx:       ctx,
		cancel:    cancel,
	}

	bus.wg.Add(1)
	go bus.processEvents()

	return bus
}

// Subscribe はイベントタイプに対するハンドラーを登録し、登録解除用の関数を返します。
func (b *Bus) Subscribe(handler Handler) func() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.nextID++
	id := b.nextID
	for _, eventType := range handler.GetHandledEventTypes() {
		b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})
	}

	return func() { b.unsubscribe(id) }
}

func (b *Bus) unsubscribe(id int) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	for eventType, subs := range b.handlers {
		kept := subs[:0]
		for _, s := range subs {
			if s.id != id {
				kept = append(kept, s)
			}
		}
		b.handlers[eventType] = kept
	}
}

// SetDefaultHandler はどのハンドラーにも処理されなかったイベントを処理するデフォルトハンドラーを設定します。
func (b *Bus) SetDefaultHandler(handler Handler) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.defaultHandler = handler
}

// Publish はイベントをバスに発行します。シャットダウン後の発行は捨てられます。
func (b *Bus) Publish(event Event) {
	if b.ctx.Err() != nil {
		return
	}
	select {
	case b.eventChan <- envelope{event: event}:
	case <-b.ctx.Done():
	}
}

// PublishAndWaitResponse はイベントを発行し、全ハンドラーの処理結果を待ちます。
func (b *Bus) PublishAndWaitResponse(event Event) (Event, error) {
	if b.ctx.Err() != nil {
		return Event{}, ErrBusClosed
	}

	done := make(chan Event, 1)
	select {
	case b.eventChan <- envelope{event: event, done: done}:
	case <-b.ctx.Done():
		return Event{}, ErrBusClosed
	}

	select {
	case response := <-done:
		return response, nil
	case <-b.ctx.Done():
		return Event{}, ErrBusClosed
	}
}

// Sync はそれまでに発行されたイベントがすべて配送されるまで待ちます。
func (b *Bus) Sync() error {
	_, err := b.PublishAndWaitResponse(NewEvent(TypeResponse, nil))
	return err
}

// Shutdown はイベントバスを終了します。
func (b *Bus) Shutdown() {
	b.cancel()
	b.wg.Wait()
}

// processEvents はイベントチャネルからイベントを受け取り、適切なハンドラーに配送します。
func (b *Bus) processEvents() {
	defer b.wg.Done()

	for {
		select {
		case env := <-b.eventChan:
			response := b.dispatchEvent(env.event)
			if env.done != nil {
				env.done <- response
			}
		case <-b.ctx.Done():
			return
		}
	}
}

// dispatchEvent はイベントを適切なハンドラーに配送し、結果を応答イベントとして返します。
func (b *Bus) dispatchEvent(event Event) Event {
	b.mutex.RLock()
	subs := append([]subscription{}, b.handlers[event.Type]...)
	defaultHandler := b.defaultHandler
	b.mutex.RUnlock()

	var handled bool
	var errs []error

	for _, s := range subs {
		success, err := s.handler.HandleEvent(event)
		if err != nil {
			errs = append(errs, fmt.Errorf("handler error: %w", err))
		}
		if success {
			handled = true
		}
	}

	// 誰も処理しなかった場合はデフォルトハンドラーに配送
	if !handled && defaultHandler != nil && event.Type != TypeResponse {
		defaultHandler.HandleEvent(event)
	}

	err := errors.Join(errs...)
	return NewResponseEvent(handled && err == nil, string(event.Type), err)
}
