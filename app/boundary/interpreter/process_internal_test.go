package interpreter

import (
	"context"
	"errors"
	"testing"
	"time"
)

// newIdleProcess は書き込みループを持たない Process を作る
func newIdleProcess(queue int) *Process {
	return &Process{
		requests: make(chan request, queue),
		quit:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
}

func TestInterpretQueuedRequestFailsWhenProcessExits(t *testing.T) {
	p := newIdleProcess(1)

	errc := make(chan error, 1)
	go func() {
		errc <- p.Interpret(context.Background(), "s.boot;")
	}()

	// 要求がキューに入ってからプロセスが終わる
	deadline := time.Now().Add(5 * time.Second)
	for len(p.requests) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("request was not queued")
		}
		time.Sleep(time.Millisecond)
	}
	close(p.exited)

	select {
	case err := <-errc:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("Interpret() error = %v, want ErrClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Interpret() did not return after the process exited")
	}
}

func TestDrainFailsQueuedRequests(t *testing.T) {
	p := newIdleProcess(2)
	first := request{code: "1", done: make(chan error, 1)}
	second := request{code: "2", done: make(chan error, 1)}
	p.requests <- first
	p.requests <- second

	p.drain()

	for _, req := range []request{first, second} {
		select {
		case err := <-req.done:
			if !errors.Is(err, ErrClosed) {
				t.Errorf("request %s error = %v, want ErrClosed", req.code, err)
			}
		default:
			t.Errorf("request %s was not answered", req.code)
		}
	}
	if len(p.requests) != 0 {
		t.Errorf("%d requests left in the queue", len(p.requests))
	}
}
