package intercept

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFutureCompletesOnce(t *testing.T) {
	f := NewFuture[int]()
	f.Complete(42)
	f.Complete(7)
	f.Fail(errors.New("too late"))

	v, err := f.Settle()
	if err != nil || v != 42 {
		t.Errorf("Settle() = %v, %v, want 42, nil", v, err)
	}
}

func TestFutureFail(t *testing.T) {
	sentinel := errors.New("boom")
	f := NewFuture[string]()
	f.Fail(sentinel)

	if _, err := f.Settle(); !errors.Is(err, sentinel) {
		t.Errorf("Settle() error = %v", err)
	}
}

func TestFutureCancel(t *testing.T) {
	f := NewFuture[string]()
	f.Cancel()

	if _, err := f.Settle(); !errors.Is(err, context.Canceled) {
		t.Errorf("Settle() error = %v", err)
	}
}

func TestFutureAwaitContextDeadline(t *testing.T) {
	f := NewFuture[string]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := f.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Await() error = %v", err)
	}
}

func TestFutureAwait(t *testing.T) {
	f := NewFuture[int]()
	go f.Complete(9)

	v, err := f.Await(context.Background())
	if err != nil || v != 9 {
		t.Errorf("Await() = %v, %v", v, err)
	}
}

func TestAsAsync(t *testing.T) {
	if _, ok := AsAsync(nil); ok {
		t.Error("nil is not asynchronous")
	}
	if _, ok := AsAsync("plain value"); ok {
		t.Error("a plain value is not asynchronous")
	}
	if _, ok := AsAsync(NewFuture[int]()); !ok {
		t.Error("a future must be recognized")
	}
	if _, ok := AsAsync(make(chan int)); !ok {
		t.Error("a receivable channel must be recognized")
	}
	var sendOnly chan<- int = make(chan int)
	if _, ok := AsAsync(sendOnly); ok {
		t.Error("a send-only channel can never settle")
	}
}

func TestChannelAsyncErrorElement(t *testing.T) {
	sentinel := errors.New("downstream failed")
	ch := make(chan error, 1)
	ch <- sentinel

	a, ok := AsAsync(ch)
	if !ok {
		t.Fatal("channel not recognized")
	}
	if _, err := a.Settle(); !errors.Is(err, sentinel) {
		t.Errorf("Settle() error = %v", err)
	}
}
