package intercept

import (
	"context"
	"reflect"
	"sync"
)

// Async is an opaque handle over a not-yet-complete computation. Settle
// blocks until the computation settles and returns the produced value and
// error; a settled error of context.Canceled or context.DeadlineExceeded
// marks cancellation rather than a fault.
//
// The interceptor only ever calls Settle from a continuation goroutine, so
// implementations may block freely.
type Async interface {
	Settle() (any, error)
}

// Future is an in-flight asynchronous result a wrapped method can return.
// It settles exactly once through Complete, Fail, or Cancel.
type Future[T any] struct {
	done chan struct{}
	once sync.Once

	value T
	err   error
}

// NewFuture creates an unsettled future.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Complete settles the future with a value. Later settlements are ignored.
func (f *Future[T]) Complete(value T) {
	f.once.Do(func() {
		f.value = value
		close(f.done)
	})
}

// Fail settles the future with an error.
func (f *Future[T]) Fail(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Cancel settles the future as cancelled.
func (f *Future[T]) Cancel() {
	f.Fail(context.Canceled)
}

// Await blocks until the future settles or the context is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done exposes the settlement signal.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Settle implements Async. The concrete value type is erased, which lets
// the interceptor unwrap a Future[T] it only knows as any.
func (f *Future[T]) Settle() (any, error) {
	<-f.done
	if f.err != nil {
		return nil, f.err
	}
	return f.value, nil
}

// AsAsync detects an in-flight asynchronous result. It recognizes any
// value implementing Async (every Future does) and, via reflection, any
// receivable channel: the channel's first received value is the produced
// result, and a close without a value counts as cancellation.
func AsAsync(v any) (Async, bool) {
	if v == nil {
		return nil, false
	}
	if a, ok := v.(Async); ok {
		return a, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Chan && rv.Type().ChanDir() != reflect.SendDir {
		return channelAsync{ch: rv}, true
	}

	return nil, false
}

// channelAsync adapts a receivable channel of unknown element type.
type channelAsync struct {
	ch reflect.Value
}

func (c channelAsync) Settle() (any, error) {
	val, ok := c.ch.Recv()
	if !ok {
		return nil, context.Canceled
	}
	received := val.Interface()
	if err, isErr := received.(error); isErr {
		return nil, err
	}
	return received, nil
}
