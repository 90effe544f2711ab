package queue

import (
	"sync/atomic"

	"mercator-hq/callisto/pkg/entry"
)

// Queue is the bounded, thread-safe buffer between the interceptor and the
// formatting pipeline. Any number of producers may call TryEnqueue
// concurrently.
type Queue struct {
	entries  chan *entry.Entry
	capacity int

	enqueued atomic.Int64
	dropped  atomic.Int64
}

// New creates a queue with the given fixed capacity.
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{
		entries:  make(chan *entry.Entry, capacity),
		capacity: capacity,
	}
}

// TryEnqueue offers an entry to the queue. It returns false immediately
// when the queue is full; it never blocks and never panics. A false return
// means the entry is dropped for good.
func (q *Queue) TryEnqueue(e *entry.Entry) bool {
	select {
	case q.entries <- e:
		q.enqueued.Add(1)
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Len returns the current queue depth.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Capacity returns the fixed queue capacity.
func (q *Queue) Capacity() int {
	return q.capacity
}

// Enqueued returns the total number of accepted entries.
func (q *Queue) Enqueued() int64 {
	return q.enqueued.Load()
}

// Dropped returns the total number of rejected entries.
func (q *Queue) Dropped() int64 {
	return q.dropped.Load()
}
