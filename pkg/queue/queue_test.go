package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"mercator-hq/callisto/pkg/entry"
)

func testEntry() *entry.Entry {
	e := entry.NewStart("svc.T", "M")
	return &e
}

func TestTryEnqueueWithinCapacity(t *testing.T) {
	q := New(4)

	for i := 0; i < 4; i++ {
		if !q.TryEnqueue(testEntry()) {
			t.Fatalf("enqueue %d rejected below capacity", i)
		}
	}
	if q.Len() != 4 {
		t.Errorf("Len() = %d, want 4", q.Len())
	}
	if q.Enqueued() != 4 {
		t.Errorf("Enqueued() = %d, want 4", q.Enqueued())
	}
}

func TestTryEnqueueOverflowNeverBlocks(t *testing.T) {
	q := New(2)
	q.TryEnqueue(testEntry())
	q.TryEnqueue(testEntry())

	done := make(chan bool, 1)
	go func() {
		done <- q.TryEnqueue(testEntry())
	}()

	select {
	case accepted := <-done:
		if accepted {
			t.Error("enqueue beyond capacity must fail")
		}
	case <-time.After(time.Second):
		t.Fatal("TryEnqueue blocked on a full queue")
	}

	if q.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", q.Dropped())
	}
	if q.Enqueued() != 2 {
		t.Errorf("Enqueued() = %d, want 2", q.Enqueued())
	}
}

func TestQueueMinimumCapacity(t *testing.T) {
	q := New(0)
	if q.Capacity() != 1 {
		t.Errorf("Capacity() = %d, want 1", q.Capacity())
	}
}

func TestConcurrentProducers(t *testing.T) {
	const producers = 16
	const perProducer = 50

	q := New(producers * perProducer)
	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.TryEnqueue(testEntry())
			}
		}()
	}
	wg.Wait()

	if q.Enqueued() != producers*perProducer {
		t.Errorf("Enqueued() = %d, want %d", q.Enqueued(), producers*perProducer)
	}
	if q.Dropped() != 0 {
		t.Errorf("Dropped() = %d, want 0", q.Dropped())
	}
}

func TestConsumerBatchSize(t *testing.T) {
	q := New(100)

	var mu sync.Mutex
	var batches [][]*entry.Entry
	received := make(chan struct{}, 100)
	process := func(batch []*entry.Entry) {
		mu.Lock()
		copied := append([]*entry.Entry(nil), batch...)
		batches = append(batches, copied)
		mu.Unlock()
		for range batch {
			received <- struct{}{}
		}
	}

	c := NewConsumer(q, 5, 10*time.Millisecond, process, nil)
	c.Start()

	for i := 0; i < 12; i++ {
		q.TryEnqueue(testEntry())
	}
	for i := 0; i < 12; i++ {
		select {
		case <-received:
		case <-time.After(2 * time.Second):
			t.Fatalf("entry %d never processed", i)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	c.Stop(ctx)

	mu.Lock()
	defer mu.Unlock()
	total := 0
	for _, b := range batches {
		if len(b) > 5 {
			t.Errorf("batch size %d exceeds limit", len(b))
		}
		total += len(b)
	}
	if total != 12 {
		t.Errorf("processed %d entries, want 12", total)
	}
}

func TestConsumerFlushTimeout(t *testing.T) {
	q := New(10)

	received := make(chan int, 10)
	c := NewConsumer(q, 100, 20*time.Millisecond, func(batch []*entry.Entry) {
		received <- len(batch)
	}, nil)
	c.Start()
	defer c.Stop(context.Background())

	q.TryEnqueue(testEntry())

	// The single entry never fills a batch of 100; the timeout must flush it.
	select {
	case n := <-received:
		if n != 1 {
			t.Errorf("flushed batch of %d, want 1", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("partial batch never flushed")
	}
}

func TestStopDrainsRemaining(t *testing.T) {
	q := New(100)

	var mu sync.Mutex
	processed := 0
	c := NewConsumer(q, 10, time.Hour, func(batch []*entry.Entry) {
		mu.Lock()
		processed += len(batch)
		mu.Unlock()
	}, nil)

	// Entries enqueued before the consumer ever runs a sweep.
	for i := 0; i < 25; i++ {
		q.TryEnqueue(testEntry())
	}
	c.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	left := c.Stop(ctx)

	if left != 0 {
		t.Errorf("Stop() = %d entries left, want 0", left)
	}
	mu.Lock()
	defer mu.Unlock()
	if processed != 25 {
		t.Errorf("processed %d entries, want 25", processed)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	q := New(1)
	c := NewConsumer(q, 1, time.Millisecond, func([]*entry.Entry) {}, nil)
	c.Start()

	ctx := context.Background()
	c.Stop(ctx)
	c.Stop(ctx)
}
