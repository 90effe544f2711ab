package queue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"mercator-hq/callisto/pkg/entry"
)

// Consumer is the single reader of a Queue. It gathers entries into batches
// (bounded by batch size and flush timeout) and hands each batch to the
// processing callback on its own goroutine, so sink I/O never runs on an
// application thread.
type Consumer struct {
	queue   *Queue
	process func(batch []*entry.Entry)
	logger  *slog.Logger

	batchSize    int
	flushTimeout time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewConsumer creates a consumer over q. process is invoked with batches of
// at most batchSize entries; a partial batch is flushed after flushTimeout.
func NewConsumer(q *Queue, batchSize int, flushTimeout time.Duration, process func([]*entry.Entry), logger *slog.Logger) *Consumer {
	if batchSize <= 0 {
		batchSize = 1
	}
	if flushTimeout <= 0 {
		flushTimeout = 250 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{
		queue:        q,
		process:      process,
		logger:       logger,
		batchSize:    batchSize,
		flushTimeout: flushTimeout,
		stopCh:       make(chan struct{}),
	}
}

// Start launches the consumer goroutine. Subsequent calls are no-ops.
func (c *Consumer) Start() {
	c.startOnce.Do(func() {
		c.wg.Add(1)
		go c.run()
	})
}

// Stop signals the consumer and drains remaining entries best-effort until
// the context's deadline. It returns the number of entries left behind.
func (c *Consumer) Stop(ctx context.Context) int {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
	c.wg.Wait()

	// Final drain on the caller's goroutine; the run loop has exited.
	left := c.drain(ctx)
	if left > 0 {
		c.logger.Warn("Queue entries abandoned at shutdown", "count", left)
	}
	return left
}

// run is the consumer loop.
func (c *Consumer) run() {
	defer c.wg.Done()

	batch := make([]*entry.Entry, 0, c.batchSize)
	timer := time.NewTimer(c.flushTimeout)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		c.process(batch)
		batch = batch[:0]
	}

	for {
		select {
		case <-c.stopCh:
			flush()
			return

		case e := <-c.queue.entries:
			batch = append(batch, e)
			if len(batch) >= c.batchSize {
				flush()
				resetTimer(timer, c.flushTimeout)
			}

		case <-timer.C:
			flush()
			timer.Reset(c.flushTimeout)
		}
	}
}

// drain empties what is left in the queue, stopping at the deadline.
func (c *Consumer) drain(ctx context.Context) int {
	batch := make([]*entry.Entry, 0, c.batchSize)
	for {
		select {
		case <-ctx.Done():
			if len(batch) > 0 {
				c.process(batch)
			}
			return c.queue.Len()

		case e := <-c.queue.entries:
			batch = append(batch, e)
			if len(batch) >= c.batchSize {
				c.process(batch)
				batch = batch[:0]
			}

		default:
			if len(batch) > 0 {
				c.process(batch)
			}
			return 0
		}
	}
}

// resetTimer restarts a timer that may have fired without being read.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
