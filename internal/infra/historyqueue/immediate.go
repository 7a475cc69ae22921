package historyqueue

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ImmediateQueue runs the handler in a goroutine on enqueue.
type ImmediateQueue struct {
	mu      sync.RWMutex
	handler Handler
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewImmediateQueue constructs the queue.
func NewImmediateQueue(timeout time.Duration, logger *slog.Logger) *ImmediateQueue {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ImmediateQueue{
		timeout: timeout,
		logger:  logger.With("component", "historyqueue.immediate"),
	}
}

// SetHandler replaces the handler used for queued jobs.
func (q *ImmediateQueue) SetHandler(handler Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handler = handler
}

// Enqueue invokes the handler asynchronously. The job outlives the caller's context.
func (q *ImmediateQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.RLock()
	handler := q.handler
	q.mu.RUnlock()
	if handler == nil {
		return nil
	}
	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), q.timeout)
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer cancel()
		if err := handler(jobCtx, job); err != nil {
			q.logger.Warn("history job failed", "userId", job.UserID, "error", err)
		}
	}()
	return nil
}

// Close waits for in-flight jobs.
func (q *ImmediateQueue) Close() {
	q.wg.Wait()
}

var _ Queue = (*ImmediateQueue)(nil)
