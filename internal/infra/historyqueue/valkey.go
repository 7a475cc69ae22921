package historyqueue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

const defaultQueueKey = "weather:history:jobs"

// ValkeyQueue persists jobs in a Valkey list and delivers them to a handler.
type ValkeyQueue struct {
	client      valkey.Client
	queueKey    string
	handler     Handler
	logger      *slog.Logger
	stop        chan struct{}
	stopOnce    sync.Once
	done        chan struct{}
	pollTimeout time.Duration
	jobTimeout  time.Duration
}

// NewValkeyQueue constructs a Valkey-backed queue.
func NewValkeyQueue(client valkey.Client, queueKey string, jobTimeout time.Duration, logger *slog.Logger) *ValkeyQueue {
	if queueKey == "" {
		queueKey = defaultQueueKey
	}
	if jobTimeout <= 0 {
		jobTimeout = 5 * time.Second
	}
	return &ValkeyQueue{
		client:      client,
		queueKey:    queueKey,
		logger:      logger.With("component", "historyqueue.valkey"),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
		pollTimeout: 5 * time.Second,
		jobTimeout:  jobTimeout,
	}
}

// SetHandler starts the worker loop that pops jobs and invokes the handler.
func (q *ValkeyQueue) SetHandler(handler Handler) {
	q.handler = handler
	if handler == nil {
		return
	}
	go q.consume()
}

// Enqueue pushes a job onto the list.
func (q *ValkeyQueue) Enqueue(ctx context.Context, job Job) error {
	encoded, err := encodeJob(job)
	if err != nil {
		return err
	}
	cmd := q.client.B().Lpush().Key(q.queueKey).Element(encoded).Build()
	return q.client.Do(ctx, cmd).Error()
}

// Close stops the worker after its current poll.
func (q *ValkeyQueue) Close() {
	q.stopOnce.Do(func() { close(q.stop) })
	if q.handler != nil {
		<-q.done
	}
}

func (q *ValkeyQueue) consume() {
	defer close(q.done)
	ctx := context.Background()
	for {
		select {
		case <-q.stop:
			return
		default:
		}
		resp := q.client.Do(ctx, q.client.B().Brpop().Key(q.queueKey).Timeout(q.pollTimeout.Seconds()).Build())
		values, err := resp.ToArray()
		if err != nil {
			if !valkey.IsValkeyNil(err) {
				q.logger.Warn("valkey queue pop failed", "error", err)
				time.Sleep(time.Second)
			}
			continue
		}
		if len(values) < 2 {
			continue
		}
		raw, err := values[1].ToString()
		if err != nil {
			q.logger.Warn("valkey queue payload decode failed", "error", err)
			continue
		}
		job, ok, err := decodeJob(raw)
		if err != nil {
			q.logger.Warn("valkey queue unmarshal failed", "error", err)
			continue
		}
		if !ok {
			continue
		}
		jobCtx, cancel := context.WithTimeout(ctx, q.jobTimeout)
		if err := q.handler(jobCtx, job); err != nil {
			q.logger.Warn("history job failed", "userId", job.UserID, "error", err)
		}
		cancel()
	}
}

var _ Queue = (*ValkeyQueue)(nil)
