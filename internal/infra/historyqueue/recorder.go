package historyqueue

import (
	"context"
	"log/slog"
	"time"

	"github.com/yanqian/weather-helloworld/internal/domain/weather"
	"github.com/yanqian/weather-helloworld/pkg/metrics"
)

// SearchStore is where delivered jobs end up.
type SearchStore interface {
	RecordSearch(ctx context.Context, userID int64, city, country string) error
}

// Recorder hands searches to a queue and persists them when the queue delivers.
type Recorder struct {
	queue   Queue
	store   SearchStore
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewRecorder wires the recorder as the queue's handler.
func NewRecorder(queue Queue, store SearchStore, m *metrics.Metrics, logger *slog.Logger) *Recorder {
	r := &Recorder{
		queue:   queue,
		store:   store,
		metrics: m,
		logger:  logger.With("component", "historyqueue.recorder"),
		now:     time.Now,
	}
	queue.SetHandler(r.handle)
	return r
}

// Record enqueues the search and returns without waiting for storage.
func (r *Recorder) Record(ctx context.Context, userID int64, city, country string) error {
	err := r.queue.Enqueue(ctx, Job{
		UserID:   userID,
		City:     city,
		Country:  country,
		QueuedAt: r.now().UTC(),
	})
	if err != nil {
		r.metrics.HistoryRecorded(false)
	}
	return err
}

func (r *Recorder) handle(ctx context.Context, job Job) error {
	err := r.store.RecordSearch(ctx, job.UserID, job.City, job.Country)
	r.metrics.HistoryRecorded(err == nil)
	if err == nil {
		r.logger.Debug("search recorded", "userId", job.UserID, "city", job.City)
	}
	return err
}

var _ weather.HistoryRecorder = (*Recorder)(nil)
