package historyqueue

import (
	"context"
	"encoding/json"
	"time"
)

// JobName tags history jobs on a shared queue.
const JobName = "record_history"

// Job is one search to append to a user's history.
type Job struct {
	UserID   int64     `json:"userId"`
	City     string    `json:"city"`
	Country  string    `json:"country"`
	QueuedAt time.Time `json:"queuedAt"`
}

// Handler processes a delivered job.
type Handler func(ctx context.Context, job Job) error

// Queue delivers jobs to a handler outside the request path.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	SetHandler(handler Handler)
	Close()
}

type jobEnvelope struct {
	Name    string `json:"name"`
	Payload Job    `json:"payload"`
}

func encodeJob(job Job) (string, error) {
	encoded, err := json.Marshal(jobEnvelope{Name: JobName, Payload: job})
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func decodeJob(raw string) (Job, bool, error) {
	var env jobEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return Job{}, false, err
	}
	if env.Name != JobName {
		return Job{}, false, nil
	}
	return env.Payload, true, nil
}
