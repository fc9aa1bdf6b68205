// Package batchqueue implements a Redis-backed priority queue of
// pricing jobs, drained on a cron schedule. Adapted from the scheduler
// in perclft-QubitEngine's services/scheduler: same sorted-set queue,
// per-job Redis hash, and UUID job identifiers, repointed at pricing
// requests instead of circuit-execution jobs.
package batchqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Priority mirrors the teacher's four-tier job priority.
type Priority int32

const (
	PriorityLow      Priority = 0
	PriorityNormal   Priority = 1
	PriorityHigh     Priority = 2
	PriorityRealtime Priority = 3
)

// State is a job's lifecycle stage.
type State int32

const (
	StateQueued State = iota
	StateRunning
	StateCompleted
	StateFailed
	StateCancelled
)

// Job is one queued pricing request plus its lifecycle bookkeeping.
type Job struct {
	ID       string   `json:"id"`
	Method   string   `json:"method"`
	Priority Priority `json:"priority"`
	State    State    `json:"state"`

	Spot   float64 `json:"spot"`
	Strike float64 `json:"strike"`
	Rate   float64 `json:"rate"`
	Vol    float64 `json:"vol"`
	Time   float64 `json:"time"`

	Result       float64 `json:"result"`
	ErrorMessage string  `json:"error_message"`

	SubmittedAt time.Time `json:"submitted_at"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

const queueKey = "queue:pricing-jobs"

func jobKey(id string) string { return "job:" + id }

// Queue wraps a Redis client with the job-submission/status surface.
type Queue struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns a Queue bound to rdb; completed job records expire after
// recordTTL.
func New(rdb *redis.Client, recordTTL time.Duration) *Queue {
	return &Queue{rdb: rdb, ttl: recordTTL}
}

// Submit enqueues a job and returns its generated ID.
func (q *Queue) Submit(ctx context.Context, job Job) (string, error) {
	job.ID = uuid.New().String()
	job.State = StateQueued
	job.SubmittedAt = time.Now()

	data, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("batchqueue: marshal job: %w", err)
	}
	if err := q.rdb.Set(ctx, jobKey(job.ID), data, q.ttl).Err(); err != nil {
		return "", fmt.Errorf("batchqueue: store job: %w", err)
	}

	score := float64(int64(job.Priority)*1_000_000 - job.SubmittedAt.Unix())
	if err := q.rdb.ZAdd(ctx, queueKey, &redis.Z{Score: score, Member: job.ID}).Err(); err != nil {
		return "", fmt.Errorf("batchqueue: enqueue job: %w", err)
	}
	return job.ID, nil
}

// Status returns the current state of job id.
func (q *Queue) Status(ctx context.Context, id string) (Job, error) {
	data, err := q.rdb.Get(ctx, jobKey(id)).Bytes()
	if err == redis.Nil {
		return Job{}, fmt.Errorf("batchqueue: job %s not found", id)
	}
	if err != nil {
		return Job{}, fmt.Errorf("batchqueue: get job: %w", err)
	}
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return Job{}, fmt.Errorf("batchqueue: unmarshal job: %w", err)
	}
	return job, nil
}

// Cancel removes a queued job before it starts running.
func (q *Queue) Cancel(ctx context.Context, id string) (bool, error) {
	removed, err := q.rdb.ZRem(ctx, queueKey, id).Result()
	if err != nil {
		return false, fmt.Errorf("batchqueue: remove from queue: %w", err)
	}
	if removed == 0 {
		return false, nil
	}
	return true, q.updateState(ctx, id, StateCancelled, "")
}

// PopNext removes and returns the highest-priority queued job, or
// ok=false if the queue is empty.
func (q *Queue) PopNext(ctx context.Context) (Job, bool, error) {
	result, err := q.rdb.ZPopMax(ctx, queueKey, 1).Result()
	if err != nil {
		return Job{}, false, fmt.Errorf("batchqueue: pop: %w", err)
	}
	if len(result) == 0 {
		return Job{}, false, nil
	}
	id, _ := result[0].Member.(string)
	job, err := q.Status(ctx, id)
	if err != nil {
		return Job{}, false, err
	}
	job.State = StateRunning
	job.StartedAt = time.Now()
	if err := q.save(ctx, job); err != nil {
		return Job{}, false, err
	}
	return job, true, nil
}

// Complete records a job's terminal state (StateCompleted on success,
// StateFailed on error).
func (q *Queue) Complete(ctx context.Context, id string, price float64, procErr error) error {
	job, err := q.Status(ctx, id)
	if err != nil {
		return err
	}
	job.CompletedAt = time.Now()
	if procErr != nil {
		job.State = StateFailed
		job.ErrorMessage = procErr.Error()
	} else {
		job.State = StateCompleted
		job.Result = price
	}
	return q.save(ctx, job)
}

func (q *Queue) updateState(ctx context.Context, id string, state State, errMsg string) error {
	job, err := q.Status(ctx, id)
	if err != nil {
		return err
	}
	job.State = state
	job.ErrorMessage = errMsg
	return q.save(ctx, job)
}

func (q *Queue) save(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("batchqueue: marshal job: %w", err)
	}
	return q.rdb.Set(ctx, jobKey(job.ID), data, q.ttl).Err()
}
