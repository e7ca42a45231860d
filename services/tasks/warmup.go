package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"studiobook/models"
)

const TypeSnapshotWarmup = "snapshot:warmup"

// NewSnapshotWarmupTask builds a task that rebuilds the listed cached weeks.
// Identical warm-ups for the same artist queued within a minute collapse into one.
func NewSnapshotWarmupTask(payload models.SnapshotWarmupPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSnapshotWarmup, b)
	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(30 * time.Second),
		asynq.Unique(time.Minute),
	}
	return task, opts, nil
}
