package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studiobook/models"
	"studiobook/services/tasks"
)

type fakeRefresher struct {
	calls []string
	fail  map[string]bool
}

func (f *fakeRefresher) Refresh(_ context.Context, artistID, weekStart string) (*models.WeeklySnapshot, error) {
	f.calls = append(f.calls, artistID+"/"+weekStart)
	if f.fail[weekStart] {
		return nil, models.ErrRepositoryTimeout
	}
	return &models.WeeklySnapshot{ArtistID: artistID, WeekStart: weekStart}, nil
}

func warmupTask(t *testing.T, p models.SnapshotWarmupPayload) *asynq.Task {
	t.Helper()
	task, _, err := tasks.NewSnapshotWarmupTask(p)
	require.NoError(t, err)
	return task
}

func TestHandleSnapshotWarmupRefreshesEveryWeek(t *testing.T) {
	r := &fakeRefresher{}
	h := HandleSnapshotWarmup(r, zap.NewNop())

	err := h(context.Background(), warmupTask(t, models.SnapshotWarmupPayload{
		ArtistID:   "a1",
		WeekStarts: []string{"2024-06-03", "2024-06-10"},
		Reason:     "slots.template.updated",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a1/2024-06-03", "a1/2024-06-10"}, r.calls)
}

func TestHandleSnapshotWarmupReportsPartialFailure(t *testing.T) {
	r := &fakeRefresher{fail: map[string]bool{"2024-06-10": true}}
	h := HandleSnapshotWarmup(r, zap.NewNop())

	err := h(context.Background(), warmupTask(t, models.SnapshotWarmupPayload{
		ArtistID:   "a1",
		WeekStarts: []string{"2024-06-03", "2024-06-10", "2024-06-17"},
	}))
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
	assert.Len(t, r.calls, 3, "one failing week does not stop the others")
}

func TestHandleSnapshotWarmupSkipsRetryOnBadPayload(t *testing.T) {
	r := &fakeRefresher{}
	h := HandleSnapshotWarmup(r, zap.NewNop())

	err := h(context.Background(), asynq.NewTask(tasks.TypeSnapshotWarmup, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	payload, _ := json.Marshal(models.SnapshotWarmupPayload{WeekStarts: []string{"2024-06-03"}})
	err = h(context.Background(), asynq.NewTask(tasks.TypeSnapshotWarmup, payload))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, r.calls)
}
