package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"studiobook/models"
	"studiobook/services/tasks"
)

// SnapshotRefresher rebuilds and stores one cached week.
type SnapshotRefresher interface {
	Refresh(ctx context.Context, artistID, weekStart string) (*models.WeeklySnapshot, error)
}

// InitWarmupWorker runs the snapshot warm-up worker in background. The
// returned server should be shut down on exit.
func InitWarmupWorker(redisOpts asynq.RedisClientOpt, refresher SnapshotRefresher, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSnapshotWarmup, HandleSnapshotWarmup(refresher, logger))

	// Start async worker with retry logic
	go func() {
		logger.Info("[WarmupWorker] Starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Run(mux)
			if err == nil || err == asynq.ErrServerClosed {
				return
			}
			logger.Error("[WarmupWorker] Failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("[WarmupWorker] Max retry attempts reached, snapshots will only be built on read")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
		}
	}()

	return srv
}

// HandleSnapshotWarmup rebuilds every week listed in the task payload. A
// malformed payload is not retried.
func HandleSnapshotWarmup(refresher SnapshotRefresher, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.SnapshotWarmupPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("[WarmupHandler] Invalid payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if p.ArtistID == "" {
			logger.Error("[WarmupHandler] Payload without artist id")
			return fmt.Errorf("missing artist id: %w", asynq.SkipRetry)
		}

		var failed int
		for _, week := range p.WeekStarts {
			if _, err := refresher.Refresh(ctx, p.ArtistID, week); err != nil {
				failed++
				logger.Warn("[WarmupHandler] Failed to rebuild week",
					zap.String("artistID", p.ArtistID), zap.String("weekStart", week), zap.Error(err))
			}
		}
		logger.Debug("[WarmupHandler] Warm-up finished",
			zap.String("artistID", p.ArtistID), zap.String("reason", p.Reason),
			zap.Int("weeks", len(p.WeekStarts)), zap.Int("failed", failed))

		if failed > 0 {
			return fmt.Errorf("warm-up for artist %s: %d of %d weeks failed", p.ArtistID, failed, len(p.WeekStarts))
		}
		return nil
	}
}

// MonitorRedisConnection pings Redis periodically to detect failures at runtime.
func MonitorRedisConnection(ctx context.Context, client *redis.Client, logger *zap.Logger) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("[WarmupWorker] Redis connection lost", zap.Error(err))
			}
		}
	}
}
