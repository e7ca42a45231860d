package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"studiobook/models"
	"studiobook/services/localtime"
)

// WeekSource reads the raw records of one artist intersecting [from, to).
type WeekSource interface {
	FetchWeek(ctx context.Context, artistID string, from, to time.Time) (*models.WeekRecords, error)
}

// Loader is a read-through cache in front of a WeekSource.
type Loader struct {
	cache  SnapshotCache
	source WeekSource
	clock  *localtime.Normalizer
	logger *zap.Logger
	now    func() time.Time
}

func NewLoader(cache SnapshotCache, source WeekSource, clock *localtime.Normalizer, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{cache: cache, source: source, clock: clock, logger: logger, now: time.Now}
}

// Load returns the snapshot for the week starting on weekStart (a Monday).
// A miss is filled from the source and written back. If the cache cannot be
// reached the source is read directly and nothing is written.
func (l *Loader) Load(ctx context.Context, artistID, weekStart string) (*models.WeeklySnapshot, error) {
	snap, err := l.cache.Get(ctx, artistID, weekStart)
	switch {
	case err == nil:
		return snap, nil
	case errors.Is(err, models.ErrCacheMiss):
		return l.Refresh(ctx, artistID, weekStart)
	case errors.Is(err, models.ErrCacheUnavailable):
		l.logger.Warn("Snapshot cache unavailable, reading repository directly",
			zap.String("artistID", artistID), zap.String("weekStart", weekStart), zap.Error(err))
		return l.build(ctx, artistID, weekStart)
	default:
		return nil, err
	}
}

// Refresh rebuilds the snapshot from the source and stores it, replacing any
// cached value. A failed write is logged and the fresh snapshot is still returned.
func (l *Loader) Refresh(ctx context.Context, artistID, weekStart string) (*models.WeeklySnapshot, error) {
	snap, err := l.build(ctx, artistID, weekStart)
	if err != nil {
		return nil, err
	}
	if err := l.cache.Set(ctx, snap); err != nil {
		l.logger.Warn("Failed to store weekly snapshot",
			zap.String("artistID", artistID), zap.String("weekStart", weekStart), zap.Error(err))
	}
	return snap, nil
}

func (l *Loader) build(ctx context.Context, artistID, weekStart string) (*models.WeeklySnapshot, error) {
	from, to, err := l.clock.WeekBounds(weekStart)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidArgument, err)
	}
	records, err := l.source.FetchWeek(ctx, artistID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load week %s for artist %s: %w", weekStart, artistID, err)
	}
	return BuildSnapshot(artistID, weekStart, records, l.now()), nil
}
