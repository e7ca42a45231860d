package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"studiobook/models"
	"studiobook/services/events"
	"studiobook/services/localtime"
	"studiobook/services/snapshot"
	"studiobook/services/tasks"
)

// ScheduleService is the mutation surface used by the HTTP handlers.
type ScheduleService interface {
	AddWorkingTemplate(ctx context.Context, artistID string, req models.WorkingTemplateRequest) (*models.WorkingTemplate, error)
	UpdateWorkingTemplate(ctx context.Context, id string, req models.WorkingTemplateRequest) (*models.WorkingTemplate, error)
	DeleteWorkingTemplate(ctx context.Context, id string) (*models.WorkingTemplate, error)

	AddOverride(ctx context.Context, artistID string, req models.OverrideRequest) (*models.OverrideSlot, error)
	UpdateOverride(ctx context.Context, id string, req models.OverrideRequest) (*models.OverrideSlot, error)
	DeleteOverride(ctx context.Context, id string) (*models.OverrideSlot, error)

	AddBlocked(ctx context.Context, artistID string, req models.BlockedRequest) (*models.BlockedSlot, error)
	UpdateBlocked(ctx context.Context, id string, req models.BlockedRequest) (*models.BlockedSlot, error)
	DeleteBlocked(ctx context.Context, id string) (*models.BlockedSlot, error)
}

// Enqueuer is the part of *asynq.Client the coordinator needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Coordinator applies a mutation through the Repository and, once it has
// been committed, invalidates the affected cached weeks. Template changes
// drop every cached week of the artist; override and blocked changes drop
// only the weeks their old and new ranges touch.
type Coordinator struct {
	Slots       *Repository
	Cache       snapshot.SnapshotCache
	Clock       *localtime.Normalizer
	Events      events.Publisher
	Warmer      Enqueuer // optional
	WarmupWeeks int
	Logger      *zap.Logger

	now func() time.Time
}

var _ ScheduleService = (*Coordinator)(nil)

func NewCoordinator(slots *Repository, cache snapshot.SnapshotCache, clock *localtime.Normalizer, publisher events.Publisher, warmer Enqueuer, warmupWeeks int, logger *zap.Logger) *Coordinator {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		Slots:       slots,
		Cache:       cache,
		Clock:       clock,
		Events:      publisher,
		Warmer:      warmer,
		WarmupWeeks: warmupWeeks,
		Logger:      logger,
		now:         time.Now,
	}
}

// Working templates.

func (c *Coordinator) AddWorkingTemplate(ctx context.Context, artistID string, req models.WorkingTemplateRequest) (*models.WorkingTemplate, error) {
	t, err := c.Slots.AddWorkingTemplate(ctx, artistID, req)
	if err != nil {
		return nil, err
	}
	c.artistChanged(ctx, events.TemplateCreated, t.ArtistID, t.ID)
	return t, nil
}

func (c *Coordinator) UpdateWorkingTemplate(ctx context.Context, id string, req models.WorkingTemplateRequest) (*models.WorkingTemplate, error) {
	t, _, err := c.Slots.UpdateWorkingTemplate(ctx, id, req)
	if err != nil {
		return nil, err
	}
	c.artistChanged(ctx, events.TemplateUpdated, t.ArtistID, t.ID)
	return t, nil
}

func (c *Coordinator) DeleteWorkingTemplate(ctx context.Context, id string) (*models.WorkingTemplate, error) {
	t, err := c.Slots.DeleteWorkingTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	c.artistChanged(ctx, events.TemplateDeleted, t.ArtistID, t.ID)
	return t, nil
}

// Overrides.

func (c *Coordinator) AddOverride(ctx context.Context, artistID string, req models.OverrideRequest) (*models.OverrideSlot, error) {
	o, err := c.Slots.AddOverride(ctx, artistID, req)
	if err != nil {
		return nil, err
	}
	c.weeksChanged(ctx, events.OverrideCreated, o.ArtistID, o.ID, c.WeeksTouched(o.StartAt, o.EndAt))
	return o, nil
}

func (c *Coordinator) UpdateOverride(ctx context.Context, id string, req models.OverrideRequest) (*models.OverrideSlot, error) {
	o, prev, err := c.Slots.UpdateOverride(ctx, id, req)
	if err != nil {
		return nil, err
	}
	weeks := mergeWeeks(c.WeeksTouched(prev.StartAt, prev.EndAt), c.WeeksTouched(o.StartAt, o.EndAt))
	c.weeksChanged(ctx, events.OverrideUpdated, o.ArtistID, o.ID, weeks)
	return o, nil
}

func (c *Coordinator) DeleteOverride(ctx context.Context, id string) (*models.OverrideSlot, error) {
	o, err := c.Slots.DeleteOverride(ctx, id)
	if err != nil {
		return nil, err
	}
	c.weeksChanged(ctx, events.OverrideDeleted, o.ArtistID, o.ID, c.WeeksTouched(o.StartAt, o.EndAt))
	return o, nil
}

// Blocked ranges.

func (c *Coordinator) AddBlocked(ctx context.Context, artistID string, req models.BlockedRequest) (*models.BlockedSlot, error) {
	b, err := c.Slots.AddBlocked(ctx, artistID, req)
	if err != nil {
		return nil, err
	}
	c.weeksChanged(ctx, events.BlockedCreated, b.ArtistID, b.ID, c.WeeksTouched(b.StartAt, b.EndAt))
	return b, nil
}

func (c *Coordinator) UpdateBlocked(ctx context.Context, id string, req models.BlockedRequest) (*models.BlockedSlot, error) {
	b, prev, err := c.Slots.UpdateBlocked(ctx, id, req)
	if err != nil {
		return nil, err
	}
	weeks := mergeWeeks(c.WeeksTouched(prev.StartAt, prev.EndAt), c.WeeksTouched(b.StartAt, b.EndAt))
	c.weeksChanged(ctx, events.BlockedUpdated, b.ArtistID, b.ID, weeks)
	return b, nil
}

func (c *Coordinator) DeleteBlocked(ctx context.Context, id string) (*models.BlockedSlot, error) {
	b, err := c.Slots.DeleteBlocked(ctx, id)
	if err != nil {
		return nil, err
	}
	c.weeksChanged(ctx, events.BlockedDeleted, b.ArtistID, b.ID, c.WeeksTouched(b.StartAt, b.EndAt))
	return b, nil
}

// WeeksTouched lists the Mondays of every local week that [start, end)
// intersects. A range ending exactly at midnight Monday does not touch the
// following week.
func (c *Coordinator) WeeksTouched(start, end time.Time) []string {
	first := c.Clock.WeekStart(start)
	if !end.After(start) {
		return []string{first.Format(localtime.DateLayout)}
	}
	var weeks []string
	for w := first; w.Before(end); w = w.AddDate(0, 0, localtime.DaysPerWeek) {
		weeks = append(weeks, w.Format(localtime.DateLayout))
	}
	return weeks
}

func mergeWeeks(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, w := range append(append([]string{}, a...), b...) {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

// The write has already been committed when these run, so failures are
// logged and left to the cache TTL rather than returned.

func (c *Coordinator) artistChanged(ctx context.Context, eventType, artistID, recordID string) {
	if err := c.Cache.InvalidateArtist(ctx, artistID); err != nil {
		c.Logger.Error("Failed to invalidate cached weeks for artist",
			zap.String("artistID", artistID), zap.String("event", eventType), zap.Error(err))
	}
	c.publish(ctx, events.SlotChange{Type: eventType, ArtistID: artistID, RecordID: recordID, AllWeeks: true})
	c.enqueueWarmup(ctx, artistID, eventType)
}

func (c *Coordinator) weeksChanged(ctx context.Context, eventType, artistID, recordID string, weeks []string) {
	for _, w := range weeks {
		if err := c.Cache.InvalidateWeek(ctx, artistID, w); err != nil {
			c.Logger.Error("Failed to invalidate cached week",
				zap.String("artistID", artistID), zap.String("weekStart", w), zap.String("event", eventType), zap.Error(err))
		}
	}
	c.publish(ctx, events.SlotChange{Type: eventType, ArtistID: artistID, RecordID: recordID, Weeks: weeks})
}

func (c *Coordinator) publish(ctx context.Context, change events.SlotChange) {
	if err := c.Events.Publish(ctx, change); err != nil {
		c.Logger.Warn("Failed to publish slot change",
			zap.String("type", change.Type), zap.String("artistID", change.ArtistID), zap.Error(err))
	}
}

func (c *Coordinator) enqueueWarmup(ctx context.Context, artistID, reason string) {
	if c.Warmer == nil {
		return
	}
	current := c.Clock.WeekStart(c.now())
	weeks := make([]string, 0, c.WarmupWeeks+1)
	for i := 0; i <= c.WarmupWeeks; i++ {
		weeks = append(weeks, current.AddDate(0, 0, i*localtime.DaysPerWeek).Format(localtime.DateLayout))
	}

	task, opts, err := tasks.NewSnapshotWarmupTask(models.SnapshotWarmupPayload{
		ArtistID:   artistID,
		WeekStarts: weeks,
		Reason:     reason,
	})
	if err != nil {
		c.Logger.Error("Failed to build warm-up task", zap.String("artistID", artistID), zap.Error(err))
		return
	}
	if _, err := c.Warmer.EnqueueContext(ctx, task, opts...); err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
		c.Logger.Warn("Failed to enqueue snapshot warm-up", zap.String("artistID", artistID), zap.Error(err))
	}
}
