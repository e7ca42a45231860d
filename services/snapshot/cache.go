package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"studiobook/models"
)

// SnapshotCache stores whole weekly snapshots keyed by (artistID, weekStart).
// Get returns models.ErrCacheMiss when nothing is stored and wraps
// models.ErrCacheUnavailable when the backend cannot be reached.
type SnapshotCache interface {
	Get(ctx context.Context, artistID, weekStart string) (*models.WeeklySnapshot, error)
	Set(ctx context.Context, snap *models.WeeklySnapshot) error
	InvalidateWeek(ctx context.Context, artistID, weekStart string) error
	InvalidateArtist(ctx context.Context, artistID string) error
}

const (
	snapshotKeyPrefix = "slots:snapshot:"
	weekIndexPrefix   = "slots:snapshot:weeks:"
)

func snapshotKey(artistID, weekStart string) string {
	return fmt.Sprintf("%s%s:%s", snapshotKeyPrefix, artistID, weekStart)
}

// weekIndexKey names the set of week starts cached for an artist.
func weekIndexKey(artistID string) string {
	return weekIndexPrefix + artistID
}

type RedisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSnapshotCache wraps client. A ttl of zero stores entries until
// they are invalidated.
func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration) *RedisSnapshotCache {
	return &RedisSnapshotCache{client: client, ttl: ttl}
}

func (c *RedisSnapshotCache) Get(ctx context.Context, artistID, weekStart string) (*models.WeeklySnapshot, error) {
	data, err := c.client.Get(ctx, snapshotKey(artistID, weekStart)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, models.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCacheUnavailable, err)
	}

	var snap models.WeeklySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// Unreadable entries are treated as absent and rebuilt.
		return nil, fmt.Errorf("%w: decode %s: %v", models.ErrCacheMiss, snapshotKey(artistID, weekStart), err)
	}
	return &snap, nil
}

func (c *RedisSnapshotCache) Set(ctx context.Context, snap *models.WeeklySnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, snapshotKey(snap.ArtistID, snap.WeekStart), data, c.ttl)
	pipe.SAdd(ctx, weekIndexKey(snap.ArtistID), snap.WeekStart)
	if c.ttl > 0 {
		pipe.Expire(ctx, weekIndexKey(snap.ArtistID), c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", models.ErrCacheUnavailable, err)
	}
	return nil
}

func (c *RedisSnapshotCache) InvalidateWeek(ctx context.Context, artistID, weekStart string) error {
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, snapshotKey(artistID, weekStart))
	pipe.SRem(ctx, weekIndexKey(artistID), weekStart)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", models.ErrCacheUnavailable, err)
	}
	return nil
}

// InvalidateArtist drops every week listed in the artist's index. Only the
// weeks it read are removed from the index, so a week cached concurrently
// stays listed for the next invalidation.
func (c *RedisSnapshotCache) InvalidateArtist(ctx context.Context, artistID string) error {
	weeks, err := c.client.SMembers(ctx, weekIndexKey(artistID)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrCacheUnavailable, err)
	}
	if len(weeks) == 0 {
		return nil
	}

	keys := make([]string, 0, len(weeks))
	members := make([]interface{}, 0, len(weeks))
	for _, ws := range weeks {
		keys = append(keys, snapshotKey(artistID, ws))
		members = append(members, ws)
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, keys...)
	pipe.SRem(ctx, weekIndexKey(artistID), members...)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", models.ErrCacheUnavailable, err)
	}
	return nil
}
