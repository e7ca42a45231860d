package snapshot

import (
	"context"
	"sync"
	"time"

	"studiobook/models"
)

type memoryEntry struct {
	snap      models.WeeklySnapshot
	expiresAt time.Time
}

// MemorySnapshotCache is an in-process arena of snapshots. Entries are
// replaced whole and copied on the way in and out.
type MemorySnapshotCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemorySnapshotCache(ttl time.Duration) *MemorySnapshotCache {
	return &MemorySnapshotCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemorySnapshotCache) Get(_ context.Context, artistID, weekStart string) (*models.WeeklySnapshot, error) {
	c.mu.RLock()
	entry, ok := c.entries[snapshotKey(artistID, weekStart)]
	c.mu.RUnlock()

	if !ok || (!entry.expiresAt.IsZero() && c.now().After(entry.expiresAt)) {
		return nil, models.ErrCacheMiss
	}
	snap := cloneSnapshot(entry.snap)
	return &snap, nil
}

func (c *MemorySnapshotCache) Set(_ context.Context, snap *models.WeeklySnapshot) error {
	entry := memoryEntry{snap: cloneSnapshot(*snap)}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	c.entries[snapshotKey(snap.ArtistID, snap.WeekStart)] = entry
	c.mu.Unlock()
	return nil
}

func (c *MemorySnapshotCache) InvalidateWeek(_ context.Context, artistID, weekStart string) error {
	c.mu.Lock()
	delete(c.entries, snapshotKey(artistID, weekStart))
	c.mu.Unlock()
	return nil
}

func (c *MemorySnapshotCache) InvalidateArtist(_ context.Context, artistID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if entry.snap.ArtistID == artistID {
			delete(c.entries, key)
		}
	}
	return nil
}

func cloneSnapshot(s models.WeeklySnapshot) models.WeeklySnapshot {
	raw := make(map[string]models.RawSlot, len(s.RawIntervals))
	for id, slot := range s.RawIntervals {
		raw[id] = slot
	}
	s.RawIntervals = raw
	return s
}
