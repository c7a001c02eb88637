// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/port"
)

// listCache is a time-bounded read-through cache of list id to name
// mappings, used only to enrich membership reports. It is best-effort:
// a failed refresh serves the previous snapshot, and an empty cache
// simply leaves names blank.
type listCache struct {
	reader port.ListReader
	ttl    time.Duration
	now    func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	expiresAt time.Time
	snapshot  map[int]string
}

func newListCache(reader port.ListReader, ttl time.Duration) *listCache {
	return &listCache{
		reader: reader,
		ttl:    ttl,
		now:    time.Now,
	}
}

// isExpired is a pure predicate over the given wall-clock time.
func (c *listCache) isExpired(now time.Time) bool {
	return c.expiresAt.IsZero() || now.After(c.expiresAt)
}

// name returns the cached name for a list id and whether the id is
// known at all.
func (c *listCache) name(ctx context.Context, listID int) (string, bool) {
	snapshot := c.current(ctx)
	name, ok := snapshot[listID]
	return name, ok
}

// current returns a fresh snapshot, refreshing through singleflight so
// concurrent callers trigger at most one fetch.
func (c *listCache) current(ctx context.Context) map[int]string {
	c.mu.RLock()
	if !c.isExpired(c.now()) {
		snapshot := c.snapshot
		c.mu.RUnlock()
		return snapshot
	}
	c.mu.RUnlock()

	result, _, _ := c.group.Do("lists", func() (any, error) {
		lists, err := c.reader.Lists(ctx, "")
		if err != nil {
			slog.WarnContext(ctx, "list metadata refresh failed, serving stale snapshot", "error", err)
			c.mu.RLock()
			defer c.mu.RUnlock()
			return c.snapshot, nil
		}

		snapshot := make(map[int]string, len(lists))
		for _, list := range lists {
			snapshot[list.ID] = list.Name
		}

		c.mu.Lock()
		c.snapshot = snapshot
		c.expiresAt = c.now().Add(c.ttl)
		c.mu.Unlock()

		return snapshot, nil
	})

	snapshot, _ := result.(map[int]string)
	return snapshot
}

// enrich fills status names from the cache.
func (c *listCache) enrich(ctx context.Context, statuses []model.ListActionStatus) {
	for i := range statuses {
		if name, ok := c.name(ctx, statuses[i].ListID); ok {
			statuses[i].Name = name
		}
	}
}
