// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/errors"
)

func TestListCacheServesWithinTTL(t *testing.T) {
	repo := mock.NewRepository()
	repo.SetLists([]model.ListRecord{{ID: 1, Name: "announce"}})

	cache := newListCache(repo, time.Minute)

	name, ok := cache.name(context.Background(), 1)
	require.True(t, ok)
	assert.Equal(t, "announce", name)

	// Within the TTL every lookup is served from the snapshot.
	cache.name(context.Background(), 1)
	cache.name(context.Background(), 1)
	assert.Equal(t, 1, repo.ListsCallCount())
}

func TestListCacheRefreshesAfterExpiry(t *testing.T) {
	repo := mock.NewRepository()
	repo.SetLists([]model.ListRecord{{ID: 1, Name: "announce"}})

	now := time.Now()
	cache := newListCache(repo, time.Minute)
	cache.now = func() time.Time { return now }

	_, ok := cache.name(context.Background(), 1)
	require.True(t, ok)
	assert.Equal(t, 1, repo.ListsCallCount())

	repo.SetLists([]model.ListRecord{
		{ID: 1, Name: "announce"},
		{ID: 2, Name: "dev"},
	})

	// Still fresh: the new list is invisible.
	_, ok = cache.name(context.Background(), 2)
	assert.False(t, ok)
	assert.Equal(t, 1, repo.ListsCallCount())

	now = now.Add(2 * time.Minute)

	name, ok := cache.name(context.Background(), 2)
	require.True(t, ok)
	assert.Equal(t, "dev", name)
	assert.Equal(t, 2, repo.ListsCallCount())
}

func TestListCacheServesStaleOnFailure(t *testing.T) {
	repo := mock.NewRepository()
	repo.SetLists([]model.ListRecord{{ID: 1, Name: "announce"}})

	now := time.Now()
	cache := newListCache(repo, time.Minute)
	cache.now = func() time.Time { return now }

	_, ok := cache.name(context.Background(), 1)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	repo.SetFailure("lists", errors.NewServiceUnavailable("down"))

	// A failed refresh falls back to the previous snapshot.
	name, ok := cache.name(context.Background(), 1)
	require.True(t, ok)
	assert.Equal(t, "announce", name)
}

func TestListCacheEmptyOnInitialFailure(t *testing.T) {
	repo := mock.NewRepository()
	repo.SetFailure("lists", errors.NewServiceUnavailable("down"))

	cache := newListCache(repo, time.Minute)

	_, ok := cache.name(context.Background(), 1)
	assert.False(t, ok)

	statuses := []model.ListActionStatus{{ListID: 1, Status: model.ListOutcomeSubscribed}}
	cache.enrich(context.Background(), statuses)
	assert.Empty(t, statuses[0].Name)
}

func TestListCacheEnrich(t *testing.T) {
	repo := mock.NewRepository()
	repo.SetLists([]model.ListRecord{
		{ID: 1, Name: "announce"},
		{ID: 2, Name: "dev"},
	})

	cache := newListCache(repo, time.Minute)

	statuses := []model.ListActionStatus{
		{ListID: 1, Status: model.ListOutcomeSubscribed},
		{ListID: 99, Status: model.ListOutcomeUnknownList},
	}
	cache.enrich(context.Background(), statuses)

	assert.Equal(t, "announce", statuses[0].Name)
	assert.Empty(t, statuses[1].Name)
}
