// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service implements the subscriber reconciliation and
// list-membership state machine on top of the repository ports.
package service

import (
	"time"

	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/port"
)

const defaultListCacheTTL = 5 * time.Minute

// SubscriberService orchestrates reconciliation and membership
// operations against the remote subscriber API. All batch processing is
// strictly sequential, chunk by chunk, entry by entry; the only shared
// state is the read-through list-name cache.
type SubscriberService struct {
	repo      port.SubscriberRepository
	listCache *listCache
}

// Option configures a SubscriberService.
type Option func(*SubscriberService)

// WithListCacheTTL overrides the wall-clock expiry of the list-name
// cache.
func WithListCacheTTL(ttl time.Duration) Option {
	return func(s *SubscriberService) {
		s.listCache.ttl = ttl
	}
}

// NewSubscriberService creates a service backed by the given repository.
func NewSubscriberService(repo port.SubscriberRepository, opts ...Option) *SubscriberService {
	s := &SubscriberService{
		repo:      repo,
		listCache: newListCache(repo, defaultListCacheTTL),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
