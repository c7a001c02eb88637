// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package port defines the interfaces between the reconciliation service
// and the remote subscriber API infrastructure.
package port

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/model"
)

// SubscriberReader looks up subscriber records on the remote service.
type SubscriberReader interface {
	// Query runs a filtered subscriber search and returns the matching
	// page of records. An empty result is not an error.
	Query(ctx context.Context, filter model.SubscriberFilter) ([]model.Subscriber, error)

	// Get fetches a single subscriber by remote-assigned numeric id.
	// A missing record surfaces as errors.NotFound.
	Get(ctx context.Context, id int) (*model.Subscriber, error)
}

// SubscriberWriter mutates subscriber records and list memberships.
type SubscriberWriter interface {
	Create(ctx context.Context, req model.SubscriberCreate) (*model.Subscriber, error)
	Update(ctx context.Context, id int, req model.SubscriberUpdate) (*model.Subscriber, error)
	Delete(ctx context.Context, id int) error
	DeleteMany(ctx context.Context, ids []int) error

	// AddToList attaches subscribers to exactly one list by path
	// parameter. The remote service does not clear an unsubscribed flag
	// on this path.
	AddToList(ctx context.Context, listID int, ids []int) error

	// UpdateMemberships applies action to an arbitrary target list set.
	// An add through this path does clear the unsubscribed flag, which
	// makes it the required call for resubscription.
	UpdateMemberships(ctx context.Context, ids []int, action model.MembershipAction, targetListIDs []int) error
}

// ListReader fetches list metadata for name enrichment and visibility
// filtering.
type ListReader interface {
	Lists(ctx context.Context, visibility string) ([]model.ListRecord, error)
}

// SubscriberRepository aggregates the full remote API surface the
// service layer depends on.
type SubscriberRepository interface {
	SubscriberReader
	SubscriberWriter
	ListReader
}
