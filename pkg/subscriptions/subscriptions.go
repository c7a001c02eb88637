// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package subscriptions is the public entry point of the subscriber
// sync client. It wires the listmonk API client and the reconciliation
// service together and re-exports the types callers need, so importing
// this single package is enough to drive every operation.
package subscriptions

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/infrastructure/listmonk"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/service"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/log"
)

// Re-exported configuration and domain types.
type (
	// Config configures the connection to the listmonk instance.
	Config = listmonk.Config

	// BulkEntry is one externally supplied user record in a batch.
	BulkEntry = model.BulkEntry

	// AttribMap holds free-form subscriber attributes.
	AttribMap = model.AttribMap

	// Subscriber is a contact record owned by the remote service.
	Subscriber = model.Subscriber

	// ListMembership is a subscriber's status on one list.
	ListMembership = model.ListMembership

	// ListRecord is list metadata.
	ListRecord = model.ListRecord

	// ListActionStatus is the per-list outcome of a membership operation.
	ListActionStatus = model.ListActionStatus

	// BulkAddResult is the aggregate report of a bulk-add run.
	BulkAddResult = model.BulkAddResult

	// SubscribeResult reports a single idempotent upsert-and-attach.
	SubscribeResult = model.SubscribeResult

	// UnsubscribeResult reports an unsubscribe call.
	UnsubscribeResult = model.UnsubscribeResult

	// SetSubscriptionsResult reports a set-subscriptions delta.
	SetSubscriptionsResult = model.SetSubscriptionsResult

	// SyncResult carries the counters of a uid-keyed sync run.
	SyncResult = model.SyncResult

	// AddOptions configure a bulk-add run.
	AddOptions = service.AddOptions

	// SubscribeOptions configure the subscribe upsert.
	SubscribeOptions = service.SubscribeOptions

	// UserPatch carries the identity fields of a single-record update.
	UserPatch = service.UserPatch
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return listmonk.DefaultConfig()
}

// NewConfigFromEnv creates a Config from LISTMONK_* environment
// variables.
func NewConfigFromEnv() Config {
	return listmonk.NewConfigFromEnv()
}

// LoadConfig reads a YAML config file, filling unset fields with
// defaults.
func LoadConfig(path string) (Config, error) {
	return listmonk.LoadConfig(path)
}

// InitLogging configures the default slog logger as a JSON handler with
// context-attribute support, driven by the LOG_LEVEL and LOG_ADD_SOURCE
// environment variables. Optional; applications that manage their own
// slog default can skip it.
func InitLogging() {
	log.InitStructureLogConfig()
}

// Option configures a Client.
type Option func(*options)

type options struct {
	registerer   prometheus.Registerer
	listCacheTTL time.Duration
}

// WithRegisterer wires HTTP transport metrics into the given Prometheus
// registerer.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithListCacheTTL overrides the expiry of the list-metadata cache used
// for report name enrichment.
func WithListCacheTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.listCacheTTL = ttl
	}
}

// Client drives subscriber reconciliation and list membership against a
// listmonk-compatible service. All methods are safe for concurrent use.
type Client struct {
	svc *service.SubscriberService
}

// New creates a Client for the given instance configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	repo, err := listmonk.NewClient(cfg, o.registerer)
	if err != nil {
		return nil, err
	}

	var svcOpts []service.Option
	if o.listCacheTTL > 0 {
		svcOpts = append(svcOpts, service.WithListCacheTTL(o.listCacheTTL))
	}

	return &Client{svc: service.NewSubscriberService(repo, svcOpts...)}, nil
}

// AddSubscribersToList reconciles a batch of entries against the remote
// service and attaches them to the list. Per-entry failures are
// accumulated into the result; the returned error is reserved for
// batch-fatal conditions.
func (c *Client) AddSubscribersToList(ctx context.Context, listID int, entries []BulkEntry, opts AddOptions) (*BulkAddResult, error) {
	return c.svc.AddSubscribersToList(ctx, listID, entries, opts)
}

// SyncToList is the uid-keyed batch upsert: every entry must carry a
// uid and an email, and the first write failure aborts the whole sync.
func (c *Client) SyncToList(ctx context.Context, listID int, entries []BulkEntry) (*SyncResult, error) {
	return c.svc.SyncToList(ctx, listID, entries)
}

// Subscribe is the idempotent single-subscriber upsert-and-attach.
func (c *Client) Subscribe(ctx context.Context, listID int, entry BulkEntry, opts SubscribeOptions) (*SubscribeResult, error) {
	return c.svc.Subscribe(ctx, listID, entry, opts)
}

// Unsubscribe removes a subscriber from the given lists, or from all of
// their current lists when none are given.
func (c *Client) Unsubscribe(ctx context.Context, identifier string, listIDs []int) (*UnsubscribeResult, error) {
	return c.svc.Unsubscribe(ctx, identifier, listIDs)
}

// SetSubscriptions reconciles a subscriber's memberships toward the
// requested list set.
func (c *Client) SetSubscriptions(ctx context.Context, identifier string, listIDs []int, removeOthers bool) (*SetSubscriptionsResult, error) {
	return c.svc.SetSubscriptions(ctx, identifier, listIDs, removeOthers)
}

// GetUser resolves a single subscriber by numeric id, UUID, or email.
func (c *Client) GetUser(ctx context.Context, identifier string) (*Subscriber, error) {
	return c.svc.GetUser(ctx, identifier)
}

// UpdateUser updates a subscriber's identity fields; changing a stored
// uid requires forceUIDChange.
func (c *Client) UpdateUser(ctx context.Context, identifier string, patch UserPatch, forceUIDChange bool) (*Subscriber, error) {
	return c.svc.UpdateUser(ctx, identifier, patch, forceUIDChange)
}

// DeleteUser removes a single subscriber.
func (c *Client) DeleteUser(ctx context.Context, identifier string) error {
	return c.svc.DeleteUser(ctx, identifier)
}

// DeleteUsers removes a set of subscribers by id.
func (c *Client) DeleteUsers(ctx context.Context, ids []int) error {
	return c.svc.DeleteUsers(ctx, ids)
}
