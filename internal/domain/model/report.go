// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// Per-list outcome labels reported by the membership operations.
const (
	ListOutcomeSubscribed   = "Subscribed"
	ListOutcomeUnsubscribed = "Unsubscribed"
	ListOutcomeUnchanged    = "Unchanged"
	ListOutcomeUnknownList  = "Unknown List"
)

// EntryError records one failed batch entry.
type EntryError struct {
	Email   string `json:"email"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// BulkAddResult is the aggregate report of a bulk-add run. The outcome
// sets are disjoint per processed entry.
type BulkAddResult struct {
	Success bool `json:"success"`
	Code    int  `json:"code"`

	Created             []*Subscriber `json:"created"`
	Added               []*Subscriber `json:"added"`
	SkippedBlocked      []string      `json:"skipped_blocked"`
	SkippedUnsubscribed []string      `json:"skipped_unsubscribed"`
	Errors              []EntryError  `json:"errors"`
}

// SubscribeResult reports a single idempotent upsert-and-attach.
type SubscribeResult struct {
	Subscriber        *Subscriber `json:"subscriber"`
	Created           bool        `json:"created"`
	Added             bool        `json:"added"`
	AlreadySubscribed bool        `json:"already_subscribed"`
}

// ListActionStatus is the per-list outcome of a membership operation.
// Name is filled from the list-metadata cache when available.
type ListActionStatus struct {
	ListID int    `json:"list_id"`
	Name   string `json:"name,omitempty"`
	Status string `json:"status"`
}

// UnsubscribeResult reports an unsubscribe call. Lists outcomes are
// computed from the pre-mutation membership snapshot.
type UnsubscribeResult struct {
	Subscriber *Subscriber        `json:"subscriber"`
	Lists      []ListActionStatus `json:"lists"`
}

// SetSubscriptionsResult reports a set-subscriptions delta.
type SetSubscriptionsResult struct {
	Subscriber *Subscriber        `json:"subscriber"`
	Lists      []ListActionStatus `json:"lists"`
}

// SyncResult carries the counters of a uid-keyed sync run. Blocked and
// Unsubscribed are informational; Added counts created, resubscribed and
// newly attached entries; Updated counts identity-level field changes.
type SyncResult struct {
	Blocked      int `json:"blocked"`
	Unsubscribed int `json:"unsubscribed"`
	Added        int `json:"added"`
	Updated      int `json:"updated"`
}
