// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package model defines the domain models and entities for the
// subscriber sync client.
package model

import "time"

// Subscriber global status values assigned by the remote service.
const (
	SubscriberStatusEnabled     = "enabled"
	SubscriberStatusDisabled    = "disabled"
	SubscriberStatusBlocklisted = "blocklisted"
	SubscriberStatusUnconfirmed = "unconfirmed"
	SubscriberStatusBounced     = "bounced"
)

// Per-list subscription status values. Absence of a membership entry for
// a list means "never subscribed", which is distinct from unsubscribed.
const (
	SubscriptionStatusConfirmed    = "confirmed"
	SubscriptionStatusUnconfirmed  = "unconfirmed"
	SubscriptionStatusUnsubscribed = "unsubscribed"
)

// UIDAttribute is the attribs key holding the caller-supplied external
// identifier used as a stable secondary dedup key.
const UIDAttribute = "uid"

// Subscriber is a contact record owned by the remote service. The client
// never assigns ID or UUID, only reads and republishes them.
type Subscriber struct {
	ID      int              `json:"id"`
	UUID    string           `json:"uuid"`
	Email   string           `json:"email"`
	Name    string           `json:"name"`
	Attribs AttribMap        `json:"attribs"`
	Status  string           `json:"status"`
	Lists   []ListMembership `json:"lists"`
}

// ListMembership is a subscriber's status on one list.
type ListMembership struct {
	ListID             int    `json:"id"`
	SubscriptionStatus string `json:"subscription_status"`
}

// UID returns the caller-defined uid stored in attribs, tolerating the
// key being absent or non-string.
func (s *Subscriber) UID() string {
	if s == nil || s.Attribs == nil {
		return ""
	}
	uid, _ := s.Attribs[UIDAttribute].(string)
	return uid
}

// IsBlocklisted reports whether the subscriber's global status forbids
// any list attachment.
func (s *Subscriber) IsBlocklisted() bool {
	return s != nil && s.Status == SubscriberStatusBlocklisted
}

// MembershipStatus returns the subscription status for listID and
// whether a membership entry exists at all.
func (s *Subscriber) MembershipStatus(listID int) (string, bool) {
	if s == nil {
		return "", false
	}
	for _, m := range s.Lists {
		if m.ListID == listID {
			return m.SubscriptionStatus, true
		}
	}
	return "", false
}

// ListIDs returns the ids of every list the subscriber has a membership
// entry for, regardless of status.
func (s *Subscriber) ListIDs() []int {
	if s == nil {
		return nil
	}
	ids := make([]int, 0, len(s.Lists))
	for _, m := range s.Lists {
		ids = append(ids, m.ListID)
	}
	return ids
}

// SubscribedListIDs returns the ids of lists with a confirmed or
// unconfirmed membership, excluding unsubscribed entries.
func (s *Subscriber) SubscribedListIDs() []int {
	if s == nil {
		return nil
	}
	var ids []int
	for _, m := range s.Lists {
		if m.SubscriptionStatus != SubscriptionStatusUnsubscribed {
			ids = append(ids, m.ListID)
		}
	}
	return ids
}

// ListRecord is list metadata used for name enrichment and visibility
// filtering; the core never mutates it.
type ListRecord struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
