// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// MembershipAction selects the mutation applied by a bulk membership call.
type MembershipAction string

// Membership mutation actions understood by the remote service. A plain
// per-list "add" does not clear an unsubscribed flag; only an add with
// explicit target list ids does.
const (
	MembershipActionAdd         MembershipAction = "add"
	MembershipActionUnsubscribe MembershipAction = "unsubscribe"
)

// SubscriberFilter expresses a subscriber lookup. Exactly one of the
// identifying fields is expected to be set; Emails and UIDs build
// set-membership filters for batched resolution.
type SubscriberFilter struct {
	ID     int
	UUID   string
	Email  string
	Emails []string
	UIDs   []string

	ListID             int
	SubscriptionStatus string

	Page    int
	PerPage int
}

// SubscriberCreate is the body of a create call.
type SubscriberCreate struct {
	Email                   string    `json:"email"`
	Name                    string    `json:"name"`
	Attribs                 AttribMap `json:"attribs,omitempty"`
	Lists                   []int     `json:"lists,omitempty"`
	PreconfirmSubscriptions bool      `json:"preconfirm_subscriptions"`
	Status                  string    `json:"status,omitempty"`
}

// SubscriberUpdate is the body of an update call. Lists carries the
// subscriber's current list ids so an identity update does not detach
// existing memberships.
type SubscriberUpdate struct {
	Email                   string    `json:"email"`
	Name                    string    `json:"name"`
	Attribs                 AttribMap `json:"attribs,omitempty"`
	Lists                   []int     `json:"lists"`
	PreconfirmSubscriptions bool      `json:"preconfirm_subscriptions"`
	Status                  string    `json:"status,omitempty"`
}
