// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package mock provides an in-memory implementation of the repository
// ports for testing the reconciliation service without a live API.
package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/errors"
)

// Repository is an in-memory subscriber store. It mimics the remote
// service's observable quirks: emails are case-insensitively unique, and
// a path-scoped list add does not clear an unsubscribed membership.
type Repository struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[int]*model.Subscriber
	lists       []model.ListRecord
	failures    map[string]error
	calls       []string
	listsCalls  int
}

// Repository implements the full repository port.
var _ port.SubscriberRepository = (*Repository)(nil)

// NewRepository creates an empty mock repository.
func NewRepository() *Repository {
	return &Repository{
		nextID:      0,
		subscribers: make(map[int]*model.Subscriber),
		failures:    make(map[string]error),
	}
}

// AddSubscriber seeds a subscriber, assigning id/uuid when unset, and
// returns the assigned id.
func (r *Repository) AddSubscriber(sub model.Subscriber) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sub.ID == 0 {
		r.nextID++
		sub.ID = r.nextID
	} else if sub.ID > r.nextID {
		r.nextID = sub.ID
	}
	if sub.UUID == "" {
		sub.UUID = uuid.New().String()
	}
	if sub.Status == "" {
		sub.Status = model.SubscriberStatusEnabled
	}

	r.subscribers[sub.ID] = &sub
	return sub.ID
}

// SetLists seeds the list metadata returned by Lists.
func (r *Repository) SetLists(lists []model.ListRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists = lists
}

// SetFailure arranges for the operation keyed by op to fail with err.
// Keys: "query", "get", "create:<email>", "update:<id>", "delete",
// "add_to_list", "update_memberships", "lists".
func (r *Repository) SetFailure(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[op] = err
}

// Calls returns the recorded mutating calls in order.
func (r *Repository) Calls() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.calls...)
}

// MutatingCallCount returns how many mutating calls were issued.
func (r *Repository) MutatingCallCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.calls)
}

// ListsCallCount returns how many list-metadata fetches were issued.
func (r *Repository) ListsCallCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listsCalls
}

// ClearCalls resets the mutating call log.
func (r *Repository) ClearCalls() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Subscriber returns a copy of the stored record, or nil.
func (r *Repository) Subscriber(id int) *model.Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copySubscriber(r.subscribers[id])
}

// Query implements port.SubscriberReader.
func (r *Repository) Query(_ context.Context, filter model.SubscriberFilter) ([]model.Subscriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.failures["query"]; err != nil {
		return nil, err
	}

	var out []model.Subscriber
	for _, sub := range r.subscribers {
		if matches(sub, filter) {
			out = append(out, *copySubscriber(sub))
		}
	}
	return out, nil
}

// Get implements port.SubscriberReader.
func (r *Repository) Get(_ context.Context, id int) (*model.Subscriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.failures["get"]; err != nil {
		return nil, err
	}

	sub, ok := r.subscribers[id]
	if !ok {
		return nil, errors.NewNotFound("subscriber not found")
	}
	return copySubscriber(sub), nil
}

// Create implements port.SubscriberWriter.
func (r *Repository) Create(_ context.Context, req model.SubscriberCreate) (*model.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, fmt.Sprintf("create:%s", strings.ToLower(req.Email)))

	if err := r.failures["create:"+strings.ToLower(req.Email)]; err != nil {
		return nil, err
	}

	for _, sub := range r.subscribers {
		if strings.EqualFold(sub.Email, req.Email) {
			return nil, errors.NewConflict("email already exists")
		}
	}

	status := req.Status
	if status == "" {
		status = model.SubscriberStatusEnabled
	}

	memberStatus := model.SubscriptionStatusUnconfirmed
	if req.PreconfirmSubscriptions {
		memberStatus = model.SubscriptionStatusConfirmed
	}

	r.nextID++
	sub := &model.Subscriber{
		ID:      r.nextID,
		UUID:    uuid.New().String(),
		Email:   req.Email,
		Name:    req.Name,
		Attribs: req.Attribs.Clone(),
		Status:  status,
	}
	for _, listID := range req.Lists {
		sub.Lists = append(sub.Lists, model.ListMembership{
			ListID:             listID,
			SubscriptionStatus: memberStatus,
		})
	}

	r.subscribers[sub.ID] = sub
	return copySubscriber(sub), nil
}

// Update implements port.SubscriberWriter. Memberships for list ids kept
// in req.Lists retain their status; new ids join as confirmed; ids
// omitted from req.Lists are dropped, mirroring the remote's
// full-replace update semantics.
func (r *Repository) Update(_ context.Context, id int, req model.SubscriberUpdate) (*model.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, fmt.Sprintf("update:%d", id))

	if err := r.failures[fmt.Sprintf("update:%d", id)]; err != nil {
		return nil, err
	}

	sub, ok := r.subscribers[id]
	if !ok {
		return nil, errors.NewNotFound("subscriber not found")
	}

	sub.Email = req.Email
	sub.Name = req.Name
	sub.Attribs = req.Attribs.Clone()
	if req.Status != "" {
		sub.Status = req.Status
	}

	var memberships []model.ListMembership
	for _, listID := range req.Lists {
		if status, ok := sub.MembershipStatus(listID); ok {
			memberships = append(memberships, model.ListMembership{ListID: listID, SubscriptionStatus: status})
			continue
		}
		memberships = append(memberships, model.ListMembership{
			ListID:             listID,
			SubscriptionStatus: model.SubscriptionStatusConfirmed,
		})
	}
	sub.Lists = memberships

	return copySubscriber(sub), nil
}

// Delete implements port.SubscriberWriter.
func (r *Repository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, fmt.Sprintf("delete:%d", id))

	if err := r.failures["delete"]; err != nil {
		return err
	}

	if _, ok := r.subscribers[id]; !ok {
		return errors.NewNotFound("subscriber not found")
	}
	delete(r.subscribers, id)
	return nil
}

// DeleteMany implements port.SubscriberWriter.
func (r *Repository) DeleteMany(_ context.Context, ids []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, fmt.Sprintf("delete_many:%v", ids))

	if err := r.failures["delete"]; err != nil {
		return err
	}

	for _, id := range ids {
		delete(r.subscribers, id)
	}
	return nil
}

// AddToList implements port.SubscriberWriter. Faithful to the remote: an
// existing unsubscribed membership is left untouched.
func (r *Repository) AddToList(_ context.Context, listID int, ids []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, fmt.Sprintf("add_to_list:%d:%v", listID, ids))

	if err := r.failures["add_to_list"]; err != nil {
		return err
	}

	for _, id := range ids {
		sub, ok := r.subscribers[id]
		if !ok {
			continue
		}
		if _, exists := sub.MembershipStatus(listID); exists {
			continue
		}
		sub.Lists = append(sub.Lists, model.ListMembership{
			ListID:             listID,
			SubscriptionStatus: model.SubscriptionStatusConfirmed,
		})
	}
	return nil
}

// UpdateMemberships implements port.SubscriberWriter. An add with
// explicit targets clears the unsubscribed flag; an unsubscribe only
// touches existing membership entries.
func (r *Repository) UpdateMemberships(_ context.Context, ids []int, action model.MembershipAction, targetListIDs []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, fmt.Sprintf("update_memberships:%s:%v:%v", action, ids, targetListIDs))

	if err := r.failures["update_memberships"]; err != nil {
		return err
	}

	for _, id := range ids {
		sub, ok := r.subscribers[id]
		if !ok {
			continue
		}
		for _, listID := range targetListIDs {
			switch action {
			case model.MembershipActionAdd:
				setMembership(sub, listID, model.SubscriptionStatusConfirmed)
			case model.MembershipActionUnsubscribe:
				if _, exists := sub.MembershipStatus(listID); exists {
					setMembership(sub, listID, model.SubscriptionStatusUnsubscribed)
				}
			}
		}
	}
	return nil
}

// Lists implements port.ListReader.
func (r *Repository) Lists(_ context.Context, visibility string) ([]model.ListRecord, error) {
	r.mu.Lock()
	r.listsCalls++
	r.mu.Unlock()

	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.failures["lists"]; err != nil {
		return nil, err
	}

	var out []model.ListRecord
	for _, list := range r.lists {
		if visibility == "" || list.Type == visibility {
			out = append(out, list)
		}
	}
	return out, nil
}

func setMembership(sub *model.Subscriber, listID int, status string) {
	for i, m := range sub.Lists {
		if m.ListID == listID {
			sub.Lists[i].SubscriptionStatus = status
			return
		}
	}
	sub.Lists = append(sub.Lists, model.ListMembership{ListID: listID, SubscriptionStatus: status})
}

func matches(sub *model.Subscriber, filter model.SubscriberFilter) bool {
	switch {
	case filter.ID != 0:
		return sub.ID == filter.ID
	case filter.UUID != "":
		return sub.UUID == filter.UUID
	case filter.Email != "":
		return strings.EqualFold(sub.Email, filter.Email)
	case len(filter.Emails) > 0:
		for _, email := range filter.Emails {
			if strings.EqualFold(sub.Email, email) {
				return true
			}
		}
		return false
	case len(filter.UIDs) > 0:
		uid := sub.UID()
		if uid == "" {
			return false
		}
		for _, candidate := range filter.UIDs {
			if uid == candidate {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func copySubscriber(sub *model.Subscriber) *model.Subscriber {
	if sub == nil {
		return nil
	}
	out := *sub
	out.Attribs = sub.Attribs.Clone()
	out.Lists = append([]model.ListMembership(nil), sub.Lists...)
	return &out
}
