// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/redaction"
)

// SubscribeOptions configure the subscribe upsert.
type SubscribeOptions struct {
	// Preconfirm controls preconfirm_subscriptions on create; nil means
	// true.
	Preconfirm *bool

	// Status optionally forces the global status on create.
	Status string
}

func (o SubscribeOptions) preconfirm() bool {
	return o.Preconfirm == nil || *o.Preconfirm
}

// Subscribe is an idempotent upsert-and-attach: it creates the
// subscriber when missing, attaches them to the list when not yet a
// member, resubscribes through an explicit target-list add when they had
// unsubscribed, and does nothing when membership is already in place.
func (s *SubscriberService) Subscribe(ctx context.Context, listID int, entry model.BulkEntry, opts SubscribeOptions) (*model.SubscribeResult, error) {
	if entry.Email == "" {
		return nil, errors.NewValidation("email is required")
	}
	if listID <= 0 {
		return nil, errors.NewValidation("list id is required")
	}

	normalized := model.NormalizeEntry(entry)

	// Lookup by email first. Any error other than an empty result aborts.
	subs, err := s.repo.Query(ctx, model.SubscriberFilter{Email: normalized.Email, PerPage: 1})
	if err != nil {
		return nil, err
	}

	if len(subs) == 0 {
		created, err := s.repo.Create(ctx, model.SubscriberCreate{
			Email:                   normalized.Email,
			Name:                    normalized.Name,
			Attribs:                 normalized.Attribs,
			Lists:                   []int{listID},
			PreconfirmSubscriptions: opts.preconfirm(),
			Status:                  opts.Status,
		})
		if err != nil {
			return nil, err
		}
		return &model.SubscribeResult{Subscriber: created, Created: true, Added: true}, nil
	}

	existing := &subs[0]

	if existing.IsBlocklisted() {
		return nil, errors.NewValidation("subscriber is blocklisted")
	}

	status, isMember := existing.MembershipStatus(listID)
	if isMember && status != model.SubscriptionStatusUnsubscribed {
		return &model.SubscribeResult{Subscriber: existing, AlreadySubscribed: true}, nil
	}

	if isMember {
		// Unsubscribed: only an add with explicit target list ids clears
		// the flag on the remote service.
		err = s.repo.UpdateMemberships(ctx, []int{existing.ID}, model.MembershipActionAdd, []int{listID})
	} else {
		err = s.repo.AddToList(ctx, listID, []int{existing.ID})
	}
	if err != nil {
		return nil, err
	}

	// Refetch so the caller sees post-attach membership state. The
	// refetched copy wins; on refetch failure the pre-attach copy is
	// returned instead.
	fresh, err := s.repo.Get(ctx, existing.ID)
	if err != nil {
		slog.WarnContext(ctx, "refetch after attach failed, returning pre-attach record",
			"subscriber_id", existing.ID, "email", redaction.RedactEmail(existing.Email), "error", err)
		fresh = existing
	}

	return &model.SubscribeResult{Subscriber: fresh, Added: true}, nil
}

// Unsubscribe removes a subscriber from the given lists, or from all of
// their current lists when none are given. Per-list outcomes are
// computed from the pre-mutation membership snapshot; unknown list ids
// are tolerated and still included in the mutation's target set.
func (s *SubscriberService) Unsubscribe(ctx context.Context, identifier string, listIDs []int) (*model.UnsubscribeResult, error) {
	sub, err := s.GetUser(ctx, identifier)
	if err != nil {
		return nil, err
	}

	snapshot := make(map[int]string, len(sub.Lists))
	for _, m := range sub.Lists {
		snapshot[m.ListID] = m.SubscriptionStatus
	}

	targets := dedupInts(listIDs)
	if len(targets) == 0 {
		targets = sub.ListIDs()
	}

	if len(targets) > 0 {
		if err := s.repo.UpdateMemberships(ctx, []int{sub.ID}, model.MembershipActionUnsubscribe, targets); err != nil {
			return nil, err
		}
	}

	statuses := make([]model.ListActionStatus, 0, len(targets))
	for _, listID := range targets {
		statuses = append(statuses, model.ListActionStatus{
			ListID: listID,
			Status: s.unsubscribeOutcome(ctx, snapshot, listID),
		})
	}
	s.listCache.enrich(ctx, statuses)

	slog.InfoContext(ctx, "unsubscribe completed",
		"subscriber_id", sub.ID, "email", redaction.RedactEmail(sub.Email), "lists", targets)

	return &model.UnsubscribeResult{Subscriber: sub, Lists: statuses}, nil
}

// unsubscribeOutcome labels one list from the pre-mutation snapshot:
// a live membership was "Subscribed", an unsubscribed or absent-but-known
// list was already off, and a list known neither to the subscriber nor
// to the metadata cache is "Unknown List".
func (s *SubscriberService) unsubscribeOutcome(ctx context.Context, snapshot map[int]string, listID int) string {
	if status, ok := snapshot[listID]; ok {
		if status == model.SubscriptionStatusUnsubscribed {
			return model.ListOutcomeUnsubscribed
		}
		return model.ListOutcomeSubscribed
	}
	if _, known := s.listCache.name(ctx, listID); known {
		return model.ListOutcomeUnsubscribed
	}
	return model.ListOutcomeUnknownList
}

// SetSubscriptions reconciles a subscriber's memberships toward the
// requested list set: missing lists are added, and lists outside the
// requested set are removed only when removeOthers is set.
func (s *SubscriberService) SetSubscriptions(ctx context.Context, identifier string, listIDs []int, removeOthers bool) (*model.SetSubscriptionsResult, error) {
	sub, err := s.GetUser(ctx, identifier)
	if err != nil {
		return nil, err
	}

	requested := dedupInts(listIDs)
	current := make(map[int]bool)
	for _, listID := range sub.SubscribedListIDs() {
		current[listID] = true
	}
	requestedSet := make(map[int]bool, len(requested))
	for _, listID := range requested {
		requestedSet[listID] = true
	}

	var adds []int
	for _, listID := range requested {
		if !current[listID] {
			adds = append(adds, listID)
		}
	}

	var removes []int
	if removeOthers {
		for _, listID := range sub.SubscribedListIDs() {
			if !requestedSet[listID] {
				removes = append(removes, listID)
			}
		}
	}

	if len(adds) > 0 {
		if err := s.repo.UpdateMemberships(ctx, []int{sub.ID}, model.MembershipActionAdd, adds); err != nil {
			return nil, err
		}
	}
	if len(removes) > 0 {
		if err := s.repo.UpdateMemberships(ctx, []int{sub.ID}, model.MembershipActionUnsubscribe, removes); err != nil {
			return nil, err
		}
	}

	addSet := make(map[int]bool, len(adds))
	for _, listID := range adds {
		addSet[listID] = true
	}

	statuses := make([]model.ListActionStatus, 0, len(requested)+len(removes))
	for _, listID := range requested {
		status := model.ListOutcomeUnchanged
		if addSet[listID] {
			status = model.ListOutcomeSubscribed
		}
		statuses = append(statuses, model.ListActionStatus{ListID: listID, Status: status})
	}
	for _, listID := range removes {
		statuses = append(statuses, model.ListActionStatus{ListID: listID, Status: model.ListOutcomeUnsubscribed})
	}
	s.listCache.enrich(ctx, statuses)

	slog.InfoContext(ctx, "set subscriptions completed",
		"subscriber_id", sub.ID, "added", adds, "removed", removes)

	return &model.SetSubscriptionsResult{Subscriber: sub, Lists: statuses}, nil
}

// dedupInts removes duplicates preserving first-occurrence order.
func dedupInts(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(ids))
	var out []int
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
