// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/log"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/redaction"
)

// AddOptions configure a bulk-add run.
type AddOptions struct {
	// Resubscribe re-adds entries whose existing membership is
	// unsubscribed. Without it an explicit unsubscribe is sticky and the
	// entry is skipped.
	Resubscribe bool

	// Preconfirm controls preconfirm_subscriptions on creates; nil means
	// true.
	Preconfirm *bool

	// Status optionally forces the global status on creates.
	Status string
}

// AddSubscribersToList reconciles a batch of entries against the remote
// service and attaches them to listID. Per-entry create/attach failures
// are accumulated into the result's Errors; only an identity-rename
// failure aborts the whole batch.
func (s *SubscriberService) AddSubscribersToList(ctx context.Context, listID int, entries []model.BulkEntry, opts AddOptions) (*model.BulkAddResult, error) {
	if listID <= 0 {
		return nil, errors.NewValidation("list id is required")
	}

	ctx = log.AppendCtx(ctx, slog.String("operation", "bulk_add"))

	normalized := model.NormalizeEntries(entries)

	var emails, uids []string
	for _, entry := range normalized {
		if entry.Email != "" {
			emails = append(emails, strings.ToLower(entry.Email))
		}
		if entry.UID != "" {
			uids = append(uids, entry.UID)
		}
	}
	index := s.resolveExisting(ctx, emails, uids)

	slog.DebugContext(ctx, "bulk add starting",
		"list_id", listID, "entries", len(normalized), "resubscribe", opts.Resubscribe)

	result := &model.BulkAddResult{
		Created:             []*model.Subscriber{},
		Added:               []*model.Subscriber{},
		SkippedBlocked:      []string{},
		SkippedUnsubscribed: []string{},
		Errors:              []model.EntryError{},
	}

	var addIDs, resubIDs []int

	for _, entry := range normalized {
		if entry.Email == "" {
			result.Errors = append(result.Errors, model.EntryError{
				Message: "email is required",
				Code:    http.StatusBadRequest,
			})
			continue
		}

		existing := index.find(entry)

		if existing == nil {
			subscribed, err := s.Subscribe(ctx, listID, model.BulkEntry{
				Email:   entry.Email,
				Name:    entry.Name,
				UID:     entry.UID,
				Attribs: entry.Attribs,
			}, SubscribeOptions{Preconfirm: opts.Preconfirm, Status: opts.Status})
			if err != nil {
				result.Errors = append(result.Errors, model.EntryError{
					Email:   entry.Email,
					Message: err.Error(),
					Code:    errors.StatusCode(err),
				})
				continue
			}
			if subscribed.Created {
				result.Created = append(result.Created, subscribed.Subscriber)
			} else {
				result.Added = append(result.Added, subscribed.Subscriber)
			}
			continue
		}

		// A matched entry whose email differs from the stored one is an
		// identity rename. Rename failures are not recoverable for the
		// batch: the error is returned immediately instead of accumulated.
		if entry.UID != "" && entry.Email != existing.Email {
			renamed, err := s.renameSubscriber(ctx, existing, entry)
			if err != nil {
				return nil, err
			}
			existing = renamed
		}

		if existing.IsBlocklisted() {
			slog.DebugContext(ctx, "skipping blocklisted subscriber",
				"email", redaction.RedactEmail(existing.Email))
			result.SkippedBlocked = append(result.SkippedBlocked, existing.Email)
			continue
		}

		status, isMember := existing.MembershipStatus(listID)
		switch {
		case isMember && status == model.SubscriptionStatusUnsubscribed:
			if !opts.Resubscribe {
				result.SkippedUnsubscribed = append(result.SkippedUnsubscribed, existing.Email)
				continue
			}
			resubIDs = append(resubIDs, existing.ID)
			result.Added = append(result.Added, existing)
		case isMember:
			// Membership already good; never issue a redundant write.
			result.Added = append(result.Added, existing)
		default:
			addIDs = append(addIDs, existing.ID)
			result.Added = append(result.Added, existing)
		}
	}

	if err := s.flushMembershipQueues(ctx, listID, addIDs, resubIDs); err != nil {
		return nil, err
	}

	total := len(normalized)
	switch {
	case len(result.Errors) == 0:
		result.Success = true
		result.Code = http.StatusOK
	case len(result.Errors) < total:
		result.Code = http.StatusMultiStatus
	default:
		result.Code = http.StatusInternalServerError
	}

	slog.InfoContext(ctx, "bulk add completed",
		"list_id", listID,
		"created", len(result.Created),
		"added", len(result.Added),
		"skipped_blocked", len(result.SkippedBlocked),
		"skipped_unsubscribed", len(result.SkippedUnsubscribed),
		"errors", len(result.Errors),
	)

	return result, nil
}

// renameSubscriber updates email and attribs of an existing record to
// match a uid-keyed entry.
func (s *SubscriberService) renameSubscriber(ctx context.Context, existing *model.Subscriber, entry model.NormalizedEntry) (*model.Subscriber, error) {
	slog.InfoContext(ctx, "renaming subscriber email",
		"subscriber_id", existing.ID,
		"from", redaction.RedactEmail(existing.Email),
		"to", redaction.RedactEmail(entry.Email),
	)

	name := entry.Name
	if name == "" {
		name = existing.Name
	}

	return s.repo.Update(ctx, existing.ID, model.SubscriberUpdate{
		Email:   entry.Email,
		Name:    name,
		Attribs: model.MergeAttribs(existing.Attribs, entry.Attribs),
		Lists:   existing.ListIDs(),
	})
}

// flushMembershipQueues issues the queued write-backs in chunks. The
// plain-add queue attaches by path parameter; the resubscribe queue
// needs the explicit target-list form because a per-list add does not
// clear the unsubscribed flag.
func (s *SubscriberService) flushMembershipQueues(ctx context.Context, listID int, addIDs, resubIDs []int) error {
	for _, chunk := range chunkInts(addIDs, constants.MembershipChunkSize) {
		if err := s.repo.AddToList(ctx, listID, chunk); err != nil {
			return err
		}
	}
	for _, chunk := range chunkInts(resubIDs, constants.MembershipChunkSize) {
		if err := s.repo.UpdateMemberships(ctx, chunk, model.MembershipActionAdd, []int{listID}); err != nil {
			return err
		}
	}
	return nil
}
