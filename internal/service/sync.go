// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/log"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/redaction"
)

// SyncToList is the uid-keyed batch upsert: every entry must carry a
// non-empty uid and email, matched records are updated only when an
// identity field actually differs, and unmatched records are created
// and attached. Unlike AddSubscribersToList there is no partial-success
// path: the first write failure aborts the whole sync.
func (s *SubscriberService) SyncToList(ctx context.Context, listID int, entries []model.BulkEntry) (*model.SyncResult, error) {
	if listID <= 0 {
		return nil, errors.NewValidation("list id is required")
	}
	for _, entry := range entries {
		if entry.UID == "" || entry.Email == "" {
			return nil, errors.NewValidation("every entry must have a uid and an email")
		}
	}

	ctx = log.AppendCtx(ctx, slog.String("operation", "sync"))

	normalized := model.NormalizeEntries(entries)

	uids := make([]string, 0, len(normalized))
	for _, entry := range normalized {
		uids = append(uids, entry.UID)
	}
	index := s.resolveExisting(ctx, nil, uids)

	slog.DebugContext(ctx, "sync starting", "list_id", listID, "entries", len(normalized))

	result := &model.SyncResult{}
	var addIDs, resubIDs []int

	for _, entry := range normalized {
		existing, matched := index.byUID[entry.UID]
		if !matched {
			if _, err := s.Subscribe(ctx, listID, model.BulkEntry{
				Email:   entry.Email,
				Name:    entry.Name,
				UID:     entry.UID,
				Attribs: entry.Attribs,
			}, SubscribeOptions{}); err != nil {
				return nil, err
			}
			result.Added++
			continue
		}

		if existing.IsBlocklisted() {
			result.Blocked++
			continue
		}

		status, isMember := existing.MembershipStatus(listID)
		switch {
		case isMember && status == model.SubscriptionStatusUnsubscribed:
			result.Unsubscribed++
			resubIDs = append(resubIDs, existing.ID)
			result.Added++
		case !isMember:
			addIDs = append(addIDs, existing.ID)
			result.Added++
		}

		if update, changed := syncUpdate(existing, entry); changed {
			if _, err := s.repo.Update(ctx, existing.ID, update); err != nil {
				slog.ErrorContext(ctx, "sync update failed, aborting",
					"subscriber_id", existing.ID,
					"email", redaction.RedactEmail(entry.Email),
					"error", err,
				)
				return nil, err
			}
			result.Updated++
		}
	}

	for _, chunk := range chunkInts(addIDs, constants.MembershipChunkSize) {
		if err := s.repo.AddToList(ctx, listID, chunk); err != nil {
			return nil, err
		}
	}
	for _, chunk := range chunkInts(resubIDs, constants.MembershipChunkSize) {
		if err := s.repo.UpdateMemberships(ctx, chunk, model.MembershipActionAdd, []int{listID}); err != nil {
			return nil, err
		}
	}

	slog.InfoContext(ctx, "sync completed",
		"list_id", listID,
		"blocked", result.Blocked,
		"unsubscribed", result.Unsubscribed,
		"added", result.Added,
		"updated", result.Updated,
	)

	return result, nil
}

// syncUpdate computes the identity update for a matched entry, and
// whether any field actually differs. The merged attribs preserve
// existing-side keys, let entry-side values win on collision, and pin
// uid to the entry's uid.
func syncUpdate(existing *model.Subscriber, entry model.NormalizedEntry) (model.SubscriberUpdate, bool) {
	merged := model.MergeAttribs(existing.Attribs, entry.Attribs)
	merged[model.UIDAttribute] = entry.UID

	name := existing.Name
	if entry.Name != "" {
		name = entry.Name
	}

	// Email comparison is exact: a casing-only difference still renames.
	changed := existing.Email != entry.Email ||
		name != existing.Name ||
		!model.AttribsEqual(existing.Attribs, merged)

	return model.SubscriberUpdate{
		Email:   entry.Email,
		Name:    name,
		Attribs: merged,
		Lists:   existing.ListIDs(),
	}, changed
}
