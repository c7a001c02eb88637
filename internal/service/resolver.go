// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/errors"
)

// resolvedIndex maps lookup keys to existing remote subscribers. Both
// indices are last-write-wins on key collision, matching the remote's
// own snapshot semantics under concurrent external mutation.
type resolvedIndex struct {
	byEmail map[string]*model.Subscriber
	byUID   map[string]*model.Subscriber
}

// find selects the existing candidate for a normalized entry. The uid
// index takes precedence over the email index.
func (idx *resolvedIndex) find(entry model.NormalizedEntry) *model.Subscriber {
	if entry.UID != "" {
		if sub, ok := idx.byUID[entry.UID]; ok {
			return sub
		}
	}
	return idx.byEmail[strings.ToLower(entry.Email)]
}

// resolveExisting batches best-effort lookups for the given emails and
// uids. An unresolvable chunk is logged and skipped, not fatal; the
// caller continues with partial data.
func (s *SubscriberService) resolveExisting(ctx context.Context, emails, uids []string) *resolvedIndex {
	idx := &resolvedIndex{
		byEmail: make(map[string]*model.Subscriber),
		byUID:   make(map[string]*model.Subscriber),
	}

	for _, chunk := range chunkStrings(emails, constants.LookupChunkSize) {
		s.mergeLookupChunk(ctx, idx, model.SubscriberFilter{
			Emails:  chunk,
			PerPage: lookupPerPage(len(chunk)),
		})
	}

	for _, chunk := range chunkStrings(uids, constants.LookupChunkSize) {
		s.mergeLookupChunk(ctx, idx, model.SubscriberFilter{
			UIDs:    chunk,
			PerPage: lookupPerPage(len(chunk)),
		})
	}

	return idx
}

func (s *SubscriberService) mergeLookupChunk(ctx context.Context, idx *resolvedIndex, filter model.SubscriberFilter) {
	subs, err := s.repo.Query(ctx, filter)
	if err != nil {
		slog.WarnContext(ctx, "subscriber lookup chunk failed, continuing with partial data",
			"email_count", len(filter.Emails), "uid_count", len(filter.UIDs), "error", err)
		return
	}

	for i := range subs {
		sub := &subs[i]
		idx.byEmail[strings.ToLower(sub.Email)] = sub
		if uid := sub.UID(); uid != "" {
			idx.byUID[uid] = sub
		}
	}
}

// lookupPerPage keeps the page large enough to hold a full chunk's
// matches.
func lookupPerPage(chunkLen int) int {
	if chunkLen < constants.MinLookupPerPage {
		return constants.MinLookupPerPage
	}
	return chunkLen
}

// chunkStrings splits values into chunks of at most size elements.
func chunkStrings(values []string, size int) [][]string {
	if len(values) == 0 {
		return nil
	}
	var chunks [][]string
	for start := 0; start < len(values); start += size {
		end := start + size
		if end > len(values) {
			end = len(values)
		}
		chunks = append(chunks, values[start:end])
	}
	return chunks
}

// chunkInts splits ids into chunks of at most size elements.
func chunkInts(ids []int, size int) [][]int {
	if len(ids) == 0 {
		return nil
	}
	var chunks [][]int
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// parseIdentifier classifies a subscriber identifier as a numeric id, a
// UUID, or an email address.
func parseIdentifier(identifier string) (model.SubscriberFilter, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return model.SubscriberFilter{}, errors.NewValidation("subscriber identifier is required")
	}

	if id, err := strconv.Atoi(identifier); err == nil {
		if id <= 0 {
			return model.SubscriberFilter{}, errors.NewValidation("subscriber id must be positive")
		}
		return model.SubscriberFilter{ID: id}, nil
	}

	if _, err := uuid.Parse(identifier); err == nil {
		return model.SubscriberFilter{UUID: identifier}, nil
	}

	if strings.Contains(identifier, "@") {
		return model.SubscriberFilter{Email: strings.ToLower(identifier)}, nil
	}

	return model.SubscriberFilter{}, errors.NewValidation("invalid subscriber identifier")
}

// getByFilter fetches exactly one subscriber matching the filter.
func (s *SubscriberService) getByFilter(ctx context.Context, filter model.SubscriberFilter) (*model.Subscriber, error) {
	if filter.ID != 0 {
		return s.repo.Get(ctx, filter.ID)
	}

	filter.PerPage = 1
	subs, err := s.repo.Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, errors.NewNotFound("subscriber not found")
	}
	return &subs[0], nil
}
