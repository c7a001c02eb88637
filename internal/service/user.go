// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/redaction"
)

// UserPatch carries the identity fields of a single-record update.
// Zero-valued fields keep the stored value.
type UserPatch struct {
	Email   string
	Name    string
	UID     string
	Attribs model.AttribMap
}

// GetUser resolves a single subscriber by numeric id, UUID, or email.
func (s *SubscriberService) GetUser(ctx context.Context, identifier string) (*model.Subscriber, error) {
	filter, err := parseIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	return s.getByFilter(ctx, filter)
}

// UpdateUser updates a subscriber's identity fields. Changing the stored
// uid is refused with a UID mismatch error unless forceUIDChange is set,
// so an accidental key rewrite cannot silently detach external systems.
func (s *SubscriberService) UpdateUser(ctx context.Context, identifier string, patch UserPatch, forceUIDChange bool) (*model.Subscriber, error) {
	existing, err := s.GetUser(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if patch.UID != "" {
		if stored := existing.UID(); stored != "" && stored != patch.UID && !forceUIDChange {
			return nil, errors.NewValidation(fmt.Sprintf(
				"UID mismatch: subscriber already has uid %q", stored))
		}
	}

	attribs := model.MergeAttribs(existing.Attribs, patch.Attribs)
	if patch.UID != "" {
		attribs[model.UIDAttribute] = patch.UID
	}

	email := patch.Email
	if email == "" {
		email = existing.Email
	}
	name := patch.Name
	if name == "" {
		name = existing.Name
	}

	updated, err := s.repo.Update(ctx, existing.ID, model.SubscriberUpdate{
		Email:   email,
		Name:    name,
		Attribs: attribs,
		Lists:   existing.ListIDs(),
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "subscriber updated",
		"subscriber_id", updated.ID, "email", redaction.RedactEmail(updated.Email))

	return updated, nil
}

// DeleteUser removes a single subscriber. Deletion is always explicit;
// no reconciliation path deletes as a side effect.
func (s *SubscriberService) DeleteUser(ctx context.Context, identifier string) error {
	sub, err := s.GetUser(ctx, identifier)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, sub.ID)
}

// DeleteUsers removes a set of subscribers by id.
func (s *SubscriberService) DeleteUsers(ctx context.Context, ids []int) error {
	ids = dedupInts(ids)
	if len(ids) == 0 {
		return errors.NewValidation("at least one subscriber id is required")
	}
	return s.repo.DeleteMany(ctx, ids)
}
