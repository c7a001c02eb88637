// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/errors"
)

func TestAddSubscribersToListValidation(t *testing.T) {
	svc := NewSubscriberService(mock.NewRepository())

	_, err := svc.AddSubscribersToList(context.Background(), 0, nil, AddOptions{})
	assert.Equal(t, 400, errors.StatusCode(err))
}

func TestAddSubscribersToListMixedBatch(t *testing.T) {
	repo := mock.NewRepository()
	memberID := repo.AddSubscriber(model.Subscriber{
		Email: "member@example.com",
		Lists: []model.ListMembership{{ListID: 5, SubscriptionStatus: model.SubscriptionStatusConfirmed}},
	})
	detachedID := repo.AddSubscriber(model.Subscriber{Email: "detached@example.com"})
	repo.AddSubscriber(model.Subscriber{
		Email:  "blocked@example.com",
		Status: model.SubscriberStatusBlocklisted,
	})
	optedOutID := repo.AddSubscriber(model.Subscriber{
		Email: "optedout@example.com",
		Lists: []model.ListMembership{{ListID: 5, SubscriptionStatus: model.SubscriptionStatusUnsubscribed}},
	})
	svc := NewSubscriberService(repo)

	result, err := svc.AddSubscribersToList(context.Background(), 5, []model.BulkEntry{
		{Email: "fresh@example.com", Name: "Fresh"},
		{Email: "member@example.com"},
		{Email: "detached@example.com"},
		{Email: "blocked@example.com"},
		{Email: "optedout@example.com"},
	}, AddOptions{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, http.StatusOK, result.Code)
	assert.Len(t, result.Created, 1)
	assert.Len(t, result.Added, 2)
	assert.Equal(t, []string{"blocked@example.com"}, result.SkippedBlocked)
	assert.Equal(t, []string{"optedout@example.com"}, result.SkippedUnsubscribed)
	assert.Empty(t, result.Errors)

	// One create for the fresh entry, one chunked attach for the detached
	// one. The already-subscribed member gets no write.
	assert.Contains(t, repo.Calls(), "create:fresh@example.com")
	assert.Contains(t, repo.Calls(), "add_to_list:5:[2]")
	assert.Len(t, repo.Calls(), 2)

	status, ok := repo.Subscriber(detachedID).MembershipStatus(5)
	require.True(t, ok)
	assert.Equal(t, model.SubscriptionStatusConfirmed, status)

	// The already-subscribed member keeps its status.
	status, _ = repo.Subscriber(memberID).MembershipStatus(5)
	assert.Equal(t, model.SubscriptionStatusConfirmed, status)

	// Sticky unsubscribe: the opted-out record is untouched.
	status, _ = repo.Subscriber(optedOutID).MembershipStatus(5)
	assert.Equal(t, model.SubscriptionStatusUnsubscribed, status)
}

func TestAddSubscribersToListResubscribe(t *testing.T) {
	repo := mock.NewRepository()
	id := repo.AddSubscriber(model.Subscriber{
		Email: "optedout@example.com",
		Lists: []model.ListMembership{{ListID: 5, SubscriptionStatus: model.SubscriptionStatusUnsubscribed}},
	})
	svc := NewSubscriberService(repo)

	result, err := svc.AddSubscribersToList(context.Background(), 5, []model.BulkEntry{
		{Email: "optedout@example.com"},
	}, AddOptions{Resubscribe: true})
	require.NoError(t, err)

	assert.Len(t, result.Added, 1)
	assert.Empty(t, result.SkippedUnsubscribed)

	// Resubscribing needs the explicit target-list form; a path-scoped
	// add would leave the unsubscribed flag in place.
	assert.Equal(t, []string{"update_memberships:add:[1]:[5]"}, repo.Calls())

	status, _ := repo.Subscriber(id).MembershipStatus(5)
	assert.Equal(t, model.SubscriptionStatusConfirmed, status)
}

func TestAddSubscribersToListPartialFailure(t *testing.T) {
	repo := mock.NewRepository()
	repo.SetFailure("create:bad@example.com", errors.NewServiceUnavailable("insert failed"))
	svc := NewSubscriberService(repo)

	result, err := svc.AddSubscribersToList(context.Background(), 2, []model.BulkEntry{
		{Email: "good@example.com"},
		{Email: "bad@example.com"},
		{Email: "fine@example.com"},
	}, AddOptions{})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, http.StatusMultiStatus, result.Code)
	assert.Len(t, result.Created, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "bad@example.com", result.Errors[0].Email)
	assert.Equal(t, http.StatusServiceUnavailable, result.Errors[0].Code)
}

func TestAddSubscribersToListAllFailed(t *testing.T) {
	repo := mock.NewRepository()
	repo.SetFailure("create:a@example.com", errors.NewUnexpected("boom"))
	repo.SetFailure("create:b@example.com", errors.NewUnexpected("boom"))
	svc := NewSubscriberService(repo)

	result, err := svc.AddSubscribersToList(context.Background(), 2, []model.BulkEntry{
		{Email: "a@example.com"},
		{Email: "b@example.com"},
	}, AddOptions{})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, http.StatusInternalServerError, result.Code)
	assert.Len(t, result.Errors, 2)
}

func TestAddSubscribersToListMissingEmail(t *testing.T) {
	repo := mock.NewRepository()
	svc := NewSubscriberService(repo)

	result, err := svc.AddSubscribersToList(context.Background(), 2, []model.BulkEntry{
		{UID: "u-only"},
		{Email: "ok@example.com"},
	}, AddOptions{})
	require.NoError(t, err)

	assert.Equal(t, http.StatusMultiStatus, result.Code)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, http.StatusBadRequest, result.Errors[0].Code)
}

func TestAddSubscribersToListDedup(t *testing.T) {
	repo := mock.NewRepository()
	svc := NewSubscriberService(repo)

	result, err := svc.AddSubscribersToList(context.Background(), 2, []model.BulkEntry{
		{Email: "dup@example.com", Name: "First"},
		{Email: "Dup@Example.com", Name: "Second"},
	}, AddOptions{})
	require.NoError(t, err)

	// Last entry wins on a duplicate key; only one create is issued.
	require.Len(t, result.Created, 1)
	assert.Equal(t, "Second", result.Created[0].Name)
	assert.Equal(t, []string{"create:dup@example.com"}, repo.Calls())
}

func TestAddSubscribersToListRename(t *testing.T) {
	repo := mock.NewRepository()
	id := repo.AddSubscriber(model.Subscriber{
		Email:   "old@example.com",
		Name:    "Old Name",
		Attribs: model.AttribMap{"uid": "u-1"},
	})
	svc := NewSubscriberService(repo)

	result, err := svc.AddSubscribersToList(context.Background(), 3, []model.BulkEntry{
		{Email: "new@example.com", UID: "u-1"},
	}, AddOptions{})
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, result.Added, 1)

	stored := repo.Subscriber(id)
	assert.Equal(t, "new@example.com", stored.Email)
	assert.Equal(t, "u-1", stored.UID())

	status, ok := stored.MembershipStatus(3)
	require.True(t, ok)
	assert.Equal(t, model.SubscriptionStatusConfirmed, status)
}

func TestAddSubscribersToListRenameFailureAborts(t *testing.T) {
	repo := mock.NewRepository()
	id := repo.AddSubscriber(model.Subscriber{
		Email:   "old@example.com",
		Attribs: model.AttribMap{"uid": "u-1"},
	})
	repo.SetFailure("update:1", errors.NewServiceUnavailable("update failed"))
	svc := NewSubscriberService(repo)

	result, err := svc.AddSubscribersToList(context.Background(), 3, []model.BulkEntry{
		{Email: "new@example.com", UID: "u-1"},
		{Email: "untouched@example.com"},
	}, AddOptions{})

	// An identity-rename failure is fatal for the batch: no result, no
	// processing of later entries.
	require.Error(t, err)
	assert.Nil(t, result)
	assert.NotContains(t, repo.Calls(), "create:untouched@example.com")
	assert.Equal(t, "old@example.com", repo.Subscriber(id).Email)
}

func TestAddSubscribersToListFlushFailureAborts(t *testing.T) {
	repo := mock.NewRepository()
	repo.AddSubscriber(model.Subscriber{Email: "detached@example.com"})
	repo.SetFailure("add_to_list", errors.NewServiceUnavailable("down"))
	svc := NewSubscriberService(repo)

	result, err := svc.AddSubscribersToList(context.Background(), 4, []model.BulkEntry{
		{Email: "detached@example.com"},
	}, AddOptions{})
	require.Error(t, err)
	assert.Nil(t, result)
}
