// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/infrastructure/mock"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/errors"
)

func TestGetUser(t *testing.T) {
	repo := mock.NewRepository()
	id := repo.AddSubscriber(model.Subscriber{
		UUID:  "c56a4180-65aa-42ec-a945-5fd21dec0538",
		Email: "alice@example.com",
	})
	svc := NewSubscriberService(repo)

	tests := []struct {
		name       string
		identifier string
	}{
		{name: "by numeric id", identifier: strconv.Itoa(id)},
		{name: "by uuid", identifier: "c56a4180-65aa-42ec-a945-5fd21dec0538"},
		{name: "by email", identifier: "Alice@Example.com"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sub, err := svc.GetUser(context.Background(), tc.identifier)
			require.NoError(t, err)
			assert.Equal(t, id, sub.ID)
		})
	}

	_, err := svc.GetUser(context.Background(), "ghost@example.com")
	assert.Equal(t, 404, errors.StatusCode(err))

	_, err = svc.GetUser(context.Background(), "not an identifier")
	assert.Equal(t, 400, errors.StatusCode(err))
}

func TestUpdateUser(t *testing.T) {
	repo := mock.NewRepository()
	id := repo.AddSubscriber(model.Subscriber{
		Email:   "bob@example.com",
		Name:    "Bob",
		Attribs: model.AttribMap{"uid": "u-bob", "team": "infra"},
		Lists:   []model.ListMembership{{ListID: 4, SubscriptionStatus: model.SubscriptionStatusUnsubscribed}},
	})
	svc := NewSubscriberService(repo)

	updated, err := svc.UpdateUser(context.Background(), "bob@example.com", UserPatch{
		Name:    "Robert",
		Attribs: model.AttribMap{"role": "dev"},
	}, false)
	require.NoError(t, err)

	assert.Equal(t, "Robert", updated.Name)
	assert.Equal(t, "bob@example.com", updated.Email)
	assert.Equal(t, model.AttribMap{"uid": "u-bob", "team": "infra", "role": "dev"}, updated.Attribs)

	// The membership entry, unsubscribed status included, survives the
	// full-replace update.
	status, ok := repo.Subscriber(id).MembershipStatus(4)
	require.True(t, ok)
	assert.Equal(t, model.SubscriptionStatusUnsubscribed, status)
}

func TestUpdateUserUIDGuard(t *testing.T) {
	repo := mock.NewRepository()
	id := repo.AddSubscriber(model.Subscriber{
		Email:   "carol@example.com",
		Attribs: model.AttribMap{"uid": "u-old"},
	})
	svc := NewSubscriberService(repo)

	// Changing a stored uid without force is refused.
	_, err := svc.UpdateUser(context.Background(), "carol@example.com", UserPatch{UID: "u-new"}, false)
	require.Error(t, err)
	assert.Equal(t, 400, errors.StatusCode(err))
	assert.Contains(t, err.Error(), "UID mismatch")
	assert.Equal(t, "u-old", repo.Subscriber(id).UID())

	// The same uid is not a change and passes without force.
	_, err = svc.UpdateUser(context.Background(), "carol@example.com", UserPatch{UID: "u-old"}, false)
	require.NoError(t, err)

	// Force overrides the guard and pins the new uid.
	updated, err := svc.UpdateUser(context.Background(), "carol@example.com", UserPatch{UID: "u-new"}, true)
	require.NoError(t, err)
	assert.Equal(t, "u-new", updated.UID())
	assert.Equal(t, "u-new", repo.Subscriber(id).UID())
}

func TestUpdateUserSetsUIDWhenAbsent(t *testing.T) {
	repo := mock.NewRepository()
	repo.AddSubscriber(model.Subscriber{Email: "dora@example.com"})
	svc := NewSubscriberService(repo)

	// A record with no stored uid accepts one without force.
	updated, err := svc.UpdateUser(context.Background(), "dora@example.com", UserPatch{UID: "u-dora"}, false)
	require.NoError(t, err)
	assert.Equal(t, "u-dora", updated.UID())
}

func TestDeleteUser(t *testing.T) {
	repo := mock.NewRepository()
	id := repo.AddSubscriber(model.Subscriber{Email: "eve@example.com"})
	svc := NewSubscriberService(repo)

	require.NoError(t, svc.DeleteUser(context.Background(), "eve@example.com"))
	assert.Nil(t, repo.Subscriber(id))

	err := svc.DeleteUser(context.Background(), "eve@example.com")
	assert.Equal(t, 404, errors.StatusCode(err))
}

func TestDeleteUsers(t *testing.T) {
	repo := mock.NewRepository()
	a := repo.AddSubscriber(model.Subscriber{Email: "a@example.com"})
	b := repo.AddSubscriber(model.Subscriber{Email: "b@example.com"})
	svc := NewSubscriberService(repo)

	require.NoError(t, svc.DeleteUsers(context.Background(), []int{a, b, a}))
	assert.Nil(t, repo.Subscriber(a))
	assert.Nil(t, repo.Subscriber(b))

	err := svc.DeleteUsers(context.Background(), nil)
	assert.Equal(t, 400, errors.StatusCode(err))
}
