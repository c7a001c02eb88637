// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package listmonk

import (
	"encoding/json"

	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/model"
)

// envelope is the uniform listmonk response wrapper: successful calls
// carry {"data": ...}, failures carry {"message": ...}.
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// subscribersPage is the paginated payload of a subscriber search.
type subscribersPage struct {
	Results []model.Subscriber `json:"results"`
	Total   int                `json:"total"`
	PerPage int                `json:"per_page"`
	Page    int                `json:"page"`
}

// subscriberQueryOptions are the query parameters of a subscriber
// search, encoded with go-querystring.
type subscriberQueryOptions struct {
	Query              string `url:"query,omitempty"`
	Page               int    `url:"page,omitempty"`
	PerPage            int    `url:"per_page,omitempty"`
	ListID             int    `url:"list_id,omitempty"`
	SubscriptionStatus string `url:"subscription_status,omitempty"`
}

// listQueryOptions are the query parameters of a list metadata fetch.
// PerPage is a string because the API accepts the sentinel "all".
type listQueryOptions struct {
	PerPage string `url:"per_page,omitempty"`
	Type    string `url:"type,omitempty"`
}

// membershipUpdate is the body of a bulk membership mutation.
type membershipUpdate struct {
	IDs           []int                  `json:"ids"`
	Action        model.MembershipAction `json:"action"`
	TargetListIDs []int                  `json:"target_list_ids,omitempty"`
}

// listsPayload tolerates the two shapes the lists endpoint may return:
// a bare array or an object with a results field.
type listsPayload struct {
	records []model.ListRecord
}

func (p *listsPayload) UnmarshalJSON(data []byte) error {
	var bare []model.ListRecord
	if err := json.Unmarshal(data, &bare); err == nil {
		p.records = bare
		return nil
	}

	var wrapped struct {
		Results []model.ListRecord `json:"results"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	p.records = wrapped.Results
	return nil
}
