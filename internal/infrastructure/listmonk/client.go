// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package listmonk implements the remote subscriber API client against a
// listmonk-compatible service.
package listmonk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/go-querystring/query"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/port"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/httpclient"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/redaction"
)

// tokenAuthRoundTripper injects the listmonk API token on every request.
type tokenAuthRoundTripper struct {
	username string
	token    string
}

// RoundTrip adds the api-user token as BasicAuth credentials.
func (rt *tokenAuthRoundTripper) RoundTrip(req *http.Request, next func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	req.SetBasicAuth(rt.username, rt.token)
	return next(req)
}

// Client handles all listmonk API operations.
type Client struct {
	config     Config
	httpClient *httpclient.Client
}

// Client implements the full repository port.
var _ port.SubscriberRepository = (*Client)(nil)

// NewClient creates a new listmonk client with the given configuration.
// A non-nil registerer wires request metrics into the transport.
func NewClient(cfg Config, reg prometheus.Registerer) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required for listmonk client")
	}
	if cfg.Username == "" || cfg.APIToken == "" {
		return nil, fmt.Errorf("username and API token are required for listmonk client")
	}

	httpClient := httpclient.NewClient(httpclient.Config{
		Timeout: cfg.Timeout,
	})
	httpClient.AddRoundTripper(&tokenAuthRoundTripper{
		username: cfg.Username,
		token:    cfg.APIToken,
	})
	if reg != nil {
		httpClient.SetMetrics(httpclient.NewMetrics(reg))
	}

	return &Client{
		config:     cfg,
		httpClient: httpClient,
	}, nil
}

// Query runs a filtered subscriber search.
func (c *Client) Query(ctx context.Context, filter model.SubscriberFilter) ([]model.Subscriber, error) {
	opts := subscriberQueryOptions{
		Query:              buildFilterExpr(filter),
		Page:               filter.Page,
		PerPage:            filter.PerPage,
		ListID:             filter.ListID,
		SubscriptionStatus: filter.SubscriptionStatus,
	}

	values, err := query.Values(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query options: %w", err)
	}

	var page subscribersPage
	if err := c.makeRequest(ctx, http.MethodGet, "/api/subscribers", values, nil, &page); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "subscriber query completed",
		"matches", len(page.Results), "total", page.Total)

	return page.Results, nil
}

// Get fetches a single subscriber by id.
func (c *Client) Get(ctx context.Context, id int) (*model.Subscriber, error) {
	var sub model.Subscriber
	path := "/api/subscribers/" + strconv.Itoa(id)
	if err := c.makeRequest(ctx, http.MethodGet, path, nil, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Create creates a new subscriber.
func (c *Client) Create(ctx context.Context, req model.SubscriberCreate) (*model.Subscriber, error) {
	slog.DebugContext(ctx, "creating subscriber",
		"email", redaction.RedactEmail(req.Email), "lists", req.Lists)

	var sub model.Subscriber
	if err := c.makeRequest(ctx, http.MethodPost, "/api/subscribers", nil, req, &sub); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "subscriber created",
		"subscriber_id", sub.ID, "email", redaction.RedactEmail(sub.Email))

	return &sub, nil
}

// Update replaces a subscriber's identity fields.
func (c *Client) Update(ctx context.Context, id int, req model.SubscriberUpdate) (*model.Subscriber, error) {
	slog.DebugContext(ctx, "updating subscriber",
		"subscriber_id", id, "email", redaction.RedactEmail(req.Email))

	var sub model.Subscriber
	path := "/api/subscribers/" + strconv.Itoa(id)
	if err := c.makeRequest(ctx, http.MethodPut, path, nil, req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Delete removes a single subscriber.
func (c *Client) Delete(ctx context.Context, id int) error {
	slog.InfoContext(ctx, "deleting subscriber", "subscriber_id", id)

	path := "/api/subscribers/" + strconv.Itoa(id)
	return c.makeRequest(ctx, http.MethodDelete, path, nil, nil, nil)
}

// DeleteMany removes a set of subscribers by id.
func (c *Client) DeleteMany(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "deleting subscribers", "count", len(ids))

	values := url.Values{}
	for _, id := range ids {
		values.Add("id", strconv.Itoa(id))
	}
	return c.makeRequest(ctx, http.MethodDelete, "/api/subscribers", values, nil, nil)
}

// AddToList attaches subscribers to one list via the path-scoped call.
func (c *Client) AddToList(ctx context.Context, listID int, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	slog.DebugContext(ctx, "attaching subscribers to list",
		"list_id", listID, "count", len(ids))

	body := membershipUpdate{
		IDs:    ids,
		Action: model.MembershipActionAdd,
	}
	path := "/api/subscribers/lists/" + strconv.Itoa(listID)
	return c.makeRequest(ctx, http.MethodPut, path, nil, body, nil)
}

// UpdateMemberships applies a membership action to an explicit target
// list set.
func (c *Client) UpdateMemberships(ctx context.Context, ids []int, action model.MembershipAction, targetListIDs []int) error {
	if len(ids) == 0 || len(targetListIDs) == 0 {
		return nil
	}

	slog.DebugContext(ctx, "updating list memberships",
		"action", action, "count", len(ids), "target_list_ids", targetListIDs)

	body := membershipUpdate{
		IDs:           ids,
		Action:        action,
		TargetListIDs: targetListIDs,
	}
	return c.makeRequest(ctx, http.MethodPut, "/api/subscribers/lists", nil, body, nil)
}

// Lists fetches list metadata, tolerating both response shapes the
// endpoint is known to produce.
func (c *Client) Lists(ctx context.Context, visibility string) ([]model.ListRecord, error) {
	values, err := query.Values(listQueryOptions{
		PerPage: "all",
		Type:    visibility,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode query options: %w", err)
	}

	var payload listsPayload
	if err := c.makeRequest(ctx, http.MethodGet, "/api/lists", values, nil, &payload); err != nil {
		return nil, err
	}
	return payload.records, nil
}

// makeRequest centralizes all API calls: envelope decoding and error
// mapping happen here so the service layer never sees wire details.
func (c *Client) makeRequest(ctx context.Context, method, path string, values url.Values, body, result any) error {
	reqURL := c.config.BaseURL + path
	if len(values) > 0 {
		reqURL += "?" + values.Encode()
	}

	var reqBody io.Reader
	headers := map[string]string{}
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.NewUnexpected("failed to encode request body", err)
		}
		reqBody = bytes.NewReader(encoded)
		headers["Content-Type"] = "application/json"
	}

	resp, err := c.httpClient.Request(ctx, method, reqURL, reqBody, headers)
	if err != nil {
		return MapHTTPError(ctx, err)
	}

	if result == nil {
		return nil
	}

	// 204/205 style success-with-null-data leaves the result zeroed.
	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusResetContent || len(resp.Body) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return errors.NewUnexpected("failed to parse response", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, result); err != nil {
		return errors.NewUnexpected("failed to parse response data", err)
	}

	return nil
}
