// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package listmonk

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/errors"
	"github.com/linuxfoundation/lfx-v2-subscriber-sync/pkg/httpclient"
)

// MapHTTPError maps transport failures to domain errors. Remote-reported
// messages are surfaced verbatim; timeouts become a distinguished
// Timeout error; anything else is Unexpected.
func MapHTTPError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var timeoutErr *httpclient.TimeoutError
	if stderrors.As(err, &timeoutErr) {
		slog.WarnContext(ctx, "listmonk request timed out", "error", err)
		return errors.NewTimeout("request timed out", err)
	}

	var statusErr *httpclient.StatusError
	if stderrors.As(err, &statusErr) {
		message := remoteMessage(statusErr)

		slog.WarnContext(ctx, "listmonk HTTP error occurred",
			"status_code", statusErr.StatusCode,
			"message", message,
		)

		switch statusErr.StatusCode {
		case http.StatusNotFound:
			return errors.NewNotFound(message, err)
		case http.StatusBadRequest:
			return errors.NewValidation(message, err)
		case http.StatusConflict:
			return errors.NewConflict(message, err)
		case http.StatusUnauthorized, http.StatusForbidden:
			return errors.NewUnauthorized(message, err)
		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return errors.NewServiceUnavailable(message, err)
		default:
			return errors.NewUnexpected(message, err)
		}
	}

	// Network failures, malformed responses and the like.
	slog.ErrorContext(ctx, "listmonk request failed with non-HTTP error", "error", err.Error())
	return errors.NewUnexpected("listmonk request failed", err)
}

// remoteMessage extracts the error message the remote service reported,
// falling back to the raw body.
func remoteMessage(statusErr *httpclient.StatusError) string {
	var env envelope
	if jsonErr := json.Unmarshal([]byte(statusErr.Message), &env); jsonErr == nil && env.Message != "" {
		return env.Message
	}
	if statusErr.Message != "" {
		return statusErr.Message
	}
	return http.StatusText(statusErr.StatusCode)
}
