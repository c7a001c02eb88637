// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package errors

import (
	"errors"
	"net/http"
)

// StatusCode maps an error to the HTTP-like code carried by the result
// envelope. Unknown error types collapse to 500.
func StatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var (
		validation  Validation
		notFound    NotFound
		conflict    Conflict
		unauth      Unauthorized
		timeout     Timeout
		unavailable ServiceUnavailable
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &unauth):
		return http.StatusUnauthorized
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
