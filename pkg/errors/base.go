// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package errors provides the typed error taxonomy for the subscriber
// sync client. Expected failure modes (validation, not-found, blocklist
// rejections, timeouts) are always one of these types so callers can
// branch with errors.As and recover the envelope code with StatusCode.
package errors

import "fmt"

// base holds the common fields for all error types in this package.
type base struct {
	message string
	err     error
}

// error renders the message, appending the wrapped cause when present.
func (b base) error() string {
	if b.err == nil {
		return b.message
	}
	return fmt.Sprintf("%s: %v", b.message, b.err)
}

// Unwrap exposes the underlying error to support errors.Is / errors.As.
func (b base) Unwrap() error {
	return b.err
}
