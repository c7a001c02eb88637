// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package constants defines shared constants for the subscriber sync client.
package constants

const (
	// LookupChunkSize bounds the number of values placed in one
	// set-membership lookup filter. The remote service limits both query
	// length and result-set size; 2500 stays under both.
	LookupChunkSize = 2500

	// MembershipChunkSize bounds the number of subscriber IDs sent in one
	// membership-mutation call.
	MembershipChunkSize = 2500

	// MinLookupPerPage is the floor for the per_page parameter on chunked
	// lookups, so small chunks still fetch a full page of matches.
	MinLookupPerPage = 50
)
