// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEntry(t *testing.T) {
	entry := BulkEntry{
		Email:   "Jane@Example.com",
		Name:    "Jane",
		UID:     "ext-1",
		Attribs: AttribMap{"plan": "pro"},
	}

	normalized := NormalizeEntry(entry)

	assert.Equal(t, "ext-1", normalized.Attribs[UIDAttribute], "uid must be mirrored into attribs")
	assert.Equal(t, "ext-1", normalized.DedupKey(), "uid takes precedence as dedup key")

	// the input entry's attribs must not be mutated
	_, mirrored := entry.Attribs[UIDAttribute]
	assert.False(t, mirrored)
}

func TestNormalizeEntryWithoutUID(t *testing.T) {
	normalized := NormalizeEntry(BulkEntry{Email: "Jane@Example.com"})

	assert.Equal(t, "jane@example.com", normalized.DedupKey(), "email dedup key is lowercased")
	assert.Nil(t, normalized.Attribs)
}

func TestNormalizeEntriesLastWins(t *testing.T) {
	entries := []BulkEntry{
		{Email: "first@example.com", UID: "u1", Name: "First"},
		{Email: "other@example.com"},
		{Email: "second@example.com", UID: "u1", Name: "Second"},
	}

	out := NormalizeEntries(entries)
	require.Len(t, out, 2)

	// surviving u1 entry keeps the first occurrence's position but the
	// last occurrence's content: overwrite, not merge
	assert.Equal(t, "u1", out[0].UID)
	assert.Equal(t, "second@example.com", out[0].Email)
	assert.Equal(t, "Second", out[0].Name)
	assert.Equal(t, "other@example.com", out[1].Email)
}

func TestNormalizeEntriesEmailCaseCollision(t *testing.T) {
	entries := []BulkEntry{
		{Email: "User@Example.com", Name: "A"},
		{Email: "user@example.com", Name: "B"},
	}

	out := NormalizeEntries(entries)
	require.Len(t, out, 1)
	assert.Equal(t, "B", out[0].Name)
}
