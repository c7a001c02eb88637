// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import "strings"

// BulkEntry is one externally supplied user record in a batch operation.
type BulkEntry struct {
	Email   string    `json:"email"`
	Name    string    `json:"name,omitempty"`
	UID     string    `json:"uid,omitempty"`
	Attribs AttribMap `json:"attribs,omitempty"`
}

// NormalizedEntry is a BulkEntry after the one-time normalization step:
// the uid is mirrored into attribs, and the dedup key is fixed. Treat it
// as immutable once produced.
type NormalizedEntry struct {
	Email   string
	Name    string
	UID     string
	Attribs AttribMap
}

// DedupKey is the batch deduplication key: uid when present, otherwise
// the lowercased email.
func (e NormalizedEntry) DedupKey() string {
	if e.UID != "" {
		return e.UID
	}
	return strings.ToLower(e.Email)
}

// NormalizeEntry mirrors a present uid into attribs["uid"], establishing
// uid as the canonical secondary key before any dedup or lookup step.
// The input entry's attribs are not mutated.
func NormalizeEntry(entry BulkEntry) NormalizedEntry {
	attribs := entry.Attribs.Clone()
	if entry.UID != "" {
		if attribs == nil {
			attribs = AttribMap{}
		}
		attribs[UIDAttribute] = entry.UID
	}

	return NormalizedEntry{
		Email:   entry.Email,
		Name:    entry.Name,
		UID:     entry.UID,
		Attribs: attribs,
	}
}

// NormalizeEntries normalizes a batch and deduplicates it by DedupKey.
// On key collision the last entry wins outright (overwrite, not merge);
// the surviving entry keeps the position of the key's first occurrence.
func NormalizeEntries(entries []BulkEntry) []NormalizedEntry {
	index := make(map[string]int, len(entries))
	out := make([]NormalizedEntry, 0, len(entries))

	for _, entry := range entries {
		normalized := NormalizeEntry(entry)
		key := normalized.DedupKey()
		if pos, seen := index[key]; seen {
			out[pos] = normalized
			continue
		}
		index[key] = len(out)
		out = append(out, normalized)
	}

	return out
}
