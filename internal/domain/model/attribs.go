// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

import (
	"encoding/json"
	"sort"
	"strings"
)

// AttribMap is the arbitrary JSON attribute bag attached to a subscriber.
type AttribMap map[string]any

// Clone returns a shallow copy one level deep; nested values are shared.
// Callers that mutate nested structures must copy those themselves.
func (a AttribMap) Clone() AttribMap {
	if a == nil {
		return nil
	}
	out := make(AttribMap, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// MergeAttribs overlays overlay onto existing: existing-side data for
// other keys is preserved, overlay wins on key collision. Neither input
// is mutated.
func MergeAttribs(existing, overlay AttribMap) AttribMap {
	merged := make(AttribMap, len(existing)+len(overlay))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}

// CanonicalAttribs serializes an attribute value with object keys
// recursively sorted lexicographically. Arrays preserve order and
// primitives serialize directly, so two bags differing only in key
// insertion order canonicalize identically while `1` and `"1"` stay
// distinct.
func CanonicalAttribs(v any) string {
	var sb strings.Builder
	writeCanonical(&sb, v)
	return sb.String()
}

// AttribsEqual reports deep, key-order-insensitive equality of two
// attribute bags.
func AttribsEqual(a, b AttribMap) bool {
	return CanonicalAttribs(map[string]any(a)) == CanonicalAttribs(map[string]any(b))
}

func writeCanonical(sb *strings.Builder, v any) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeJSONScalar(sb, k)
			sb.WriteByte(':')
			writeCanonical(sb, val[k])
		}
		sb.WriteByte('}')
	case AttribMap:
		writeCanonical(sb, map[string]any(val))
	case []any:
		sb.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeCanonical(sb, item)
		}
		sb.WriteByte(']')
	default:
		writeJSONScalar(sb, val)
	}
}

// writeJSONScalar serializes a primitive. Marshal cannot fail for the
// scalar kinds that appear in a decoded JSON document; anything exotic
// degrades to null rather than panicking.
func writeJSONScalar(sb *strings.Builder, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		sb.WriteString("null")
		return
	}
	sb.Write(b)
}
