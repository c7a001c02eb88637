// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package listmonk

import (
	"fmt"
	"strings"

	"github.com/linuxfoundation/lfx-v2-subscriber-sync/internal/domain/model"
)

// escapeQueryValue doubles single quotes for the remote boolean query
// syntax.
func escapeQueryValue(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}

// inFilter builds a set-membership expression: field IN ('v1','v2').
func inFilter(field string, values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + escapeQueryValue(v) + "'"
	}
	return fmt.Sprintf("%s IN (%s)", field, strings.Join(quoted, ", "))
}

// buildFilterExpr translates a SubscriberFilter's identifying fields
// into the server-side boolean query expression. Returns the empty
// string when the filter carries no identifying field.
func buildFilterExpr(f model.SubscriberFilter) string {
	switch {
	case f.ID != 0:
		return fmt.Sprintf("subscribers.id = %d", f.ID)
	case f.UUID != "":
		return fmt.Sprintf("subscribers.uuid = '%s'", escapeQueryValue(f.UUID))
	case f.Email != "":
		return fmt.Sprintf("subscribers.email = '%s'", escapeQueryValue(strings.ToLower(f.Email)))
	case len(f.Emails) > 0:
		lowered := make([]string, len(f.Emails))
		for i, e := range f.Emails {
			lowered[i] = strings.ToLower(e)
		}
		return inFilter("subscribers.email", lowered)
	case len(f.UIDs) > 0:
		return inFilter("subscribers.attribs->>'uid'", f.UIDs)
	default:
		return ""
	}
}
