// Package normalize coerces the free-text publication dates scraped from
// portals and article pages into the canonical YYYY-MM-DD form.
package normalize

import (
	"strings"
	"time"
)

// DateLayout is the canonical storage format for publication dates.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order. The list covers the formats the source
// portals actually emit: ISO timestamps, RFC headers, and the spelled-out
// variants bylines use.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2 2006",
	"January 2 2006",
	"Monday, January 2, 2006",
	"Mon, Jan 2, 2006",
	"02 Jan 2006 15:04:05",
	"January 2, 2006 3:04 PM",
	"2006-01-02T15:04:05.000Z",
}

// Date parses a free-text date and returns it formatted as YYYY-MM-DD.
// It is total: any input yields either a valid date string and true, or
// empty string and false, never an error. It is idempotent: a value already
// in canonical form is returned unchanged.
func Date(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(DateLayout), true
		}
	}

	// Timestamps with a trailing zone name, e.g. "2024-03-01 10:00:00 UTC"
	if idx := strings.LastIndex(v, " "); idx > 0 {
		if t, err := time.Parse("2006-01-02 15:04:05", v[:idx]); err == nil {
			return t.Format(DateLayout), true
		}
	}

	return "", false
}

// IsNormalized reports whether the value is already in canonical form, i.e.
// parsing and reformatting it is the identity. Rows in this state are left
// untouched to avoid pointless writes.
func IsNormalized(value string) bool {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return false
	}
	return t.Format(DateLayout) == value
}
