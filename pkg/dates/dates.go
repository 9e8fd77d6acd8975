// Package dates normalizes the date strings that arrive in CSV uploads.
package dates

import (
	"strings"
	"time"
)

// Input layouts tried in order; first match wins. DD/MM/YYYY sits before
// MM/DD/YYYY on purpose: ambiguous values like "03/04/2023" resolve as
// day-first, and stored data depends on that tie-break. The numeric layouts
// use non-padded forms, which accept both "3/4/2023" and "03/04/2023".
var layouts = []string{
	"2006-1-2",    // 2023-12-31, 2023-4-3
	"2/1/2006",    // 31/12/2023, 3/4/2023
	"1/2/2006",    // 12/31/2023
	"2-1-2006",    // 31-12-2023
	"2006/1/2",    // 2023/12/31
	"2 Jan 2006",  // 31 Dec 2023
	"Jan 2, 2006", // Dec 31, 2023
}

// Normalize converts a date string to canonical YYYY-MM-DD form. Empty or
// whitespace-only input yields nil. Input matching none of the known layouts
// is returned verbatim so storage still receives a string.
func Normalize(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			out := t.Format("2006-01-02")
			return &out
		}
	}

	return &s
}
