package character

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the date format written to character files: yyyy/MM/dd.
const DateLayout = "2006/01/02"

const notAvailable = "N/A"

// storedDateLayouts are the date orders accepted when reading a file. Files
// written by older versions use dd/MM/yyyy. A layout only matches when its
// four-digit year lines up, so the two never shadow each other.
var storedDateLayouts = []string{"2006/1/2", "2/1/2006"}

// inputDateLayouts are the formats accepted from users.
var inputDateLayouts = []string{"2006/1/2", "2006-1-2"}

// ParseDate parses a user-supplied date in yyyy/MM/dd (or yyyy-MM-dd) form.
// Anything else fails with [ErrInvalidDate].
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range inputDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// FormatDate renders t as yyyy/MM/dd, or "N/A" when t is zero.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return notAvailable
	}

	return t.Format(DateLayout)
}

// parseStoredDate parses a date read back from a file. The second result is
// false for "N/A", an empty string, or anything unparseable.
func parseStoredDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, notAvailable) {
		return time.Time{}, false
	}

	for _, layout := range storedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// dateOnly drops the time of day and location, keeping the calendar date.
func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}

	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
