// Package civil converts the heterogeneous timestamp shapes found in
// upstream calendar feeds into a canonical (calendar day, display time)
// pair expressed in one fixed civil timezone.
package civil

import (
	"regexp"
	"strings"
	"time"
)

// Display sentinels for events without a clock time.
const (
	AllDay = "All Day"
	TBD    = "TBD"
)

// DateLayout is the canonical calendar-day form.
const DateLayout = "2006-01-02"

// Normalized is the canonical form of one source timestamp. Date is a
// YYYY-MM-DD civil day; Display is a 12-hour clock string or a sentinel.
type Normalized struct {
	Date    string
	Display string
}

// dateOnly layouts carry no instant and are never timezone-converted.
var dateOnlyLayouts = []string{DateLayout, "20060102"}

// instant layouts name a point in time (UTC or explicit offset) and are
// converted into the reference zone.
var instantLayouts = []string{time.RFC3339, "20060102T150405Z"}

// naive layouts are wall-clock values taken as already being in the
// reference zone.
var naiveLayouts = []string{"2006-01-02T15:04:05", "20060102T150405"}

// Normalize parses raw into loc's civil calendar. The second return value
// is false when raw is unparseable; the caller gets the raw string back as
// the date and TBD as the time so it can skip the record instead of failing.
func Normalize(raw string, loc *time.Location) (Normalized, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Normalized{Date: raw, Display: TBD}, false
	}

	for _, layout := range dateOnlyLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return Normalized{Date: t.Format(DateLayout), Display: AllDay}, true
		}
	}

	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			local := t.In(loc)
			return Normalized{Date: local.Format(DateLayout), Display: Clock(local)}, true
		}
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return Normalized{Date: t.Format(DateLayout), Display: Clock(t)}, true
		}
	}

	return Normalized{Date: raw, Display: TBD}, false
}

// Clock formats t on the 12-hour clock, e.g. "6:00 PM". Midnight renders
// as 12:00 AM and noon as 12:00 PM.
func Clock(t time.Time) string {
	return t.Format("3:04 PM")
}

// Today returns the current civil date in loc.
func Today(loc *time.Location) string {
	return time.Now().In(loc).Format(DateLayout)
}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsDate reports whether s is a strict, real YYYY-MM-DD calendar date.
func IsDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
