// Package biztime centralizes clock access and business timezone boundaries.
// Persistence and transport use UTC; the business timezone only decides where
// a day starts when dates are shown to or typed by members.
package biztime

import (
	"fmt"
	"sync/atomic"
	"time"
)

// DefaultTimezone is used when no timezone is configured.
const DefaultTimezone = "America/Sao_Paulo"

var location atomic.Pointer[time.Location]

// Init loads and installs the business timezone. An empty name selects
// DefaultTimezone. Later calls replace the zone.
func Init(tz string) error {
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", tz, err)
	}
	location.Store(loc)
	return nil
}

// Location returns the business timezone, installing the default on first use.
func Location() *time.Location {
	if loc := location.Load(); loc != nil {
		return loc
	}
	if err := Init(""); err != nil {
		panic(err)
	}
	return location.Load()
}

// NowUTC is the clock every use case reads.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDayUTC returns business-local midnight of t's day, in UTC.
func StartOfDayUTC(t time.Time) time.Time {
	loc := Location()
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).UTC()
}

// EndOfDayUTC returns the last instant of t's business day, in UTC.
func EndOfDayUTC(t time.Time) time.Time {
	return StartOfDayUTC(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ParseDateInBizTimezone reads YYYY-MM-DD as business-local midnight, in UTC.
func ParseDateInBizTimezone(date string) (time.Time, error) {
	t, err := time.ParseInLocation(time.DateOnly, date, Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}
	return t.UTC(), nil
}

// FormatInBizTimezone renders t in the business timezone.
func FormatInBizTimezone(t time.Time, layout string) string {
	return t.In(Location()).Format(layout)
}
