// Package calendar computes the most recent reset boundaries for the three
// supported periodicities in one fixed local timezone.
package calendar

import (
	"fmt"
	"time"
)

// Epoch stands in for a boundary that was never applied.
var Epoch = time.Time{}

type TimeOfDay struct {
	Hour   int
	Minute int
}

var DefaultResetTime = TimeOfDay{Hour: 5}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS"; seconds are ignored.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func at(day time.Time, tod TimeOfDay) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour, tod.Minute, 0, 0, day.Location())
}

// MostRecentDaily returns the latest daily boundary at or before now.
func MostRecentDaily(now time.Time, tod TimeOfDay, loc *time.Location) time.Time {
	local := now.In(loc)
	b := at(local, tod)
	if b.After(local) {
		b = b.AddDate(0, 0, -1)
	}
	return b
}

// MostRecentWeekly returns the latest weekly boundary at or before now.
// resetDay is 1 for Sunday through 7 for Saturday.
func MostRecentWeekly(now time.Time, tod TimeOfDay, resetDay int, loc *time.Location) time.Time {
	local := now.In(loc)
	target := (resetDay - 1) % 7
	if target < 0 {
		target += 7
	}
	back := (int(local.Weekday()) - target + 7) % 7
	b := at(local.AddDate(0, 0, -back), tod)
	if b.After(local) {
		b = b.AddDate(0, 0, -7)
	}
	return b
}

// MostRecentMonthly returns the first-of-month boundary at or before now.
func MostRecentMonthly(now time.Time, tod TimeOfDay, loc *time.Location) time.Time {
	local := now.In(loc)
	b := time.Date(local.Year(), local.Month(), 1, tod.Hour, tod.Minute, 0, 0, loc)
	if b.After(local) {
		b = b.AddDate(0, -1, 0)
	}
	return b
}

// NeedsReset reports whether boundary has not been applied yet.
func NeedsReset(last *time.Time, boundary time.Time) bool {
	applied := Epoch
	if last != nil {
		applied = *last
	}
	return applied.Before(boundary)
}

// DateOf truncates t to its civil date in loc. Civil dates are carried as UTC midnights.
func DateOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

func StartOfDay(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}

func EndOfDay(date time.Time, loc *time.Location) time.Time {
	return StartOfDay(date, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// MostRecentSunday returns the civil date of the Sunday on or before date.
func MostRecentSunday(date time.Time) time.Time {
	return date.AddDate(0, 0, -int(date.Weekday()))
}
