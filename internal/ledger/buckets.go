package ledger

import (
	"time"

	"game_dashboard/internal/calendar"
	"game_dashboard/internal/model"
)

const (
	MaxDays  = 30
	MaxWeeks = 26

	// anchorFromRight places an explicit start week third from the right edge.
	anchorFromRight = 3
)

type WeeklyOptions struct {
	Weeks  int
	Anchor *time.Time
	Start  *time.Time
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func label(title string) string {
	if title == "" {
		return AllTitles
	}
	return title
}

// Daily samples the end-of-day balance for the last days days ending today.
func (h *History) Daily(today time.Time, days int, title string) model.CurrencyTimeseries {
	days = clamp(days, 1, MaxDays)
	start := today.AddDate(0, 0, -(days - 1))

	buckets := make([]model.TimeseriesBucket, days)
	for i := range buckets {
		day := start.AddDate(0, 0, i)
		buckets[i] = model.TimeseriesBucket{Date: day, Count: h.LatestAsOf(day, title)}
	}

	return model.CurrencyTimeseries{
		Title:    label(title),
		Buckets:  buckets,
		FromDate: start,
		ToDate:   today,
	}
}

// Weekly rolls the history up into Sunday-to-Saturday buckets, oldest first.
// Each bucket is dated by its Saturday. Buckets that start after today carry
// the previous bucket's value forward.
func (h *History) Weekly(today time.Time, opts WeeklyOptions, title string) model.CurrencyTimeseries {
	weeks := clamp(opts.Weeks, 1, MaxWeeks)

	var first time.Time
	switch {
	case opts.Start != nil:
		pos := weeks - anchorFromRight
		if pos < 0 {
			pos = 0
		}
		first = calendar.MostRecentSunday(*opts.Start).AddDate(0, 0, -7*pos)
	default:
		ref := today
		if opts.Anchor != nil {
			ref = *opts.Anchor
		}
		first = calendar.MostRecentSunday(ref).AddDate(0, 0, -7*(weeks-1))
	}

	buckets := make([]model.TimeseriesBucket, weeks)
	for i := range buckets {
		weekStart := first.AddDate(0, 0, 7*i)
		weekEnd := weekStart.AddDate(0, 0, 6)

		var count int
		switch {
		case !weekStart.After(today):
			count = h.RepresentativeInRange(weekStart, weekEnd, title)
		case i > 0:
			count = buckets[i-1].Count
		default:
			count = h.LatestAsOf(today, title)
		}
		buckets[i] = model.TimeseriesBucket{Date: weekEnd, Count: count}
	}

	return model.CurrencyTimeseries{
		Title:    label(title),
		Buckets:  buckets,
		FromDate: buckets[0].Date,
		ToDate:   buckets[len(buckets)-1].Date,
	}
}
