// Package ledger answers point-in-time and range questions over append-only
// currency balance snapshots.
package ledger

import (
	"sort"
	"time"

	"game_dashboard/internal/calendar"
	"game_dashboard/internal/model"
)

// AllTitles is the label used when a query spans every resource title.
const AllTitles = "ALL"

type History struct {
	entries []model.Currency
	loc     *time.Location
}

func New(entries []model.Currency, loc *time.Location) *History {
	if loc == nil {
		loc = time.UTC
	}
	return &History{entries: entries, loc: loc}
}

// newer orders snapshots by timestamp, then by insertion id.
func newer(a, b model.Currency) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.ID > b.ID
}

func (h *History) latest(title string, cutoff time.Time) (model.Currency, bool) {
	var (
		best  model.Currency
		found bool
	)
	for _, e := range h.entries {
		if e.Title != title || e.Timestamp.After(cutoff) {
			continue
		}
		if !found || newer(e, best) {
			best, found = e, true
		}
	}
	return best, found
}

// LatestAt returns the current snapshot of title as of the instant at.
func (h *History) LatestAt(at time.Time, title string) (model.Currency, bool) {
	return h.latest(title, at)
}

// Current returns the latest snapshot of every title at or before now, ordered by title.
func (h *History) Current(now time.Time) []model.Currency {
	out := make([]model.Currency, 0)
	for _, title := range h.Titles() {
		if c, ok := h.latest(title, now); ok {
			out = append(out, c)
		}
	}
	return out
}

// Titles lists distinct titles in lexical order.
func (h *History) Titles() []string {
	seen := make(map[string]struct{})
	titles := make([]string, 0)
	for _, e := range h.entries {
		if _, ok := seen[e.Title]; ok {
			continue
		}
		seen[e.Title] = struct{}{}
		titles = append(titles, e.Title)
	}
	sort.Strings(titles)
	return titles
}

// LatestAsOf returns the balance at the end of date. An empty title sums the
// latest balance of every title.
func (h *History) LatestAsOf(date time.Time, title string) int {
	cutoff := calendar.EndOfDay(date, h.loc)
	if title != "" {
		c, ok := h.latest(title, cutoff)
		if !ok {
			return 0
		}
		return c.Counts
	}

	total := 0
	for _, t := range h.Titles() {
		if c, ok := h.latest(t, cutoff); ok {
			total += c.Counts
		}
	}
	return total
}

// RepresentativeInRange returns the highest balance recorded between start
// and end inclusive, or the latest balance before the range when nothing was
// recorded inside it. An empty title sums the per-title values.
func (h *History) RepresentativeInRange(start, end time.Time, title string) int {
	if title == "" {
		total := 0
		for _, t := range h.Titles() {
			total += h.RepresentativeInRange(start, end, t)
		}
		return total
	}

	from := calendar.StartOfDay(start, h.loc)
	to := calendar.EndOfDay(end, h.loc)
	max, found := 0, false
	for _, e := range h.entries {
		if e.Title != title || e.Timestamp.Before(from) || e.Timestamp.After(to) {
			continue
		}
		if !found || e.Counts > max {
			max, found = e.Counts, true
		}
	}
	if found {
		return max
	}
	return h.LatestAsOf(end, title)
}
