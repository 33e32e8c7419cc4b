package ledger

import (
	"testing"
	"time"

	"game_dashboard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func snap(id int64, title string, counts int, at time.Time) model.Currency {
	return model.Currency{ID: id, GameID: 1, Title: title, Counts: counts, Timestamp: at}
}

func goldWeek() *History {
	return New([]model.Currency{
		snap(1, "Gold", 100, day(3, 11).Add(9*time.Hour)),
		snap(2, "Gold", 150, day(3, 13).Add(9*time.Hour)),
		snap(3, "Gold", 80, day(3, 15).Add(9*time.Hour)),
	}, time.UTC)
}

func TestRepresentativeInRange(t *testing.T) {
	h := goldWeek()

	assert.Equal(t, 150, h.RepresentativeInRange(day(3, 11), day(3, 17), "Gold"))
	assert.Equal(t, 80, h.RepresentativeInRange(day(3, 15), day(3, 17), "Gold"))
	// nothing inside the range falls back to the latest balance before it
	assert.Equal(t, 80, h.RepresentativeInRange(day(3, 18), day(3, 24), "Gold"))
	assert.Equal(t, 0, h.RepresentativeInRange(day(3, 1), day(3, 7), "Gold"))
	assert.Equal(t, 0, h.RepresentativeInRange(day(3, 11), day(3, 17), "Gem"))
}

func TestLatestAsOf(t *testing.T) {
	h := goldWeek()

	assert.Equal(t, 80, h.LatestAsOf(day(3, 16), "Gold"))
	assert.Equal(t, 150, h.LatestAsOf(day(3, 14), "Gold"))
	assert.Equal(t, 100, h.LatestAsOf(day(3, 11), "Gold"))
	assert.Equal(t, 0, h.LatestAsOf(day(3, 10), "Gold"))
}

func TestLatestAsOfTieBreaksOnID(t *testing.T) {
	at := day(3, 11).Add(time.Hour)
	h := New([]model.Currency{
		snap(7, "Gold", 30, at),
		snap(5, "Gold", 10, at),
	}, time.UTC)

	assert.Equal(t, 30, h.LatestAsOf(day(3, 11), "Gold"))

	c, ok := h.LatestAt(at, "Gold")
	require.True(t, ok)
	assert.Equal(t, int64(7), c.ID)
}

func TestAllTitlesSumsPerTitle(t *testing.T) {
	h := New([]model.Currency{
		snap(1, "Gold", 100, day(3, 11)),
		snap(2, "Gold", 150, day(3, 13)),
		snap(3, "Gold", 80, day(3, 15)),
		snap(4, "Gem", 5, day(3, 12)),
		snap(5, "Gem", 9, day(3, 20)),
	}, time.UTC)

	assert.Equal(t, 85, h.LatestAsOf(day(3, 16), ""))
	assert.Equal(t, 155, h.RepresentativeInRange(day(3, 11), day(3, 17), ""))
	assert.Equal(t, []string{"Gem", "Gold"}, h.Titles())
}

func TestLocalDayBoundaries(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	// 2024-03-11 23:30 KST is still 2024-03-11 locally, but 14:30 UTC
	h := New([]model.Currency{
		snap(1, "Gold", 40, time.Date(2024, 3, 11, 23, 30, 0, 0, kst)),
		snap(2, "Gold", 90, time.Date(2024, 3, 12, 0, 30, 0, 0, kst)),
	}, kst)

	assert.Equal(t, 40, h.LatestAsOf(day(3, 11), "Gold"))
	assert.Equal(t, 90, h.LatestAsOf(day(3, 12), "Gold"))
}

func TestCurrent(t *testing.T) {
	now := day(3, 14)
	h := New([]model.Currency{
		snap(1, "Gold", 100, day(3, 11)),
		snap(2, "Gold", 150, day(3, 13)),
		snap(3, "Gold", 999, day(3, 20)),
		snap(4, "Gem", 5, day(3, 12)),
	}, time.UTC)

	current := h.Current(now)
	require.Len(t, current, 2)
	assert.Equal(t, "Gem", current[0].Title)
	assert.Equal(t, 150, current[1].Counts)
}

func weeklyHistory() *History {
	return New([]model.Currency{
		snap(1, "Gold", 50, day(2, 27)),
		snap(2, "Gold", 100, day(3, 11)),
		snap(3, "Gold", 150, day(3, 13)),
	}, time.UTC)
}

func TestWeeklyBackward(t *testing.T) {
	ts := weeklyHistory().Weekly(day(3, 13), WeeklyOptions{Weeks: 3}, "Gold")

	require.Len(t, ts.Buckets, 3)
	assert.Equal(t, "Gold", ts.Title)
	assert.Equal(t, day(3, 2), ts.Buckets[0].Date)
	assert.Equal(t, day(3, 16), ts.Buckets[2].Date)
	assert.Equal(t, []int{50, 50, 150}, counts(ts))
	assert.Equal(t, day(3, 2), ts.FromDate)
	assert.Equal(t, day(3, 16), ts.ToDate)
}

func TestWeeklyStartForwardFill(t *testing.T) {
	start := day(3, 13)
	ts := weeklyHistory().Weekly(day(3, 13), WeeklyOptions{Weeks: 5, Start: &start}, "Gold")

	require.Len(t, ts.Buckets, 5)
	assert.Equal(t, day(3, 16), ts.Buckets[2].Date)
	assert.Equal(t, []int{50, 50, 150, 150, 150}, counts(ts))
}

func TestWeeklyFutureAnchor(t *testing.T) {
	anchor := day(4, 10)
	ts := weeklyHistory().Weekly(day(3, 13), WeeklyOptions{Weeks: 1, Anchor: &anchor}, "")

	require.Len(t, ts.Buckets, 1)
	assert.Equal(t, AllTitles, ts.Title)
	assert.Equal(t, 150, ts.Buckets[0].Count)
}

func TestWeeklyClampsWeeks(t *testing.T) {
	h := weeklyHistory()
	assert.Len(t, h.Weekly(day(3, 13), WeeklyOptions{Weeks: 0}, "Gold").Buckets, 1)
	assert.Len(t, h.Weekly(day(3, 13), WeeklyOptions{Weeks: 99}, "Gold").Buckets, MaxWeeks)
}

func TestDaily(t *testing.T) {
	ts := weeklyHistory().Daily(day(3, 13), 3, "Gold")

	assert.Equal(t, []int{100, 100, 150}, counts(ts))
	assert.Equal(t, day(3, 11), ts.FromDate)
	assert.Equal(t, day(3, 13), ts.ToDate)
	assert.Len(t, weeklyHistory().Daily(day(3, 13), 90, "Gold").Buckets, MaxDays)
}

func counts(ts model.CurrencyTimeseries) []int {
	out := make([]int, len(ts.Buckets))
	for i, b := range ts.Buckets {
		out[i] = b.Count
	}
	return out
}
