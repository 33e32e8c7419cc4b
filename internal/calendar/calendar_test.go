package calendar

import (
	"testing"
	"time"

	"game_dashboard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var kst = time.FixedZone("KST", 9*60*60)

func local(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, kst)
}

func TestMostRecentDaily(t *testing.T) {
	five := TimeOfDay{Hour: 5}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"before reset time", local(2024, 3, 10, 4, 30), local(2024, 3, 9, 5, 0)},
		{"after reset time", local(2024, 3, 10, 5, 30), local(2024, 3, 10, 5, 0)},
		{"exactly at reset time", local(2024, 3, 10, 5, 0), local(2024, 3, 10, 5, 0)},
		{"crosses month", local(2024, 3, 1, 1, 0), local(2024, 2, 29, 5, 0)},
		{"input in another zone", time.Date(2024, 3, 9, 20, 30, 0, 0, time.UTC), local(2024, 3, 10, 5, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MostRecentDaily(tt.now, five, kst)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestMostRecentWeekly(t *testing.T) {
	six := TimeOfDay{Hour: 6}

	tests := []struct {
		name     string
		now      time.Time
		resetDay int
		want     time.Time
	}{
		{"monday reset seen on wednesday", local(2024, 3, 13, 10, 0), 2, local(2024, 3, 11, 6, 0)},
		{"reset day before reset time", local(2024, 3, 11, 5, 0), 2, local(2024, 3, 4, 6, 0)},
		{"reset day after reset time", local(2024, 3, 11, 7, 0), 2, local(2024, 3, 11, 6, 0)},
		{"sunday reset", local(2024, 3, 16, 12, 0), 1, local(2024, 3, 10, 6, 0)},
		{"saturday reset", local(2024, 3, 16, 12, 0), 7, local(2024, 3, 16, 6, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MostRecentWeekly(tt.now, six, tt.resetDay, kst)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestMostRecentMonthly(t *testing.T) {
	five := TimeOfDay{Hour: 5}

	got := MostRecentMonthly(local(2024, 3, 15, 0, 0), five, kst)
	assert.True(t, local(2024, 3, 1, 5, 0).Equal(got))

	got = MostRecentMonthly(local(2024, 3, 1, 4, 59), five, kst)
	assert.True(t, local(2024, 2, 1, 5, 0).Equal(got))

	got = MostRecentMonthly(local(2024, 1, 1, 0, 0), five, kst)
	assert.True(t, local(2023, 12, 1, 5, 0).Equal(got))
}

func TestNeedsReset(t *testing.T) {
	b := local(2024, 3, 10, 5, 0)
	before := b.Add(-time.Minute)

	assert.True(t, NeedsReset(nil, b))
	assert.True(t, NeedsReset(&before, b))
	assert.False(t, NeedsReset(&b, b))
	assert.False(t, NeedsReset(&b, before))
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("06:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 6, Minute: 30}, tod)

	tod, err = ParseTimeOfDay("04:00:00")
	require.NoError(t, err)
	assert.Equal(t, "04:00", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}

func TestScheduleFallbacks(t *testing.T) {
	four := TimeOfDay{Hour: 4}
	s := NewSchedule(kst, map[string]TitleDefault{
		"Blue Archive": {ResetDay: 3, ResetTime: &four},
	})

	plain := &model.Game{Title: "Unknown"}
	assert.Equal(t, DefaultResetTime, s.ResetTime(plain))
	assert.Equal(t, 2, s.ResetDay(plain))

	listed := &model.Game{Title: "Blue Archive"}
	assert.Equal(t, four, s.ResetTime(listed))
	assert.Equal(t, 3, s.ResetDay(listed))

	day, tm := 5, "06:00"
	configured := &model.Game{Title: "Blue Archive", RefreshDay: &day, RefreshTime: &tm}
	assert.Equal(t, TimeOfDay{Hour: 6}, s.ResetTime(configured))
	assert.Equal(t, 5, s.ResetDay(configured))

	broken := "late"
	assert.Equal(t, four, s.ResetTime(&model.Game{Title: "Blue Archive", RefreshTime: &broken}))
}

func TestDateHelpers(t *testing.T) {
	now := time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), DateOf(now, kst))

	end := EndOfDay(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), kst)
	assert.True(t, end.Before(local(2024, 3, 11, 0, 0)))
	assert.True(t, end.After(local(2024, 3, 10, 23, 59)))

	wed := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), MostRecentSunday(wed))
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), MostRecentSunday(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)))
}
