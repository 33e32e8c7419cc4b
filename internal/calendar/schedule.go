package calendar

import (
	"time"

	"game_dashboard/internal/model"
)

const defaultResetDay = 2

type TitleDefault struct {
	ResetDay  int
	ResetTime *TimeOfDay
}

// Schedule resolves per-game reset settings and boundaries.
type Schedule struct {
	Location    *time.Location
	DefaultTime TimeOfDay
	DefaultDay  int
	Titles      map[string]TitleDefault
}

func NewSchedule(loc *time.Location, titles map[string]TitleDefault) *Schedule {
	if loc == nil {
		loc = time.UTC
	}
	if titles == nil {
		titles = map[string]TitleDefault{}
	}
	return &Schedule{
		Location:    loc,
		DefaultTime: DefaultResetTime,
		DefaultDay:  defaultResetDay,
		Titles:      titles,
	}
}

func (s *Schedule) ResetTime(g *model.Game) TimeOfDay {
	if g.RefreshTime != nil {
		if tod, err := ParseTimeOfDay(*g.RefreshTime); err == nil {
			return tod
		}
	}
	if d, ok := s.Titles[g.Title]; ok && d.ResetTime != nil {
		return *d.ResetTime
	}
	return s.DefaultTime
}

func (s *Schedule) ResetDay(g *model.Game) int {
	if g.RefreshDay != nil && *g.RefreshDay >= 1 && *g.RefreshDay <= 7 {
		return *g.RefreshDay
	}
	if d, ok := s.Titles[g.Title]; ok && d.ResetDay >= 1 && d.ResetDay <= 7 {
		return d.ResetDay
	}
	return s.DefaultDay
}

func (s *Schedule) Boundary(p model.Periodicity, now time.Time, g *model.Game) time.Time {
	tod := s.ResetTime(g)
	switch p {
	case model.Weekly:
		return MostRecentWeekly(now, tod, s.ResetDay(g), s.Location)
	case model.Monthly:
		return MostRecentMonthly(now, tod, s.Location)
	default:
		return MostRecentDaily(now, tod, s.Location)
	}
}

// Next returns the boundary following b for periodicity p.
func Next(p model.Periodicity, b time.Time) time.Time {
	switch p {
	case model.Weekly:
		return b.AddDate(0, 0, 7)
	case model.Monthly:
		return b.AddDate(0, 1, 0)
	default:
		return b.AddDate(0, 0, 1)
	}
}

func (s *Schedule) Today(now time.Time) time.Time {
	return DateOf(now, s.Location)
}
