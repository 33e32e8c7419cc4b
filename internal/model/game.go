package model

import "time"

type Game struct {
	ID          int64
	Title       string
	StartDate   time.Time
	EndDate     *time.Time
	StopPlay    bool
	UID         *string
	CouponURL   *string
	RefreshDay  *int
	RefreshTime *string
}

// DuringPlay reports whether the game has not been ended yet.
func (g *Game) DuringPlay() bool {
	return g.EndDate == nil
}

// PlaytimeDays counts calendar days since the start date, inclusive of both ends.
func (g *Game) PlaytimeDays(today time.Time) int {
	days := int(today.Sub(g.StartDate).Hours()/24) + 1
	if days < 0 {
		return 0
	}
	return days
}

type GameSummary struct {
	Game
	PlaytimeDays int
	DuringPlay   bool
}

func (g *Game) Summary(today time.Time) GameSummary {
	return GameSummary{Game: *g, PlaytimeDays: g.PlaytimeDays(today), DuringPlay: g.DuringPlay()}
}
