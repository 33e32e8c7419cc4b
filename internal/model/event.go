package model

import "time"

const (
	EventUpcoming = "예정"
	EventEnded    = "종료"
	EventOngoing  = "진행 중"
)

type GameEvent struct {
	ID        int64
	GameID    int64
	Title     string
	Type      string
	StartDate time.Time
	EndDate   *time.Time
	Priority  string
}

func (e *GameEvent) State(today time.Time) string {
	if today.Before(e.StartDate) {
		return EventUpcoming
	}
	if e.EndDate != nil && today.After(*e.EndDate) {
		return EventEnded
	}
	return EventOngoing
}

type GameEventView struct {
	GameEvent
	State string
}
