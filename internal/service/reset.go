package service

import (
	"time"

	"game_dashboard/internal/calendar"
	"game_dashboard/internal/model"
	"game_dashboard/pkg/logger"

	"go.uber.org/zap"
)

type ResetEngine struct {
	schedule *calendar.Schedule
}

func NewResetEngine(schedule *calendar.Schedule) *ResetEngine {
	return &ResetEngine{schedule: schedule}
}

// EnsureResets brings every periodicity of rec up to the latest boundary at
// now. The returned history rows are the archived outcomes of the periods that
// were closed; only the most recent boundary is ever applied.
func (e *ResetEngine) EnsureResets(rec *model.Recurrence, game *model.Game, now time.Time) (bool, []model.TaskHistory) {
	changed := false
	var archived []model.TaskHistory

	for _, p := range model.Periodicities {
		boundary := e.schedule.Boundary(p, now, game)
		list := rec.List(p)
		if !calendar.NeedsReset(list.LastResetAt, boundary) {
			continue
		}

		if len(list.Tasks) > 0 {
			archived = append(archived, model.TaskHistory{
				RecurrenceID: rec.ID,
				Periodicity:  p,
				Done:         list.AllDone(),
				Timestamp:    boundary,
			})
		}

		for i := range list.Tasks {
			list.Tasks[i].Done = false
			list.Tasks[i].RewardGranted = false
		}
		b := boundary
		list.LastResetAt = &b
		changed = true

		resetsApplied.WithLabelValues(string(p)).Inc()
		logger.Logger().Info("task list reset",
			zap.Int64("game_id", game.ID),
			zap.String("periodicity", string(p)),
			zap.Time("boundary", boundary))
	}

	return changed, archived
}
