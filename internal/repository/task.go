package repository

import (
	"context"
	"database/sql"
	"time"

	"game_dashboard/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type Task struct {
	ID             int64      `db:"id"`
	GameID         int64      `db:"game_id"`
	Daily          string     `db:"daily"`
	DailyStates    *string    `db:"daily_states"`
	DailyGranted   *string    `db:"daily_granted"`
	DailyRewards   *string    `db:"daily_rewards"`
	DailyResetAt   *time.Time `db:"daily_reset_at"`
	Weekly         string     `db:"weekly"`
	WeeklyStates   *string    `db:"weekly_states"`
	WeeklyGranted  *string    `db:"weekly_granted"`
	WeeklyRewards  *string    `db:"weekly_rewards"`
	WeeklyResetAt  *time.Time `db:"weekly_reset_at"`
	Monthly        string     `db:"monthly"`
	MonthlyStates  *string    `db:"monthly_states"`
	MonthlyGranted *string    `db:"monthly_granted"`
	MonthlyRewards *string    `db:"monthly_rewards"`
	MonthlyResetAt *time.Time `db:"monthly_reset_at"`
}

func (t *Task) toModel() *model.Recurrence {
	return &model.Recurrence{
		ID:     t.ID,
		GameID: t.GameID,
		Daily: model.TaskList{
			Tasks:       decodeList(encodedList{t.Daily, t.DailyStates, t.DailyGranted, t.DailyRewards}),
			LastResetAt: utcPtr(t.DailyResetAt),
		},
		Weekly: model.TaskList{
			Tasks:       decodeList(encodedList{t.Weekly, t.WeeklyStates, t.WeeklyGranted, t.WeeklyRewards}),
			LastResetAt: utcPtr(t.WeeklyResetAt),
		},
		Monthly: model.TaskList{
			Tasks:       decodeList(encodedList{t.Monthly, t.MonthlyStates, t.MonthlyGranted, t.MonthlyRewards}),
			LastResetAt: utcPtr(t.MonthlyResetAt),
		},
	}
}

func recurrenceColumns(rec *model.Recurrence) map[string]interface{} {
	cols := map[string]interface{}{}
	for _, p := range model.Periodicities {
		l := rec.List(p)
		e := encodeList(l)
		name := string(p)
		cols[name] = e.labels
		cols[name+"_states"] = e.states
		cols[name+"_granted"] = e.granted
		cols[name+"_rewards"] = e.rewards
		cols[name+"_reset_at"] = utcPtr(l.LastResetAt)
	}
	return cols
}

func (r *Repository) GetRecurrence(ctx context.Context, gameID int64) (*model.Recurrence, error) {
	var task Task

	query, args, err := r.sb.
		Select("*").
		From("tasks").
		Where(squirrel.Eq{"game_id": gameID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = sqlx.GetContext(ctx, r.db, &task, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return task.toModel(), nil
}

func (r *Repository) CreateRecurrence(ctx context.Context, rec *model.Recurrence) error {
	cols := recurrenceColumns(rec)
	cols["game_id"] = rec.GameID

	id, err := r.insertReturningID(ctx, r.sb.Insert("tasks").SetMap(cols))
	if err != nil {
		return errors.Wrap(err, "failed to insert tasks")
	}

	rec.ID = id
	return nil
}

func (r *Repository) UpdateRecurrence(ctx context.Context, rec *model.Recurrence) error {
	return r.exec(ctx, r.sb.
		Update("tasks").
		SetMap(recurrenceColumns(rec)).
		Where(squirrel.Eq{"id": rec.ID}))
}
