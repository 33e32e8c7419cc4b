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

type taskHistoryOutcome struct {
	ID        int64     `db:"id"`
	TaskID    int64     `db:"task_id"`
	Done      int       `db:"done"`
	Timestamp time.Time `db:"timestamp"`
}

func doneColumn(p model.Periodicity) string {
	return string(p) + "_done"
}

func (r *Repository) InsertTaskHistory(ctx context.Context, h *model.TaskHistory) error {
	done := 0
	if h.Done {
		done = 1
	}

	id, err := r.insertReturningID(ctx, r.sb.
		Insert("task_history").
		SetMap(map[string]interface{}{
			"task_id":                 h.RecurrenceID,
			doneColumn(h.Periodicity): done,
			"timestamp":               h.Timestamp.UTC(),
		}))
	if err != nil {
		return errors.Wrap(err, "failed to insert task history")
	}

	h.ID = id
	return nil
}

// LatestTaskHistory returns the newest archived outcome of each periodicity
// that has one.
func (r *Repository) LatestTaskHistory(ctx context.Context, recurrenceID int64) (map[model.Periodicity]*model.TaskHistory, error) {
	out := make(map[model.Periodicity]*model.TaskHistory)

	for _, p := range model.Periodicities {
		column := doneColumn(p)
		query, args, err := r.sb.
			Select("id", "task_id", column+" AS done", "timestamp").
			From("task_history").
			Where(squirrel.Eq{"task_id": recurrenceID}).
			Where(squirrel.NotEq{column: nil}).
			OrderBy("timestamp DESC", "id DESC").
			Limit(1).
			ToSql()
		if err != nil {
			return nil, err
		}

		var row taskHistoryOutcome
		err = sqlx.GetContext(ctx, r.db, &row, query, args...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			return nil, err
		}

		out[p] = &model.TaskHistory{
			ID:           row.ID,
			RecurrenceID: row.TaskID,
			Periodicity:  p,
			Done:         row.Done == 1,
			Timestamp:    row.Timestamp.UTC(),
		}
	}

	return out, nil
}

// CountTaskHistory counts archived rows of a recurrence.
func (r *Repository) CountTaskHistory(ctx context.Context, recurrenceID int64) (int, error) {
	query, args, err := r.sb.
		Select("COUNT(*)").
		From("task_history").
		Where(squirrel.Eq{"task_id": recurrenceID}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var n int
	err = sqlx.GetContext(ctx, r.db, &n, query, args...)
	return n, err
}
