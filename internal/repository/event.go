package repository

import (
	"context"
	"time"

	"game_dashboard/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type GameEvent struct {
	ID        int64      `db:"id"`
	GameID    int64      `db:"game_id"`
	Title     string     `db:"title"`
	Type      string     `db:"type"`
	StartDate time.Time  `db:"start_date"`
	EndDate   *time.Time `db:"end_date"`
	Priority  string     `db:"priority"`
}

func (r *Repository) CreateEvent(ctx context.Context, e *model.GameEvent) error {
	id, err := r.insertReturningID(ctx, r.sb.
		Insert("game_events").
		SetMap(map[string]interface{}{
			"game_id":    e.GameID,
			"title":      e.Title,
			"type":       e.Type,
			"start_date": e.StartDate.UTC(),
			"end_date":   utcPtr(e.EndDate),
			"priority":   e.Priority,
		}))
	if err != nil {
		return errors.Wrap(err, "failed to insert game event")
	}

	e.ID = id
	return nil
}

func (r *Repository) ListEvents(ctx context.Context, gameID int64) ([]*model.GameEvent, error) {
	query, args, err := r.sb.
		Select("*").
		From("game_events").
		Where(squirrel.Eq{"game_id": gameID}).
		OrderBy("start_date ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []GameEvent
	err = sqlx.SelectContext(ctx, r.db, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	out := make([]*model.GameEvent, len(rows))
	for i, e := range rows {
		out[i] = &model.GameEvent{
			ID:        e.ID,
			GameID:    e.GameID,
			Title:     e.Title,
			Type:      e.Type,
			StartDate: e.StartDate.UTC(),
			EndDate:   utcPtr(e.EndDate),
			Priority:  e.Priority,
		}
	}
	return out, nil
}
