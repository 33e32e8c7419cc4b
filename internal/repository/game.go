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

type Game struct {
	ID          int64      `db:"id"`
	Title       string     `db:"title"`
	StartDate   time.Time  `db:"start_date"`
	EndDate     *time.Time `db:"end_date"`
	StopPlay    bool       `db:"stop_play"`
	UID         *string    `db:"uid"`
	CouponURL   *string    `db:"coupon_url"`
	RefreshDay  *int       `db:"refresh_day"`
	RefreshTime *string    `db:"refresh_time"`
}

var gameColumns = []string{
	"id", "title", "start_date", "end_date", "stop_play", "uid", "coupon_url", "refresh_day", "refresh_time",
}

func (g *Game) toModel() *model.Game {
	return &model.Game{
		ID:          g.ID,
		Title:       g.Title,
		StartDate:   g.StartDate.UTC(),
		EndDate:     utcPtr(g.EndDate),
		StopPlay:    g.StopPlay,
		UID:         g.UID,
		CouponURL:   g.CouponURL,
		RefreshDay:  g.RefreshDay,
		RefreshTime: g.RefreshTime,
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (r *Repository) CreateGame(ctx context.Context, game *model.Game) error {
	id, err := r.insertReturningID(ctx, r.sb.
		Insert("games").
		SetMap(map[string]interface{}{
			"title":        game.Title,
			"start_date":   game.StartDate.UTC(),
			"end_date":     utcPtr(game.EndDate),
			"stop_play":    game.StopPlay,
			"uid":          game.UID,
			"coupon_url":   game.CouponURL,
			"refresh_day":  game.RefreshDay,
			"refresh_time": game.RefreshTime,
		}))
	if err != nil {
		return errors.Wrap(err, "failed to insert game")
	}

	game.ID = id
	return nil
}

func (r *Repository) GetGame(ctx context.Context, gameID int64) (*model.Game, error) {
	var game Game

	query, args, err := r.sb.
		Select(gameColumns...).
		From("games").
		Where(squirrel.Eq{"id": gameID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = sqlx.GetContext(ctx, r.db, &game, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return game.toModel(), nil
}

func (r *Repository) ListGames(ctx context.Context, includeStopped, duringPlayOnly bool) ([]*model.Game, error) {
	builder := r.sb.
		Select(gameColumns...).
		From("games").
		OrderBy("id")
	if !includeStopped {
		builder = builder.Where(squirrel.Eq{"stop_play": false})
	}
	if duringPlayOnly {
		builder = builder.Where(squirrel.Eq{"end_date": nil})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []Game
	err = sqlx.SelectContext(ctx, r.db, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, len(rows))
	for i := range rows {
		games[i] = rows[i].toModel()
	}
	return games, nil
}

func (r *Repository) UpdateGame(ctx context.Context, game *model.Game) error {
	return r.exec(ctx, r.sb.
		Update("games").
		SetMap(map[string]interface{}{
			"end_date":     utcPtr(game.EndDate),
			"stop_play":    game.StopPlay,
			"uid":          game.UID,
			"coupon_url":   game.CouponURL,
			"refresh_day":  game.RefreshDay,
			"refresh_time": game.RefreshTime,
		}).
		Where(squirrel.Eq{"id": game.ID}))
}
