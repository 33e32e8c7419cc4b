package repository

import (
	"context"
	"database/sql"

	"game_dashboard/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type Character struct {
	ID        int64   `db:"id"`
	GameID    int64   `db:"game_id"`
	Title     string  `db:"title"`
	Level     *int    `db:"level"`
	Grade     *string `db:"grade"`
	Overpower *int    `db:"overpower"`
	Position  *string `db:"position"`
	Memo      *string `db:"memo"`
	IsHave    bool    `db:"is_have"`
}

func (c *Character) toModel() *model.Character {
	return &model.Character{
		ID:        c.ID,
		GameID:    c.GameID,
		Title:     c.Title,
		Level:     c.Level,
		Grade:     c.Grade,
		Overpower: c.Overpower,
		Position:  c.Position,
		Memo:      c.Memo,
		IsHave:    c.IsHave,
	}
}

func (r *Repository) CreateCharacter(ctx context.Context, c *model.Character) error {
	id, err := r.insertReturningID(ctx, r.sb.
		Insert("characters").
		SetMap(map[string]interface{}{
			"game_id":   c.GameID,
			"title":     c.Title,
			"level":     c.Level,
			"grade":     c.Grade,
			"overpower": c.Overpower,
			"position":  c.Position,
			"memo":      c.Memo,
			"is_have":   c.IsHave,
		}))
	if err != nil {
		return errors.Wrap(err, "failed to insert character")
	}

	c.ID = id
	return nil
}

func (r *Repository) GetCharacter(ctx context.Context, characterID int64) (*model.Character, error) {
	var c Character

	query, args, err := r.sb.
		Select("*").
		From("characters").
		Where(squirrel.Eq{"id": characterID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = sqlx.GetContext(ctx, r.db, &c, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return c.toModel(), nil
}

// ListCharacters orders owned characters first, then by title.
func (r *Repository) ListCharacters(ctx context.Context, gameID int64) ([]*model.Character, error) {
	query, args, err := r.sb.
		Select("*").
		From("characters").
		Where(squirrel.Eq{"game_id": gameID}).
		OrderBy("is_have DESC", "title ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []Character
	err = sqlx.SelectContext(ctx, r.db, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	out := make([]*model.Character, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}

func (r *Repository) UpdateCharacter(ctx context.Context, c *model.Character) error {
	return r.exec(ctx, r.sb.
		Update("characters").
		SetMap(map[string]interface{}{
			"level":     c.Level,
			"grade":     c.Grade,
			"overpower": c.Overpower,
			"is_have":   c.IsHave,
		}).
		Where(squirrel.Eq{"id": c.ID}))
}
