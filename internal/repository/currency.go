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

type Currency struct {
	ID        int64     `db:"id"`
	GameID    int64     `db:"game_id"`
	Title     string    `db:"title"`
	Category  *string   `db:"category"`
	Counts    int       `db:"counts"`
	Timestamp time.Time `db:"timestamp"`
}

func (c *Currency) toModel() model.Currency {
	return model.Currency{
		ID:        c.ID,
		GameID:    c.GameID,
		Title:     c.Title,
		Category:  c.Category,
		Counts:    c.Counts,
		Timestamp: c.Timestamp.UTC(),
	}
}

func (r *Repository) InsertCurrency(ctx context.Context, c *model.Currency) error {
	id, err := r.insertReturningID(ctx, r.sb.
		Insert("currencies").
		SetMap(map[string]interface{}{
			"game_id":   c.GameID,
			"title":     c.Title,
			"category":  c.Category,
			"counts":    c.Counts,
			"timestamp": c.Timestamp.UTC(),
		}))
	if err != nil {
		return errors.Wrap(err, "failed to insert currency")
	}

	c.ID = id
	return nil
}

func (r *Repository) GetCurrency(ctx context.Context, currencyID int64) (*model.Currency, error) {
	var c Currency

	query, args, err := r.sb.
		Select("id", "game_id", "title", "category", "counts", "timestamp").
		From("currencies").
		Where(squirrel.Eq{"id": currencyID}).
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

	out := c.toModel()
	return &out, nil
}

// ListCurrencies returns the snapshot history of a game, oldest first. An
// empty title returns every title.
func (r *Repository) ListCurrencies(ctx context.Context, gameID int64, title string) ([]model.Currency, error) {
	builder := r.sb.
		Select("id", "game_id", "title", "category", "counts", "timestamp").
		From("currencies").
		Where(squirrel.Eq{"game_id": gameID}).
		OrderBy("timestamp ASC", "id ASC")
	if title != "" {
		builder = builder.Where(squirrel.Eq{"title": title})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	var rows []Currency
	err = sqlx.SelectContext(ctx, r.db, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	out := make([]model.Currency, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}
