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

type Spending struct {
	ID                int64      `db:"id"`
	GameID            int64      `db:"game_id"`
	Title             string     `db:"title"`
	Paying            string     `db:"paying"`
	PayingDate        time.Time  `db:"paying_date"`
	Type              string     `db:"type"`
	ExpirationDays    int        `db:"expiration_days"`
	RewardMode        *string    `db:"reward_mode"`
	RewardItems       *string    `db:"reward_items"`
	LastRewardAt      *time.Time `db:"last_reward_at"`
	RewardOnceGranted bool       `db:"reward_once_granted"`
	PassCurrentLevel  *int       `db:"pass_current_level"`
	PassMaxLevel      *int       `db:"pass_max_level"`
}

func (s *Spending) toModel() *model.Spending {
	mode := model.InferRewardMode(s.Type)
	if s.RewardMode != nil && model.RewardMode(*s.RewardMode).IsValid() {
		mode = model.RewardMode(*s.RewardMode)
	}
	return &model.Spending{
		ID:                s.ID,
		GameID:            s.GameID,
		Title:             s.Title,
		Paying:            s.Paying,
		PayingDate:        s.PayingDate.UTC(),
		Type:              s.Type,
		ExpirationDays:    s.ExpirationDays,
		RewardMode:        mode,
		RewardItems:       decodeItems(s.RewardItems),
		LastRewardAt:      utcPtr(s.LastRewardAt),
		RewardOnceGranted: s.RewardOnceGranted,
		PassCurrentLevel:  s.PassCurrentLevel,
		PassMaxLevel:      s.PassMaxLevel,
	}
}

func spendingColumns(s *model.Spending) map[string]interface{} {
	items := s.RewardItems
	if items == nil {
		items = []model.RewardItem{}
	}
	return map[string]interface{}{
		"title":               s.Title,
		"paying":              s.Paying,
		"paying_date":         s.PayingDate.UTC(),
		"type":                s.Type,
		"expiration_days":     s.ExpirationDays,
		"reward_mode":         string(s.Mode()),
		"reward_items":        encodeJSON(items),
		"last_reward_at":      utcPtr(s.LastRewardAt),
		"reward_once_granted": s.RewardOnceGranted,
		"pass_current_level":  s.PassCurrentLevel,
		"pass_max_level":      s.PassMaxLevel,
	}
}

func (r *Repository) CreateSpending(ctx context.Context, s *model.Spending) error {
	cols := spendingColumns(s)
	cols["game_id"] = s.GameID

	id, err := r.insertReturningID(ctx, r.sb.Insert("spendings").SetMap(cols))
	if err != nil {
		return errors.Wrap(err, "failed to insert spending")
	}

	s.ID = id
	return nil
}

func (r *Repository) GetSpending(ctx context.Context, spendingID int64) (*model.Spending, error) {
	var s Spending

	query, args, err := r.sb.
		Select("*").
		From("spendings").
		Where(squirrel.Eq{"id": spendingID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = sqlx.GetContext(ctx, r.db, &s, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.toModel(), nil
}

func (r *Repository) ListSpendings(ctx context.Context, gameID int64) ([]*model.Spending, error) {
	query, args, err := r.sb.
		Select("*").
		From("spendings").
		Where(squirrel.Eq{"game_id": gameID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []Spending
	err = sqlx.SelectContext(ctx, r.db, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	spendings := make([]*model.Spending, len(rows))
	for i := range rows {
		spendings[i] = rows[i].toModel()
	}
	return spendings, nil
}

func (r *Repository) UpdateSpending(ctx context.Context, s *model.Spending) error {
	return r.exec(ctx, r.sb.
		Update("spendings").
		SetMap(spendingColumns(s)).
		Where(squirrel.Eq{"id": s.ID}))
}
