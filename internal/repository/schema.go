package repository

import (
	"context"
	"fmt"
	"strings"
)

// Migrate creates every table that does not exist yet.
func (r *Repository) Migrate(ctx context.Context) error {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	ts := "DATETIME"
	ref := "INTEGER"
	if r.driver == DriverPostgres {
		id = "BIGSERIAL PRIMARY KEY"
		ts = "TIMESTAMPTZ"
		ref = "BIGINT"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id {id},
			title TEXT NOT NULL UNIQUE,
			start_date DATE NOT NULL,
			end_date DATE,
			stop_play BOOLEAN NOT NULL DEFAULT FALSE,
			uid TEXT,
			coupon_url TEXT,
			refresh_day INTEGER,
			refresh_time TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id {id},
			game_id {ref} NOT NULL UNIQUE REFERENCES games(id),
			daily TEXT NOT NULL DEFAULT '',
			daily_states TEXT,
			daily_granted TEXT,
			daily_rewards TEXT,
			daily_reset_at {ts},
			weekly TEXT NOT NULL DEFAULT '',
			weekly_states TEXT,
			weekly_granted TEXT,
			weekly_rewards TEXT,
			weekly_reset_at {ts},
			monthly TEXT NOT NULL DEFAULT '',
			monthly_states TEXT,
			monthly_granted TEXT,
			monthly_rewards TEXT,
			monthly_reset_at {ts}
		)`,
		`CREATE TABLE IF NOT EXISTS task_history (
			id {id},
			task_id {ref} NOT NULL REFERENCES tasks(id),
			daily_done INTEGER,
			weekly_done INTEGER,
			monthly_done INTEGER,
			timestamp {ts} NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_task_history_task ON task_history (task_id, timestamp)`,
		`CREATE TABLE IF NOT EXISTS spendings (
			id {id},
			game_id {ref} NOT NULL REFERENCES games(id),
			title TEXT NOT NULL,
			paying TEXT NOT NULL DEFAULT '',
			paying_date DATE NOT NULL,
			type TEXT NOT NULL DEFAULT '',
			expiration_days INTEGER NOT NULL DEFAULT 0,
			reward_mode TEXT,
			reward_items TEXT,
			last_reward_at {ts},
			reward_once_granted BOOLEAN NOT NULL DEFAULT FALSE,
			pass_current_level INTEGER,
			pass_max_level INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS currencies (
			id {id},
			game_id {ref} NOT NULL REFERENCES games(id),
			title TEXT NOT NULL,
			category TEXT,
			counts INTEGER NOT NULL DEFAULT 0,
			timestamp {ts} NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_currencies_game_title ON currencies (game_id, title, timestamp)`,
		`CREATE TABLE IF NOT EXISTS characters (
			id {id},
			game_id {ref} NOT NULL REFERENCES games(id),
			title TEXT NOT NULL,
			level INTEGER,
			grade TEXT,
			overpower INTEGER DEFAULT 0,
			position TEXT,
			memo TEXT,
			is_have BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS game_events (
			id {id},
			game_id {ref} NOT NULL REFERENCES games(id),
			title TEXT NOT NULL,
			type TEXT NOT NULL,
			start_date DATE NOT NULL,
			end_date DATE,
			priority TEXT NOT NULL
		)`,
	}

	replacer := strings.NewReplacer("{id}", id, "{ts}", ts, "{ref}", ref)
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, replacer.Replace(stmt)); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}
