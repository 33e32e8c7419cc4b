package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"game_dashboard/internal/model"
	"game_dashboard/internal/repository"
)

// Refresher runs the lazy step every read or write of a game goes through:
// pending resets are applied and due spending rewards granted.
type Refresher struct {
	resets   *ResetEngine
	rewards  *RewardEngine
	cache    TimeseriesCache
	notifier Notifier
}

func NewRefresher(resets *ResetEngine, rewards *RewardEngine, cache TimeseriesCache, notifier Notifier) *Refresher {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Refresher{resets: resets, rewards: rewards, cache: cache, notifier: notifier}
}

// session is the state one request works on inside its transaction.
type session struct {
	game      *model.Game
	rec       *model.Recurrence
	granter   *storeGranter
	spendings bool
}

func requireGame(ctx context.Context, repo GameRepository, gameID int64) error {
	if _, err := repo.GetGame(ctx, gameID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGameNotFound
		}
		return err
	}
	return nil
}

// refresh loads the game state, applies pending resets and spending rewards
// and persists whatever they changed.
func (r *Refresher) refresh(ctx context.Context, store Store, gameID int64, now time.Time) (*session, error) {
	game, err := store.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	rec, err := store.GetRecurrence(ctx, gameID)
	if errors.Is(err, repository.ErrNotFound) {
		rec = &model.Recurrence{GameID: gameID}
		err = store.CreateRecurrence(ctx, rec)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	changed, archived := r.resets.EnsureResets(rec, game, now)
	for i := range archived {
		if err := store.InsertTaskHistory(ctx, &archived[i]); err != nil {
			return nil, fmt.Errorf("failed to archive task outcome: %w", err)
		}
	}
	if changed {
		if err := store.UpdateRecurrence(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to save reset: %w", err)
		}
	}

	sess := &session{game: game, rec: rec, granter: newStoreGranter(store, now)}

	spendings, err := store.ListSpendings(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list spendings: %w", err)
	}
	moved, err := r.rewards.ApplySpendingRewards(ctx, sess.granter, game, spendings, now)
	if err != nil {
		return nil, fmt.Errorf("failed to grant spending rewards: %w", err)
	}
	for _, sp := range moved {
		if err := store.UpdateSpending(ctx, sp); err != nil {
			return nil, fmt.Errorf("failed to save spending: %w", err)
		}
	}
	sess.spendings = len(moved) > 0

	return sess, nil
}

// catchUp refreshes gameID when a refresher is wired. Without one it only
// checks that the game exists.
func catchUp(ctx context.Context, r *Refresher, store Store, gameID int64, now time.Time) (*session, error) {
	if r == nil {
		return nil, requireGame(ctx, store, gameID)
	}
	return r.refresh(ctx, store, gameID, now)
}

// publish reports what the sessions changed. Call it after commit.
func (r *Refresher) publish(ctx context.Context, gameID int64, sessions ...*session) {
	if r == nil {
		return
	}

	var spendings, currencies bool
	for _, sess := range sessions {
		if sess == nil {
			continue
		}
		spendings = spendings || sess.spendings
		currencies = currencies || sess.granter.touched()
	}

	if spendings {
		r.notifier.Notify(gameID, ChangeSpendings)
	}
	if currencies {
		if r.cache != nil {
			r.cache.Invalidate(ctx, gameID)
		}
		r.notifier.Notify(gameID, ChangeCurrencies)
	}
}
