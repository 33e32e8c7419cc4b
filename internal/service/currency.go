package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"game_dashboard/internal/calendar"
	"game_dashboard/internal/ledger"
	"game_dashboard/internal/model"
	"game_dashboard/internal/repository"
	"game_dashboard/pkg/logger"

	"go.uber.org/zap"
)

// TimeseriesCache stores rendered timeseries per game. Invalidate drops every
// entry of a game.
type TimeseriesCache interface {
	Get(ctx context.Context, gameID int64, key string) (*model.CurrencyTimeseries, bool)
	Set(ctx context.Context, gameID int64, key string, ts *model.CurrencyTimeseries)
	Invalidate(ctx context.Context, gameID int64)
}

type TimeseriesQuery struct {
	Title  string
	Days   int
	Weekly bool
	Weeks  int
	Anchor *time.Time
	Start  *time.Time
}

func (q TimeseriesQuery) key(today time.Time) string {
	format := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.Format(time.DateOnly)
	}
	title := q.Title
	if title == "" {
		title = ledger.AllTitles
	}
	if q.Weekly {
		return fmt.Sprintf("w:%s:%s:%d:%s:%s", today.Format(time.DateOnly), title, q.Weeks, format(q.Anchor), format(q.Start))
	}
	return fmt.Sprintf("d:%s:%s:%d", today.Format(time.DateOnly), title, q.Days)
}

// grantCurrency appends a snapshot holding the current balance of title plus
// amount, clamped at zero. Category carries over from the previous snapshot.
func grantCurrency(ctx context.Context, repo CurrencyRepository, gameID int64, title string, amount int, now time.Time) (*model.Currency, error) {
	entries, err := repo.ListCurrencies(ctx, gameID, title)
	if err != nil {
		return nil, err
	}

	next := &model.Currency{GameID: gameID, Title: title, Timestamp: now}
	current := 0
	if prev, ok := ledger.New(entries, time.UTC).LatestAt(now, title); ok {
		current = prev.Counts
		next.Category = prev.Category
	}

	next.Counts = current + amount
	if next.Counts < 0 {
		next.Counts = 0
	}

	err = repo.InsertCurrency(ctx, next)
	if err != nil {
		return nil, err
	}
	return next, nil
}

type storeGranter struct {
	store Store
	now   time.Time
	games map[int64]struct{}
}

func newStoreGranter(store Store, now time.Time) *storeGranter {
	return &storeGranter{store: store, now: now, games: make(map[int64]struct{})}
}

func (g *storeGranter) Grant(ctx context.Context, gameID int64, title string, amount int) (*model.Currency, error) {
	c, err := grantCurrency(ctx, g.store, gameID, title, amount, g.now)
	if err != nil {
		return nil, err
	}
	g.games[gameID] = struct{}{}
	return c, nil
}

func (g *storeGranter) touched() bool {
	return len(g.games) > 0
}

type CurrencyService struct {
	store     Store
	schedule  *calendar.Schedule
	refresher *Refresher
	cache     TimeseriesCache
	notifier  Notifier
	now       Clock
}

func NewCurrencyService(store Store, schedule *calendar.Schedule, refresher *Refresher, cache TimeseriesCache, notifier Notifier, now Clock) *CurrencyService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if now == nil {
		now = systemClock
	}
	return &CurrencyService{store: store, schedule: schedule, refresher: refresher, cache: cache, notifier: notifier, now: now}
}

// changed invalidates cached series and tells listeners about a balance write.
func (s *CurrencyService) changed(ctx context.Context, gameID int64) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, gameID)
	}
	s.notifier.Notify(gameID, ChangeCurrencies)
}

// sync brings gameID up to date before a read.
func (s *CurrencyService) sync(ctx context.Context, gameID int64, now time.Time) error {
	var sess *session
	err := s.store.WithinTx(ctx, func(store Store) error {
		var err error
		sess, err = catchUp(ctx, s.refresher, store, gameID, now)
		return err
	})
	if err != nil {
		return err
	}
	s.refresher.publish(ctx, gameID, sess)
	return nil
}

func (s *CurrencyService) ListLatest(ctx context.Context, gameID int64) ([]model.Currency, error) {
	now := s.now()
	if err := s.sync(ctx, gameID, now); err != nil {
		return nil, err
	}

	entries, err := s.store.ListCurrencies(ctx, gameID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	return ledger.New(entries, s.schedule.Location).Current(now), nil
}

// Adjust records counts as the new absolute balance of the currency's title.
func (s *CurrencyService) Adjust(ctx context.Context, currencyID int64, counts int) (*model.Currency, error) {
	if counts < 0 {
		return nil, ErrInvalidInput
	}

	now := s.now()
	var (
		out  *model.Currency
		sess *session
	)
	err := s.store.WithinTx(ctx, func(store Store) error {
		base, err := store.GetCurrency(ctx, currencyID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCurrencyNotFound
			}
			return err
		}

		if s.refresher != nil {
			if sess, err = s.refresher.refresh(ctx, store, base.GameID, now); err != nil {
				return err
			}
		}

		out = &model.Currency{
			GameID:    base.GameID,
			Title:     base.Title,
			Category:  base.Category,
			Counts:    counts,
			Timestamp: now,
		}
		return store.InsertCurrency(ctx, out)
	})
	if err != nil {
		return nil, err
	}

	s.refresher.publish(ctx, out.GameID, sess)
	s.changed(ctx, out.GameID)
	logger.Logger().Info("currency adjusted",
		zap.Int64("game_id", out.GameID),
		zap.String("title", out.Title),
		zap.Int("counts", counts))
	return out, nil
}

func (s *CurrencyService) Grant(ctx context.Context, gameID int64, title string, amount int) (*model.Currency, error) {
	if title == "" {
		return nil, ErrInvalidInput
	}

	now := s.now()
	var (
		out  *model.Currency
		sess *session
	)
	err := s.store.WithinTx(ctx, func(store Store) error {
		var err error
		if sess, err = catchUp(ctx, s.refresher, store, gameID, now); err != nil {
			return err
		}
		out, err = grantCurrency(ctx, store, gameID, title, amount, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.refresher.publish(ctx, gameID, sess)
	s.changed(ctx, gameID)
	return out, nil
}

func (s *CurrencyService) Timeseries(ctx context.Context, gameID int64, q TimeseriesQuery) (*model.CurrencyTimeseries, error) {
	if q.Title == ledger.AllTitles {
		q.Title = ""
	}
	now := s.now()
	if err := s.sync(ctx, gameID, now); err != nil {
		return nil, err
	}

	today := s.schedule.Today(now)
	key := q.key(today)
	if s.cache != nil {
		if ts, ok := s.cache.Get(ctx, gameID, key); ok {
			return ts, nil
		}
	}

	entries, err := s.store.ListCurrencies(ctx, gameID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	history := ledger.New(entries, s.schedule.Location)

	var ts model.CurrencyTimeseries
	if q.Weekly {
		ts = history.Weekly(today, ledger.WeeklyOptions{Weeks: q.Weeks, Anchor: q.Anchor, Start: q.Start}, q.Title)
	} else {
		ts = history.Daily(today, q.Days, q.Title)
	}

	if s.cache != nil {
		s.cache.Set(ctx, gameID, key, &ts)
	}
	return &ts, nil
}
