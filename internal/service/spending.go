package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"game_dashboard/internal/calendar"
	"game_dashboard/internal/model"
	"game_dashboard/internal/repository"
	"game_dashboard/pkg/logger"

	"go.uber.org/zap"
)

type RewardConfig struct {
	Mode             *model.RewardMode
	Items            []model.RewardItem
	PassCurrentLevel *int
	PassMaxLevel     *int
	// ClearPassLevels drops both stored levels before the ones above apply.
	ClearPassLevels bool
}

type SpendingService struct {
	store     Store
	schedule  *calendar.Schedule
	refresher *Refresher
	notifier  Notifier
	now       Clock
}

func NewSpendingService(store Store, schedule *calendar.Schedule, refresher *Refresher, notifier Notifier, now Clock) *SpendingService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if now == nil {
		now = systemClock
	}
	return &SpendingService{store: store, schedule: schedule, refresher: refresher, notifier: notifier, now: now}
}

func (s *SpendingService) view(sp *model.Spending, now time.Time) *model.SpendingView {
	v := sp.View(s.schedule.Today(now))
	return &v
}

func loadSpending(ctx context.Context, store Store, spendingID int64) (*model.Spending, error) {
	sp, err := store.GetSpending(ctx, spendingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSpendingNotFound
		}
		return nil, err
	}
	return sp, nil
}

// CreateSpending stores sp and grants its rewards right away when it is due.
func (s *SpendingService) CreateSpending(ctx context.Context, sp *model.Spending) (*model.SpendingView, error) {
	sp.Title = strings.TrimSpace(sp.Title)
	if sp.Title == "" || sp.ExpirationDays < 0 {
		return nil, ErrInvalidInput
	}
	if sp.RewardMode != "" && !sp.RewardMode.IsValid() {
		return nil, ErrInvalidInput
	}
	if !validLevels(sp.PassCurrentLevel, sp.PassMaxLevel) {
		return nil, ErrInvalidInput
	}

	now := s.now()
	if sp.PayingDate.IsZero() {
		sp.PayingDate = s.schedule.Today(now)
	}
	sp.RewardMode = sp.Mode()

	var (
		out  = sp
		sess *session
	)
	err := s.store.WithinTx(ctx, func(store Store) error {
		if err := requireGame(ctx, store, sp.GameID); err != nil {
			return err
		}
		if err := store.CreateSpending(ctx, sp); err != nil {
			return err
		}
		if s.refresher == nil {
			return nil
		}

		var err error
		if sess, err = s.refresher.refresh(ctx, store, sp.GameID, now); err != nil {
			return err
		}
		out, err = loadSpending(ctx, store, sp.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(sp.GameID, ChangeSpendings)
	s.refresher.publish(ctx, sp.GameID, sess)
	return s.view(out, now), nil
}

// ListSpendings orders by the next payment date, soonest first.
func (s *SpendingService) ListSpendings(ctx context.Context, gameID int64) ([]model.SpendingView, error) {
	now := s.now()

	var (
		spendings []*model.Spending
		sess      *session
	)
	err := s.store.WithinTx(ctx, func(store Store) error {
		var err error
		if sess, err = catchUp(ctx, s.refresher, store, gameID, now); err != nil {
			return err
		}
		spendings, err = store.ListSpendings(ctx, gameID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.refresher.publish(ctx, gameID, sess)

	today := s.schedule.Today(now)
	out := make([]model.SpendingView, len(spendings))
	for i, sp := range spendings {
		out[i] = sp.View(today)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextPayingDate.Before(out[j].NextPayingDate)
	})
	return out, nil
}

// update applies fn between two refreshes: the first settles rewards due under
// the old settings, the second grants whatever the new settings make due.
func (s *SpendingService) update(ctx context.Context, spendingID int64, fn func(sp *model.Spending, today time.Time) error) (*model.SpendingView, error) {
	now := s.now()

	var (
		sp            *model.Spending
		before, after *session
	)
	err := s.store.WithinTx(ctx, func(store Store) error {
		var err error
		if sp, err = loadSpending(ctx, store, spendingID); err != nil {
			return err
		}

		if s.refresher != nil {
			if before, err = s.refresher.refresh(ctx, store, sp.GameID, now); err != nil {
				return err
			}
			if sp, err = loadSpending(ctx, store, spendingID); err != nil {
				return err
			}
		}

		if err := fn(sp, s.schedule.Today(now)); err != nil {
			return err
		}
		if err := store.UpdateSpending(ctx, sp); err != nil {
			return err
		}

		if s.refresher == nil {
			return nil
		}
		if after, err = s.refresher.refresh(ctx, store, sp.GameID, now); err != nil {
			return err
		}
		sp, err = loadSpending(ctx, store, spendingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(sp.GameID, ChangeSpendings)
	s.refresher.publish(ctx, sp.GameID, before, after)
	return s.view(sp, now), nil
}

func (s *SpendingService) RenewSpending(ctx context.Context, spendingID int64, in RenewInput) (*model.SpendingView, error) {
	if in.ExpirationDays != nil && *in.ExpirationDays < 0 {
		return nil, ErrInvalidInput
	}

	return s.update(ctx, spendingID, func(sp *model.Spending, today time.Time) error {
		Renew(sp, in, today)
		logger.Logger().Info("spending renewed",
			zap.Int64("spending_id", sp.ID),
			zap.Time("paying_date", sp.PayingDate),
			zap.Int("expiration_days", sp.ExpirationDays))
		return nil
	})
}

func validLevels(current, maxLevel *int) bool {
	if (current != nil && *current < 0) || (maxLevel != nil && *maxLevel < 0) {
		return false
	}
	return current == nil || maxLevel == nil || *current <= *maxLevel
}

// UpdateRewardConfig changes only the fields set in in. Pass levels are
// checked against each other after merging with the stored ones.
func (s *SpendingService) UpdateRewardConfig(ctx context.Context, spendingID int64, in RewardConfig) (*model.SpendingView, error) {
	if in.Mode != nil && !in.Mode.IsValid() {
		return nil, ErrInvalidInput
	}
	for _, item := range in.Items {
		if strings.TrimSpace(item.Title) == "" {
			return nil, ErrInvalidInput
		}
	}
	if !validLevels(in.PassCurrentLevel, in.PassMaxLevel) {
		return nil, ErrInvalidInput
	}

	return s.update(ctx, spendingID, func(sp *model.Spending, _ time.Time) error {
		if in.Mode != nil {
			sp.RewardMode = *in.Mode
		}
		if in.Items != nil {
			sp.RewardItems = in.Items
		}
		if in.ClearPassLevels {
			sp.PassCurrentLevel = nil
			sp.PassMaxLevel = nil
		}
		if in.PassCurrentLevel != nil {
			sp.PassCurrentLevel = in.PassCurrentLevel
		}
		if in.PassMaxLevel != nil {
			sp.PassMaxLevel = in.PassMaxLevel
		}
		if !validLevels(sp.PassCurrentLevel, sp.PassMaxLevel) {
			return ErrInvalidInput
		}
		return nil
	})
}
