package service

import (
	"context"
	"math"
	"time"

	"game_dashboard/internal/calendar"
	"game_dashboard/internal/model"
	"game_dashboard/pkg/logger"

	"go.uber.org/zap"
)

const DefaultPassThreshold = 0.75

// Granter applies a signed amount to a game's balance of title.
type Granter interface {
	Grant(ctx context.Context, gameID int64, title string, amount int) (*model.Currency, error)
}

type RewardEngine struct {
	schedule  *calendar.Schedule
	threshold float64
}

func NewRewardEngine(schedule *calendar.Schedule, threshold float64) *RewardEngine {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultPassThreshold
	}
	return &RewardEngine{schedule: schedule, threshold: threshold}
}

func grantBundle(ctx context.Context, g Granter, gameID int64, items []model.RewardItem) error {
	for _, item := range items {
		if _, err := g.Grant(ctx, gameID, item.Title, item.Amount); err != nil {
			return err
		}
	}
	return nil
}

// ApplyCompletionRewards stores next as the completion vector of list and
// grants the bundle of every task that went from incomplete to complete and
// has not been rewarded since the last reset. Missing entries of next count
// as incomplete.
func (e *RewardEngine) ApplyCompletionRewards(ctx context.Context, g Granter, game *model.Game, list *model.TaskList, next []bool) (bool, error) {
	changed := false

	for i := range list.Tasks {
		task := &list.Tasks[i]
		done := i < len(next) && next[i]

		if done && !task.Done && !task.RewardGranted {
			if err := grantBundle(ctx, g, game.ID, task.Rewards); err != nil {
				return changed, err
			}
			task.RewardGranted = true
			if len(task.Rewards) > 0 {
				rewardsGranted.WithLabelValues("task").Inc()
				logger.Logger().Info("task reward granted",
					zap.Int64("game_id", game.ID),
					zap.String("task", task.Label))
			}
		}

		if task.Done != done {
			task.Done = done
			changed = true
		}
	}

	return changed, nil
}

// ApplySpendingRewards grants the rewards of every active spending that is due
// at now and returns the spendings whose markers moved.
func (e *RewardEngine) ApplySpendingRewards(ctx context.Context, g Granter, game *model.Game, spendings []*model.Spending, now time.Time) ([]*model.Spending, error) {
	today := e.schedule.Today(now)
	anchor := calendar.MostRecentDaily(now, e.schedule.ResetTime(game), e.schedule.Location)

	var changed []*model.Spending
	for _, s := range spendings {
		if len(s.RewardItems) == 0 || !s.Active(today) {
			continue
		}

		switch s.Mode() {
		case model.RewardOnce:
			if s.RewardOnceGranted || !e.passReached(s) {
				continue
			}
			if err := grantBundle(ctx, g, game.ID, s.RewardItems); err != nil {
				return changed, err
			}
			s.RewardOnceGranted = true
		default:
			if !calendar.NeedsReset(s.LastRewardAt, anchor) {
				continue
			}
			if err := grantBundle(ctx, g, game.ID, s.RewardItems); err != nil {
				return changed, err
			}
			a := anchor
			s.LastRewardAt = &a
		}

		changed = append(changed, s)
		rewardsGranted.WithLabelValues("spending").Inc()
		logger.Logger().Info("spending reward granted",
			zap.Int64("game_id", game.ID),
			zap.Int64("spending_id", s.ID),
			zap.String("mode", string(s.Mode())))
	}

	return changed, nil
}

// passReached gates one-shot rewards on pass progress when both levels are known.
func (e *RewardEngine) passReached(s *model.Spending) bool {
	if s.PassCurrentLevel == nil || s.PassMaxLevel == nil {
		return true
	}
	required := int(math.Floor(float64(*s.PassMaxLevel) * e.threshold))
	return *s.PassCurrentLevel >= required
}

type RenewInput struct {
	PayingDate     *time.Time
	ExpirationDays *int
	Paying         *string
}

// Renew starts a new payment cycle on s. DAILY spendings keep the days left
// on the old cycle, counted from the new paying date.
func Renew(s *model.Spending, in RenewInput, today time.Time) {
	payingDate := today
	if in.PayingDate != nil {
		payingDate = *in.PayingDate
	}

	base := s.ExpirationDays
	if in.ExpirationDays != nil {
		base = *in.ExpirationDays
	}

	if s.Mode() == model.RewardDaily {
		remaining := int(s.NextPayingDate().Sub(payingDate).Hours() / 24)
		if remaining > 0 {
			base += remaining
		}
	}

	s.PayingDate = payingDate
	s.ExpirationDays = base
	if in.Paying != nil {
		s.Paying = *in.Paying
	}
	s.RewardOnceGranted = false
	s.LastRewardAt = nil
}
