package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"game_dashboard/internal/calendar"
	"game_dashboard/internal/model"
)

type TaskService struct {
	store     Store
	schedule  *calendar.Schedule
	refresher *Refresher
	notifier  Notifier
	now       Clock
}

func NewTaskService(store Store, schedule *calendar.Schedule, refresher *Refresher, notifier Notifier, now Clock) *TaskService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if now == nil {
		now = systemClock
	}
	return &TaskService{
		store:     store,
		schedule:  schedule,
		refresher: refresher,
		notifier:  notifier,
		now:       now,
	}
}

func (s *TaskService) state(ctx context.Context, store Store, sess *session, now time.Time) (*model.TaskState, error) {
	latest, err := store.LatestTaskHistory(ctx, sess.rec.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load task history: %w", err)
	}

	st := &model.TaskState{GameID: sess.game.ID, RecurrenceID: sess.rec.ID}
	for _, p := range model.Periodicities {
		list := sess.rec.List(p)
		ps := model.PeriodState{
			Periodicity: p,
			Tasks:       list.Tasks,
			AppliedAt:   list.LastResetAt,
			NextResetAt: calendar.Next(p, s.schedule.Boundary(p, now, sess.game)),
		}
		if h, ok := latest[p]; ok {
			done := h.Done
			ps.LastPeriodDone = &done
		}
		st.Periods = append(st.Periods, ps)
	}
	return st, nil
}

// run wraps one state request: refresh, optional mutation, then the view.
func (s *TaskService) run(ctx context.Context, gameID int64, mutate func(store Store, sess *session) (bool, error)) (*model.TaskState, error) {
	now := s.now()

	var (
		st      *model.TaskState
		sess    *session
		mutated bool
	)
	err := s.store.WithinTx(ctx, func(store Store) error {
		var err error
		sess, err = s.refresher.refresh(ctx, store, gameID, now)
		if err != nil {
			return err
		}

		if mutate != nil {
			mutated, err = mutate(store, sess)
			if err != nil {
				return err
			}
			if mutated {
				if err := store.UpdateRecurrence(ctx, sess.rec); err != nil {
					return fmt.Errorf("failed to save tasks: %w", err)
				}
			}
		}

		st, err = s.state(ctx, store, sess, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	if mutated {
		s.notifier.Notify(gameID, ChangeTasks)
	}
	s.refresher.publish(ctx, gameID, sess)
	return st, nil
}

func (s *TaskService) GetState(ctx context.Context, gameID int64) (*model.TaskState, error) {
	return s.run(ctx, gameID, nil)
}

func (s *TaskService) UpdateStates(ctx context.Context, gameID int64, p model.Periodicity, states []bool) (*model.TaskState, error) {
	if !p.IsValid() {
		return nil, ErrInvalidInput
	}
	return s.run(ctx, gameID, func(store Store, sess *session) (bool, error) {
		return s.refresher.rewards.ApplyCompletionRewards(ctx, sess.granter, sess.game, sess.rec.List(p), states)
	})
}

func (s *TaskService) UpdateTaskLabels(ctx context.Context, gameID int64, p model.Periodicity, labels []string) (*model.TaskState, error) {
	if !p.IsValid() {
		return nil, ErrInvalidInput
	}

	cleaned := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		// Labels are stored newline-joined.
		if strings.ContainsAny(l, "\r\n") {
			return nil, ErrInvalidInput
		}
		cleaned = append(cleaned, l)
	}

	return s.run(ctx, gameID, func(store Store, sess *session) (bool, error) {
		sess.rec.List(p).SetLabels(cleaned)
		return true, nil
	})
}

func (s *TaskService) UpdateTaskRewards(ctx context.Context, gameID int64, p model.Periodicity, bundles [][]model.RewardItem) (*model.TaskState, error) {
	if !p.IsValid() {
		return nil, ErrInvalidInput
	}
	for _, bundle := range bundles {
		for _, item := range bundle {
			if strings.TrimSpace(item.Title) == "" {
				return nil, ErrInvalidInput
			}
		}
	}

	return s.run(ctx, gameID, func(store Store, sess *session) (bool, error) {
		sess.rec.List(p).SetRewards(bundles)
		return true, nil
	})
}
