package service

import (
	"context"
	"errors"
	"strings"

	"game_dashboard/internal/calendar"
	"game_dashboard/internal/model"
	"game_dashboard/internal/repository"
)

type EventService struct {
	store    Store
	schedule *calendar.Schedule
	notifier Notifier
	now      Clock
}

func NewEventService(store Store, schedule *calendar.Schedule, notifier Notifier, now Clock) *EventService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if now == nil {
		now = systemClock
	}
	return &EventService{store: store, schedule: schedule, notifier: notifier, now: now}
}

func (s *EventService) CreateEvent(ctx context.Context, e *model.GameEvent) (*model.GameEventView, error) {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" || e.StartDate.IsZero() {
		return nil, ErrInvalidInput
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		return nil, ErrInvalidInput
	}
	if _, err := s.store.GetGame(ctx, e.GameID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	if err := s.store.CreateEvent(ctx, e); err != nil {
		return nil, err
	}
	s.notifier.Notify(e.GameID, ChangeEvents)
	return &model.GameEventView{GameEvent: *e, State: e.State(s.schedule.Today(s.now()))}, nil
}

func (s *EventService) ListEvents(ctx context.Context, gameID int64) ([]model.GameEventView, error) {
	if _, err := s.store.GetGame(ctx, gameID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	events, err := s.store.ListEvents(ctx, gameID)
	if err != nil {
		return nil, err
	}

	today := s.schedule.Today(s.now())
	out := make([]model.GameEventView, len(events))
	for i, e := range events {
		out[i] = model.GameEventView{GameEvent: *e, State: e.State(today)}
	}
	return out, nil
}
