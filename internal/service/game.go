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

type GameService struct {
	repo     GameRepository
	schedule *calendar.Schedule
	notifier Notifier
	now      Clock
}

func NewGameService(repo GameRepository, schedule *calendar.Schedule, notifier Notifier, now Clock) *GameService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if now == nil {
		now = systemClock
	}
	return &GameService{repo: repo, schedule: schedule, notifier: notifier, now: now}
}

func (s *GameService) today() time.Time {
	return s.schedule.Today(s.now())
}

func validRefresh(day *int, resetTime *string) bool {
	if day != nil && (*day < 1 || *day > 7) {
		return false
	}
	if resetTime != nil {
		if _, err := calendar.ParseTimeOfDay(*resetTime); err != nil {
			return false
		}
	}
	return true
}

func (s *GameService) CreateGame(ctx context.Context, game *model.Game) (*model.GameSummary, error) {
	game.Title = strings.TrimSpace(game.Title)
	if game.Title == "" || !validRefresh(game.RefreshDay, game.RefreshTime) {
		return nil, ErrInvalidInput
	}
	if game.StartDate.IsZero() {
		game.StartDate = s.today()
	}

	err := s.repo.CreateGame(ctx, game)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrGameExists
		}
		return nil, err
	}

	logger.Logger().Info("game created", zap.Int64("game_id", game.ID), zap.String("title", game.Title))
	summary := game.Summary(s.today())
	return &summary, nil
}

// ListGames orders games by playtime, longest first.
func (s *GameService) ListGames(ctx context.Context, includeStopped, duringPlayOnly bool) ([]model.GameSummary, error) {
	games, err := s.repo.ListGames(ctx, includeStopped, duringPlayOnly)
	if err != nil {
		return nil, err
	}

	today := s.today()
	out := make([]model.GameSummary, len(games))
	for i, g := range games {
		out[i] = g.Summary(today)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PlaytimeDays > out[j].PlaytimeDays
	})
	return out, nil
}

func (s *GameService) getGame(ctx context.Context, gameID int64) (*model.Game, error) {
	game, err := s.repo.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

func (s *GameService) GetGame(ctx context.Context, gameID int64) (*model.GameSummary, error) {
	game, err := s.getGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	summary := game.Summary(s.today())
	return &summary, nil
}

// EndGame stops tracking a game; endDate defaults to today.
func (s *GameService) EndGame(ctx context.Context, gameID int64, endDate *time.Time) (*model.GameSummary, error) {
	game, err := s.getGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	end := s.today()
	if endDate != nil {
		end = *endDate
	}
	game.EndDate = &end
	game.StopPlay = true

	if err := s.updateGame(ctx, game); err != nil {
		return nil, err
	}
	summary := game.Summary(s.today())
	return &summary, nil
}

func (s *GameService) UpdateRefresh(ctx context.Context, gameID int64, day *int, resetTime *string) (*model.GameSummary, error) {
	if !validRefresh(day, resetTime) {
		return nil, ErrInvalidInput
	}

	game, err := s.getGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	game.RefreshDay = day
	game.RefreshTime = resetTime

	if err := s.updateGame(ctx, game); err != nil {
		return nil, err
	}
	summary := game.Summary(s.today())
	return &summary, nil
}

func (s *GameService) updateGame(ctx context.Context, game *model.Game) error {
	err := s.repo.UpdateGame(ctx, game)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGameNotFound
		}
		return err
	}
	s.notifier.Notify(game.ID, ChangeGame)
	return nil
}
