package mocks

import (
	"context"

	"game_dashboard/internal/model"
	"game_dashboard/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockStore runs WithinTx callbacks against itself.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) WithinTx(ctx context.Context, fn func(service.Store) error) error {
	return fn(m)
}

func (m *MockStore) CreateGame(ctx context.Context, game *model.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockStore) GetGame(ctx context.Context, gameID int64) (*model.Game, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Game), args.Error(1)
}

func (m *MockStore) ListGames(ctx context.Context, includeStopped, duringPlayOnly bool) ([]*model.Game, error) {
	args := m.Called(ctx, includeStopped, duringPlayOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Game), args.Error(1)
}

func (m *MockStore) UpdateGame(ctx context.Context, game *model.Game) error {
	args := m.Called(ctx, game)
	return args.Error(0)
}

func (m *MockStore) GetRecurrence(ctx context.Context, gameID int64) (*model.Recurrence, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recurrence), args.Error(1)
}

func (m *MockStore) CreateRecurrence(ctx context.Context, rec *model.Recurrence) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockStore) UpdateRecurrence(ctx context.Context, rec *model.Recurrence) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockStore) InsertTaskHistory(ctx context.Context, h *model.TaskHistory) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockStore) LatestTaskHistory(ctx context.Context, recurrenceID int64) (map[model.Periodicity]*model.TaskHistory, error) {
	args := m.Called(ctx, recurrenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.Periodicity]*model.TaskHistory), args.Error(1)
}

func (m *MockStore) CreateSpending(ctx context.Context, s *model.Spending) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStore) GetSpending(ctx context.Context, spendingID int64) (*model.Spending, error) {
	args := m.Called(ctx, spendingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Spending), args.Error(1)
}

func (m *MockStore) ListSpendings(ctx context.Context, gameID int64) ([]*model.Spending, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Spending), args.Error(1)
}

func (m *MockStore) UpdateSpending(ctx context.Context, s *model.Spending) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStore) InsertCurrency(ctx context.Context, c *model.Currency) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockStore) GetCurrency(ctx context.Context, currencyID int64) (*model.Currency, error) {
	args := m.Called(ctx, currencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Currency), args.Error(1)
}

func (m *MockStore) ListCurrencies(ctx context.Context, gameID int64, title string) ([]model.Currency, error) {
	args := m.Called(ctx, gameID, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Currency), args.Error(1)
}

func (m *MockStore) CreateCharacter(ctx context.Context, c *model.Character) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockStore) GetCharacter(ctx context.Context, characterID int64) (*model.Character, error) {
	args := m.Called(ctx, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Character), args.Error(1)
}

func (m *MockStore) ListCharacters(ctx context.Context, gameID int64) ([]*model.Character, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Character), args.Error(1)
}

func (m *MockStore) UpdateCharacter(ctx context.Context, c *model.Character) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockStore) CreateEvent(ctx context.Context, e *model.GameEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockStore) ListEvents(ctx context.Context, gameID int64) ([]*model.GameEvent, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.GameEvent), args.Error(1)
}

// MockGranter records grants without touching storage.
type MockGranter struct {
	mock.Mock
}

func (m *MockGranter) Grant(ctx context.Context, gameID int64, title string, amount int) (*model.Currency, error) {
	args := m.Called(ctx, gameID, title, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Currency), args.Error(1)
}
