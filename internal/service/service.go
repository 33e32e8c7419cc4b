package service

import (
	"context"
	"errors"
	"time"

	"game_dashboard/internal/model"
)

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameExists        = errors.New("game already exists")
	ErrSpendingNotFound  = errors.New("spending not found")
	ErrCurrencyNotFound  = errors.New("currency not found")
	ErrCharacterNotFound = errors.New("character not found")
	ErrInvalidInput      = errors.New("invalid input")
)

type Service struct {
	*GameService
	*TaskService
	*SpendingService
	*CurrencyService
	*CharacterService
	*EventService
}

func NewService(
	gameService *GameService,
	taskService *TaskService,
	spendingService *SpendingService,
	currencyService *CurrencyService,
	characterService *CharacterService,
	eventService *EventService,
) *Service {
	return &Service{
		GameService:      gameService,
		TaskService:      taskService,
		SpendingService:  spendingService,
		CurrencyService:  currencyService,
		CharacterService: characterService,
		EventService:     eventService,
	}
}

// Clock returns the current instant.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Notifier is told about every committed change to a game.
type Notifier interface {
	Notify(gameID int64, kind string)
}

type nopNotifier struct{}

func (nopNotifier) Notify(int64, string) {}

const (
	ChangeTasks      = "tasks"
	ChangeSpendings  = "spendings"
	ChangeCurrencies = "currencies"
	ChangeGame       = "game"
	ChangeCharacters = "characters"
	ChangeEvents     = "events"
)

type GameServiceI interface {
	CreateGame(ctx context.Context, game *model.Game) (*model.GameSummary, error)
	ListGames(ctx context.Context, includeStopped, duringPlayOnly bool) ([]model.GameSummary, error)
	GetGame(ctx context.Context, gameID int64) (*model.GameSummary, error)
	EndGame(ctx context.Context, gameID int64, endDate *time.Time) (*model.GameSummary, error)
	UpdateRefresh(ctx context.Context, gameID int64, day *int, resetTime *string) (*model.GameSummary, error)
}

type TaskServiceI interface {
	GetState(ctx context.Context, gameID int64) (*model.TaskState, error)
	UpdateStates(ctx context.Context, gameID int64, p model.Periodicity, states []bool) (*model.TaskState, error)
	UpdateTaskLabels(ctx context.Context, gameID int64, p model.Periodicity, labels []string) (*model.TaskState, error)
	UpdateTaskRewards(ctx context.Context, gameID int64, p model.Periodicity, bundles [][]model.RewardItem) (*model.TaskState, error)
}

type SpendingServiceI interface {
	CreateSpending(ctx context.Context, s *model.Spending) (*model.SpendingView, error)
	ListSpendings(ctx context.Context, gameID int64) ([]model.SpendingView, error)
	RenewSpending(ctx context.Context, spendingID int64, in RenewInput) (*model.SpendingView, error)
	UpdateRewardConfig(ctx context.Context, spendingID int64, in RewardConfig) (*model.SpendingView, error)
}

type CurrencyServiceI interface {
	ListLatest(ctx context.Context, gameID int64) ([]model.Currency, error)
	Adjust(ctx context.Context, currencyID int64, counts int) (*model.Currency, error)
	Grant(ctx context.Context, gameID int64, title string, amount int) (*model.Currency, error)
	Timeseries(ctx context.Context, gameID int64, q TimeseriesQuery) (*model.CurrencyTimeseries, error)
}

type CharacterServiceI interface {
	CreateCharacter(ctx context.Context, c *model.Character) (*model.Character, error)
	ListCharacters(ctx context.Context, gameID int64) ([]*model.Character, error)
	UpdateCharacter(ctx context.Context, characterID int64, patch model.CharacterPatch) (*model.Character, error)
}

type EventServiceI interface {
	CreateEvent(ctx context.Context, e *model.GameEvent) (*model.GameEventView, error)
	ListEvents(ctx context.Context, gameID int64) ([]model.GameEventView, error)
}

type GameRepository interface {
	CreateGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, gameID int64) (*model.Game, error)
	ListGames(ctx context.Context, includeStopped, duringPlayOnly bool) ([]*model.Game, error)
	UpdateGame(ctx context.Context, game *model.Game) error
}

type TaskRepository interface {
	GetRecurrence(ctx context.Context, gameID int64) (*model.Recurrence, error)
	CreateRecurrence(ctx context.Context, rec *model.Recurrence) error
	UpdateRecurrence(ctx context.Context, rec *model.Recurrence) error
	InsertTaskHistory(ctx context.Context, h *model.TaskHistory) error
	LatestTaskHistory(ctx context.Context, recurrenceID int64) (map[model.Periodicity]*model.TaskHistory, error)
}

type SpendingRepository interface {
	CreateSpending(ctx context.Context, s *model.Spending) error
	GetSpending(ctx context.Context, spendingID int64) (*model.Spending, error)
	ListSpendings(ctx context.Context, gameID int64) ([]*model.Spending, error)
	UpdateSpending(ctx context.Context, s *model.Spending) error
}

type CurrencyRepository interface {
	InsertCurrency(ctx context.Context, c *model.Currency) error
	GetCurrency(ctx context.Context, currencyID int64) (*model.Currency, error)
	ListCurrencies(ctx context.Context, gameID int64, title string) ([]model.Currency, error)
}

type CharacterRepository interface {
	CreateCharacter(ctx context.Context, c *model.Character) error
	GetCharacter(ctx context.Context, characterID int64) (*model.Character, error)
	ListCharacters(ctx context.Context, gameID int64) ([]*model.Character, error)
	UpdateCharacter(ctx context.Context, c *model.Character) error
}

type EventRepository interface {
	CreateEvent(ctx context.Context, e *model.GameEvent) error
	ListEvents(ctx context.Context, gameID int64) ([]*model.GameEvent, error)
}

// Store is the storage surface shared by the services. WithinTx runs fn
// against a Store bound to one transaction.
type Store interface {
	GameRepository
	TaskRepository
	SpendingRepository
	CurrencyRepository
	CharacterRepository
	EventRepository
	WithinTx(ctx context.Context, fn func(Store) error) error
}
