package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"game_dashboard/internal/model"
	"game_dashboard/internal/repository"
	"game_dashboard/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	repo      *repository.Repository
	tasks     *service.TaskService
	spendings *service.SpendingService
	currency  *service.CurrencyService
	notifier  *recordingNotifier
	now       time.Time
	game      *model.Game
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo, err := repository.Open(repository.DriverSQLite, repository.SQLiteDSN(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.Migrate(context.Background()))

	env := &testEnv{
		repo:     repo,
		notifier: &recordingNotifier{},
		now:      kstTime(2024, 3, 13, 10, 0),
	}
	clock := func() time.Time { return env.now }

	schedule := newSchedule()
	store := service.NewStore(repo)
	refresher := service.NewRefresher(
		service.NewResetEngine(schedule),
		service.NewRewardEngine(schedule, service.DefaultPassThreshold),
		nil, env.notifier)
	env.tasks = service.NewTaskService(store, schedule, refresher, env.notifier, clock)
	env.spendings = service.NewSpendingService(store, schedule, refresher, env.notifier, clock)
	env.currency = service.NewCurrencyService(store, schedule, refresher, nil, env.notifier, clock)

	env.game = &model.Game{Title: "Nikke", StartDate: civil(2024, 1, 1)}
	require.NoError(t, repo.CreateGame(context.Background(), env.game))
	return env
}

func (e *testEnv) balance(t *testing.T, title string) int {
	t.Helper()
	latest, err := e.currency.ListLatest(context.Background(), e.game.ID)
	require.NoError(t, err)
	for _, c := range latest {
		if c.Title == title {
			return c.Counts
		}
	}
	return 0
}

func period(st *model.TaskState, p model.Periodicity) model.PeriodState {
	for _, ps := range st.Periods {
		if ps.Periodicity == p {
			return ps
		}
	}
	return model.PeriodState{}
}

func TestTaskService_CompletionGrantsOncePerPeriod(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	gameID := env.game.ID

	_, err := env.tasks.UpdateTaskLabels(ctx, gameID, model.Daily, []string{"Login", " ", "Arena"})
	require.NoError(t, err)
	_, err = env.tasks.UpdateTaskRewards(ctx, gameID, model.Daily, [][]model.RewardItem{{{Title: "Gem", Amount: 10}}})
	require.NoError(t, err)

	st, err := env.tasks.UpdateStates(ctx, gameID, model.Daily, []bool{true, false})
	require.NoError(t, err)
	daily := period(st, model.Daily)
	require.Len(t, daily.Tasks, 2)
	assert.True(t, daily.Tasks[0].Done)
	assert.True(t, daily.Tasks[0].RewardGranted)
	assert.Equal(t, 10, env.balance(t, "Gem"))

	_, err = env.tasks.UpdateStates(ctx, gameID, model.Daily, []bool{false, false})
	require.NoError(t, err)
	_, err = env.tasks.UpdateStates(ctx, gameID, model.Daily, []bool{true, true})
	require.NoError(t, err)
	assert.Equal(t, 10, env.balance(t, "Gem"))

	env.now = env.now.Add(24 * time.Hour)
	st, err = env.tasks.GetState(ctx, gameID)
	require.NoError(t, err)
	daily = period(st, model.Daily)
	assert.False(t, daily.Tasks[0].Done)
	assert.False(t, daily.Tasks[0].RewardGranted)
	require.NotNil(t, daily.LastPeriodDone)
	assert.True(t, *daily.LastPeriodDone)
	assert.True(t, kstTime(2024, 3, 14, 5, 0).Equal(*daily.AppliedAt))
	assert.True(t, kstTime(2024, 3, 15, 5, 0).Equal(daily.NextResetAt))
	assert.Nil(t, period(st, model.Weekly).LastPeriodDone)

	_, err = env.tasks.UpdateStates(ctx, gameID, model.Daily, []bool{true, false})
	require.NoError(t, err)
	assert.Equal(t, 20, env.balance(t, "Gem"))

	n, err := env.repo.CountTaskHistory(ctx, st.RecurrenceID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = env.tasks.GetState(ctx, gameID)
	require.NoError(t, err)
	n, err = env.repo.CountTaskHistory(ctx, st.RecurrenceID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTaskService_LabelEditsKeepSurvivingState(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	gameID := env.game.ID

	_, err := env.tasks.UpdateTaskLabels(ctx, gameID, model.Weekly, []string{"Raid", "Tower"})
	require.NoError(t, err)
	_, err = env.tasks.UpdateStates(ctx, gameID, model.Weekly, []bool{true, true})
	require.NoError(t, err)

	st, err := env.tasks.UpdateTaskLabels(ctx, gameID, model.Weekly, []string{"Raid boss", "Tower", "Outpost"})
	require.NoError(t, err)
	weekly := period(st, model.Weekly)
	require.Len(t, weekly.Tasks, 3)
	assert.Equal(t, "Raid boss", weekly.Tasks[0].Label)
	assert.True(t, weekly.Tasks[0].Done)
	assert.True(t, weekly.Tasks[1].Done)
	assert.False(t, weekly.Tasks[2].Done)

	st, err = env.tasks.UpdateTaskLabels(ctx, gameID, model.Weekly, []string{"Raid boss"})
	require.NoError(t, err)
	assert.Len(t, period(st, model.Weekly).Tasks, 1)
}

func TestTaskService_Errors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.tasks.GetState(ctx, 999)
	assert.ErrorIs(t, err, service.ErrGameNotFound)

	_, err = env.tasks.UpdateStates(ctx, env.game.ID, model.Periodicity("yearly"), nil)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = env.tasks.UpdateTaskRewards(ctx, env.game.ID, model.Daily, [][]model.RewardItem{{{Title: "", Amount: 1}}})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = env.tasks.UpdateTaskLabels(ctx, env.game.ID, model.Daily, []string{"Login", "Outpost\nArena"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestTaskService_SpendingRewardsOnRead(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	gameID := env.game.ID

	_, err := env.spendings.CreateSpending(ctx, &model.Spending{
		GameID:         gameID,
		Title:          "Monthly pass",
		Paying:         "4400",
		PayingDate:     civil(2024, 3, 1),
		Type:           "월정액",
		ExpirationDays: 30,
		RewardItems:    []model.RewardItem{{Title: "Gem", Amount: 100}},
	})
	require.NoError(t, err)

	battlePass, err := env.spendings.CreateSpending(ctx, &model.Spending{
		GameID:           gameID,
		Title:            "Battle pass",
		PayingDate:       civil(2024, 3, 1),
		Type:             "시즌 패스",
		ExpirationDays:   30,
		RewardItems:      []model.RewardItem{{Title: "Gold", Amount: 5000}},
		PassCurrentLevel: intPtr(70),
		PassMaxLevel:     intPtr(100),
	})
	require.NoError(t, err)
	assert.Equal(t, model.RewardOnce, battlePass.RewardMode)

	_, err = env.tasks.GetState(ctx, gameID)
	require.NoError(t, err)
	_, err = env.tasks.GetState(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, 100, env.balance(t, "Gem"))
	assert.Equal(t, 0, env.balance(t, "Gold"))
	assert.Contains(t, env.notifier.kinds, service.ChangeSpendings)

	_, err = env.spendings.UpdateRewardConfig(ctx, battlePass.ID, service.RewardConfig{
		PassCurrentLevel: intPtr(76),
		PassMaxLevel:     intPtr(100),
	})
	require.NoError(t, err)

	env.now = env.now.Add(24 * time.Hour)
	_, err = env.tasks.GetState(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, 200, env.balance(t, "Gem"))
	assert.Equal(t, 5000, env.balance(t, "Gold"))

	_, err = env.tasks.GetState(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, 5000, env.balance(t, "Gold"))

	views, err := env.spendings.ListSpendings(ctx, gameID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, civil(2024, 3, 31), views[0].NextPayingDate)
	assert.Equal(t, 17, views[0].RemainDays)
	assert.Equal(t, model.RepayRelaxed, views[0].IsRepaying)
}

func TestSpendingService_Renew(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	created, err := env.spendings.CreateSpending(ctx, &model.Spending{
		GameID:         env.game.ID,
		Title:          "Monthly pass",
		PayingDate:     civil(2024, 3, 1),
		Type:           "월정액",
		ExpirationDays: 15,
	})
	require.NoError(t, err)

	renewed, err := env.spendings.RenewSpending(ctx, created.ID, service.RenewInput{ExpirationDays: intPtr(30)})
	require.NoError(t, err)
	assert.Equal(t, civil(2024, 3, 13), renewed.PayingDate)
	assert.Equal(t, 33, renewed.ExpirationDays)

	_, err = env.spendings.RenewSpending(ctx, 999, service.RenewInput{})
	assert.ErrorIs(t, err, service.ErrSpendingNotFound)
}

func ptrMode(m model.RewardMode) *model.RewardMode { return &m }

func TestSpendingService_PartialRewardConfigKeepsPassGate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	pass, err := env.spendings.CreateSpending(ctx, &model.Spending{
		GameID:         env.game.ID,
		Title:          "Battle pass",
		PayingDate:     civil(2024, 3, 1),
		Type:           "시즌 패스",
		ExpirationDays: 30,
		RewardItems:    []model.RewardItem{{Title: "Gem", Amount: 100}},
	})
	require.NoError(t, err)
	// Created without levels, so the pass grants at once.
	assert.True(t, pass.RewardOnceGranted)
	assert.Equal(t, 100, env.balance(t, "Gem"))

	renewed, err := env.spendings.RenewSpending(ctx, pass.ID, service.RenewInput{})
	require.NoError(t, err)
	assert.True(t, renewed.RewardOnceGranted)
	assert.Equal(t, 200, env.balance(t, "Gem"))

	second, err := env.spendings.CreateSpending(ctx, &model.Spending{
		GameID:           env.game.ID,
		Title:            "Event pass",
		PayingDate:       civil(2024, 3, 1),
		Type:             "이벤트 패스",
		ExpirationDays:   30,
		RewardItems:      []model.RewardItem{{Title: "Gold", Amount: 100}},
		PassCurrentLevel: intPtr(70),
		PassMaxLevel:     intPtr(100),
	})
	require.NoError(t, err)
	assert.False(t, second.RewardOnceGranted)

	tests := []struct {
		name        string
		in          service.RewardConfig
		wantErr     error
		wantCurrent *int
		wantMax     *int
		wantGold    int
	}{
		{
			name:        "items only keeps levels",
			in:          service.RewardConfig{Items: []model.RewardItem{{Title: "Gold", Amount: 200}}},
			wantCurrent: intPtr(70),
			wantMax:     intPtr(100),
		},
		{
			name:        "mode only keeps levels",
			in:          service.RewardConfig{Mode: ptrMode(model.RewardOnce)},
			wantCurrent: intPtr(70),
			wantMax:     intPtr(100),
		},
		{
			name:    "current above stored max",
			in:      service.RewardConfig{PassCurrentLevel: intPtr(120)},
			wantErr: service.ErrInvalidInput,
		},
		{
			name:    "negative level",
			in:      service.RewardConfig{PassMaxLevel: intPtr(-1)},
			wantErr: service.ErrInvalidInput,
		},
		{
			name:        "current reaches threshold",
			in:          service.RewardConfig{PassCurrentLevel: intPtr(75)},
			wantCurrent: intPtr(75),
			wantMax:     intPtr(100),
			wantGold:    200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.spendings.UpdateRewardConfig(ctx, second.ID, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCurrent, got.PassCurrentLevel)
			assert.Equal(t, tt.wantMax, got.PassMaxLevel)

			_, err = env.tasks.GetState(ctx, env.game.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantGold, env.balance(t, "Gold"))
		})
	}

	cleared, err := env.spendings.UpdateRewardConfig(ctx, second.ID, service.RewardConfig{ClearPassLevels: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.PassCurrentLevel)
	assert.Nil(t, cleared.PassMaxLevel)
}

func TestCurrencyService_ReadsApplyDailySpendingReward(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	gameID := env.game.ID

	_, err := env.spendings.CreateSpending(ctx, &model.Spending{
		GameID:         gameID,
		Title:          "Monthly pass",
		PayingDate:     civil(2024, 3, 1),
		Type:           "월정액",
		ExpirationDays: 30,
		RewardItems:    []model.RewardItem{{Title: "Gem", Amount: 100}},
	})
	require.NoError(t, err)
	assert.Equal(t, 100, env.balance(t, "Gem"))

	// Before the next 05:00 boundary nothing new is due.
	env.now = kstTime(2024, 3, 14, 4, 59)
	assert.Equal(t, 100, env.balance(t, "Gem"))

	env.now = kstTime(2024, 3, 14, 5, 0)
	assert.Equal(t, 200, env.balance(t, "Gem"))
	assert.Equal(t, 200, env.balance(t, "Gem"))

	env.now = kstTime(2024, 3, 15, 9, 0)
	ts, err := env.currency.Timeseries(ctx, gameID, service.TimeseriesQuery{Title: "Gem", Days: 3})
	require.NoError(t, err)
	require.Len(t, ts.Buckets, 3)
	assert.Equal(t, []int{100, 200, 300}, []int{ts.Buckets[0].Count, ts.Buckets[1].Count, ts.Buckets[2].Count})

	env.now = kstTime(2024, 3, 16, 9, 0)
	views, err := env.spendings.ListSpendings(ctx, gameID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].LastRewardAt)
	assert.True(t, kstTime(2024, 3, 16, 5, 0).Equal(*views[0].LastRewardAt))
	assert.Equal(t, 400, env.balance(t, "Gem"))
}
