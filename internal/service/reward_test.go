package service_test

import (
	"context"
	"testing"
	"time"

	"game_dashboard/internal/model"
	"game_dashboard/internal/service"
	"game_dashboard/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func civil(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRewardEngine_ApplyCompletionRewards(t *testing.T) {
	ctx := context.Background()
	engine := service.NewRewardEngine(newSchedule(), service.DefaultPassThreshold)
	game := &model.Game{ID: 1, Title: "Nikke"}

	granter := &mocks.MockGranter{}
	granter.On("Grant", mock.Anything, int64(1), "Gem", 10).Return(&model.Currency{}, nil).Once()

	list := &model.TaskList{Tasks: []model.Task{
		{Label: "Login", Rewards: []model.RewardItem{{Title: "Gem", Amount: 10}}},
		{Label: "Arena"},
	}}

	steps := []struct {
		next        []bool
		wantChanged bool
		wantDone    []bool
	}{
		{next: []bool{true, false}, wantChanged: true, wantDone: []bool{true, false}},
		{next: []bool{false, false}, wantChanged: true, wantDone: []bool{false, false}},
		{next: []bool{true, false}, wantChanged: true, wantDone: []bool{true, false}},
		{next: []bool{true, false}, wantChanged: false, wantDone: []bool{true, false}},
		{next: []bool{true}, wantChanged: false, wantDone: []bool{true, false}},
	}

	for i, step := range steps {
		changed, err := engine.ApplyCompletionRewards(ctx, granter, game, list, step.next)
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, step.wantChanged, changed, "step %d", i)
		for j, want := range step.wantDone {
			assert.Equal(t, want, list.Tasks[j].Done, "step %d task %d", i, j)
		}
	}

	assert.True(t, list.Tasks[0].RewardGranted)
	granter.AssertExpectations(t)
	granter.AssertNumberOfCalls(t, "Grant", 1)
}

func TestRewardEngine_ApplyCompletionRewardsGrantError(t *testing.T) {
	engine := service.NewRewardEngine(newSchedule(), service.DefaultPassThreshold)
	granter := &mocks.MockGranter{}
	granter.On("Grant", mock.Anything, int64(1), "Gem", 10).Return(nil, assert.AnError)

	list := &model.TaskList{Tasks: []model.Task{{Label: "Login", Rewards: []model.RewardItem{{Title: "Gem", Amount: 10}}}}}
	_, err := engine.ApplyCompletionRewards(context.Background(), granter, &model.Game{ID: 1}, list, []bool{true})

	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, list.Tasks[0].RewardGranted)
	assert.False(t, list.Tasks[0].Done)
}

func TestRewardEngine_OncePassGating(t *testing.T) {
	ctx := context.Background()
	engine := service.NewRewardEngine(newSchedule(), service.DefaultPassThreshold)
	game := &model.Game{ID: 1, Title: "Nikke"}
	now := kstTime(2024, 3, 13, 10, 0)

	granter := &mocks.MockGranter{}
	granter.On("Grant", mock.Anything, int64(1), "Gem", 300).Return(&model.Currency{}, nil).Once()

	s := &model.Spending{
		ID:               3,
		Type:             "시즌 패스",
		PayingDate:       civil(2024, 3, 1),
		ExpirationDays:   30,
		RewardItems:      []model.RewardItem{{Title: "Gem", Amount: 300}},
		PassCurrentLevel: intPtr(70),
		PassMaxLevel:     intPtr(100),
	}

	moved, err := engine.ApplySpendingRewards(ctx, granter, game, []*model.Spending{s}, now)
	require.NoError(t, err)
	assert.Empty(t, moved)
	assert.False(t, s.RewardOnceGranted)

	s.PassCurrentLevel = intPtr(76)
	moved, err = engine.ApplySpendingRewards(ctx, granter, game, []*model.Spending{s}, now)
	require.NoError(t, err)
	assert.Len(t, moved, 1)
	assert.True(t, s.RewardOnceGranted)

	s.PassCurrentLevel = intPtr(10)
	moved, err = engine.ApplySpendingRewards(ctx, granter, game, []*model.Spending{s}, now.Add(72*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, moved)

	granter.AssertNumberOfCalls(t, "Grant", 1)
}

func TestRewardEngine_DailySpending(t *testing.T) {
	ctx := context.Background()
	engine := service.NewRewardEngine(newSchedule(), service.DefaultPassThreshold)
	game := &model.Game{ID: 1, Title: "Nikke"}

	granter := &mocks.MockGranter{}
	granter.On("Grant", mock.Anything, int64(1), "Gem", 100).Return(&model.Currency{}, nil)

	s := &model.Spending{
		ID:             4,
		Type:           "월정액",
		PayingDate:     civil(2024, 3, 1),
		ExpirationDays: 14,
		RewardItems:    []model.RewardItem{{Title: "Gem", Amount: 100}},
	}

	tests := []struct {
		name      string
		now       time.Time
		wantGrant bool
	}{
		{name: "first visit grants", now: kstTime(2024, 3, 13, 10, 0), wantGrant: true},
		{name: "same day is deduplicated", now: kstTime(2024, 3, 13, 23, 0), wantGrant: false},
		{name: "before next reset still same period", now: kstTime(2024, 3, 14, 4, 59), wantGrant: false},
		{name: "next daily boundary grants again", now: kstTime(2024, 3, 14, 5, 0), wantGrant: true},
		{name: "last active day grants", now: kstTime(2024, 3, 15, 9, 0), wantGrant: true},
		{name: "lapsed subscription never grants", now: kstTime(2024, 3, 16, 9, 0), wantGrant: false},
	}

	calls := 0
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			moved, err := engine.ApplySpendingRewards(ctx, granter, game, []*model.Spending{s}, tt.now)
			require.NoError(t, err)
			if tt.wantGrant {
				calls++
				require.Len(t, moved, 1)
				want := time.Date(tt.now.Year(), tt.now.Month(), tt.now.Day(), 5, 0, 0, 0, kst)
				assert.True(t, want.Equal(*s.LastRewardAt))
			} else {
				assert.Empty(t, moved)
			}
			granter.AssertNumberOfCalls(t, "Grant", calls)
		})
	}
}

func TestRewardEngine_SkipsSpendingsWithoutItems(t *testing.T) {
	engine := service.NewRewardEngine(newSchedule(), service.DefaultPassThreshold)
	granter := &mocks.MockGranter{}

	s := &model.Spending{PayingDate: civil(2024, 3, 1), ExpirationDays: 30}
	moved, err := engine.ApplySpendingRewards(context.Background(), granter, &model.Game{ID: 1}, []*model.Spending{s}, kstTime(2024, 3, 13, 10, 0))

	require.NoError(t, err)
	assert.Empty(t, moved)
	granter.AssertNotCalled(t, "Grant", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRenew(t *testing.T) {
	today := civil(2024, 3, 25)
	rewarded := kstTime(2024, 3, 25, 5, 0)

	tests := []struct {
		name        string
		spending    model.Spending
		in          service.RenewInput
		wantDate    time.Time
		wantExpDays int
	}{
		{
			name:        "daily carries remaining days",
			spending:    model.Spending{Type: "월정액", PayingDate: civil(2024, 3, 1), ExpirationDays: 30},
			wantDate:    today,
			wantExpDays: 36,
		},
		{
			name:        "daily with new window",
			spending:    model.Spending{Type: "월정액", PayingDate: civil(2024, 3, 1), ExpirationDays: 30},
			in:          service.RenewInput{ExpirationDays: intPtr(28)},
			wantDate:    today,
			wantExpDays: 34,
		},
		{
			name:        "lapsed daily carries nothing",
			spending:    model.Spending{Type: "월정액", PayingDate: civil(2024, 2, 1), ExpirationDays: 10},
			wantDate:    today,
			wantExpDays: 10,
		},
		{
			name:        "once never carries",
			spending:    model.Spending{Type: "시즌 패스", PayingDate: civil(2024, 3, 1), ExpirationDays: 30, RewardOnceGranted: true},
			in:          service.RenewInput{PayingDate: ptrTime(civil(2024, 3, 31))},
			wantDate:    civil(2024, 3, 31),
			wantExpDays: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.spending
			s.LastRewardAt = &rewarded
			service.Renew(&s, tt.in, today)

			assert.Equal(t, tt.wantDate, s.PayingDate)
			assert.Equal(t, tt.wantExpDays, s.ExpirationDays)
			assert.False(t, s.RewardOnceGranted)
			assert.Nil(t, s.LastRewardAt)
		})
	}
}
