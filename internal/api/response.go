package api

import (
	"time"

	"game_dashboard/internal/model"
)

type GameResponse struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	StartDate    string  `json:"start_date"`
	EndDate      *string `json:"end_date"`
	StopPlay     bool    `json:"stop_play"`
	UID          *string `json:"uid"`
	CouponURL    *string `json:"coupon_url"`
	RefreshDay   *int    `json:"refresh_day"`
	RefreshTime  *string `json:"refresh_time"`
	PlaytimeDays int     `json:"playtime_days"`
	DuringPlay   bool    `json:"during_play"`
}

func newGameResponse(g *model.GameSummary) GameResponse {
	return GameResponse{
		ID:           g.ID,
		Title:        g.Title,
		StartDate:    formatDate(g.StartDate),
		EndDate:      formatDatePtr(g.EndDate),
		StopPlay:     g.StopPlay,
		UID:          g.UID,
		CouponURL:    g.CouponURL,
		RefreshDay:   g.RefreshDay,
		RefreshTime:  g.RefreshTime,
		PlaytimeDays: g.PlaytimeDays,
		DuringPlay:   g.DuringPlay,
	}
}

type RewardItemDTO struct {
	Title string `json:"title" binding:"required"`
	Count int    `json:"count"`
}

func toRewardItems(in []RewardItemDTO) []model.RewardItem {
	if in == nil {
		return nil
	}
	out := make([]model.RewardItem, len(in))
	for i, item := range in {
		out[i] = model.RewardItem{Title: item.Title, Amount: item.Count}
	}
	return out
}

func fromRewardItems(in []model.RewardItem) []RewardItemDTO {
	out := make([]RewardItemDTO, len(in))
	for i, item := range in {
		out[i] = RewardItemDTO{Title: item.Title, Count: item.Amount}
	}
	return out
}

type TaskResponse struct {
	Label         string          `json:"label"`
	Done          bool            `json:"done"`
	RewardGranted bool            `json:"reward_granted"`
	Rewards       []RewardItemDTO `json:"rewards"`
}

type PeriodResponse struct {
	Periodicity    string         `json:"periodicity"`
	Tasks          []TaskResponse `json:"tasks"`
	LastResetAt    *time.Time     `json:"last_reset_at"`
	NextResetAt    time.Time      `json:"next_reset_at"`
	LastPeriodDone *bool          `json:"last_period_done"`
}

type TaskStateResponse struct {
	GameID  int64            `json:"game_id"`
	Periods []PeriodResponse `json:"periods"`
}

func newTaskStateResponse(st *model.TaskState) TaskStateResponse {
	out := TaskStateResponse{GameID: st.GameID, Periods: make([]PeriodResponse, len(st.Periods))}
	for i, p := range st.Periods {
		tasks := make([]TaskResponse, len(p.Tasks))
		for j, t := range p.Tasks {
			tasks[j] = TaskResponse{
				Label:         t.Label,
				Done:          t.Done,
				RewardGranted: t.RewardGranted,
				Rewards:       fromRewardItems(t.Rewards),
			}
		}
		out.Periods[i] = PeriodResponse{
			Periodicity:    string(p.Periodicity),
			Tasks:          tasks,
			LastResetAt:    p.AppliedAt,
			NextResetAt:    p.NextResetAt,
			LastPeriodDone: p.LastPeriodDone,
		}
	}
	return out
}

type CurrencyResponse struct {
	ID        int64     `json:"id"`
	GameID    int64     `json:"game_id"`
	Title     string    `json:"title"`
	Category  *string   `json:"category"`
	Counts    int       `json:"counts"`
	Timestamp time.Time `json:"timestamp"`
}

func newCurrencyResponse(c *model.Currency) CurrencyResponse {
	return CurrencyResponse{
		ID:        c.ID,
		GameID:    c.GameID,
		Title:     c.Title,
		Category:  c.Category,
		Counts:    c.Counts,
		Timestamp: c.Timestamp,
	}
}

type BucketResponse struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TimeseriesResponse lists buckets oldest first for both daily and weekly
// series. from_date is the first bucket, to_date the last.
type TimeseriesResponse struct {
	Title    string           `json:"title"`
	Buckets  []BucketResponse `json:"buckets"`
	FromDate string           `json:"from_date"`
	ToDate   string           `json:"to_date"`
}

func newTimeseriesResponse(ts *model.CurrencyTimeseries) TimeseriesResponse {
	buckets := make([]BucketResponse, len(ts.Buckets))
	for i, b := range ts.Buckets {
		buckets[i] = BucketResponse{Date: formatDate(b.Date), Count: b.Count}
	}
	return TimeseriesResponse{
		Title:    ts.Title,
		Buckets:  buckets,
		FromDate: formatDate(ts.FromDate),
		ToDate:   formatDate(ts.ToDate),
	}
}

type SpendingResponse struct {
	ID                int64           `json:"id"`
	GameID            int64           `json:"game_id"`
	Title             string          `json:"title"`
	Paying            string          `json:"paying"`
	PayingDate        string          `json:"paying_date"`
	Type              string          `json:"type"`
	ExpirationDays    int             `json:"expiration_days"`
	NextPayingDate    string          `json:"next_paying_date"`
	RemainDate        int             `json:"remain_date"`
	IsRepaying        string          `json:"is_repaying"`
	RewardMode        string          `json:"reward_mode"`
	RewardItems       []RewardItemDTO `json:"reward_items"`
	LastRewardAt      *time.Time      `json:"last_reward_at"`
	RewardOnceGranted bool            `json:"reward_once_granted"`
	PassCurrentLevel  *int            `json:"pass_current_level"`
	PassMaxLevel      *int            `json:"pass_max_level"`
}

func newSpendingResponse(v *model.SpendingView) SpendingResponse {
	return SpendingResponse{
		ID:                v.ID,
		GameID:            v.GameID,
		Title:             v.Title,
		Paying:            v.Paying,
		PayingDate:        formatDate(v.PayingDate),
		Type:              v.Type,
		ExpirationDays:    v.ExpirationDays,
		NextPayingDate:    formatDate(v.NextPayingDate),
		RemainDate:        v.RemainDays,
		IsRepaying:        v.IsRepaying,
		RewardMode:        string(v.Mode()),
		RewardItems:       fromRewardItems(v.RewardItems),
		LastRewardAt:      v.LastRewardAt,
		RewardOnceGranted: v.RewardOnceGranted,
		PassCurrentLevel:  v.PassCurrentLevel,
		PassMaxLevel:      v.PassMaxLevel,
	}
}

type CharacterResponse struct {
	ID        int64   `json:"id"`
	GameID    int64   `json:"game_id"`
	Title     string  `json:"title"`
	Level     *int    `json:"level"`
	Grade     *string `json:"grade"`
	Overpower *int    `json:"overpower"`
	Position  *string `json:"position"`
	Memo      *string `json:"memo"`
	IsHave    bool    `json:"is_have"`
}

func newCharacterResponse(c *model.Character) CharacterResponse {
	return CharacterResponse{
		ID:        c.ID,
		GameID:    c.GameID,
		Title:     c.Title,
		Level:     c.Level,
		Grade:     c.Grade,
		Overpower: c.Overpower,
		Position:  c.Position,
		Memo:      c.Memo,
		IsHave:    c.IsHave,
	}
}

type EventResponse struct {
	ID        int64   `json:"id"`
	GameID    int64   `json:"game_id"`
	Title     string  `json:"title"`
	Type      string  `json:"type"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Priority  string  `json:"priority"`
	State     string  `json:"state"`
}

func newEventResponse(e *model.GameEventView) EventResponse {
	return EventResponse{
		ID:        e.ID,
		GameID:    e.GameID,
		Title:     e.Title,
		Type:      e.Type,
		StartDate: formatDate(e.StartDate),
		EndDate:   formatDatePtr(e.EndDate),
		Priority:  e.Priority,
		State:     e.State,
	}
}
