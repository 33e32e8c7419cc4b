package model

import (
	"strings"
	"time"
)

type RewardMode string

const (
	RewardDaily RewardMode = "DAILY"
	RewardOnce  RewardMode = "ONCE"
)

func (m RewardMode) IsValid() bool {
	return m == RewardDaily || m == RewardOnce
}

// InferRewardMode treats battle passes ("패스") as one-shot rewards.
func InferRewardMode(spendingType string) RewardMode {
	if strings.Contains(spendingType, "패스") {
		return RewardOnce
	}
	return RewardDaily
}

const (
	RepayUrgent  = "갱신필요"
	RepayWarning = "유의"
	RepayRelaxed = "여유"
)

type Spending struct {
	ID                int64
	GameID            int64
	Title             string
	Paying            string
	PayingDate        time.Time
	Type              string
	ExpirationDays    int
	RewardMode        RewardMode
	RewardItems       []RewardItem
	LastRewardAt      *time.Time
	RewardOnceGranted bool
	PassCurrentLevel  *int
	PassMaxLevel      *int
}

func (s *Spending) NextPayingDate() time.Time {
	return s.PayingDate.AddDate(0, 0, s.ExpirationDays)
}

// RemainDays is negative once the subscription has lapsed.
func (s *Spending) RemainDays(today time.Time) int {
	return int(s.NextPayingDate().Sub(today).Hours() / 24)
}

func (s *Spending) Active(today time.Time) bool {
	return !s.NextPayingDate().Before(today)
}

func (s *Spending) RepayStatus(today time.Time) string {
	days := s.RemainDays(today)
	switch {
	case days <= 3:
		return RepayUrgent
	case days <= 7:
		return RepayWarning
	default:
		return RepayRelaxed
	}
}

// Mode falls back to the mode implied by the free-text type.
func (s *Spending) Mode() RewardMode {
	if s.RewardMode.IsValid() {
		return s.RewardMode
	}
	return InferRewardMode(s.Type)
}

type SpendingView struct {
	Spending
	NextPayingDate time.Time
	RemainDays     int
	IsRepaying     string
	Active         bool
}

func (s *Spending) View(today time.Time) SpendingView {
	return SpendingView{
		Spending:       *s,
		NextPayingDate: s.NextPayingDate(),
		RemainDays:     s.RemainDays(today),
		IsRepaying:     s.RepayStatus(today),
		Active:         s.Active(today),
	}
}
