package model

import "time"

type Periodicity string

const (
	Daily   Periodicity = "daily"
	Weekly  Periodicity = "weekly"
	Monthly Periodicity = "monthly"
)

var Periodicities = []Periodicity{Daily, Weekly, Monthly}

func (p Periodicity) IsValid() bool {
	switch p {
	case Daily, Weekly, Monthly:
		return true
	default:
		return false
	}
}

type RewardItem struct {
	Title  string `json:"title"`
	Amount int    `json:"count"`
}

type Task struct {
	Label         string
	Done          bool
	RewardGranted bool
	Rewards       []RewardItem
}

type TaskList struct {
	Tasks       []Task
	LastResetAt *time.Time
}

// AllDone is false for an empty list.
func (l *TaskList) AllDone() bool {
	if len(l.Tasks) == 0 {
		return false
	}
	for _, t := range l.Tasks {
		if !t.Done {
			return false
		}
	}
	return true
}

// SetLabels replaces the task labels, keeping state for indices that survive.
func (l *TaskList) SetLabels(labels []string) {
	tasks := make([]Task, len(labels))
	for i, label := range labels {
		if i < len(l.Tasks) {
			tasks[i] = l.Tasks[i]
		}
		tasks[i].Label = label
	}
	l.Tasks = tasks
}

// SetRewards assigns bundles by index; missing bundles become empty.
func (l *TaskList) SetRewards(bundles [][]RewardItem) {
	for i := range l.Tasks {
		if i < len(bundles) {
			l.Tasks[i].Rewards = bundles[i]
		} else {
			l.Tasks[i].Rewards = nil
		}
	}
}

type Recurrence struct {
	ID      int64
	GameID  int64
	Daily   TaskList
	Weekly  TaskList
	Monthly TaskList
}

func (r *Recurrence) List(p Periodicity) *TaskList {
	switch p {
	case Daily:
		return &r.Daily
	case Weekly:
		return &r.Weekly
	case Monthly:
		return &r.Monthly
	default:
		return nil
	}
}

type TaskHistory struct {
	ID           int64
	RecurrenceID int64
	Periodicity  Periodicity
	Done         bool
	Timestamp    time.Time
}

// PeriodState is the user-facing view of one periodicity after resets.
type PeriodState struct {
	Periodicity    Periodicity
	Tasks          []Task
	AppliedAt      *time.Time
	NextResetAt    time.Time
	LastPeriodDone *bool
}

type TaskState struct {
	GameID       int64
	RecurrenceID int64
	Periods      []PeriodState
}
