package repository

import (
	"strings"

	"game_dashboard/internal/model"

	"github.com/goccy/go-json"
)

// Task lists are persisted as newline-joined labels next to JSON arrays of
// flags and reward bundles. Decoding never fails: unreadable or short values
// are padded to the label count.

const labelSeparator = "\n"

func encodeLabels(tasks []model.Task) string {
	labels := make([]string, len(tasks))
	for i, t := range tasks {
		labels[i] = strings.ReplaceAll(t.Label, labelSeparator, " ")
	}
	return strings.Join(labels, labelSeparator)
}

func decodeLabels(s string) []string {
	s = strings.TrimRight(strings.ReplaceAll(s, "\r\n", labelSeparator), labelSeparator)
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, labelSeparator)
}

func encodeJSON(v any) *string {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

func decodeFlags(s *string, n int) []bool {
	var flags []bool
	if s != nil {
		if err := json.Unmarshal([]byte(*s), &flags); err != nil {
			flags = nil
		}
	}
	out := make([]bool, n)
	copy(out, flags)
	return out
}

func decodeBundles(s *string, n int) [][]model.RewardItem {
	var bundles [][]model.RewardItem
	if s != nil {
		if err := json.Unmarshal([]byte(*s), &bundles); err != nil {
			bundles = nil
		}
	}
	out := make([][]model.RewardItem, n)
	copy(out, bundles)
	return out
}

func decodeItems(s *string) []model.RewardItem {
	if s == nil {
		return nil
	}
	var items []model.RewardItem
	if err := json.Unmarshal([]byte(*s), &items); err != nil {
		return nil
	}
	return items
}

type encodedList struct {
	labels  string
	states  *string
	granted *string
	rewards *string
}

func encodeList(l *model.TaskList) encodedList {
	states := make([]bool, len(l.Tasks))
	granted := make([]bool, len(l.Tasks))
	rewards := make([][]model.RewardItem, len(l.Tasks))
	for i, t := range l.Tasks {
		states[i] = t.Done
		granted[i] = t.RewardGranted
		rewards[i] = t.Rewards
		if rewards[i] == nil {
			rewards[i] = []model.RewardItem{}
		}
	}
	return encodedList{
		labels:  encodeLabels(l.Tasks),
		states:  encodeJSON(states),
		granted: encodeJSON(granted),
		rewards: encodeJSON(rewards),
	}
}

func decodeList(e encodedList) []model.Task {
	labels := decodeLabels(e.labels)
	states := decodeFlags(e.states, len(labels))
	granted := decodeFlags(e.granted, len(labels))
	rewards := decodeBundles(e.rewards, len(labels))

	tasks := make([]model.Task, len(labels))
	for i, label := range labels {
		if len(rewards[i]) == 0 {
			rewards[i] = nil
		}
		tasks[i] = model.Task{
			Label:         label,
			Done:          states[i],
			RewardGranted: granted[i],
			Rewards:       rewards[i],
		}
	}
	return tasks
}
