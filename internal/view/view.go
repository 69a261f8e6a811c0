// Package view derives everything a shell renders from the task list and the active filter.
// It holds no state.
package view

import (
	"fmt"
	"math"
	"strings"

	"taskflow/internal/model"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

const (
	EmptyNoTasks = "No tasks yet. Add your first plan above to start the flow."
	EmptyNoMatch = "Nothing to show here. Switch filters or add a fresh task."
)

// Filters returns the selectors in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

// ParseFilter is case-insensitive; empty input means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterActive, FilterCompleted:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q (expected all|active|completed)", s)
	}
}

func (f Filter) Label() string {
	s := string(f)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Next cycles all -> active -> completed -> all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterActive
	case FilterActive:
		return FilterCompleted
	default:
		return FilterAll
	}
}

func (f Filter) Match(t model.Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Apply returns the tasks matching f, preserving order.
func Apply(tasks []model.Task, f Filter) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Snapshot is the derived view of one render.
type Snapshot struct {
	Filter    Filter       `json:"filter"`
	Visible   []model.Task `json:"visible"`
	Total     int          `json:"total"`
	Remaining int          `json:"remaining"`
	Completed int          `json:"completed"`
	Progress  int          `json:"progress"` // 0..100
}

func Compute(tasks []model.Task, f Filter) Snapshot {
	remaining := 0
	for _, t := range tasks {
		if !t.Completed {
			remaining++
		}
	}
	total := len(tasks)
	done := total - remaining
	return Snapshot{
		Filter:    f,
		Visible:   Apply(tasks, f),
		Total:     total,
		Remaining: remaining,
		Completed: done,
		Progress:  Progress(done, total),
	}
}

// Progress is round(100*done/total), and 0 when total is 0.
func Progress(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

func (s Snapshot) Summary() string {
	return fmt.Sprintf("%d remaining · %d done", s.Remaining, s.Completed)
}

func (s Snapshot) ProgressLabel() string {
	return fmt.Sprintf("%d%% complete", s.Progress)
}

// EmptyMessage tells "no tasks at all" apart from "nothing matches the filter".
// It is "" when something is visible.
func (s Snapshot) EmptyMessage() string {
	switch {
	case len(s.Visible) > 0:
		return ""
	case s.Total == 0:
		return EmptyNoTasks
	default:
		return EmptyNoMatch
	}
}

func (s Snapshot) CanClearCompleted() bool { return s.Completed > 0 }
