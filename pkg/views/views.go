// Package views computes read-only projections of the task list: filters,
// counters and the due-soon list. Nothing here is cached; every call scans
// the tasks it is given.
package views

import (
	"strings"

	"taskdesk/pkg/models"
)

// DueSoonDays is the look-ahead window for due-soon tasks, inclusive of today
const DueSoonDays = 7

// Criteria narrows the task list. Empty fields match everything.
type Criteria struct {
	Title    string // case-insensitive substring
	Category string // exact category name
	Priority string // exact priority name
}

// IsZero reports whether no criterion is set
func (c Criteria) IsZero() bool {
	return c.Title == "" && c.Category == "" && c.Priority == ""
}

// Matches reports whether a task satisfies every set criterion
func (c Criteria) Matches(t models.Task) bool {
	if c.Title != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(c.Title)) {
		return false
	}
	if c.Category != "" && t.Category != c.Category {
		return false
	}
	if c.Priority != "" && t.Priority.Name != c.Priority {
		return false
	}
	return true
}

// Filter returns the tasks matching c, in stored order
func Filter(tasks []models.Task, c Criteria) []models.Task {
	result := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if c.Matches(t) {
			result = append(result, t)
		}
	}
	return result
}

// IsDueSoon reports whether an unfinished task is due between today and
// today+DueSoonDays inclusive
func IsDueSoon(t models.Task, today models.Date) bool {
	if t.Status == models.StatusCompleted || !t.HasDeadline() {
		return false
	}
	d := *t.Deadline
	return !d.Before(today) && !d.After(today.AddDays(DueSoonDays))
}

// DueSoon returns the due-soon tasks in stored order
func DueSoon(tasks []models.Task, today models.Date) []models.Task {
	result := []models.Task{}
	for _, t := range tasks {
		if IsDueSoon(t, today) {
			result = append(result, t)
		}
	}
	return result
}

// Counters summarizes the task list
type Counters struct {
	Total     int `json:"total" yaml:"total"`
	Completed int `json:"completed" yaml:"completed"`
	Delayed   int `json:"delayed" yaml:"delayed"`
	DueSoon   int `json:"dueSoon" yaml:"dueSoon"`
}

// Count computes the counters for tasks as of today
func Count(tasks []models.Task, today models.Date) Counters {
	c := Counters{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.StatusCompleted:
			c.Completed++
		case models.StatusDelayed:
			c.Delayed++
		}
		if IsDueSoon(t, today) {
			c.DueSoon++
		}
	}
	return c
}
