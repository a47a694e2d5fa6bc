package models

import (
	"encoding/json"
	"fmt"
)

// Status is one of the fixed task status labels
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusPostponed  Status = "Postponed"
	StatusCompleted  Status = "Completed"
	StatusDelayed    Status = "Delayed"
)

// Statuses lists every status label in display order
var Statuses = []Status{StatusOpen, StatusInProgress, StatusPostponed, StatusCompleted, StatusDelayed}

// ParseStatus matches a label exactly; the empty string yields Open
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return StatusOpen, nil
	}
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

type statusJSON struct {
	Name string `json:"name"`
}

// MarshalJSON writes the status as {"name": "..."}
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(statusJSON{Name: string(s)})
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var obj statusJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		// Accept a bare string as well
		var name string
		if err2 := json.Unmarshal(data, &name); err2 != nil {
			return err
		}
		obj.Name = name
	}
	*s = Status(obj.Name)
	return nil
}

// DefaultPriorityName is the protected fallback priority
const DefaultPriorityName = "Default"

// Priority represents a task priority level
type Priority struct {
	Name string `json:"name" yaml:"name"`
}

// DefaultPriority returns the protected fallback priority
func DefaultPriority() Priority {
	return Priority{Name: DefaultPriorityName}
}

// IsDefault reports whether p is the protected Default priority
func (p Priority) IsDefault() bool {
	return p.Name == DefaultPriorityName
}

func (p Priority) String() string { return p.Name }

// Category groups tasks by name
type Category struct {
	Name string `json:"name" yaml:"name"`
}

func (c Category) String() string { return c.Name }

// Task represents a single task
type Task struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description,omitempty"`
	Category    string   `json:"category" yaml:"category"`
	Priority    Priority `json:"priority" yaml:"priority"`
	Deadline    *Date    `json:"deadline,omitempty" yaml:"deadline,omitempty"`
	Status      Status   `json:"status" yaml:"status"`
}

// HasDeadline reports whether a deadline is set
func (t Task) HasDeadline() bool {
	return t.Deadline != nil && !t.Deadline.IsZero()
}

// Overdue reports whether the deadline has passed on an unfinished task
func (t Task) Overdue(today Date) bool {
	return t.HasDeadline() && t.Status != StatusCompleted && t.Deadline.Before(today)
}

// RefreshStatus keeps Delayed in step with the deadline: an overdue task
// becomes Delayed, and a Delayed task that is no longer overdue goes back
// to Open. It reports whether the status changed.
func (t *Task) RefreshStatus(today Date) bool {
	switch {
	case t.Overdue(today) && t.Status != StatusDelayed:
		t.Status = StatusDelayed
		return true
	case !t.Overdue(today) && t.Status == StatusDelayed:
		t.Status = StatusOpen
		return true
	}
	return false
}

// SameContent compares every field except the id. Used to relink records
// written before tasks carried ids.
func (t Task) SameContent(o Task) bool {
	if t.Title != o.Title || t.Description != o.Description || t.Category != o.Category ||
		t.Priority != o.Priority || t.Status != o.Status {
		return false
	}
	if t.HasDeadline() != o.HasDeadline() {
		return false
	}
	return !t.HasDeadline() || t.Deadline.Equal(*o.Deadline)
}

// ReminderType selects how a reminder date is derived from the deadline
type ReminderType string

const (
	ReminderDayBefore   ReminderType = "1 day before"
	ReminderWeekBefore  ReminderType = "1 week before"
	ReminderMonthBefore ReminderType = "1 month before"
	ReminderCustom      ReminderType = "Custom"
)

// ReminderTypes lists every reminder type in display order
var ReminderTypes = []ReminderType{ReminderDayBefore, ReminderWeekBefore, ReminderMonthBefore, ReminderCustom}

// ParseReminderType matches a label exactly. The short forms day, week,
// month and custom are accepted for the command line.
func ParseReminderType(s string) (ReminderType, error) {
	switch s {
	case "day":
		return ReminderDayBefore, nil
	case "week":
		return ReminderWeekBefore, nil
	case "month":
		return ReminderMonthBefore, nil
	case "custom":
		return ReminderCustom, nil
	}
	for _, rt := range ReminderTypes {
		if string(rt) == s {
			return rt, nil
		}
	}
	return "", fmt.Errorf("unknown reminder type %q", s)
}

// ReminderDate derives the reminder day for a deadline. custom is used only
// for ReminderCustom; ok is false when no date can be resolved.
func (rt ReminderType) ReminderDate(deadline Date, custom *Date) (Date, bool) {
	switch rt {
	case ReminderDayBefore:
		return deadline.AddDays(-1), true
	case ReminderWeekBefore:
		return deadline.AddDays(-7), true
	case ReminderMonthBefore:
		return deadline.AddMonths(-1), true
	case ReminderCustom:
		if custom == nil || custom.IsZero() {
			return Date{}, false
		}
		return *custom, true
	}
	return Date{}, false
}

// Reminder is a dated note attached to a task. Task is a snapshot of the
// owning task; the link is Task.ID.
type Reminder struct {
	Name string       `json:"name" yaml:"name"`
	Task Task         `json:"task" yaml:"task"`
	Date Date         `json:"reminderDate" yaml:"reminderDate"`
	Type ReminderType `json:"type" yaml:"type"`
}

// TaskID returns the id of the owning task
func (r Reminder) TaskID() string {
	return r.Task.ID
}
