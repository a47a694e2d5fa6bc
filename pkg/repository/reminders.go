package repository

import (
	"fmt"
	"strings"

	"taskdesk/pkg/models"
	"taskdesk/pkg/utils"
)

// ReminderInput describes a reminder to create. CustomDate is read only
// for the Custom type.
type ReminderInput struct {
	TaskID     string
	Name       string
	Type       models.ReminderType
	CustomDate *models.Date
}

// Reminders returns a copy of all reminders in stored order
func (r *Repository) Reminders() []models.Reminder {
	result := make([]models.Reminder, len(r.reminders))
	copy(result, r.reminders)
	return result
}

// RemindersFor returns the reminders attached to one task
func (r *Repository) RemindersFor(taskID string) []models.Reminder {
	result := []models.Reminder{}
	for _, rem := range r.reminders {
		if rem.TaskID() == taskID {
			result = append(result, rem)
		}
	}
	return result
}

// DueOn returns the reminders dated on day
func (r *Repository) DueOn(day models.Date) []models.Reminder {
	result := []models.Reminder{}
	for _, rem := range r.reminders {
		if rem.Date.Equal(day) {
			result = append(result, rem)
		}
	}
	return result
}

// DueToday returns the reminders dated today
func (r *Repository) DueToday() []models.Reminder {
	return r.DueOn(r.Today())
}

// AddReminder attaches a reminder to a task with a deadline that is not
// completed. The date is derived from the deadline by type.
func (r *Repository) AddReminder(in ReminderInput) (models.Reminder, error) {
	idx, err := r.findTask(in.TaskID)
	if err != nil {
		return models.Reminder{}, err
	}
	task := r.tasks[idx]
	if task.Status == models.StatusCompleted {
		return models.Reminder{}, ErrCompletedTask
	}
	if !task.HasDeadline() {
		return models.Reminder{}, ErrNoDeadline
	}

	name := strings.TrimSpace(in.Name)
	date, ok := in.Type.ReminderDate(*task.Deadline, in.CustomDate)
	if name == "" || !ok {
		return models.Reminder{}, ErrIncompleteReminder
	}

	rem := models.Reminder{
		Name: name,
		Task: task,
		Date: date,
		Type: in.Type,
	}
	r.reminders = append(r.reminders, rem)

	utils.Log("Added reminder %q for task %s on %s", name, task.ID, date)
	return rem, nil
}

// RenameReminder renames the reminder at index (as returned by Reminders)
func (r *Repository) RenameReminder(index int, name string) error {
	if index < 0 || index >= len(r.reminders) {
		return fmt.Errorf("%w: #%d", ErrReminderNotFound, index+1)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	r.reminders[index].Name = name
	utils.Log("Renamed reminder %d to %q", index, name)
	return nil
}

// DeleteReminder removes the reminder at index (as returned by Reminders)
func (r *Repository) DeleteReminder(index int) error {
	if index < 0 || index >= len(r.reminders) {
		return fmt.Errorf("%w: #%d", ErrReminderNotFound, index+1)
	}

	utils.Log("Deleted reminder %q", r.reminders[index].Name)
	r.reminders = append(r.reminders[:index], r.reminders[index+1:]...)
	return nil
}
