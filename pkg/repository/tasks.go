package repository

import (
	"fmt"
	"strings"

	"taskdesk/pkg/models"
	"taskdesk/pkg/utils"
)

// TaskInput carries every editable task field. Empty Priority means
// Default and empty Status means Open.
type TaskInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Status      models.Status
	Deadline    *models.Date
}

// InputFromTask fills a TaskInput with a task's current values, for editing
func InputFromTask(t models.Task) TaskInput {
	in := TaskInput{
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Priority:    t.Priority.Name,
		Status:      t.Status,
	}
	if t.HasDeadline() {
		d := *t.Deadline
		in.Deadline = &d
	}
	return in
}

// Tasks returns a copy of all tasks in stored order
func (r *Repository) Tasks() []models.Task {
	result := make([]models.Task, len(r.tasks))
	copy(result, r.tasks)
	return result
}

// Task returns a task by id
func (r *Repository) Task(id string) (models.Task, error) {
	idx := r.taskIndex(id)
	if idx < 0 {
		return models.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return r.tasks[idx], nil
}

func (r *Repository) findTask(id string) (int, error) {
	if id == "" {
		return -1, ErrNoSelection
	}
	idx := r.taskIndex(id)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return idx, nil
}

func (r *Repository) taskIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// buildTask validates in and returns the task it describes. Nothing is stored.
func (r *Repository) buildTask(in TaskInput) (models.Task, error) {
	title := strings.TrimSpace(in.Title)
	category := strings.TrimSpace(in.Category)
	if title == "" || category == "" {
		return models.Task{}, ErrMissingFields
	}
	if r.categoryIndex(category) < 0 {
		return models.Task{}, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	priority := models.DefaultPriority()
	if name := strings.TrimSpace(in.Priority); name != "" && name != models.DefaultPriorityName {
		if r.priorityIndex(name) < 0 {
			return models.Task{}, fmt.Errorf("%w: %s", ErrUnknownPriority, name)
		}
		priority = models.Priority{Name: name}
	}

	status, err := models.ParseStatus(string(in.Status))
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: %s", ErrUnknownStatus, in.Status)
	}

	task := models.Task{
		Title:       title,
		Description: in.Description,
		Category:    category,
		Priority:    priority,
		Status:      status,
	}
	if in.Deadline != nil && !in.Deadline.IsZero() {
		d := *in.Deadline
		task.Deadline = &d
	}
	task.RefreshStatus(r.Today())

	return task, nil
}

// CreateTask validates and appends a new task
func (r *Repository) CreateTask(in TaskInput) (models.Task, error) {
	task, err := r.buildTask(in)
	if err != nil {
		return models.Task{}, err
	}
	task.ID = r.newID()
	r.tasks = append(r.tasks, task)

	utils.Log("Added task %s: %s", task.ID, task.Title)
	return task, nil
}

// EditTask replaces every editable field of a task with in. A rejected
// revision leaves the task untouched.
func (r *Repository) EditTask(id string, in TaskInput) (models.Task, error) {
	idx, err := r.findTask(id)
	if err != nil {
		return models.Task{}, err
	}

	task, err := r.buildTask(in)
	if err != nil {
		return models.Task{}, err
	}
	task.ID = id
	r.tasks[idx] = task
	r.syncReminders()

	utils.Log("Updated task %s: %s", task.ID, task.Title)
	return task, nil
}

// SetStatus changes only the status of a task
func (r *Repository) SetStatus(id string, status models.Status) (models.Task, error) {
	idx, err := r.findTask(id)
	if err != nil {
		return models.Task{}, err
	}
	in := InputFromTask(r.tasks[idx])
	in.Status = status
	return r.EditTask(id, in)
}

// DeleteTask removes a task and its reminders. Tasks with the Default
// priority cannot be deleted.
func (r *Repository) DeleteTask(id string) error {
	idx, err := r.findTask(id)
	if err != nil {
		return err
	}
	if r.tasks[idx].Priority.IsDefault() {
		return ErrDefaultPriorityTask
	}

	removed := r.removeTasks(func(t models.Task) bool { return t.ID == id })
	utils.Log("Deleted task %s and %d reminders", id, removed.Reminders)
	return nil
}

// Cascade reports what a delete removed besides its target
type Cascade struct {
	Tasks     int
	Reminders int
}

// removeTasks drops every task matching pred, removing each one's
// reminders first
func (r *Repository) removeTasks(pred func(models.Task) bool) Cascade {
	doomed := make(map[string]bool)
	kept := make([]models.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if pred(t) {
			doomed[t.ID] = true
			continue
		}
		kept = append(kept, t)
	}
	if len(doomed) == 0 {
		return Cascade{}
	}

	before := len(r.reminders)
	reminders := make([]models.Reminder, 0, len(r.reminders))
	for _, rem := range r.reminders {
		if !doomed[rem.TaskID()] {
			reminders = append(reminders, rem)
		}
	}
	r.reminders = reminders
	r.tasks = kept

	return Cascade{Tasks: len(doomed), Reminders: before - len(reminders)}
}
