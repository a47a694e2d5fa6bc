package commands

import (
	"fmt"
	"strings"

	"taskdesk/pkg/models"
	"taskdesk/pkg/repository"
	"taskdesk/pkg/views"
)

// ListOptions are the flags of the list command
type ListOptions struct {
	Search   string
	Category string
	Priority string
	DueSoon  bool
	SortBy   string
	Desc     bool
}

// HandleListTasks prints the tasks matching opts as a table
func HandleListTasks(s *Session, opts ListOptions) error {
	var tasks []models.Task
	if opts.DueSoon {
		tasks = s.Repo.DueSoon()
	} else {
		tasks = s.Repo.Filter(views.Criteria{
			Title:    opts.Search,
			Category: opts.Category,
			Priority: opts.Priority,
		})
	}

	order := views.SortAsc
	if opts.Desc {
		order = views.SortDesc
	}
	tasks = views.SortTasks(tasks, views.ParseSortBy(opts.SortBy), order)

	if len(tasks) == 0 {
		s.printf("No tasks found.\n")
		return nil
	}

	t := newTable("ID", "Title", "Category", "Priority", "Deadline", "Status")
	for _, task := range tasks {
		t.Row(shortID(task.ID), task.Title, task.Category, task.Priority.Name, deadlineString(task), string(task.Status))
	}
	s.printf("%s\n", t.Render())
	return nil
}

// HandleStats prints the task counters
func HandleStats(s *Session) error {
	c := s.Repo.Counters()
	s.printf("Total: %d\nCompleted: %d\nDelayed: %d\nDue soon: %d\n", c.Total, c.Completed, c.Delayed, c.DueSoon)
	return nil
}

// HandleSetStatus changes the status of one task
func HandleSetStatus(s *Session, ref, status string) error {
	task, err := s.resolveTask(ref)
	if err != nil {
		return err
	}
	st, err := models.ParseStatus(status)
	if err != nil {
		return fmt.Errorf("%w (valid: %s)", err, statusNames())
	}

	updated, err := s.Repo.SetStatus(task.ID, st)
	if err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}

	s.printf("Task %s is now %s\n", shortID(updated.ID), updated.Status)
	return nil
}

// HandleDeleteTask removes one task and its reminders after confirmation
func HandleDeleteTask(s *Session, ref string, skipConfirm bool) error {
	task, err := s.resolveTask(ref)
	if err != nil {
		return err
	}
	// Rejected before asking
	if task.Priority.IsDefault() {
		return repository.ErrDefaultPriorityTask
	}

	if !skipConfirm && !s.confirm(fmt.Sprintf("Delete task %q and its reminders?", task.Title)) {
		s.printf("Operation cancelled.\n")
		return nil
	}

	if err := s.Repo.DeleteTask(task.ID); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}

	s.printf("Task deleted: %s\n", task.Title)
	return nil
}

func statusNames() string {
	names := make([]string, len(models.Statuses))
	for i, st := range models.Statuses {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}
