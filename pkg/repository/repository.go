// Package repository owns the in-memory task, category, priority and
// reminder collections and every operation that mutates them. Callers get
// copies; changes go through the operation methods, which validate first
// and commit only when every check passes.
package repository

import (
	"time"

	"github.com/google/uuid"

	"taskdesk/pkg/models"
	"taskdesk/pkg/storage"
	"taskdesk/pkg/utils"
	"taskdesk/pkg/views"
)

// Repository holds the active collections for one session
type Repository struct {
	tasks      []models.Task
	categories []models.Category
	priorities []models.Priority
	reminders  []models.Reminder

	now   func() time.Time
	newID func() string

	// ids handed out by the last Restore to records stored without one
	assignedIDs int
}

// Option configures a Repository
type Option func(*Repository)

// WithClock overrides the clock used for "today"
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// WithIDGenerator overrides how new task ids are made
func WithIDGenerator(gen func() string) Option {
	return func(r *Repository) {
		r.newID = gen
	}
}

// New returns an empty repository
func New(opts ...Option) *Repository {
	r := &Repository{
		tasks:      []models.Task{},
		categories: []models.Category{},
		priorities: []models.Priority{},
		reminders:  []models.Reminder{},
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Today returns the current calendar day per the repository clock
func (r *Repository) Today() models.Date {
	return models.DateOf(r.now())
}

// Restore replaces the collections with loaded data and reconciles them:
// tasks without ids get one, reminders are relinked to their tasks,
// duplicate or reserved names are dropped, and overdue tasks become
// Delayed. It returns the number of tasks whose status changed.
func (r *Repository) Restore(snap storage.Snapshot) int {
	r.tasks = make([]models.Task, 0, len(snap.Tasks))
	seenIDs := make(map[string]bool)
	r.assignedIDs = 0
	for _, t := range snap.Tasks {
		if t.ID == "" || seenIDs[t.ID] {
			t.ID = r.newID()
			r.assignedIDs++
		}
		if t.Priority.Name == "" {
			t.Priority = models.DefaultPriority()
		}
		if t.Status == "" {
			t.Status = models.StatusOpen
		}
		seenIDs[t.ID] = true
		r.tasks = append(r.tasks, t)
	}

	r.categories = []models.Category{}
	for _, c := range snap.Categories {
		if c.Name == "" || r.categoryIndex(c.Name) >= 0 {
			continue
		}
		r.categories = append(r.categories, c)
	}

	r.priorities = []models.Priority{}
	for _, p := range snap.Priorities {
		if p.Name == "" || p.IsDefault() || r.priorityIndex(p.Name) >= 0 {
			continue
		}
		r.priorities = append(r.priorities, p)
	}

	// Every task reference must resolve
	for _, t := range r.tasks {
		if t.Category != "" && r.categoryIndex(t.Category) < 0 {
			utils.Log("Adding missing category %q", t.Category)
			r.categories = append(r.categories, models.Category{Name: t.Category})
		}
		if !t.Priority.IsDefault() && r.priorityIndex(t.Priority.Name) < 0 {
			utils.Log("Adding missing priority %q", t.Priority.Name)
			r.priorities = append(r.priorities, t.Priority)
		}
	}

	r.reminders = []models.Reminder{}
	for _, rem := range snap.Reminders {
		idx := r.linkReminder(rem.Task)
		if idx < 0 {
			utils.Log("Dropping reminder %q: task %q not found", rem.Name, rem.Task.Title)
			continue
		}
		rem.Task = r.tasks[idx]
		r.reminders = append(r.reminders, rem)
	}

	changed := r.Reconcile()
	utils.Log("Restored %d tasks, %d categories, %d priorities, %d reminders",
		len(r.tasks), len(r.categories), len(r.priorities), len(r.reminders))
	return changed
}

// AssignedIDs reports how many tasks the last Restore gave a new id. Those
// ids only last once the collections are saved.
func (r *Repository) AssignedIDs() int {
	return r.assignedIDs
}

// linkReminder finds the task a stored reminder points at: by id when it
// has one, otherwise by the first task with identical content
func (r *Repository) linkReminder(snapshot models.Task) int {
	if snapshot.ID != "" {
		if idx := r.taskIndex(snapshot.ID); idx >= 0 {
			return idx
		}
	}
	for i, t := range r.tasks {
		if t.SameContent(snapshot) {
			return i
		}
	}
	return -1
}

// Reconcile applies the delayed-status rule to every task as of today and
// returns how many tasks changed
func (r *Repository) Reconcile() int {
	today := r.Today()
	changed := 0
	for i := range r.tasks {
		if r.tasks[i].RefreshStatus(today) {
			changed++
		}
	}
	if changed > 0 {
		r.syncReminders()
		utils.Log("Reconciled %d task statuses", changed)
	}
	return changed
}

// Snapshot returns copies of all collections, ready to save
func (r *Repository) Snapshot() storage.Snapshot {
	r.syncReminders()
	return storage.Snapshot{
		Tasks:      r.Tasks(),
		Categories: r.Categories(),
		Priorities: r.Priorities(),
		Reminders:  r.Reminders(),
	}
}

// syncReminders refreshes the task snapshot held by every reminder
func (r *Repository) syncReminders() {
	byID := make(map[string]int, len(r.tasks))
	for i, t := range r.tasks {
		byID[t.ID] = i
	}
	for i := range r.reminders {
		if idx, ok := byID[r.reminders[i].TaskID()]; ok {
			r.reminders[i].Task = r.tasks[idx]
		}
	}
}

// Counters returns the task counters as of today
func (r *Repository) Counters() views.Counters {
	return views.Count(r.tasks, r.Today())
}

// DueSoon returns unfinished tasks due within the next week
func (r *Repository) DueSoon() []models.Task {
	return views.DueSoon(r.tasks, r.Today())
}

// Filter returns the tasks matching c in their stored order
func (r *Repository) Filter(c views.Criteria) []models.Task {
	return views.Filter(r.tasks, c)
}
