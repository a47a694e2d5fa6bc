package repository

import (
	"fmt"
	"strings"

	"taskdesk/pkg/models"
	"taskdesk/pkg/utils"
)

// Categories returns a copy of the categories in stored order
func (r *Repository) Categories() []models.Category {
	result := make([]models.Category, len(r.categories))
	copy(result, r.categories)
	return result
}

func (r *Repository) categoryIndex(name string) int {
	for i := range r.categories {
		if r.categories[i].Name == name {
			return i
		}
	}
	return -1
}

func (r *Repository) findCategory(name string) (int, error) {
	if name == "" {
		return -1, ErrNoSelection
	}
	idx := r.categoryIndex(name)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
	}
	return idx, nil
}

// AddCategory appends a category. Names are trimmed and must be unique.
func (r *Repository) AddCategory(name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, ErrEmptyName
	}
	if r.categoryIndex(name) >= 0 {
		return models.Category{}, ErrDuplicateCategory
	}

	c := models.Category{Name: name}
	r.categories = append(r.categories, c)
	utils.Log("Added category: %s", name)
	return c, nil
}

// RenameCategory renames a category and every task filed under it
func (r *Repository) RenameCategory(oldName, newName string) error {
	idx, err := r.findCategory(oldName)
	if err != nil {
		return err
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}
	if newName == oldName {
		return nil
	}
	if r.categoryIndex(newName) >= 0 {
		return ErrDuplicateCategory
	}

	r.categories[idx].Name = newName
	for i := range r.tasks {
		if r.tasks[i].Category == oldName {
			r.tasks[i].Category = newName
		}
	}
	r.syncReminders()

	utils.Log("Renamed category %s to %s", oldName, newName)
	return nil
}

// DeleteCategory removes a category together with its tasks and their reminders
func (r *Repository) DeleteCategory(name string) (Cascade, error) {
	idx, err := r.findCategory(name)
	if err != nil {
		return Cascade{}, err
	}

	removed := r.removeTasks(func(t models.Task) bool { return t.Category == name })
	r.categories = append(r.categories[:idx], r.categories[idx+1:]...)

	utils.Log("Deleted category %s with %d tasks and %d reminders", name, removed.Tasks, removed.Reminders)
	return removed, nil
}

// Priorities returns a copy of the user-defined priorities. Default is
// implicit and not included.
func (r *Repository) Priorities() []models.Priority {
	result := make([]models.Priority, len(r.priorities))
	copy(result, r.priorities)
	return result
}

// PriorityChoices returns Default followed by the user-defined priorities
func (r *Repository) PriorityChoices() []models.Priority {
	return append([]models.Priority{models.DefaultPriority()}, r.priorities...)
}

func (r *Repository) priorityIndex(name string) int {
	for i := range r.priorities {
		if r.priorities[i].Name == name {
			return i
		}
	}
	return -1
}

func (r *Repository) findPriority(name string) (int, error) {
	if name == "" {
		return -1, ErrNoSelection
	}
	idx := r.priorityIndex(name)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %s", ErrPriorityNotFound, name)
	}
	return idx, nil
}

// AddPriority appends a priority. Default always exists, so adding it is a duplicate.
func (r *Repository) AddPriority(name string) (models.Priority, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Priority{}, ErrEmptyName
	}
	if name == models.DefaultPriorityName || r.priorityIndex(name) >= 0 {
		return models.Priority{}, ErrDuplicatePriority
	}

	p := models.Priority{Name: name}
	r.priorities = append(r.priorities, p)
	utils.Log("Added priority: %s", name)
	return p, nil
}

// RenamePriority renames a priority and updates the tasks using it.
// Renaming Default is ignored.
func (r *Repository) RenamePriority(oldName, newName string) error {
	if oldName == models.DefaultPriorityName {
		utils.Log("Ignoring rename of the Default priority")
		return nil
	}
	idx, err := r.findPriority(oldName)
	if err != nil {
		return err
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}
	if newName == oldName {
		return nil
	}
	if newName == models.DefaultPriorityName || r.priorityIndex(newName) >= 0 {
		return ErrDuplicatePriority
	}

	r.priorities[idx].Name = newName
	for i := range r.tasks {
		if r.tasks[i].Priority.Name == oldName {
			r.tasks[i].Priority.Name = newName
		}
	}
	r.syncReminders()

	utils.Log("Renamed priority %s to %s", oldName, newName)
	return nil
}

// DeletePriority removes a priority together with its tasks and their
// reminders. The Default priority cannot be deleted.
func (r *Repository) DeletePriority(name string) (Cascade, error) {
	if name == models.DefaultPriorityName {
		return Cascade{}, ErrDefaultPriority
	}
	idx, err := r.findPriority(name)
	if err != nil {
		return Cascade{}, err
	}

	removed := r.removeTasks(func(t models.Task) bool { return t.Priority.Name == name })
	r.priorities = append(r.priorities[:idx], r.priorities[idx+1:]...)

	utils.Log("Deleted priority %s with %d tasks and %d reminders", name, removed.Tasks, removed.Reminders)
	return removed, nil
}
