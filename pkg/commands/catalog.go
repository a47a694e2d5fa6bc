package commands

import (
	"fmt"

	"taskdesk/pkg/models"
	"taskdesk/pkg/repository"
	"taskdesk/pkg/views"
)

func categoryCriteria(name string) views.Criteria {
	return views.Criteria{Category: name}
}

func priorityCriteria(name string) views.Criteria {
	return views.Criteria{Priority: name}
}

// HandleAddCategory creates a category
func HandleAddCategory(s *Session, name string) error {
	c, err := s.Repo.AddCategory(name)
	if err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}
	s.printf("Category added: %s\n", c.Name)
	return nil
}

// HandleRenameCategory renames a category and the tasks filed under it
func HandleRenameCategory(s *Session, oldName, newName string) error {
	if err := s.Repo.RenameCategory(oldName, newName); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}
	s.printf("Category renamed: %s -> %s\n", oldName, newName)
	return nil
}

// HandleDeleteCategory deletes a category with its tasks and reminders
func HandleDeleteCategory(s *Session, name string, skipConfirm bool) error {
	n := len(s.Repo.Filter(categoryCriteria(name)))
	question := fmt.Sprintf("Delete category %q and its %d task(s)?", name, n)
	if !skipConfirm && !s.confirm(question) {
		s.printf("Operation cancelled.\n")
		return nil
	}

	removed, err := s.Repo.DeleteCategory(name)
	if err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}
	s.printf("Category deleted: %s (%d task(s), %d reminder(s))\n", name, removed.Tasks, removed.Reminders)
	return nil
}

// HandleListCategories prints every category with its task count
func HandleListCategories(s *Session) error {
	categories := s.Repo.Categories()
	if len(categories) == 0 {
		s.printf("No categories.\n")
		return nil
	}
	t := newTable("Category", "Tasks")
	for _, c := range categories {
		t.Row(c.Name, fmt.Sprint(len(s.Repo.Filter(categoryCriteria(c.Name)))))
	}
	s.printf("%s\n", t.Render())
	return nil
}

// HandleAddPriority creates a priority
func HandleAddPriority(s *Session, name string) error {
	p, err := s.Repo.AddPriority(name)
	if err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}
	s.printf("Priority added: %s\n", p.Name)
	return nil
}

// HandleRenamePriority renames a priority and the tasks using it
func HandleRenamePriority(s *Session, oldName, newName string) error {
	if oldName == models.DefaultPriorityName {
		s.printf("The Default priority cannot be renamed; nothing changed.\n")
		return nil
	}
	if err := s.Repo.RenamePriority(oldName, newName); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}
	s.printf("Priority renamed: %s -> %s\n", oldName, newName)
	return nil
}

// HandleDeletePriority deletes a priority with its tasks and reminders
func HandleDeletePriority(s *Session, name string, skipConfirm bool) error {
	if name == models.DefaultPriorityName {
		return repository.ErrDefaultPriority
	}
	n := len(s.Repo.Filter(priorityCriteria(name)))
	question := fmt.Sprintf("Delete priority %q and its %d task(s)?", name, n)
	if !skipConfirm && !s.confirm(question) {
		s.printf("Operation cancelled.\n")
		return nil
	}

	removed, err := s.Repo.DeletePriority(name)
	if err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}
	s.printf("Priority deleted: %s (%d task(s), %d reminder(s))\n", name, removed.Tasks, removed.Reminders)
	return nil
}

// HandleListPriorities prints Default and every user priority with task counts
func HandleListPriorities(s *Session) error {
	t := newTable("Priority", "Tasks")
	for _, p := range s.Repo.PriorityChoices() {
		t.Row(p.Name, fmt.Sprint(len(s.Repo.Filter(priorityCriteria(p.Name)))))
	}
	s.printf("%s\n", t.Render())
	return nil
}
