package commands

import (
	"fmt"

	"taskdesk/pkg/models"
	"taskdesk/pkg/repository"
)

// ReminderOptions are the arguments of remind add
type ReminderOptions struct {
	TaskRef string
	Name    string
	Type    string
	Date    string
}

// HandleAddReminder attaches a reminder to a task
func HandleAddReminder(s *Session, opts ReminderOptions) error {
	task, err := s.resolveTask(opts.TaskRef)
	if err != nil {
		return err
	}

	rt := models.ReminderCustom
	if opts.Type != "" || opts.Date == "" {
		if rt, err = models.ParseReminderType(opts.Type); err != nil {
			return err
		}
	}

	in := repository.ReminderInput{TaskID: task.ID, Name: opts.Name, Type: rt}
	if opts.Date != "" {
		d, err := models.ParseDate(opts.Date)
		if err != nil {
			return err
		}
		in.CustomDate = &d
	}

	rem, err := s.Repo.AddReminder(in)
	if err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}

	s.printf("Reminder added: %s on %s for %q\n", rem.Name, rem.Date, task.Title)
	return nil
}

// HandleRenameReminder renames reminder number n as shown by remind list
func HandleRenameReminder(s *Session, n int, name string) error {
	if err := s.Repo.RenameReminder(n-1, name); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}
	s.printf("Reminder %d renamed to %s\n", n, name)
	return nil
}

// HandleDeleteReminder removes reminder number n as shown by remind list
func HandleDeleteReminder(s *Session, n int) error {
	if err := s.Repo.DeleteReminder(n - 1); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}
	s.printf("Reminder %d deleted\n", n)
	return nil
}

// HandleListReminders prints every reminder, numbered from 1
func HandleListReminders(s *Session, taskRef string) error {
	reminders := s.Repo.Reminders()
	filterID := ""
	if taskRef != "" {
		task, err := s.resolveTask(taskRef)
		if err != nil {
			return err
		}
		filterID = task.ID
	}

	t := newTable("#", "Name", "Date", "Type", "Task")
	rows := 0
	for i, rem := range reminders {
		if filterID != "" && rem.TaskID() != filterID {
			continue
		}
		t.Row(fmt.Sprint(i+1), rem.Name, rem.Date.String(), string(rem.Type), rem.Task.Title)
		rows++
	}
	if rows == 0 {
		s.printf("No reminders.\n")
		return nil
	}
	s.printf("%s\n", t.Render())
	return nil
}
