package commands

import (
	"errors"
	"fmt"

	"taskdesk/pkg/models"
	"taskdesk/pkg/repository"
	"taskdesk/pkg/views"
)

// PurgeOptions narrow which tasks a purge deletes. No option means all tasks.
type PurgeOptions struct {
	Category string
	Priority string
	Status   string
}

// HandlePurge deletes every task matching opts, with its reminders. Tasks
// with the Default priority are kept.
func HandlePurge(s *Session, opts PurgeOptions, skipConfirm bool) error {
	var status models.Status
	if opts.Status != "" {
		st, err := models.ParseStatus(opts.Status)
		if err != nil {
			return err
		}
		status = st
	}

	var targets []models.Task
	for _, t := range s.Repo.Filter(views.Criteria{Category: opts.Category, Priority: opts.Priority}) {
		if status == "" || t.Status == status {
			targets = append(targets, t)
		}
	}
	if len(targets) == 0 {
		s.printf("No matching tasks.\n")
		return nil
	}

	// Show confirmation unless --yes flag is used
	if !skipConfirm && !s.confirm(fmt.Sprintf("Are you sure you want to delete %d task(s)?", len(targets))) {
		s.printf("Operation cancelled.\n")
		return nil
	}

	deleted, kept := 0, 0
	for _, t := range targets {
		err := s.Repo.DeleteTask(t.ID)
		switch {
		case errors.Is(err, repository.ErrDefaultPriorityTask):
			kept++
		case err != nil:
			return err
		default:
			deleted++
		}
	}
	if err := s.Save(); err != nil {
		return err
	}

	s.printf("Successfully deleted %d task(s)\n", deleted)
	if kept > 0 {
		s.printf("Kept %d task(s) with the Default priority\n", kept)
	}
	return nil
}
