package commands

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"taskdesk/pkg/models"
	"taskdesk/pkg/repository"
	"taskdesk/pkg/utils"
)

var dateLineRe = regexp.MustCompile(`^(?:(\d{2})\.(\d{2})\.(\d{4})|(\d{4})-(\d{2})-(\d{2})):?$`)

// HandleImportCommand reads a dated checklist:
//
//	10.06.2025:
//	- [ ] Write report +Work @High
//	- [x] Pay rent
//
// Each item becomes a task whose deadline is the last date line seen.
// +Category and @Priority tags pick the category and priority; untagged
// items go to defaultCategory. Missing categories and priorities are created.
func HandleImportCommand(s *Session, filename, defaultCategory string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	var currentDate *models.Date
	var tasksAdded, skipped int

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Check if line is a date (DD.MM.YYYY: or YYYY-MM-DD: format)
		if dateMatch := dateLineRe.FindStringSubmatch(line); dateMatch != nil {
			var day, month, year int
			if dateMatch[1] != "" {
				day, _ = strconv.Atoi(dateMatch[1])
				month, _ = strconv.Atoi(dateMatch[2])
				year, _ = strconv.Atoi(dateMatch[3])
			} else {
				year, _ = strconv.Atoi(dateMatch[4])
				month, _ = strconv.Atoi(dateMatch[5])
				day, _ = strconv.Atoi(dateMatch[6])
			}
			d, err := models.ParseDate(fmt.Sprintf("%04d-%02d-%02d", year, month, day))
			if err != nil {
				utils.Log("Import: skipping bad date line %q: %v", line, err)
				currentDate = nil
				continue
			}
			currentDate = &d
			continue
		}

		// Check if line is a task (starts with -)
		if !strings.HasPrefix(line, "- ") {
			continue
		}
		taskText := strings.TrimSpace(strings.TrimPrefix(line, "- "))

		status := models.StatusOpen
		if strings.HasPrefix(taskText, "[x]") {
			status = models.StatusCompleted
			taskText = strings.TrimSpace(strings.TrimPrefix(taskText, "[x]"))
		} else if strings.HasPrefix(taskText, "[ ]") {
			taskText = strings.TrimSpace(strings.TrimPrefix(taskText, "[ ]"))
		}
		if taskText == "" {
			continue
		}

		in, err := taskInputFromText(taskText)
		if err != nil {
			skipped++
			continue
		}
		if in.Category == "" {
			in.Category = defaultCategory
		}
		in.Status = status
		in.Deadline = currentDate

		if err := ensureCatalog(s.Repo, in); err != nil {
			s.printf("Error adding task '%s': %v\n", in.Title, err)
			skipped++
			continue
		}
		if _, err := s.Repo.CreateTask(in); err != nil {
			s.printf("Error adding task '%s': %v\n", in.Title, err)
			skipped++
			continue
		}
		tasksAdded++
	}

	if tasksAdded > 0 {
		if err := s.Save(); err != nil {
			return err
		}
	}

	s.printf("Successfully imported %d task(s) from %s\n", tasksAdded, filename)
	if skipped > 0 {
		s.printf("Skipped %d item(s)\n", skipped)
	}
	return nil
}

// ensureCatalog creates the category and priority in referenced by name
func ensureCatalog(repo *repository.Repository, in repository.TaskInput) error {
	if in.Category != "" {
		if _, err := repo.AddCategory(in.Category); err != nil && !errors.Is(err, repository.ErrDuplicateCategory) {
			return err
		}
	}
	if in.Priority != "" {
		if _, err := repo.AddPriority(in.Priority); err != nil && !errors.Is(err, repository.ErrDuplicatePriority) {
			return err
		}
	}
	return nil
}
