package commands

import (
	"fmt"
	"regexp"
	"strings"

	"taskdesk/pkg/models"
	"taskdesk/pkg/repository"
)

// AddOptions are the flags of the add command
type AddOptions struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Status      string
	Deadline    string
}

var (
	categoryTagRe = regexp.MustCompile(`\+(\w+)`)
	priorityTagRe = regexp.MustCompile(`@(\w+)`)
)

// HandleAddTask processes the add command. A +Category or @Priority tag in
// the title fills the matching option when it is not given.
func HandleAddTask(s *Session, opts AddOptions) error {
	in, err := taskInputFromText(opts.Title)
	if err != nil {
		return err
	}
	in.Description = opts.Description
	if opts.Category != "" {
		in.Category = opts.Category
	}
	if opts.Priority != "" {
		in.Priority = opts.Priority
	}
	in.Status = models.Status(opts.Status)

	if opts.Deadline != "" {
		d, err := models.ParseDate(opts.Deadline)
		if err != nil {
			return err
		}
		in.Deadline = &d
	}

	task, err := s.Repo.CreateTask(in)
	if err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return err
	}

	s.printf("Task added: %s %s [%s]\n", shortID(task.ID), task.Title, task.Status)
	return nil
}

// taskInputFromText strips +category and @priority tags from text
func taskInputFromText(text string) (repository.TaskInput, error) {
	in := repository.TaskInput{Title: removeTags(text)}
	if tags := extractTags(categoryTagRe, text); len(tags) > 0 {
		in.Category = tags[0]
	}
	if tags := extractTags(priorityTagRe, text); len(tags) > 0 {
		in.Priority = tags[0]
	}
	if strings.TrimSpace(in.Title) == "" {
		return in, fmt.Errorf("%w: empty title", repository.ErrMissingFields)
	}
	return in, nil
}

// extractTags finds every tag matched by re in text
func extractTags(re *regexp.Regexp, text string) []string {
	var tags []string
	for _, match := range re.FindAllStringSubmatch(text, -1) {
		tags = append(tags, match[1])
	}
	return tags
}

// removeTags removes +category and @priority tags from text for a clean title
func removeTags(text string) string {
	re := regexp.MustCompile(`\s*[+@]\w+\s*`)
	return strings.TrimSpace(re.ReplaceAllString(text, " "))
}
