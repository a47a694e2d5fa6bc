package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"taskdesk/pkg/models"
	"taskdesk/pkg/repository"
	"taskdesk/pkg/storage"
	"taskdesk/pkg/utils"
)

// Session is the state shared by every command of one run
type Session struct {
	Repo  *repository.Repository
	Store *storage.Store
	Out   io.Writer
	In    io.Reader
}

// NewSession loads and reconciles every collection from store
func NewSession(store *storage.Store, repo *repository.Repository) *Session {
	changed := repo.Restore(store.LoadAll())
	if changed > 0 {
		utils.Log("%d task(s) changed status on startup", changed)
	}
	s := &Session{
		Repo:  repo,
		Store: store,
		Out:   os.Stdout,
		In:    os.Stdin,
	}

	// New ids are saved right away so every later run sees the same ones
	if n := repo.AssignedIDs(); n > 0 {
		if err := s.Save(); err != nil {
			utils.Log("Failed to persist %d new task id(s): %v", n, err)
		} else {
			utils.Log("Persisted %d new task id(s)", n)
		}
	}
	return s
}

// Save writes all four collections
func (s *Session) Save() error {
	if err := s.Store.SaveAll(s.Repo.Snapshot()); err != nil {
		return fmt.Errorf("error saving data: %w", err)
	}
	return nil
}

func (s *Session) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.Out, format, args...)
}

// confirm asks a y/N question on In; anything but y or yes declines
func (s *Session) confirm(question string) bool {
	s.printf("%s (y/N): ", question)
	line, _ := bufio.NewReader(s.In).ReadString('\n')
	response := strings.ToLower(strings.TrimSpace(line))
	return response == "y" || response == "yes"
}

// resolveTask accepts a full task id or a unique prefix of one
func (s *Session) resolveTask(ref string) (models.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Task{}, repository.ErrNoSelection
	}
	if task, err := s.Repo.Task(ref); err == nil {
		return task, nil
	}

	var matches []models.Task
	for _, t := range s.Repo.Tasks() {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return models.Task{}, fmt.Errorf("%w: %s", repository.ErrTaskNotFound, ref)
	case 1:
		return matches[0], nil
	}
	return models.Task{}, fmt.Errorf("task id %q is ambiguous (%d matches)", ref, len(matches))
}

// NotifyDueReminders writes one line per reminder dated today
func NotifyDueReminders(w io.Writer, repo *repository.Repository) int {
	due := repo.DueToday()
	for _, rem := range due {
		fmt.Fprintf(w, "Reminder: %s (task %q, deadline %s)\n", rem.Name, rem.Task.Title, deadlineString(rem.Task))
	}
	return len(due)
}

// shortID is the id prefix shown in listings
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func deadlineString(t models.Task) string {
	if !t.HasDeadline() {
		return "-"
	}
	return t.Deadline.String()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			// Without a cell style the table truncates the last rune of each cell
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}
