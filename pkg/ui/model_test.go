package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskdesk/pkg/commands"
	"taskdesk/pkg/config"
	"taskdesk/pkg/models"
	"taskdesk/pkg/repository"
	"taskdesk/pkg/storage"
)

// newTestModel builds a model over an empty data dir with a fixed clock,
// after seed has populated the repository
func newTestModel(t *testing.T, seed func(r *repository.Repository)) Model {
	t.Helper()

	store, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}

	n := 0
	repo := repository.New(
		repository.WithClock(func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC) }),
		repository.WithIDGenerator(func() string { n++; return fmt.Sprintf("t%d", n) }),
	)
	session := commands.NewSession(store, repo)
	if seed != nil {
		seed(repo)
	}

	cfg := config.Config{DataDir: store.Dir()}
	return NewModel(session, cfg, config.DefaultStyles())
}

func mustDate(t *testing.T, s string) *models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return &d
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds key messages through Update
func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m = press(m, runes(string(r)))
	}
	return m
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
	spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func seedWork(r *repository.Repository) {
	if _, err := r.AddCategory("Work"); err != nil {
		panic(err)
	}
}

func TestAddCategoryFromPrompt(t *testing.T) {
	m := newTestModel(t, nil)

	m = press(m, tabKey)
	if m.tab != CategoriesTab {
		t.Fatalf("Expected categories tab, got %s", m.tab)
	}

	m = press(m, runes("a"))
	if m.mode != NamePromptMode {
		t.Fatalf("Expected name prompt, got mode %d", m.mode)
	}
	m = typeText(m, "Work")
	m = press(m, enterKey)

	if m.mode != NormalMode {
		t.Errorf("Expected prompt to close, got mode %d", m.mode)
	}
	cats := m.session.Repo.Categories()
	if len(cats) != 1 || cats[0].Name != "Work" {
		t.Errorf("Expected [Work], got %v", cats)
	}
	if !m.dirty {
		t.Error("Expected unsaved changes after adding a category")
	}
	if len(m.rowKeys) != 1 || m.rowKeys[0] != "Work" {
		t.Errorf("Expected table row for Work, got %v", m.rowKeys)
	}
}

func TestDuplicateCategoryKeepsPromptOpen(t *testing.T) {
	m := newTestModel(t, seedWork)

	m = press(m, tabKey, runes("a"))
	m = typeText(m, "Work")
	m = press(m, enterKey)

	if m.mode != NamePromptMode {
		t.Errorf("Expected prompt to stay open, got mode %d", m.mode)
	}
	if !errors.Is(m.err, repository.ErrDuplicateCategory) {
		t.Errorf("Expected ErrDuplicateCategory, got %v", m.err)
	}
}

func TestAddTaskFromForm(t *testing.T) {
	m := newTestModel(t, seedWork)

	m = press(m, runes("a"))
	if m.mode != TaskFormMode {
		t.Fatalf("Expected task form, got mode %d", m.mode)
	}
	m = typeText(m, "Write report")
	// description, category, priority, status, deadline
	m = press(m, enterKey, enterKey, enterKey, enterKey, enterKey)
	m = typeText(m, "2025-06-01")
	m = press(m, enterKey)

	if m.mode != NormalMode {
		t.Fatalf("Expected form to close, got mode %d (err %v)", m.mode, m.err)
	}
	tasks := m.session.Repo.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.Title != "Write report" || got.Category != "Work" || !got.Priority.IsDefault() {
		t.Errorf("Unexpected task: %+v", got)
	}
	// Deadline before today
	if got.Status != models.StatusDelayed {
		t.Errorf("Expected Delayed, got %s", got.Status)
	}
}

func TestDeleteDefaultPriorityTaskRejected(t *testing.T) {
	m := newTestModel(t, func(r *repository.Repository) {
		seedWork(r)
		if _, err := r.CreateTask(repository.TaskInput{Title: "Keep me", Category: "Work"}); err != nil {
			panic(err)
		}
	})

	m = press(m, runes("d"))

	if m.mode != NormalMode {
		t.Errorf("Expected no confirmation, got mode %d", m.mode)
	}
	if !errors.Is(m.err, repository.ErrDefaultPriorityTask) {
		t.Errorf("Expected ErrDefaultPriorityTask, got %v", m.err)
	}
	if len(m.session.Repo.Tasks()) != 1 {
		t.Error("Expected task to remain")
	}
}

func TestDeleteTaskWithConfirmation(t *testing.T) {
	m := newTestModel(t, func(r *repository.Repository) {
		seedWork(r)
		if _, err := r.AddPriority("High"); err != nil {
			panic(err)
		}
		if _, err := r.CreateTask(repository.TaskInput{Title: "Drop me", Category: "Work", Priority: "High"}); err != nil {
			panic(err)
		}
	})

	m = press(m, runes("d"))
	if m.mode != DeleteConfirmMode {
		t.Fatalf("Expected confirmation, got mode %d (err %v)", m.mode, m.err)
	}
	m = press(m, runes("y"))

	if len(m.session.Repo.Tasks()) != 0 {
		t.Error("Expected task to be deleted")
	}
}

func TestCycleStatus(t *testing.T) {
	m := newTestModel(t, func(r *repository.Repository) {
		seedWork(r)
		if _, err := r.CreateTask(repository.TaskInput{Title: "Task", Category: "Work"}); err != nil {
			panic(err)
		}
	})

	m = press(m, spaceKey)

	task, err := m.session.Repo.Task("t1")
	if err != nil {
		t.Fatalf("Task lookup failed: %v", err)
	}
	if task.Status != models.StatusInProgress {
		t.Errorf("Expected In Progress, got %s", task.Status)
	}
}

func TestBlankReminderClosesSilently(t *testing.T) {
	m := newTestModel(t, func(r *repository.Repository) {
		seedWork(r)
		if _, err := r.CreateTask(repository.TaskInput{Title: "Task", Category: "Work", Deadline: mustDate(t, "2025-06-20")}); err != nil {
			panic(err)
		}
	})

	m = press(m, runes("r"))
	if m.mode != ReminderFormMode {
		t.Fatalf("Expected reminder form, got mode %d (err %v)", m.mode, m.err)
	}
	m = press(m, enterKey, enterKey, enterKey)

	if m.mode != NormalMode || m.err != nil {
		t.Errorf("Expected silent close, got mode %d err %v", m.mode, m.err)
	}
	if len(m.session.Repo.Reminders()) != 0 {
		t.Error("Expected no reminder")
	}
}

func TestReminderNeedsDeadline(t *testing.T) {
	m := newTestModel(t, func(r *repository.Repository) {
		seedWork(r)
		if _, err := r.CreateTask(repository.TaskInput{Title: "Task", Category: "Work"}); err != nil {
			panic(err)
		}
	})

	m = press(m, runes("r"))

	if m.mode != NormalMode {
		t.Errorf("Expected form to stay closed, got mode %d", m.mode)
	}
	if !errors.Is(m.err, repository.ErrNoDeadline) {
		t.Errorf("Expected ErrNoDeadline, got %v", m.err)
	}
}

func TestDueRemindersShownAtStartup(t *testing.T) {
	m := newTestModel(t, func(r *repository.Repository) {
		seedWork(r)
		task, err := r.CreateTask(repository.TaskInput{Title: "Task", Category: "Work", Deadline: mustDate(t, "2025-06-11")})
		if err != nil {
			panic(err)
		}
		if _, err := r.AddReminder(repository.ReminderInput{TaskID: task.ID, Name: "Prepare", Type: models.ReminderDayBefore}); err != nil {
			panic(err)
		}
	})

	if m.mode != NotificationMode {
		t.Fatalf("Expected notification, got mode %d", m.mode)
	}
	if !strings.Contains(m.View(), "Prepare") {
		t.Error("Expected reminder name in the notification")
	}

	m = press(m, runes("x"))
	if m.mode != NormalMode {
		t.Errorf("Expected any key to dismiss, got mode %d", m.mode)
	}
}

func TestQuitPromptsOnUnsavedChanges(t *testing.T) {
	m := newTestModel(t, nil)

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("Expected quit without changes")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}

	m = press(m, tabKey, runes("a"))
	m = typeText(m, "Home")
	m = press(m, enterKey, runes("q"))
	if m.mode != QuitPromptMode {
		t.Fatalf("Expected quit prompt, got mode %d", m.mode)
	}

	m = press(m, escKey)
	if m.mode != NormalMode {
		t.Errorf("Expected esc to cancel, got mode %d", m.mode)
	}

	m = press(m, runes("q"))
	next, cmd := m.Update(runes("s"))
	m = next.(Model)
	if m.dirty {
		t.Error("Expected changes saved")
	}
	if cmd == nil {
		t.Error("Expected quit after saving")
	}
}

func TestGroupedTableKeepsRowKeysAligned(t *testing.T) {
	m := newTestModel(t, func(r *repository.Repository) {
		seedWork(r)
		if _, err := r.AddCategory("Home"); err != nil {
			panic(err)
		}
		for _, in := range []repository.TaskInput{
			{Title: "A", Category: "Work"},
			{Title: "B", Category: "Home"},
			{Title: "C", Category: "Work"},
		} {
			if _, err := r.CreateTask(in); err != nil {
				panic(err)
			}
		}
	})

	m = press(m, runes("g"))

	rows := m.table.Rows()
	if len(rows) != len(m.rowKeys) {
		t.Fatalf("Expected %d row keys, got %d", len(rows), len(m.rowKeys))
	}
	headers := 0
	for _, k := range m.rowKeys {
		if k == "" {
			headers++
		}
	}
	if headers != 2 {
		t.Errorf("Expected 2 group headers, got %d", headers)
	}
	_ = m.View()
}

func TestRenameDefaultPriorityChangesNothing(t *testing.T) {
	m := newTestModel(t, nil)

	m = press(m, tabKey, tabKey)
	if m.tab != PrioritiesTab || m.selectedKey() != models.DefaultPriorityName {
		t.Fatalf("Expected Default selected on the priorities tab, got %s/%q", m.tab, m.selectedKey())
	}
	m = press(m, runes("e"))
	m = typeText(m, "Top")
	m = press(m, enterKey)

	if m.mode != NormalMode {
		t.Errorf("Expected prompt to close, got mode %d", m.mode)
	}
	if m.dirty {
		t.Error("Expected no unsaved changes")
	}
	if !strings.Contains(m.message, "cannot be renamed") {
		t.Errorf("Expected a no-op notice, got %q", m.message)
	}
	if got := m.session.Repo.Priorities(); len(got) != 0 {
		t.Errorf("Expected no user priorities, got %v", got)
	}
}
