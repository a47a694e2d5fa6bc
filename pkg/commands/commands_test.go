package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskdesk/pkg/database"
	"taskdesk/pkg/models"
	"taskdesk/pkg/repository"
	"taskdesk/pkg/storage"
)

var testNow = time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	*Session
	out *bytes.Buffer
	dir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	store, err := storage.Open(dir)
	if err != nil {
		t.Fatalf("storage.Open failed: %v", err)
	}
	seq := 0
	repo := repository.New(
		repository.WithClock(func() time.Time { return testNow }),
		repository.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("task%04d", seq)
		}),
	)
	s := NewSession(store, repo)
	out := &bytes.Buffer{}
	s.Out = out
	s.In = strings.NewReader("")

	for _, c := range []string{"Work", "Home"} {
		if _, err := repo.AddCategory(c); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := repo.AddPriority("High"); err != nil {
		t.Fatal(err)
	}
	return &testEnv{Session: s, out: out, dir: dir}
}

// reload reads the saved files into a fresh repository
func (e *testEnv) reload(t *testing.T) *repository.Repository {
	t.Helper()
	store, err := storage.Open(e.dir)
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.New(repository.WithClock(func() time.Time { return testNow }))
	repo.Restore(store.LoadAll())
	return repo
}

func TestHandleAddTask(t *testing.T) {
	env := newTestEnv(t)

	err := HandleAddTask(env.Session, AddOptions{Title: "Write report +Work @High", Deadline: "2025-06-12"})
	if err != nil {
		t.Fatalf("HandleAddTask failed: %v", err)
	}

	tasks := env.reload(t).Tasks()
	if len(tasks) != 1 {
		t.Fatalf("Expected 1 saved task, got %d", len(tasks))
	}
	task := tasks[0]
	if task.Title != "Write report" || task.Category != "Work" || task.Priority.Name != "High" {
		t.Errorf("Unexpected task: %+v", task)
	}
	if task.Deadline == nil || task.Deadline.String() != "2025-06-12" {
		t.Errorf("Expected deadline 2025-06-12, got %v", task.Deadline)
	}
	if !strings.Contains(env.out.String(), "Task added") {
		t.Errorf("Expected confirmation output, got %q", env.out.String())
	}
}

func TestHandleAddTask_Rejections(t *testing.T) {
	env := newTestEnv(t)

	if err := HandleAddTask(env.Session, AddOptions{Title: "No category"}); !errors.Is(err, repository.ErrMissingFields) {
		t.Errorf("Expected ErrMissingFields, got %v", err)
	}
	if err := HandleAddTask(env.Session, AddOptions{Title: "Bad date", Category: "Work", Deadline: "12.06.2025"}); err == nil {
		t.Error("Expected date parse error")
	}
	if n := len(env.Repo.Tasks()); n != 0 {
		t.Errorf("Expected no tasks, got %d", n)
	}
}

func TestHandleListTasks(t *testing.T) {
	env := newTestEnv(t)
	mustAdd(t, env, AddOptions{Title: "Report", Category: "Work", Deadline: "2025-06-11"})
	mustAdd(t, env, AddOptions{Title: "Dishes", Category: "Home"})
	env.out.Reset()

	if err := HandleListTasks(env.Session, ListOptions{Category: "Work"}); err != nil {
		t.Fatalf("HandleListTasks failed: %v", err)
	}
	out := env.out.String()
	if !strings.Contains(out, "Report") || strings.Contains(out, "Dishes") {
		t.Errorf("Expected only Work tasks, got:\n%s", out)
	}
	// Cells are printed whole, including the id used by status and delete
	for _, want := range []string{"task0001", "Category", "2025-06-11"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in listing:\n%s", want, out)
		}
	}

	env.out.Reset()
	if err := HandleListTasks(env.Session, ListOptions{Search: "nothing"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.out.String(), "No tasks found.") {
		t.Errorf("Expected empty message, got %q", env.out.String())
	}

	env.out.Reset()
	if err := HandleListTasks(env.Session, ListOptions{DueSoon: true}); err != nil {
		t.Fatal(err)
	}
	if out := env.out.String(); !strings.Contains(out, "Report") || strings.Contains(out, "Dishes") {
		t.Errorf("Expected only the dated task in due soon, got:\n%s", out)
	}
}

func TestNewSession_KeepsAssignedIDsAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"tasks.json":      `[{"title": "Pay rent", "description": "", "category": "Home", "priority": {"name": "High"}, "deadline": "2030-01-01", "status": {"name": "Open"}}]`,
		"categories.json": `[{"name": "Home"}]`,
		"priorities.json": `[{"name": "High"}]`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	open := func() *Session {
		store, err := storage.Open(dir)
		if err != nil {
			t.Fatal(err)
		}
		s := NewSession(store, repository.New(repository.WithClock(func() time.Time { return testNow })))
		s.Out = &bytes.Buffer{}
		s.In = strings.NewReader("")
		return s
	}

	// First run only reads, as list does
	first := open()
	if err := HandleListTasks(first, ListOptions{}); err != nil {
		t.Fatal(err)
	}
	id := first.Repo.Tasks()[0].ID
	if !strings.Contains(first.Out.(*bytes.Buffer).String(), shortID(id)) {
		t.Fatalf("Expected listed id %s", shortID(id))
	}

	second := open()
	if got := second.Repo.AssignedIDs(); got != 0 {
		t.Errorf("Expected no new ids on the second run, got %d", got)
	}
	if err := HandleDeleteTask(second, shortID(id), true); err != nil {
		t.Fatalf("Expected delete by listed id to work, got %v", err)
	}
	if n := len(second.Repo.Tasks()); n != 0 {
		t.Errorf("Expected task deleted, %d left", n)
	}
}

func TestHandleStats(t *testing.T) {
	env := newTestEnv(t)
	mustAdd(t, env, AddOptions{Title: "Late", Category: "Work", Deadline: "2025-06-01"})
	mustAdd(t, env, AddOptions{Title: "Done", Category: "Work", Status: "Completed"})
	env.out.Reset()

	if err := HandleStats(env.Session); err != nil {
		t.Fatal(err)
	}
	want := "Total: 2\nCompleted: 1\nDelayed: 1\nDue soon: 0\n"
	if env.out.String() != want {
		t.Errorf("Expected %q, got %q", want, env.out.String())
	}
}

func TestHandleSetStatus(t *testing.T) {
	env := newTestEnv(t)
	mustAdd(t, env, AddOptions{Title: "Report", Category: "Work"})

	if err := HandleSetStatus(env.Session, "task0001", "In Progress"); err != nil {
		t.Fatalf("HandleSetStatus failed: %v", err)
	}
	if got := env.reload(t).Tasks()[0].Status; got != models.StatusInProgress {
		t.Errorf("Expected In Progress, got %s", got)
	}
	if err := HandleSetStatus(env.Session, "task0001", "Done"); err == nil {
		t.Error("Expected error for unknown status")
	}
	if err := HandleSetStatus(env.Session, "nope", "Open"); !errors.Is(err, repository.ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
}

func TestResolveTask_Prefix(t *testing.T) {
	env := newTestEnv(t)
	mustAdd(t, env, AddOptions{Title: "One", Category: "Work"})
	mustAdd(t, env, AddOptions{Title: "Two", Category: "Work"})

	task, err := env.resolveTask("task0002")
	if err != nil || task.Title != "Two" {
		t.Errorf("Expected exact match Two, got %v %v", task.Title, err)
	}
	if _, err := env.resolveTask("task"); err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("Expected ambiguous error, got %v", err)
	}
}

func TestHandleDeleteTask(t *testing.T) {
	env := newTestEnv(t)
	mustAdd(t, env, AddOptions{Title: "Plain", Category: "Work"})
	mustAdd(t, env, AddOptions{Title: "Important", Category: "Work", Priority: "High"})

	if err := HandleDeleteTask(env.Session, "task0001", true); !errors.Is(err, repository.ErrDefaultPriorityTask) {
		t.Errorf("Expected ErrDefaultPriorityTask, got %v", err)
	}

	// Rejected before the confirmation prompt
	env.In = strings.NewReader("y\n")
	env.out.Reset()
	if err := HandleDeleteTask(env.Session, "task0001", false); !errors.Is(err, repository.ErrDefaultPriorityTask) {
		t.Errorf("Expected ErrDefaultPriorityTask, got %v", err)
	}
	if strings.Contains(env.out.String(), "(y/N)") {
		t.Errorf("Expected no prompt for a Default-priority task, got %q", env.out.String())
	}

	// Declined confirmation keeps the task
	env.In = strings.NewReader("n\n")
	if err := HandleDeleteTask(env.Session, "task0002", false); err != nil {
		t.Fatal(err)
	}
	if n := len(env.Repo.Tasks()); n != 2 {
		t.Errorf("Expected 2 tasks after cancel, got %d", n)
	}

	env.In = strings.NewReader("y\n")
	if err := HandleDeleteTask(env.Session, "task0002", false); err != nil {
		t.Fatalf("HandleDeleteTask failed: %v", err)
	}
	if n := len(env.reload(t).Tasks()); n != 1 {
		t.Errorf("Expected 1 saved task, got %d", n)
	}
}

func TestCategoryCommands(t *testing.T) {
	env := newTestEnv(t)
	mustAdd(t, env, AddOptions{Title: "Report", Category: "Work", Deadline: "2025-06-20"})
	if err := HandleAddReminder(env.Session, ReminderOptions{TaskRef: "task0001", Name: "prep", Type: "week"}); err != nil {
		t.Fatal(err)
	}

	if err := HandleAddCategory(env.Session, "Work"); !errors.Is(err, repository.ErrDuplicateCategory) {
		t.Errorf("Expected ErrDuplicateCategory, got %v", err)
	}
	if err := HandleRenameCategory(env.Session, "Work", "Job"); err != nil {
		t.Fatalf("HandleRenameCategory failed: %v", err)
	}
	if err := HandleDeleteCategory(env.Session, "Job", true); err != nil {
		t.Fatalf("HandleDeleteCategory failed: %v", err)
	}

	repo := env.reload(t)
	if len(repo.Tasks()) != 0 || len(repo.Reminders()) != 0 {
		t.Errorf("Expected cascade to remove tasks and reminders, got %d/%d", len(repo.Tasks()), len(repo.Reminders()))
	}
	if cats := repo.Categories(); len(cats) != 1 || cats[0].Name != "Home" {
		t.Errorf("Unexpected categories: %v", cats)
	}

	env.out.Reset()
	if err := HandleListCategories(env.Session); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.out.String(), "Home") {
		t.Errorf("Expected Home in listing, got %q", env.out.String())
	}
}

func TestPriorityCommands(t *testing.T) {
	env := newTestEnv(t)

	if err := HandleDeletePriority(env.Session, "Default", true); !errors.Is(err, repository.ErrDefaultPriority) {
		t.Errorf("Expected ErrDefaultPriority, got %v", err)
	}
	if err := HandleAddPriority(env.Session, "Low"); err != nil {
		t.Fatal(err)
	}
	if err := HandleRenamePriority(env.Session, "Low", "Later"); err != nil {
		t.Fatal(err)
	}

	env.out.Reset()
	if err := HandleRenamePriority(env.Session, "Default", "Whatever"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(env.out.String(), "nothing changed") {
		t.Errorf("Expected a no-op notice, got %q", env.out.String())
	}
	if strings.Contains(env.out.String(), "renamed") {
		t.Errorf("Expected no rename message, got %q", env.out.String())
	}
	for _, p := range env.reload(t).PriorityChoices() {
		if p.Name == "Whatever" {
			t.Error("Expected Default to keep its name")
		}
	}

	env.out.Reset()
	if err := HandleListPriorities(env.Session); err != nil {
		t.Fatal(err)
	}
	out := env.out.String()
	for _, name := range []string{"Default", "High", "Later"} {
		if !strings.Contains(out, name) {
			t.Errorf("Expected %s in listing:\n%s", name, out)
		}
	}
}

func TestReminderCommands(t *testing.T) {
	env := newTestEnv(t)
	mustAdd(t, env, AddOptions{Title: "Launch", Category: "Work", Deadline: "2025-06-10"})

	if err := HandleAddReminder(env.Session, ReminderOptions{TaskRef: "task0001", Name: "prep", Type: "week"}); err != nil {
		t.Fatalf("HandleAddReminder failed: %v", err)
	}
	if err := HandleAddReminder(env.Session, ReminderOptions{TaskRef: "task0001", Name: "today", Date: "2025-06-10"}); err != nil {
		t.Fatalf("HandleAddReminder with date failed: %v", err)
	}
	rems := env.reload(t).Reminders()
	if len(rems) != 2 || rems[0].Date.String() != "2025-06-03" || rems[1].Type != models.ReminderCustom {
		t.Fatalf("Unexpected reminders: %+v", rems)
	}

	var notes bytes.Buffer
	if n := NotifyDueReminders(&notes, env.Repo); n != 1 || !strings.Contains(notes.String(), "Reminder: today") {
		t.Errorf("Expected one notification, got %d: %q", n, notes.String())
	}

	if err := HandleRenameReminder(env.Session, 1, "prepare"); err != nil {
		t.Fatal(err)
	}
	if err := HandleDeleteReminder(env.Session, 2); err != nil {
		t.Fatal(err)
	}
	if err := HandleDeleteReminder(env.Session, 5); !errors.Is(err, repository.ErrReminderNotFound) {
		t.Errorf("Expected ErrReminderNotFound, got %v", err)
	}
	rems = env.reload(t).Reminders()
	if len(rems) != 1 || rems[0].Name != "prepare" {
		t.Errorf("Unexpected reminders after edits: %+v", rems)
	}
}

func TestHandlePurge(t *testing.T) {
	env := newTestEnv(t)
	mustAdd(t, env, AddOptions{Title: "A", Category: "Work", Priority: "High", Status: "Completed"})
	mustAdd(t, env, AddOptions{Title: "B", Category: "Work", Priority: "High"})
	mustAdd(t, env, AddOptions{Title: "C", Category: "Work", Status: "Completed"})

	if err := HandlePurge(env.Session, PurgeOptions{Status: "Completed"}, true); err != nil {
		t.Fatalf("HandlePurge failed: %v", err)
	}
	var titles []string
	for _, task := range env.reload(t).Tasks() {
		titles = append(titles, task.Title)
	}
	if strings.Join(titles, ",") != "B,C" {
		t.Errorf("Expected B and C to remain, got %v", titles)
	}
	if !strings.Contains(env.out.String(), "Kept 1 task(s) with the Default priority") {
		t.Errorf("Expected kept notice, got %q", env.out.String())
	}
}

func TestImportExport_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	input := filepath.Join(t.TempDir(), "tasks.txt")
	text := "Inbox item\n- [ ] Buy milk\n\n10.06.2025:\n- [x] Pay rent +Home\n- [ ] Ship release +Work @Urgent\n\n2025-06-20:\n- Plan trip +Travel\n"
	if err := os.WriteFile(input, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	if err := HandleImportCommand(env.Session, input, "Work"); err != nil {
		t.Fatalf("HandleImportCommand failed: %v", err)
	}
	tasks := env.Repo.Tasks()
	if len(tasks) != 4 {
		t.Fatalf("Expected 4 imported tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "Buy milk" || tasks[0].HasDeadline() || tasks[0].Category != "Work" {
		t.Errorf("Unexpected first task: %+v", tasks[0])
	}
	if tasks[1].Status != models.StatusCompleted || tasks[1].Deadline.String() != "2025-06-10" {
		t.Errorf("Unexpected second task: %+v", tasks[1])
	}
	if tasks[2].Priority.Name != "Urgent" {
		t.Errorf("Expected priority Urgent to be created, got %s", tasks[2].Priority)
	}
	if tasks[3].Category != "Travel" || tasks[3].Deadline.String() != "2025-06-20" {
		t.Errorf("Unexpected last task: %+v", tasks[3])
	}

	out := filepath.Join(t.TempDir(), "export", "tasks.txt")
	if err := HandleExportCommand(env.Session, out, "txt"); err != nil {
		t.Fatalf("HandleExportCommand failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "- [ ] Buy milk +Work\n\n10.06.2025:\n- [x] Pay rent +Home\n- [ ] Ship release +Work @Urgent\n\n20.06.2025:\n- [ ] Plan trip +Travel\n"
	if string(data) != want {
		t.Errorf("Unexpected export:\n%s\nwant:\n%s", data, want)
	}
}

func TestHandleExportCommand_Formats(t *testing.T) {
	env := newTestEnv(t)
	mustAdd(t, env, AddOptions{Title: "Launch", Category: "Work", Deadline: "2025-06-20"})
	if err := HandleAddReminder(env.Session, ReminderOptions{TaskRef: "task0001", Name: "prep", Type: "week"}); err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	tests := []struct {
		format string
		want   []string
	}{
		{"json", []string{`"title": "Launch"`, `"reminderDate": "2025-06-13"`, `"dueSoon": 0`}},
		{"yaml", []string{"title: Launch", "deadline: \"2025-06-20\"", "reminderDate: \"2025-06-13\""}},
		{"ics", []string{"BEGIN:VCALENDAR", "SUMMARY:Launch", "DTSTART;VALUE=DATE:20250620", "TRIGGER:-P7D"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			path := filepath.Join(dir, "out."+tt.format)
			if err := HandleExportCommand(env.Session, path, tt.format); err != nil {
				t.Fatalf("HandleExportCommand failed: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			for _, w := range tt.want {
				if !strings.Contains(string(data), w) {
					t.Errorf("Expected %q in %s export:\n%s", w, tt.format, data)
				}
			}
		})
	}

	if err := HandleExportCommand(env.Session, filepath.Join(dir, "out.csv"), "csv"); err == nil {
		t.Error("Expected error for unknown export type")
	}
}

func TestHandleExportCommand_SQLite(t *testing.T) {
	env := newTestEnv(t)
	mustAdd(t, env, AddOptions{Title: "Launch", Category: "Work", Priority: "High", Deadline: "2025-06-20"})
	mustAdd(t, env, AddOptions{Title: "Tidy", Category: "Home"})

	path := filepath.Join(t.TempDir(), "tasks.db")
	// Exporting twice replaces the contents
	for i := 0; i < 2; i++ {
		if err := HandleExportCommand(env.Session, path, "sqlite"); err != nil {
			t.Fatalf("HandleExportCommand failed: %v", err)
		}
	}

	db, err := database.ConnectDB(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	tasks, err := database.LoadTasks(db)
	if err != nil {
		t.Fatalf("LoadTasks failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "Launch" || tasks[0].Priority.Name != "High" || tasks[0].Deadline.String() != "2025-06-20" {
		t.Errorf("Unexpected first task: %+v", tasks[0])
	}
	if tasks[1].HasDeadline() || !tasks[1].Priority.IsDefault() {
		t.Errorf("Unexpected second task: %+v", tasks[1])
	}
}

func mustAdd(t *testing.T, env *testEnv, opts AddOptions) {
	t.Helper()
	if err := HandleAddTask(env.Session, opts); err != nil {
		t.Fatalf("HandleAddTask(%s) failed: %v", opts.Title, err)
	}
}
