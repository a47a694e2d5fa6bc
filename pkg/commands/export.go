package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"gopkg.in/yaml.v3"

	"taskdesk/pkg/database"
	"taskdesk/pkg/models"
	"taskdesk/pkg/storage"
	"taskdesk/pkg/views"
)

// ExportTypes lists the supported export formats
var ExportTypes = []string{"json", "yaml", "txt", "ics", "sqlite"}

// exportDocument is the json and yaml export layout
type exportDocument struct {
	ExportedAt string            `json:"exportedAt" yaml:"exportedAt"`
	Counters   views.Counters    `json:"counters" yaml:"counters"`
	Tasks      []models.Task     `json:"tasks" yaml:"tasks"`
	Categories []models.Category `json:"categories" yaml:"categories"`
	Priorities []models.Priority `json:"priorities" yaml:"priorities"`
	Reminders  []models.Reminder `json:"reminders" yaml:"reminders"`
}

// HandleExportCommand writes every task to filename in the given format
func HandleExportCommand(s *Session, filename, exportType string) error {
	snap := s.Repo.Snapshot()

	var content []byte
	var err error

	switch exportType {
	case "json", "yaml":
		doc := exportDocument{
			ExportedAt: s.Repo.Today().String(),
			Counters:   s.Repo.Counters(),
			Tasks:      snap.Tasks,
			Categories: snap.Categories,
			Priorities: s.Repo.PriorityChoices(),
			Reminders:  snap.Reminders,
		}
		if exportType == "json" {
			content, err = json.MarshalIndent(doc, "", "  ")
		} else {
			content, err = yaml.Marshal(doc)
		}
		if err != nil {
			return fmt.Errorf("error marshaling tasks to %s: %w", exportType, err)
		}
	case "txt":
		content = []byte(checklistText(snap.Tasks))
	case "ics":
		content = []byte(calendarText(snap.Tasks, snap.Reminders))
	case "sqlite":
		if err := exportDatabase(filename, snap); err != nil {
			return err
		}
		s.printf("Successfully exported %d task(s) to %s\n", len(snap.Tasks), filename)
		return nil
	default:
		return fmt.Errorf("unknown export type: %s (valid: %s)", exportType, strings.Join(ExportTypes, ", "))
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	if err := os.WriteFile(filename, content, 0644); err != nil {
		return fmt.Errorf("error writing file: %w", err)
	}

	s.printf("Successfully exported %d task(s) to %s\n", len(snap.Tasks), filename)
	return nil
}

// checklistText renders tasks in the format read by import, grouped by
// deadline. Undated tasks come first, without a date line.
func checklistText(tasks []models.Task) string {
	sorted := views.SortTasks(tasks, views.SortByDeadline, views.SortAsc)

	var undated, dated []string
	var lastDate string
	for _, task := range sorted {
		status := " "
		if task.Status == models.StatusCompleted {
			status = "x"
		}
		line := fmt.Sprintf("- [%s] %s", status, taggedTitle(task))

		if !task.HasDeadline() {
			undated = append(undated, line)
			continue
		}
		dateStr := task.Deadline.Time().Format("02.01.2006")
		if dateStr != lastDate {
			dated = append(dated, fmt.Sprintf("\n%s:", dateStr))
			lastDate = dateStr
		}
		dated = append(dated, line)
	}

	return strings.TrimSpace(strings.Join(append(undated, dated...), "\n")) + "\n"
}

// taggedTitle appends +category and @priority tags when the names are single words
func taggedTitle(task models.Task) string {
	title := task.Title
	if task.Category != "" && !strings.ContainsAny(task.Category, " \t") {
		title += " +" + task.Category
	}
	if !task.Priority.IsDefault() && !strings.ContainsAny(task.Priority.Name, " \t") {
		title += " @" + task.Priority.Name
	}
	return title
}

// calendarText renders one all-day event per task deadline, with an alarm
// for each of the task's reminders
func calendarText(tasks []models.Task, reminders []models.Reminder) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//taskdesk//Task Export//EN")

	stamp := time.Now().UTC()
	for _, task := range tasks {
		if !task.HasDeadline() {
			continue
		}
		event := cal.AddEvent(task.ID + "@taskdesk")
		event.SetDtStampTime(stamp)
		event.SetAllDayStartAt(task.Deadline.Time())
		event.SetAllDayEndAt(task.Deadline.AddDays(1).Time())
		event.SetSummary(task.Title)
		event.SetDescription(fmt.Sprintf("%s\nStatus: %s\nPriority: %s", task.Description, task.Status, task.Priority))
		if task.Category != "" {
			event.AddCategory(task.Category)
		}

		for _, rem := range reminders {
			if rem.TaskID() != task.ID {
				continue
			}
			alarm := event.AddAlarm()
			alarm.SetAction(ics.ActionDisplay)
			alarm.SetTrigger(alarmTrigger(*task.Deadline, rem.Date))
			alarm.SetProperty(ics.ComponentPropertyDescription, rem.Name)
		}
	}

	return cal.Serialize()
}

// alarmTrigger is the offset from the deadline to the reminder day, in days
func alarmTrigger(deadline, reminder models.Date) string {
	days := int(deadline.Time().Sub(reminder.Time()).Hours() / 24)
	if days >= 0 {
		return fmt.Sprintf("-P%dD", days)
	}
	return fmt.Sprintf("P%dD", -days)
}

// exportDatabase mirrors snap into the SQLite database at filename
func exportDatabase(filename string, snap storage.Snapshot) error {
	db, err := database.ConnectDB(filename)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(db); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}
	if err := database.WriteSnapshot(db, snap); err != nil {
		return fmt.Errorf("error writing database: %w", err)
	}

	// Read back to confirm every task landed
	written, err := database.LoadTasks(db)
	if err != nil {
		return fmt.Errorf("error verifying database: %w", err)
	}
	if len(written) != len(snap.Tasks) {
		return fmt.Errorf("error verifying database: wrote %d task(s), read back %d", len(snap.Tasks), len(written))
	}
	return nil
}
