package database

import (
	"database/sql"
	"fmt"

	"taskdesk/pkg/models"
	"taskdesk/pkg/storage"
	"taskdesk/pkg/utils"
)

// WriteSnapshot replaces the database contents with snap in one transaction.
// Priorities include Default so every task row resolves.
func WriteSnapshot(db *sql.DB, snap storage.Snapshot) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"reminders", "tasks", "priorities", "categories"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("error clearing %s: %w", table, err)
		}
	}

	for _, c := range snap.Categories {
		if _, err := tx.Exec("INSERT INTO categories (name) VALUES (?)", c.Name); err != nil {
			return fmt.Errorf("error inserting category %q: %w", c.Name, err)
		}
	}

	priorities := append([]models.Priority{models.DefaultPriority()}, snap.Priorities...)
	for _, p := range priorities {
		if _, err := tx.Exec("INSERT OR IGNORE INTO priorities (name) VALUES (?)", p.Name); err != nil {
			return fmt.Errorf("error inserting priority %q: %w", p.Name, err)
		}
	}

	for _, t := range snap.Tasks {
		var deadline sql.NullString
		if t.HasDeadline() {
			deadline = sql.NullString{String: t.Deadline.String(), Valid: true}
		}
		_, err := tx.Exec(
			"INSERT INTO tasks (id, title, description, category, priority, deadline, status) VALUES (?, ?, ?, ?, ?, ?, ?)",
			t.ID, t.Title, t.Description, t.Category, t.Priority.Name, deadline, string(t.Status),
		)
		if err != nil {
			return fmt.Errorf("error inserting task %s: %w", t.ID, err)
		}
	}

	for i, r := range snap.Reminders {
		_, err := tx.Exec(
			"INSERT INTO reminders (position, name, task_id, reminder_date, type) VALUES (?, ?, ?, ?, ?)",
			i+1, r.Name, r.TaskID(), r.Date.String(), string(r.Type),
		)
		if err != nil {
			return fmt.Errorf("error inserting reminder %q: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	utils.Log("Wrote %d tasks and %d reminders to database", len(snap.Tasks), len(snap.Reminders))
	return nil
}

// LoadTasks reads the tasks back in insertion order
func LoadTasks(db *sql.DB) ([]models.Task, error) {
	rows, err := db.Query(`
		SELECT id, title, description, category, priority, deadline, status
		FROM tasks
		ORDER BY rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		var priority, status string
		var deadline sql.NullString

		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Category, &priority, &deadline, &status); err != nil {
			return nil, err
		}
		t.Priority = models.Priority{Name: priority}
		t.Status = models.Status(status)

		if deadline.Valid {
			d, err := models.ParseDate(deadline.String)
			if err != nil {
				return nil, fmt.Errorf("task %s: %w", t.ID, err)
			}
			t.Deadline = &d
		}
		tasks = append(tasks, t)
	}

	utils.Log("Loaded %d tasks from database", len(tasks))
	return tasks, rows.Err()
}
