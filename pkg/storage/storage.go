package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"

	"taskdesk/pkg/models"
	"taskdesk/pkg/utils"
)

// Kind names one persisted collection; the file is <dir>/<kind>.json
type Kind string

const (
	TasksKind      Kind = "tasks"
	CategoriesKind Kind = "categories"
	PrioritiesKind Kind = "priorities"
	RemindersKind  Kind = "reminders"
)

// Kinds lists every persisted collection
var Kinds = []Kind{TasksKind, CategoriesKind, PrioritiesKind, RemindersKind}

// Store reads and writes whole collections under one directory
type Store struct {
	dir string
}

// Open returns a store rooted at dir, creating the directory if needed
func Open(dir string) (*Store, error) {
	// Expand tilde to home directory if present
	if strings.HasPrefix(dir, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = homeDir + dir[1:]
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Dir returns the data directory
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file backing a kind
func (s *Store) Path(kind Kind) string {
	return filepath.Join(s.dir, string(kind)+".json")
}

// Save writes the full collection for kind, replacing any previous file.
// The data lands in a temp file first and is renamed into place, so a
// crash mid-write leaves the old file intact.
func Save[T any](s *Store, kind Kind, items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		utils.Log("Error encoding %s: %v", kind, err)
		return fmt.Errorf("failed to encode %s: %w", kind, err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		utils.Log("Error creating %s: %v", s.dir, err)
		return fmt.Errorf("failed to create directory: %w", err)
	}

	path := s.Path(kind)
	if err := renameio.WriteFile(path, data, 0644); err != nil {
		utils.Log("Error saving data to %s: %v", path, err)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	utils.Log("Saved %d %s to %s", len(items), kind, path)
	return nil
}

// Load reads the collection for kind. A missing, empty or unreadable file
// is logged and yields an empty collection.
func Load[T any](s *Store, kind Kind) []T {
	path := s.Path(kind)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		utils.Log("No saved data found in %s", path)
		return []T{}
	}
	if err != nil {
		utils.Log("Error reading %s: %v", path, err)
		return []T{}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		utils.Log("Error parsing %s: %v", path, err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}

	utils.Log("Loaded %d %s from %s", len(items), kind, path)
	return items
}

// Snapshot holds all four collections
type Snapshot struct {
	Tasks      []models.Task
	Categories []models.Category
	Priorities []models.Priority
	Reminders  []models.Reminder
}

// LoadAll reads every collection
func (s *Store) LoadAll() Snapshot {
	return Snapshot{
		Tasks:      Load[models.Task](s, TasksKind),
		Categories: Load[models.Category](s, CategoriesKind),
		Priorities: Load[models.Priority](s, PrioritiesKind),
		Reminders:  Load[models.Reminder](s, RemindersKind),
	}
}

// SaveAll writes every collection. All four writes are attempted; the
// first failure is returned.
func (s *Store) SaveAll(snap Snapshot) error {
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	record(Save(s, TasksKind, snap.Tasks))
	record(Save(s, CategoriesKind, snap.Categories))
	record(Save(s, PrioritiesKind, snap.Priorities))
	record(Save(s, RemindersKind, snap.Reminders))

	return firstErr
}
