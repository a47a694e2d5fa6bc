package views

import (
	"sort"
	"strings"

	"taskdesk/pkg/models"
)

// SortBy represents the field tasks are ordered by
type SortBy int

const (
	SortByNone     SortBy = iota // Keep insertion order
	SortByTitle                  // Alphabetical by title
	SortByDeadline               // Earliest deadline first, undated last
	SortByStatus                 // Status label order
	SortByPriority               // Alphabetical by priority name
	SortByCategory               // Alphabetical by category name
)

var sortByNames = []string{"none", "title", "deadline", "status", "priority", "category"}

func (s SortBy) String() string {
	if int(s) < len(sortByNames) {
		return sortByNames[s]
	}
	return "unknown"
}

// Next cycles to the following sort field
func (s SortBy) Next() SortBy {
	return (s + 1) % SortBy(len(sortByNames))
}

// ParseSortBy maps a field name to a SortBy; unknown names keep insertion order
func ParseSortBy(name string) SortBy {
	for i, n := range sortByNames {
		if n == strings.ToLower(name) {
			return SortBy(i)
		}
	}
	return SortByNone
}

// SortOrder represents ascending or descending order
type SortOrder int

const (
	SortAsc SortOrder = iota
	SortDesc
)

// GroupBy represents how tasks are grouped for display
type GroupBy int

const (
	GroupByNone GroupBy = iota
	GroupByCategory
	GroupByPriority
	GroupByStatus
)

var groupByNames = []string{"none", "category", "priority", "status"}

func (g GroupBy) String() string {
	if int(g) < len(groupByNames) {
		return groupByNames[g]
	}
	return "unknown"
}

// Next cycles to the following grouping
func (g GroupBy) Next() GroupBy {
	return (g + 1) % GroupBy(len(groupByNames))
}

// GroupedTasks represents tasks grouped by a common attribute
type GroupedTasks struct {
	GroupName string
	Tasks     []models.Task
}

func statusRank(s models.Status) int {
	for i, st := range models.Statuses {
		if st == s {
			return i
		}
	}
	return len(models.Statuses)
}

// SortTasks returns a sorted copy of tasks. The sort is stable, so equal
// keys keep their insertion order.
func SortTasks(tasks []models.Task, by SortBy, order SortOrder) []models.Task {
	sorted := make([]models.Task, len(tasks))
	copy(sorted, tasks)
	if by == SortByNone {
		if order == SortDesc {
			for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
		return sorted
	}

	less := func(a, b models.Task) bool {
		switch by {
		case SortByTitle:
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case SortByDeadline:
			if !a.HasDeadline() || !b.HasDeadline() {
				return a.HasDeadline() && !b.HasDeadline()
			}
			return a.Deadline.Before(*b.Deadline)
		case SortByStatus:
			return statusRank(a.Status) < statusRank(b.Status)
		case SortByPriority:
			return strings.ToLower(a.Priority.Name) < strings.ToLower(b.Priority.Name)
		case SortByCategory:
			return strings.ToLower(a.Category) < strings.ToLower(b.Category)
		}
		return false
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if order == SortDesc {
			return less(sorted[j], sorted[i])
		}
		return less(sorted[i], sorted[j])
	})

	return sorted
}

// GroupTasks groups tasks and sorts each group. Groups are ordered by name.
func GroupTasks(tasks []models.Task, group GroupBy, by SortBy, order SortOrder) []GroupedTasks {
	if group == GroupByNone {
		return []GroupedTasks{{GroupName: "", Tasks: SortTasks(tasks, by, order)}}
	}

	groups := make(map[string][]models.Task)

	for _, task := range tasks {
		var groupKey string

		switch group {
		case GroupByCategory:
			groupKey = task.Category
			if groupKey == "" {
				groupKey = "No Category"
			}
		case GroupByPriority:
			groupKey = task.Priority.Name
		case GroupByStatus:
			groupKey = string(task.Status)
		}

		groups[groupKey] = append(groups[groupKey], task)
	}

	// Convert map to sorted slice
	var groupNames []string
	for name := range groups {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	result := make([]GroupedTasks, 0, len(groupNames))
	for _, name := range groupNames {
		result = append(result, GroupedTasks{
			GroupName: name,
			Tasks:     SortTasks(groups[name], by, order),
		})
	}

	return result
}
