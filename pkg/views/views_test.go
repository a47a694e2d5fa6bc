package views

import (
	"testing"
	"time"

	"taskdesk/pkg/models"
)

var today = models.NewDate(2025, time.June, 10)

func date(offset int) *models.Date {
	d := today.AddDays(offset)
	return &d
}

func fixture() []models.Task {
	return []models.Task{
		{ID: "a", Title: "Write Report", Category: "Work", Priority: models.Priority{Name: "High"}, Deadline: date(0), Status: models.StatusOpen},
		{ID: "b", Title: "gym session", Category: "Health", Priority: models.DefaultPriority(), Deadline: date(7), Status: models.StatusInProgress},
		{ID: "c", Title: "report taxes", Category: "Personal", Priority: models.Priority{Name: "High"}, Deadline: date(8), Status: models.StatusOpen},
		{ID: "d", Title: "Old thing", Category: "Work", Priority: models.Priority{Name: "Low"}, Deadline: date(-1), Status: models.StatusDelayed},
		{ID: "e", Title: "Done thing", Category: "Work", Priority: models.Priority{Name: "Low"}, Deadline: date(2), Status: models.StatusCompleted},
		{ID: "f", Title: "Someday", Category: "Personal", Priority: models.DefaultPriority(), Status: models.StatusPostponed},
	}
}

func ids(tasks []models.Task) string {
	s := ""
	for _, t := range tasks {
		s += t.ID
	}
	return s
}

func TestFilter(t *testing.T) {
	tasks := fixture()

	tests := []struct {
		name string
		c    Criteria
		want string
	}{
		{"unset returns all in order", Criteria{}, "abcdef"},
		{"title case-insensitive", Criteria{Title: "REPORT"}, "ac"},
		{"category", Criteria{Category: "Work"}, "ade"},
		{"priority", Criteria{Priority: "High"}, "ac"},
		{"all criteria", Criteria{Title: "report", Category: "Work", Priority: "High"}, "a"},
		{"no match", Criteria{Category: "Nope"}, ""},
	}
	for _, tt := range tests {
		if got := ids(Filter(tasks, tt.c)); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestCount(t *testing.T) {
	c := Count(fixture(), today)
	want := Counters{Total: 6, Completed: 1, Delayed: 1, DueSoon: 2}
	if c != want {
		t.Errorf("Expected %+v, got %+v", want, c)
	}
}

func TestDueSoon_Boundaries(t *testing.T) {
	got := ids(DueSoon(fixture(), today))
	// a is due today, b at today+7; c is one day past the window,
	// d is overdue, e is completed, f has no deadline.
	if got != "ab" {
		t.Errorf("Expected due soon %q, got %q", "ab", got)
	}
}

func TestSortTasks(t *testing.T) {
	tasks := fixture()

	tests := []struct {
		by    SortBy
		order SortOrder
		want  string
	}{
		{SortByNone, SortAsc, "abcdef"},
		{SortByNone, SortDesc, "fedcba"},
		{SortByTitle, SortAsc, "ebdcfa"},
		{SortByDeadline, SortAsc, "daebcf"},
		{SortByStatus, SortAsc, "acbfed"},
		{SortByCategory, SortAsc, "bcfade"},
	}
	for _, tt := range tests {
		if got := ids(SortTasks(tasks, tt.by, tt.order)); got != tt.want {
			t.Errorf("sort %s/%d: expected %q, got %q", tt.by, tt.order, tt.want, got)
		}
	}

	if ids(tasks) != "abcdef" {
		t.Error("SortTasks modified its input")
	}
}

func TestGroupTasks(t *testing.T) {
	groups := GroupTasks(fixture(), GroupByCategory, SortByNone, SortAsc)
	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(groups))
	}
	want := []struct{ name, ids string }{
		{"Health", "b"},
		{"Personal", "cf"},
		{"Work", "ade"},
	}
	for i, w := range want {
		if groups[i].GroupName != w.name || ids(groups[i].Tasks) != w.ids {
			t.Errorf("Group %d: expected %s/%s, got %s/%s", i, w.name, w.ids, groups[i].GroupName, ids(groups[i].Tasks))
		}
	}

	single := GroupTasks(fixture(), GroupByNone, SortByNone, SortAsc)
	if len(single) != 1 || ids(single[0].Tasks) != "abcdef" {
		t.Errorf("Expected one ungrouped group, got %+v", single)
	}
}
