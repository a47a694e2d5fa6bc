package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"taskdesk/pkg/models"
	"taskdesk/pkg/views"
)

// maxDueSoonLines caps the due-soon panel so the table keeps most of the screen
const maxDueSoonLines = 5

// View renders the UI based on the current mode
func (m Model) View() string {
	var sb strings.Builder

	switch m.mode {
	case NormalMode:
		sb.WriteString(m.titleBar(" Task Manager ", m.styles.AccentColor))
		sb.WriteString("  ")
		sb.WriteString(m.renderTabs())
		sb.WriteString("\n\n")
		sb.WriteString(m.renderCounters())
		sb.WriteString("\n")
		if m.showDueSoon {
			sb.WriteString(m.renderDueSoon())
		}
		sb.WriteString("\n")
		sb.WriteString(m.table.View())
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.NormalTextColor)).Render(m.viewInfo()))
		sb.WriteString("\n")
		if m.message != "" {
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.AccentColor)).Render(m.message))
		}

	case TaskFormMode:
		if m.editingTaskID == "" {
			sb.WriteString(m.titleBar(" Add New Task ", m.styles.AccentColor))
		} else {
			sb.WriteString(m.titleBar(" Edit Task ", m.styles.AccentColor))
		}
		sb.WriteString("\n\n")
		sb.WriteString(m.renderTaskForm())

	case CalendarMode:
		sb.WriteString(m.renderCalendar())

	case NamePromptMode:
		sb.WriteString(m.titleBar(m.promptTitle(), m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.nameInput.View())

	case ReminderFormMode:
		sb.WriteString(m.titleBar(" Add Reminder ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderReminderForm())

	case FilterMode:
		sb.WriteString(m.titleBar(" Filter Tasks ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderFilterForm())

	case DeleteConfirmMode:
		sb.WriteString(m.titleBar(" Delete ", m.styles.ErrorColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.deleteSummary())
		sb.WriteString("\n\n")
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Press Y to confirm, N to cancel"))

	case NotificationMode:
		sb.WriteString(m.titleBar(" Reminders Due Today ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		for _, rem := range m.dueReminders {
			deadline := "none"
			if rem.Task.HasDeadline() {
				deadline = rem.Task.Deadline.String()
			}
			sb.WriteString(fmt.Sprintf("• %s: %s (deadline %s)\n", rem.Name, rem.Task.Title, deadline))
		}
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Press any key to continue"))

	case QuitPromptMode:
		sb.WriteString(m.titleBar(" Unsaved Changes ", m.styles.ErrorColor))
		sb.WriteString("\n\n")
		sb.WriteString("You have unsaved changes. Save before quitting?\n\n")
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render("S to save and quit, D to discard, esc to cancel"))

	case HelpViewMode:
		sb.WriteString(m.renderHelp())
	}

	// Error message if any
	if m.err != nil {
		sb.WriteString("\n\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.ErrorColor)).Render(fmt.Sprintf("Error: %v", m.err)))
	}

	// Add help status bar at the bottom
	sb.WriteString("\n")
	sb.WriteString(m.helpBar())

	return sb.String()
}

func (m Model) titleBar(text, bg string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.styles.SelectedTextColor)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1).
		Render(text)
}

func (m Model) renderTabs() string {
	active := lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color(m.styles.AccentColor))
	inactive := lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.NormalTextColor))

	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			parts[i] = active.Render(name)
		} else {
			parts[i] = inactive.Render(name)
		}
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderCounters() string {
	c := m.session.Repo.Counters()
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.NormalTextColor))
	value := lipgloss.NewStyle().Bold(true)
	delayed := value.Foreground(lipgloss.Color(m.styles.DelayedColor))
	completed := value.Foreground(lipgloss.Color(m.styles.CompletedColor))

	parts := []string{
		label.Render("Total: ") + value.Render(fmt.Sprint(c.Total)),
		label.Render("Completed: ") + completed.Render(fmt.Sprint(c.Completed)),
		label.Render("Delayed: ") + delayed.Render(fmt.Sprint(c.Delayed)),
		label.Render("Due soon: ") + value.Render(fmt.Sprint(c.DueSoon)),
	}
	if m.dirty {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.ErrorColor)).Render("[modified]"))
	}
	return strings.Join(parts, "  ")
}

// renderDueSoon lists incomplete tasks due within the next week
func (m Model) renderDueSoon() string {
	tasks := m.session.Repo.DueSoon()

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Due in the next %d days", views.DueSoonDays)))
	sb.WriteString("\n")
	if len(tasks) == 0 {
		sb.WriteString("  nothing due\n")
		return sb.String()
	}

	category := lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.CategoryColor))
	for i, t := range tasks {
		if i == maxDueSoonLines {
			sb.WriteString(fmt.Sprintf("  … and %d more\n", len(tasks)-i))
			break
		}
		sb.WriteString(fmt.Sprintf("  %s  %s %s\n", t.Deadline, t.Title, category.Render("+"+t.Category)))
	}
	return sb.String()
}

// dueSoonHeight is the number of lines renderDueSoon produces
func (m Model) dueSoonHeight() int {
	if !m.showDueSoon {
		return 0
	}
	n := len(m.session.Repo.DueSoon())
	switch {
	case n == 0:
		return 2
	case n > maxDueSoonLines:
		return maxDueSoonLines + 2
	}
	return n + 1
}

// tableHeight leaves room for the title, counters, due-soon panel and status lines
func (m Model) tableHeight() int {
	h := m.height - 9 - m.dueSoonHeight()
	if h < 3 {
		h = 3
	}
	return h
}

// viewInfo describes the active filter, sorting and grouping
func (m Model) viewInfo() string {
	if m.tab != TasksTab {
		return fmt.Sprintf("%d %s", len(m.rowKeys), strings.ToLower(m.tab.String()))
	}

	var parts []string
	if m.criteria.IsZero() {
		parts = append(parts, "Showing all tasks")
	} else {
		var f []string
		if m.criteria.Title != "" {
			f = append(f, fmt.Sprintf("title ~ %q", m.criteria.Title))
		}
		if m.criteria.Category != "" {
			f = append(f, "category "+m.criteria.Category)
		}
		if m.criteria.Priority != "" {
			f = append(f, "priority "+m.criteria.Priority)
		}
		parts = append(parts, "Filter: "+strings.Join(f, ", "))
	}

	if m.sortBy != views.SortByNone {
		order := "asc"
		if m.sortOrder == views.SortDesc {
			order = "desc"
		}
		parts = append(parts, fmt.Sprintf("sorted by %s (%s)", m.sortBy, order))
	}
	if m.groupBy != views.GroupByNone {
		parts = append(parts, fmt.Sprintf("grouped by %s", m.groupBy))
	}
	return strings.Join(parts, " | ")
}

func (m Model) promptTitle() string {
	switch m.prompt {
	case promptAddCategory:
		return " Add Category "
	case promptRenameCategory:
		return fmt.Sprintf(" Rename Category %q ", m.promptTarget)
	case promptAddPriority:
		return " Add Priority "
	case promptRenamePriority:
		return fmt.Sprintf(" Rename Priority %q ", m.promptTarget)
	case promptRenameReminder:
		return " Rename Reminder "
	}
	return ""
}

// renderChoice shows a selector, highlighted when focused
func (m Model) renderChoice(c choice, focused bool) string {
	value := c.Value()
	if value == "" {
		value = "(any)"
	}
	style := lipgloss.NewStyle()
	if focused {
		style = style.Foreground(lipgloss.Color(m.styles.AccentColor)).Bold(true)
		return style.Render("‹ " + value + " ›")
	}
	return style.Render("  " + value)
}

// renderTaskForm renders the input form for adding/editing tasks
func (m Model) renderTaskForm() string {
	var sb strings.Builder

	sb.WriteString("Title:\n")
	sb.WriteString(m.titleInput.View())
	sb.WriteString("\n\n")

	sb.WriteString("Description:\n")
	sb.WriteString(m.descInput.View())
	sb.WriteString("\n\n")

	sb.WriteString("Category:\n")
	if len(m.categoryPick.options) == 0 {
		sb.WriteString("  (add a category first)")
	} else {
		sb.WriteString(m.renderChoice(m.categoryPick, m.activeInput == fieldCategory))
	}
	sb.WriteString("\n\n")

	sb.WriteString("Priority:\n")
	sb.WriteString(m.renderChoice(m.priorityPick, m.activeInput == fieldPriority))
	sb.WriteString("\n\n")

	sb.WriteString("Status:\n")
	sb.WriteString(m.renderChoice(m.statusPick, m.activeInput == fieldStatus))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Deadline (YYYY-MM-DD, %s for calendar):\n", m.keyMap.PickDeadline.Help().Key))
	sb.WriteString(m.deadlineInput.View())

	return sb.String()
}

func (m Model) renderReminderForm() string {
	var sb strings.Builder

	deadline := ""
	if m.reminderTask.HasDeadline() {
		deadline = m.reminderTask.Deadline.String()
	}
	sb.WriteString(fmt.Sprintf("Task: %s (deadline %s)\n\n", m.reminderTask.Title, deadline))

	sb.WriteString("Name:\n")
	sb.WriteString(m.reminderName.View())
	sb.WriteString("\n\n")

	sb.WriteString("When:\n")
	sb.WriteString(m.renderChoice(m.reminderType, m.activeInput == reminderFieldType))
	sb.WriteString("\n\n")

	sb.WriteString("Date (custom reminders only):\n")
	sb.WriteString(m.reminderDate.View())

	return sb.String()
}

func (m Model) renderFilterForm() string {
	var sb strings.Builder

	sb.WriteString("Title contains:\n")
	sb.WriteString(m.filterInput.View())
	sb.WriteString("\n\n")

	sb.WriteString("Category:\n")
	sb.WriteString(m.renderChoice(m.filterCatPick, m.activeInput == filterFieldCategory))
	sb.WriteString("\n\n")

	sb.WriteString("Priority:\n")
	sb.WriteString(m.renderChoice(m.filterPriPick, m.activeInput == filterFieldPriority))

	return sb.String()
}

func (m Model) renderHelp() string {
	var sb strings.Builder

	// Fullscreen commands view
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Available Commands"))
	sb.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.AccentColor)).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.NormalTextColor))

	addCommand := func(binding key.Binding) {
		sb.WriteString(fmt.Sprintf("%s: %s\n",
			descStyle.Render(binding.Help().Desc),
			keyStyle.Render(binding.Help().Key)))
	}

	addCommand(m.keyMap.QuitApp)
	addCommand(m.keyMap.ShowHelp)
	addCommand(m.keyMap.SaveData)
	addCommand(m.keyMap.NextTab)
	addCommand(m.keyMap.PrevTab)
	addCommand(m.keyMap.AddItem)
	addCommand(m.keyMap.EditItem)
	addCommand(m.keyMap.DeleteItem)

	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Task Commands"))
	sb.WriteString("\n\n")
	addCommand(m.keyMap.CycleStatus)
	addCommand(m.keyMap.AddReminder)
	addCommand(m.keyMap.FilterTasks)
	addCommand(m.keyMap.ClearFilter)
	addCommand(m.keyMap.ToggleDueSoon)
	addCommand(m.keyMap.ToggleSortBy)
	addCommand(m.keyMap.ToggleGroupBy)
	addCommand(m.keyMap.ToggleSortOrder)

	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Calendar Commands"))
	sb.WriteString("\n\n")
	addCommand(m.keyMap.PickDeadline)
	addCommand(m.keyMap.CalendarLeft)
	addCommand(m.keyMap.CalendarRight)
	addCommand(m.keyMap.CalendarUp)
	addCommand(m.keyMap.CalendarDown)
	addCommand(m.keyMap.CalendarSelect)
	addCommand(m.keyMap.JumpToToday)

	return sb.String()
}

// helpBar renders a status bar with available actions
func (m Model) helpBar() string {
	var actions []string

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.AccentColor)).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.NormalTextColor))
	separatorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.BorderColor))

	separator := separatorStyle.Render(" • ")

	addAction := func(k, desc string) {
		actions = append(actions, fmt.Sprintf("%s %s", keyStyle.Render(k), descStyle.Render(desc)))
	}
	addBinding := func(b key.Binding, desc string) {
		addAction(b.Help().Key, desc)
	}

	switch m.mode {
	case NormalMode:
		addBinding(m.keyMap.NextTab, "screen")
		addBinding(m.keyMap.AddItem, "add")
		addBinding(m.keyMap.EditItem, "edit")
		addBinding(m.keyMap.DeleteItem, "del")
		if m.tab == TasksTab {
			addBinding(m.keyMap.CycleStatus, "status")
			addBinding(m.keyMap.AddReminder, "remind")
			addBinding(m.keyMap.FilterTasks, "filter")
			addAction("s/g/o", "sort/grp/ord")
		}
		addBinding(m.keyMap.SaveData, "save")
		addBinding(m.keyMap.ShowHelp, "help")
		addBinding(m.keyMap.QuitApp, "quit")

	case TaskFormMode:
		addAction("tab", "next field")
		addAction("←/→", "choose")
		addBinding(m.keyMap.PickDeadline, "calendar")
		addAction("enter", "save")
		addAction("esc", "cancel")

	case ReminderFormMode, FilterMode:
		addAction("tab", "next field")
		addAction("←/→", "choose")
		addAction("enter", "apply")
		addAction("esc", "cancel")

	case NamePromptMode:
		addAction("enter", "save")
		addAction("esc", "cancel")

	case CalendarMode:
		addAction("←↑↓→", "nav")
		addBinding(m.keyMap.CalendarSelect, "select")
		addBinding(m.keyMap.JumpToToday, "today")
		addAction("esc", "back")

	case DeleteConfirmMode:
		addAction("y", "confirm")
		addAction("n", "cancel")

	case QuitPromptMode:
		addAction("s", "save")
		addAction("d", "discard")
		addAction("esc", "cancel")

	case NotificationMode:
		addAction("any key", "dismiss")

	case HelpViewMode:
		addAction(m.keyMap.ShowHelp.Help().Key+"/esc", "back")
	}

	return strings.Join(actions, separator)
}

// renderCalendar renders the deadline picker
func (m Model) renderCalendar() string {
	var sb strings.Builder

	firstDay := m.calendarMonth
	firstWeekday := int(firstDay.Time().Weekday())
	daysInMonth := m.daysInCalendarMonth()

	monthYearHeader := m.titleBar(" "+firstDay.Time().Format("January 2006")+" ", m.styles.AccentColor)
	sb.WriteString(monthYearHeader)
	sb.WriteString("\n\n")

	weekdays := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	weekdayRow := ""
	for _, day := range weekdays {
		weekdayRow += fmt.Sprintf("%-4s", day)
	}
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(weekdayRow))
	sb.WriteString("\n")

	// Days of this month that already hold a deadline
	daysWithTasks := make(map[int]bool)
	for _, t := range m.session.Repo.Tasks() {
		if t.HasDeadline() && t.Deadline.Year() == firstDay.Year() && t.Deadline.Month() == firstDay.Month() {
			daysWithTasks[t.Deadline.Day()] = true
		}
	}

	today := m.session.Repo.Today()
	currentDay := 1

	for week := 0; week < 6; week++ {
		if currentDay > daysInMonth {
			break
		}

		row := ""
		for weekday := 0; weekday < 7; weekday++ {
			if week == 0 && weekday < firstWeekday {
				row += "    "
			} else if currentDay <= daysInMonth {
				dayStyle := lipgloss.NewStyle()

				isSelected := currentDay == m.calendarSelectedDay
				isToday := today.Equal(models.NewDate(firstDay.Year(), firstDay.Month(), currentDay))
				hasTask := daysWithTasks[currentDay]

				if isSelected {
					dayStyle = dayStyle.Background(lipgloss.Color(m.styles.AccentColor)).
						Foreground(lipgloss.Color(m.styles.SelectedTextColor)).Bold(true)
				} else if isToday {
					dayStyle = dayStyle.Background(lipgloss.Color(m.styles.SelectedBgColor)).
						Foreground(lipgloss.Color(m.styles.SelectedTextColor))
				} else if hasTask {
					dayStyle = dayStyle.Foreground(lipgloss.Color(m.styles.AccentColor)).Bold(true)
				}

				row += dayStyle.Render(fmt.Sprintf("%-4d", currentDay))
				currentDay++
			} else {
				row += "    "
			}
		}

		sb.WriteString(row)
		sb.WriteString("\n")
	}

	return sb.String()
}
