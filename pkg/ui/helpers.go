package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"

	"taskdesk/pkg/models"
	"taskdesk/pkg/repository"
	"taskdesk/pkg/views"
)

// refresh rebuilds the table for the current tab, keeping the cursor in range
func (m *Model) refresh() {
	cursor := m.table.Cursor()

	var cols []table.Column
	var rows []table.Row
	switch m.tab {
	case TasksTab:
		cols, rows = m.taskRows()
	case CategoriesTab:
		cols, rows = m.categoryRows()
	case PrioritiesTab:
		cols, rows = m.priorityRows()
	case RemindersTab:
		cols, rows = m.reminderRows()
	}

	// Rows must never be shorter than the columns
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	m.table.SetCursor(cursor)
}

// taskRows lists the filtered tasks, sorted and grouped
func (m *Model) taskRows() ([]table.Column, []table.Row) {
	cols := []table.Column{
		{Title: "Title", Width: 30},
		{Title: "Category", Width: 14},
		{Title: "Priority", Width: 10},
		{Title: "Deadline", Width: 10},
		{Title: "Status", Width: 12},
	}

	tasks := m.session.Repo.Filter(m.criteria)
	groups := views.GroupTasks(tasks, m.groupBy, m.sortBy, m.sortOrder)

	m.rowKeys = m.rowKeys[:0]
	rows := []table.Row{}
	for _, group := range groups {
		// Add group header if grouping is enabled
		if m.groupBy != views.GroupByNone {
			rows = append(rows, table.Row{fmt.Sprintf("== %s ==", group.GroupName), "", "", "", ""})
			m.rowKeys = append(m.rowKeys, "")
		}
		for _, task := range group.Tasks {
			deadline := ""
			if task.HasDeadline() {
				deadline = task.Deadline.String()
			}
			rows = append(rows, table.Row{task.Title, task.Category, task.Priority.Name, deadline, string(task.Status)})
			m.rowKeys = append(m.rowKeys, task.ID)
		}
	}
	return cols, rows
}

func (m *Model) categoryRows() ([]table.Column, []table.Row) {
	cols := []table.Column{{Title: "Category", Width: 30}, {Title: "Tasks", Width: 8}}
	m.rowKeys = m.rowKeys[:0]
	rows := []table.Row{}
	for _, c := range m.session.Repo.Categories() {
		n := len(m.session.Repo.Filter(views.Criteria{Category: c.Name}))
		rows = append(rows, table.Row{c.Name, strconv.Itoa(n)})
		m.rowKeys = append(m.rowKeys, c.Name)
	}
	return cols, rows
}

func (m *Model) priorityRows() ([]table.Column, []table.Row) {
	cols := []table.Column{{Title: "Priority", Width: 30}, {Title: "Tasks", Width: 8}}
	m.rowKeys = m.rowKeys[:0]
	rows := []table.Row{}
	for _, p := range m.session.Repo.PriorityChoices() {
		n := len(m.session.Repo.Filter(views.Criteria{Priority: p.Name}))
		rows = append(rows, table.Row{p.Name, strconv.Itoa(n)})
		m.rowKeys = append(m.rowKeys, p.Name)
	}
	return cols, rows
}

func (m *Model) reminderRows() ([]table.Column, []table.Row) {
	cols := []table.Column{
		{Title: "Name", Width: 24},
		{Title: "Date", Width: 10},
		{Title: "Type", Width: 14},
		{Title: "Task", Width: 30},
	}
	m.rowKeys = m.rowKeys[:0]
	rows := []table.Row{}
	for i, rem := range m.session.Repo.Reminders() {
		rows = append(rows, table.Row{rem.Name, rem.Date.String(), string(rem.Type), rem.Task.Title})
		m.rowKeys = append(m.rowKeys, strconv.Itoa(i))
	}
	return cols, rows
}

// selectedKey returns the row key under the cursor, "" when nothing is selected
func (m *Model) selectedKey() string {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rowKeys) {
		return ""
	}
	return m.rowKeys[idx]
}

// selectedTask returns the task under the cursor on the tasks tab
func (m *Model) selectedTask() (models.Task, error) {
	id := m.selectedKey()
	if m.tab != TasksTab || id == "" {
		return models.Task{}, repository.ErrNoSelection
	}
	return m.session.Repo.Task(id)
}

// mutated marks unsaved changes and rebuilds the table
func (m *Model) mutated() {
	m.dirty = true
	m.refresh()
}

func (m *Model) save() {
	if err := m.session.Save(); err != nil {
		m.setError(err)
		return
	}
	m.dirty = false
	m.setMessage("Saved to %s", m.session.Store.Dir())
}

// ---- task form ----

func (m *Model) categoryNames() []string {
	var names []string
	for _, c := range m.session.Repo.Categories() {
		names = append(names, c.Name)
	}
	return names
}

func (m *Model) priorityNames() []string {
	var names []string
	for _, p := range m.session.Repo.PriorityChoices() {
		names = append(names, p.Name)
	}
	return names
}

func statusNames() []string {
	names := make([]string, len(models.Statuses))
	for i, s := range models.Statuses {
		names[i] = string(s)
	}
	return names
}

// openTaskForm prepares the form for a new task, or for editing task when given
func (m *Model) openTaskForm(task *models.Task) {
	in := repository.TaskInput{Priority: models.DefaultPriorityName, Status: models.StatusOpen}
	m.editingTaskID = ""
	if task != nil {
		in = repository.InputFromTask(*task)
		m.editingTaskID = task.ID
	}

	m.titleInput.SetValue(in.Title)
	m.descInput.SetValue(in.Description)
	m.deadlineInput.SetValue("")
	if in.Deadline != nil {
		m.deadlineInput.SetValue(in.Deadline.String())
	}
	m.categoryPick = newChoice(m.categoryNames(), in.Category)
	m.priorityPick = newChoice(m.priorityNames(), in.Priority)
	m.statusPick = newChoice(statusNames(), string(in.Status))

	m.mode = TaskFormMode
	m.err = nil
	m.focusInput(fieldTitle)
}

// focusInput focuses one field of the active form and blurs the rest
func (m *Model) focusInput(field int) {
	m.activeInput = field
	inputs := m.formInputs()
	for i, in := range inputs {
		if in == nil {
			continue
		}
		if i == field {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// formInputs lists the text inputs of the active form by field index;
// choice fields are nil
func (m *Model) formInputs() []*textinput.Model {
	switch m.mode {
	case TaskFormMode, CalendarMode:
		return []*textinput.Model{&m.titleInput, &m.descInput, nil, nil, nil, &m.deadlineInput}
	case ReminderFormMode:
		return []*textinput.Model{&m.reminderName, nil, &m.reminderDate}
	case FilterMode:
		return []*textinput.Model{&m.filterInput, nil, nil}
	case NamePromptMode:
		return []*textinput.Model{&m.nameInput}
	}
	return nil
}

// focusNextInput cycles through the form inputs
func (m *Model) focusNextInput() {
	n := len(m.formInputs())
	if n == 0 {
		return
	}
	m.focusInput((m.activeInput + 1) % n)
}

// focusPreviousInput cycles through the form inputs
func (m *Model) focusPreviousInput() {
	n := len(m.formInputs())
	if n == 0 {
		return
	}
	m.focusInput((m.activeInput - 1 + n) % n)
}

// activeChoice returns the choice field under focus, if any
func (m *Model) activeChoice() *choice {
	switch m.mode {
	case TaskFormMode:
		switch m.activeInput {
		case fieldCategory:
			return &m.categoryPick
		case fieldPriority:
			return &m.priorityPick
		case fieldStatus:
			return &m.statusPick
		}
	case ReminderFormMode:
		if m.activeInput == reminderFieldType {
			return &m.reminderType
		}
	case FilterMode:
		switch m.activeInput {
		case filterFieldCategory:
			return &m.filterCatPick
		case filterFieldPriority:
			return &m.filterPriPick
		}
	}
	return nil
}

// submitTaskForm creates or edits a task from the form
func (m *Model) submitTaskForm() {
	in := repository.TaskInput{
		Title:       m.titleInput.Value(),
		Description: strings.TrimSpace(m.descInput.Value()),
		Category:    m.categoryPick.Value(),
		Priority:    m.priorityPick.Value(),
		Status:      models.Status(m.statusPick.Value()),
	}
	if s := strings.TrimSpace(m.deadlineInput.Value()); s != "" {
		d, err := models.ParseDate(s)
		if err != nil {
			m.setError(err)
			return
		}
		in.Deadline = &d
	}

	var task models.Task
	var err error
	if m.editingTaskID == "" {
		task, err = m.session.Repo.CreateTask(in)
	} else {
		task, err = m.session.Repo.EditTask(m.editingTaskID, in)
	}
	if err != nil {
		// Form stays open so the input can be fixed
		m.setError(err)
		return
	}

	m.mode = NormalMode
	m.editingTaskID = ""
	m.mutated()
	m.setMessage("Saved task %q (%s)", task.Title, task.Status)
}

// cycleStatus moves the selected task to the next status label
func (m *Model) cycleStatus() {
	task, err := m.selectedTask()
	if err != nil {
		m.setError(err)
		return
	}
	c := newChoice(statusNames(), string(task.Status))
	c.Next()
	updated, err := m.session.Repo.SetStatus(task.ID, models.Status(c.Value()))
	if err != nil {
		m.setError(err)
		return
	}
	m.mutated()
	m.setMessage("%q is now %s", updated.Title, updated.Status)
}

// ---- name prompt ----

func (m *Model) openNamePrompt(purpose promptPurpose, target string) {
	m.prompt = purpose
	m.promptTarget = target
	m.nameInput.SetValue("")
	if purpose == promptRenameCategory || purpose == promptRenamePriority {
		m.nameInput.SetValue(target)
	}
	if purpose == promptRenameReminder {
		if idx, err := strconv.Atoi(target); err == nil {
			if rems := m.session.Repo.Reminders(); idx < len(rems) {
				m.nameInput.SetValue(rems[idx].Name)
			}
		}
	}
	m.mode = NamePromptMode
	m.err = nil
	m.focusInput(0)
}

func (m *Model) submitNamePrompt() {
	name := m.nameInput.Value()
	repo := m.session.Repo

	if m.prompt == promptRenamePriority && m.promptTarget == models.DefaultPriorityName {
		m.mode = NormalMode
		m.setMessage("The %s priority cannot be renamed; nothing changed", models.DefaultPriorityName)
		return
	}

	var err error
	switch m.prompt {
	case promptAddCategory:
		_, err = repo.AddCategory(name)
	case promptRenameCategory:
		err = repo.RenameCategory(m.promptTarget, name)
	case promptAddPriority:
		_, err = repo.AddPriority(name)
	case promptRenamePriority:
		err = repo.RenamePriority(m.promptTarget, name)
	case promptRenameReminder:
		idx, convErr := strconv.Atoi(m.promptTarget)
		if convErr != nil {
			err = repository.ErrNoSelection
			break
		}
		err = repo.RenameReminder(idx, name)
	}
	if err != nil {
		m.setError(err)
		return
	}

	m.mode = NormalMode
	m.mutated()
	m.setMessage("Saved %q", strings.TrimSpace(name))
}

// ---- reminder form ----

func (m *Model) openReminderForm() {
	task, err := m.selectedTask()
	if err != nil {
		m.setError(err)
		return
	}
	// Checked up front so the form only opens when a reminder is possible
	if task.Status == models.StatusCompleted {
		m.setError(repository.ErrCompletedTask)
		return
	}
	if !task.HasDeadline() {
		m.setError(repository.ErrNoDeadline)
		return
	}

	types := make([]string, len(models.ReminderTypes))
	for i, rt := range models.ReminderTypes {
		types[i] = string(rt)
	}
	m.reminderTask = task
	m.reminderName.SetValue("")
	m.reminderDate.SetValue(task.Deadline.String())
	m.reminderType = newChoice(types, string(models.ReminderDayBefore))
	m.mode = ReminderFormMode
	m.err = nil
	m.focusInput(reminderFieldName)
}

func (m *Model) submitReminderForm() {
	in := repository.ReminderInput{
		TaskID: m.reminderTask.ID,
		Name:   m.reminderName.Value(),
		Type:   models.ReminderType(m.reminderType.Value()),
	}
	if in.Type == models.ReminderCustom {
		if d, err := models.ParseDate(strings.TrimSpace(m.reminderDate.Value())); err == nil {
			in.CustomDate = &d
		}
	}

	rem, err := m.session.Repo.AddReminder(in)
	m.mode = NormalMode
	switch {
	case errors.Is(err, repository.ErrIncompleteReminder):
		// Nothing to add; the dialog just closes
		m.err = nil
	case err != nil:
		m.setError(err)
	default:
		m.mutated()
		m.setMessage("Reminder %q set for %s", rem.Name, rem.Date)
	}
}

// ---- filter ----

func (m *Model) openFilter() {
	m.filterInput.SetValue(m.criteria.Title)
	m.filterCatPick = newChoice(append([]string{""}, m.categoryNames()...), m.criteria.Category)
	m.filterPriPick = newChoice(append([]string{""}, m.priorityNames()...), m.criteria.Priority)
	m.mode = FilterMode
	m.err = nil
	m.focusInput(filterFieldTitle)
}

func (m *Model) applyFilter() {
	m.criteria = views.Criteria{
		Title:    strings.TrimSpace(m.filterInput.Value()),
		Category: m.filterCatPick.Value(),
		Priority: m.filterPriPick.Value(),
	}
	m.mode = NormalMode
	m.tab = TasksTab
	m.table.SetCursor(0)
	m.refresh()
}

// ---- delete ----

// openDeleteConfirm asks before deleting the selected row
func (m *Model) openDeleteConfirm() {
	k := m.selectedKey()
	if k == "" {
		m.setError(repository.ErrNoSelection)
		return
	}
	switch m.tab {
	case TasksTab:
		task, err := m.session.Repo.Task(k)
		if err != nil {
			m.setError(err)
			return
		}
		// Rejected before asking, as confirming would be pointless
		if task.Priority.IsDefault() {
			m.setError(repository.ErrDefaultPriorityTask)
			return
		}
	case PrioritiesTab:
		if k == models.DefaultPriorityName {
			m.setError(repository.ErrDefaultPriority)
			return
		}
	}
	m.deleteKey = k
	m.mode = DeleteConfirmMode
	m.err = nil
}

// deleteSummary describes what confirming the delete will remove
func (m *Model) deleteSummary() string {
	repo := m.session.Repo
	switch m.tab {
	case TasksTab:
		task, err := repo.Task(m.deleteKey)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("Delete task %q and its %d reminder(s)?", task.Title, len(repo.RemindersFor(task.ID)))
	case CategoriesTab:
		n := len(repo.Filter(views.Criteria{Category: m.deleteKey}))
		return fmt.Sprintf("Delete category %q? This also deletes its %d task(s) and their reminders.", m.deleteKey, n)
	case PrioritiesTab:
		n := len(repo.Filter(views.Criteria{Priority: m.deleteKey}))
		return fmt.Sprintf("Delete priority %q? This also deletes its %d task(s) and their reminders.", m.deleteKey, n)
	case RemindersTab:
		if idx, err := strconv.Atoi(m.deleteKey); err == nil {
			if rems := repo.Reminders(); idx < len(rems) {
				return fmt.Sprintf("Delete reminder %q?", rems[idx].Name)
			}
		}
	}
	return ""
}

func (m *Model) confirmDelete() {
	repo := m.session.Repo
	var err error
	switch m.tab {
	case TasksTab:
		err = repo.DeleteTask(m.deleteKey)
	case CategoriesTab:
		_, err = repo.DeleteCategory(m.deleteKey)
	case PrioritiesTab:
		_, err = repo.DeletePriority(m.deleteKey)
	case RemindersTab:
		idx, convErr := strconv.Atoi(m.deleteKey)
		if convErr != nil {
			err = repository.ErrNoSelection
			break
		}
		err = repo.DeleteReminder(idx)
	}

	m.mode = NormalMode
	m.deleteKey = ""
	if err != nil {
		m.setError(err)
		return
	}
	m.mutated()
	m.setMessage("Deleted")
}

// ---- calendar ----

// openCalendar starts the deadline picker on the form's current deadline
func (m *Model) openCalendar() {
	start := m.session.Repo.Today()
	if d, err := models.ParseDate(strings.TrimSpace(m.deadlineInput.Value())); err == nil {
		start = d
	}
	m.calendarMonth = models.NewDate(start.Year(), start.Month(), 1)
	m.calendarSelectedDay = start.Day()
	m.mode = CalendarMode
}

func (m *Model) daysInCalendarMonth() int {
	return m.calendarMonth.AddMonths(1).AddDays(-1).Day()
}

// moveCalendar shifts the selected day by delta days, crossing months as needed
func (m *Model) moveCalendar(delta int) {
	selected := models.NewDate(m.calendarMonth.Year(), m.calendarMonth.Month(), m.calendarSelectedDay).AddDays(delta)
	m.calendarMonth = models.NewDate(selected.Year(), selected.Month(), 1)
	m.calendarSelectedDay = selected.Day()
}

func (m *Model) pickCalendarDay() {
	selected := models.NewDate(m.calendarMonth.Year(), m.calendarMonth.Month(), m.calendarSelectedDay)
	m.deadlineInput.SetValue(selected.String())
	m.mode = TaskFormMode
	m.focusInput(fieldDeadline)
}
