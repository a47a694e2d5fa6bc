package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"taskdesk/pkg/models"
	"taskdesk/pkg/repository"
	"taskdesk/pkg/utils"
	"taskdesk/pkg/views"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case NormalMode:
			if done, quit := m.handleNormalKey(msg); quit {
				return m, tea.Quit
			} else if done {
				return m, nil
			}

		case TaskFormMode:
			switch {
			case msg.String() == "esc":
				m.mode = NormalMode
				m.editingTaskID = ""
				m.err = nil
				return m, nil

			case msg.String() == "tab":
				m.focusNextInput()
				return m, nil

			case msg.String() == "shift+tab":
				m.focusPreviousInput()
				return m, nil

			case key.Matches(msg, m.keyMap.PickDeadline):
				m.openCalendar()
				return m, nil

			case msg.String() == "enter":
				if m.activeInput == taskFieldCount-1 { // Submit on enter from the last field (deadline)
					m.submitTaskForm()
				} else {
					m.focusNextInput()
				}
				return m, nil
			}
			cmds = append(cmds, m.updateFormField(msg))

		case CalendarMode:
			switch {
			case msg.String() == "esc":
				m.mode = TaskFormMode
				m.focusInput(fieldDeadline)
			case key.Matches(msg, m.keyMap.CalendarLeft):
				m.moveCalendar(-1)
			case key.Matches(msg, m.keyMap.CalendarRight):
				m.moveCalendar(1)
			case key.Matches(msg, m.keyMap.CalendarUp):
				m.moveCalendar(-7)
			case key.Matches(msg, m.keyMap.CalendarDown):
				m.moveCalendar(7)
			case key.Matches(msg, m.keyMap.JumpToToday):
				today := m.session.Repo.Today()
				m.calendarMonth = models.NewDate(today.Year(), today.Month(), 1)
				m.calendarSelectedDay = today.Day()
			case key.Matches(msg, m.keyMap.CalendarSelect):
				m.pickCalendarDay()
			}
			return m, nil

		case NamePromptMode:
			switch msg.String() {
			case "esc":
				m.mode = NormalMode
				m.err = nil
				return m, nil
			case "enter":
				m.submitNamePrompt()
				return m, nil
			}
			m.nameInput, cmd = m.nameInput.Update(msg)
			cmds = append(cmds, cmd)

		case ReminderFormMode:
			switch msg.String() {
			case "esc":
				m.mode = NormalMode
				return m, nil
			case "tab":
				m.focusNextInput()
				return m, nil
			case "shift+tab":
				m.focusPreviousInput()
				return m, nil
			case "enter":
				if m.activeInput == reminderFieldCount-1 {
					m.submitReminderForm()
				} else {
					m.focusNextInput()
				}
				return m, nil
			}
			cmds = append(cmds, m.updateFormField(msg))

		case FilterMode:
			switch msg.String() {
			case "esc":
				m.mode = NormalMode
				return m, nil
			case "tab":
				m.focusNextInput()
				return m, nil
			case "shift+tab":
				m.focusPreviousInput()
				return m, nil
			case "enter":
				m.applyFilter()
				utils.Log("Filtering tasks: %+v", m.criteria)
				return m, nil
			}
			cmds = append(cmds, m.updateFormField(msg))

		case DeleteConfirmMode:
			switch msg.String() {
			case "y", "Y":
				m.confirmDelete()
			case "n", "N", "esc":
				m.mode = NormalMode
				m.deleteKey = ""
			}
			return m, nil

		case NotificationMode:
			// Any key dismisses the notification
			m.mode = NormalMode
			m.dueReminders = nil
			return m, nil

		case QuitPromptMode:
			switch msg.String() {
			case "s", "S":
				m.save()
				if m.dirty {
					m.mode = NormalMode
					return m, nil
				}
				return m, tea.Quit
			case "d", "D":
				utils.Log("Discarding unsaved changes")
				return m, tea.Quit
			case "esc":
				m.mode = NormalMode
			}
			return m, nil

		case HelpViewMode:
			if msg.String() == "esc" || key.Matches(msg, m.keyMap.ShowHelp) {
				m.mode = NormalMode
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetWidth(msg.Width - 4)
		m.table.SetHeight(m.tableHeight())
	}

	// Only update table in normal mode
	if m.mode == NormalMode {
		m.table, cmd = m.table.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleNormalKey runs the command bound to msg. done reports that the key
// was consumed; quit that the program should exit.
func (m *Model) handleNormalKey(msg tea.KeyMsg) (done, quit bool) {
	switch {
	case key.Matches(msg, m.keyMap.ShowHelp):
		m.mode = HelpViewMode

	case key.Matches(msg, m.keyMap.QuitApp):
		if !m.dirty {
			return true, true
		}
		m.mode = QuitPromptMode

	case key.Matches(msg, m.keyMap.SaveData):
		m.save()

	case key.Matches(msg, m.keyMap.NextTab):
		m.switchTab((m.tab + 1) % Tab(len(tabNames)))

	case key.Matches(msg, m.keyMap.PrevTab):
		m.switchTab((m.tab - 1 + Tab(len(tabNames))) % Tab(len(tabNames)))

	case key.Matches(msg, m.keyMap.AddItem):
		switch m.tab {
		case TasksTab:
			m.openTaskForm(nil)
		case CategoriesTab:
			m.openNamePrompt(promptAddCategory, "")
		case PrioritiesTab:
			m.openNamePrompt(promptAddPriority, "")
		case RemindersTab:
			m.setMessage("Select a task on the Tasks screen and press %s", m.keyMap.AddReminder.Help().Key)
		}

	case key.Matches(msg, m.keyMap.EditItem):
		k := m.selectedKey()
		if k == "" {
			m.setError(repository.ErrNoSelection)
			break
		}
		switch m.tab {
		case TasksTab:
			task, err := m.session.Repo.Task(k)
			if err != nil {
				m.setError(err)
				break
			}
			m.openTaskForm(&task)
		case CategoriesTab:
			m.openNamePrompt(promptRenameCategory, k)
		case PrioritiesTab:
			m.openNamePrompt(promptRenamePriority, k)
		case RemindersTab:
			m.openNamePrompt(promptRenameReminder, k)
		}

	case key.Matches(msg, m.keyMap.DeleteItem):
		m.openDeleteConfirm()

	case key.Matches(msg, m.keyMap.CycleStatus):
		m.cycleStatus()

	case key.Matches(msg, m.keyMap.AddReminder):
		m.openReminderForm()

	case key.Matches(msg, m.keyMap.FilterTasks):
		m.openFilter()

	case key.Matches(msg, m.keyMap.ClearFilter):
		m.criteria = views.Criteria{}
		m.refresh()

	case key.Matches(msg, m.keyMap.ToggleDueSoon):
		m.showDueSoon = !m.showDueSoon
		m.table.SetHeight(m.tableHeight())

	case key.Matches(msg, m.keyMap.ToggleSortBy):
		m.sortBy = m.sortBy.Next()
		m.refresh()

	case key.Matches(msg, m.keyMap.ToggleGroupBy):
		m.groupBy = m.groupBy.Next()
		m.refresh()

	case key.Matches(msg, m.keyMap.ToggleSortOrder):
		if m.sortOrder == views.SortAsc {
			m.sortOrder = views.SortDesc
		} else {
			m.sortOrder = views.SortAsc
		}
		m.refresh()

	default:
		// Navigation keys fall through to the table
		return false, false
	}
	return true, false
}

func (m *Model) switchTab(t Tab) {
	m.tab = t
	m.err = nil
	m.message = ""
	m.table.SetCursor(0)
	m.refresh()
}

// updateFormField sends msg to the focused form field: text inputs take
// keystrokes, choices cycle with left and right
func (m *Model) updateFormField(msg tea.KeyMsg) tea.Cmd {
	if c := m.activeChoice(); c != nil {
		switch msg.String() {
		case "left":
			c.Prev()
		case "right", " ":
			c.Next()
		}
		return nil
	}

	inputs := m.formInputs()
	if m.activeInput >= len(inputs) || inputs[m.activeInput] == nil {
		return nil
	}
	in := inputs[m.activeInput]
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return cmd
}
