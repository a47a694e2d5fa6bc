package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdesk/pkg/commands"
	"taskdesk/pkg/config"
	"taskdesk/pkg/keymaps"
	"taskdesk/pkg/models"
	"taskdesk/pkg/repository"
	"taskdesk/pkg/views"
)

// InputMode represents the current input mode
type InputMode int

const (
	NormalMode InputMode = iota
	TaskFormMode
	NamePromptMode
	ReminderFormMode
	FilterMode
	CalendarMode // Deadline picker opened from the task form
	DeleteConfirmMode
	NotificationMode // Reminders due today, shown once at startup
	QuitPromptMode
	HelpViewMode
)

// Tab is one of the top-level screens
type Tab int

const (
	TasksTab Tab = iota
	CategoriesTab
	PrioritiesTab
	RemindersTab
)

var tabNames = []string{"Tasks", "Categories", "Priorities", "Reminders"}

func (t Tab) String() string { return tabNames[t] }

// promptPurpose says what the name prompt is collecting
type promptPurpose int

const (
	promptAddCategory promptPurpose = iota
	promptRenameCategory
	promptAddPriority
	promptRenamePriority
	promptRenameReminder
)

// Task form fields, in focus order
const (
	fieldTitle = iota
	fieldDescription
	fieldCategory
	fieldPriority
	fieldStatus
	fieldDeadline
	taskFieldCount
)

// Reminder form fields
const (
	reminderFieldName = iota
	reminderFieldType
	reminderFieldDate
	reminderFieldCount
)

// Filter form fields
const (
	filterFieldTitle = iota
	filterFieldCategory
	filterFieldPriority
	filterFieldCount
)

// Model represents the application state
type Model struct {
	session       *commands.Session
	table         table.Model
	showDueSoon   bool
	width, height int
	err           error
	message       string

	// Configuration
	config config.Config
	styles config.Styles
	keyMap keymaps.KeyMap

	// View state
	tab      Tab
	rowKeys  []string // per table row: task id, name, or reminder index; "" for headers
	criteria views.Criteria
	dirty    bool

	// Sorting and grouping state
	sortBy    views.SortBy
	groupBy   views.GroupBy
	sortOrder views.SortOrder

	// Form state
	mode        InputMode
	activeInput int

	titleInput    textinput.Model
	descInput     textinput.Model
	deadlineInput textinput.Model
	categoryPick  choice
	priorityPick  choice
	statusPick    choice
	editingTaskID string // "" when adding

	nameInput     textinput.Model
	prompt        promptPurpose
	promptTarget  string
	reminderName  textinput.Model
	reminderDate  textinput.Model
	reminderType  choice
	reminderTask  models.Task
	filterInput   textinput.Model
	filterCatPick choice
	filterPriPick choice

	// Delete confirmation state
	deleteKey string

	// Startup notification
	dueReminders []models.Reminder

	calendarMonth       models.Date
	calendarSelectedDay int
}

// choice is a fixed list of options cycled with left/right
type choice struct {
	options []string
	index   int
}

func newChoice(options []string, current string) choice {
	c := choice{options: options}
	for i, o := range options {
		if o == current {
			c.index = i
		}
	}
	return c
}

func (c choice) Value() string {
	if len(c.options) == 0 {
		return ""
	}
	return c.options[c.index]
}

func (c *choice) Next() {
	if len(c.options) > 0 {
		c.index = (c.index + 1) % len(c.options)
	}
}

func (c *choice) Prev() {
	if len(c.options) > 0 {
		c.index = (c.index - 1 + len(c.options)) % len(c.options)
	}
}

// NewModel creates a new UI model over a loaded session
func NewModel(session *commands.Session, cfg config.Config, styles config.Styles) Model {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithKeyMap(tableKeyMap()),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(styles.BorderColor)).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(styles.SelectedTextColor)).
		Background(lipgloss.Color(styles.SelectedBgColor)).
		Bold(true)
	t.SetStyles(s)

	newInput := func(placeholder string) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.Width = 40
		return in
	}

	m := Model{
		session:       session,
		table:         t,
		showDueSoon:   true,
		config:        cfg,
		styles:        styles,
		keyMap:        keymaps.BuildKeyMap(cfg.KeyMap),
		mode:          NormalMode,
		tab:           TasksTab,
		titleInput:    newInput("Title"),
		descInput:     newInput("Description (optional)"),
		deadlineInput: newInput("Deadline (YYYY-MM-DD, optional)"),
		nameInput:     newInput("Name"),
		reminderName:  newInput("Reminder name"),
		reminderDate:  newInput("Reminder date (YYYY-MM-DD)"),
		filterInput:   newInput("Title contains"),
	}

	today := session.Repo.Today()
	m.calendarMonth = models.NewDate(today.Year(), today.Month(), 1)
	m.calendarSelectedDay = today.Day()

	// Reminders dated today are shown once, before anything else
	m.dueReminders = session.Repo.DueToday()
	if len(m.dueReminders) > 0 {
		m.mode = NotificationMode
	}

	m.refresh()
	return m
}

// tableKeyMap keeps the table's navigation off the keys used for commands
func tableKeyMap() table.KeyMap {
	km := table.DefaultKeyMap()
	km.PageUp = key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up"))
	km.PageDown = key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down"))
	km.HalfPageUp = key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "½ page up"))
	km.HalfPageDown = key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "½ page down"))
	km.GotoTop = key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "go to start"))
	km.GotoBottom = key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "go to end"))
	return km
}

// Init initializes the model (required by Bubble Tea Model interface)
func (m Model) Init() tea.Cmd {
	return nil
}

// Run starts the terminal UI and blocks until it exits
func Run(session *commands.Session, cfg config.Config, styles config.Styles) error {
	p := tea.NewProgram(NewModel(session, cfg, styles), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// setError records err for display. Rejections show their title.
func (m *Model) setError(err error) {
	m.message = ""
	if r, ok := repository.AsRejection(err); ok {
		m.err = fmt.Errorf("%s: %w", r.Title, err)
		return
	}
	m.err = err
}

// setMessage shows a status line and clears any error
func (m *Model) setMessage(format string, args ...interface{}) {
	m.err = nil
	m.message = fmt.Sprintf(format, args...)
}
