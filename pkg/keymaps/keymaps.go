package keymaps

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type KeyDefinition struct {
	DefaultKey string
	Help       string
}

var KeyDefinitions = map[string]KeyDefinition{
	"ShowHelp":        {"ctrl+b", "show/hide commands"},
	"QuitApp":         {"q", "quit"},
	"SaveData":        {"ctrl+s", "save all data"},
	"NextTab":         {"tab", "next screen"},
	"PrevTab":         {"shift+tab", "previous screen"},
	"AddItem":         {"a", "add"},
	"EditItem":        {"e", "edit / rename"},
	"DeleteItem":      {"d", "delete"},
	"CycleStatus":     {"space", "cycle task status"},
	"AddReminder":     {"r", "add reminder to task"},
	"FilterTasks":     {"ctrl+f,/", "filter tasks"},
	"ClearFilter":     {"x", "clear filter"},
	"ToggleDueSoon":   {"u", "show/hide due soon"},
	"PickDeadline":    {"ctrl+t", "pick deadline on calendar"},
	"CalendarLeft":    {"left", "move left in calendar"},
	"CalendarRight":   {"right", "move right in calendar"},
	"CalendarUp":      {"up", "move up in calendar"},
	"CalendarDown":    {"down", "move down in calendar"},
	"CalendarSelect":  {"enter", "select day in calendar"},
	"JumpToToday":     {"h", "jump to today"},
	"ToggleSortBy":    {"s", "cycle sort by"},
	"ToggleGroupBy":   {"g", "cycle group by"},
	"ToggleSortOrder": {"o", "toggle sort order"},
}

type KeyMap struct {
	ShowHelp        key.Binding
	QuitApp         key.Binding
	SaveData        key.Binding
	NextTab         key.Binding
	PrevTab         key.Binding
	AddItem         key.Binding
	EditItem        key.Binding
	DeleteItem      key.Binding
	CycleStatus     key.Binding
	AddReminder     key.Binding
	FilterTasks     key.Binding
	ClearFilter     key.Binding
	ToggleDueSoon   key.Binding
	PickDeadline    key.Binding
	CalendarLeft    key.Binding
	CalendarRight   key.Binding
	CalendarUp      key.Binding
	CalendarDown    key.Binding
	CalendarSelect  key.Binding
	JumpToToday     key.Binding
	ToggleSortBy    key.Binding
	ToggleGroupBy   key.Binding
	ToggleSortOrder key.Binding
}

// BuildKeyMap applies configured overrides to the default bindings. Action
// names match case-insensitively since viper lowercases map keys.
func BuildKeyMap(configOverrides map[string]string) KeyMap {
	overrides := make(map[string]string, len(configOverrides))
	for action, keys := range configOverrides {
		overrides[strings.ToLower(action)] = keys
	}

	km := KeyMap{}
	for action, def := range KeyDefinitions {
		keyStr := def.DefaultKey
		if override, exists := overrides[strings.ToLower(action)]; exists && override != "" {
			keyStr = override
		}

		binding := parseKeyBinding(keyStr, def.DefaultKey, def.Help)
		switch action {
		case "ShowHelp":
			km.ShowHelp = binding
		case "QuitApp":
			km.QuitApp = binding
		case "SaveData":
			km.SaveData = binding
		case "NextTab":
			km.NextTab = binding
		case "PrevTab":
			km.PrevTab = binding
		case "AddItem":
			km.AddItem = binding
		case "EditItem":
			km.EditItem = binding
		case "DeleteItem":
			km.DeleteItem = binding
		case "CycleStatus":
			km.CycleStatus = binding
		case "AddReminder":
			km.AddReminder = binding
		case "FilterTasks":
			km.FilterTasks = binding
		case "ClearFilter":
			km.ClearFilter = binding
		case "ToggleDueSoon":
			km.ToggleDueSoon = binding
		case "PickDeadline":
			km.PickDeadline = binding
		case "CalendarLeft":
			km.CalendarLeft = binding
		case "CalendarRight":
			km.CalendarRight = binding
		case "CalendarUp":
			km.CalendarUp = binding
		case "CalendarDown":
			km.CalendarDown = binding
		case "CalendarSelect":
			km.CalendarSelect = binding
		case "JumpToToday":
			km.JumpToToday = binding
		case "ToggleSortBy":
			km.ToggleSortBy = binding
		case "ToggleGroupBy":
			km.ToggleGroupBy = binding
		case "ToggleSortOrder":
			km.ToggleSortOrder = binding
		}
	}
	return km
}

func parseKeyBinding(keyStr, defaultKey, helpText string) key.Binding {
	if keyStr == "" {
		keyStr = defaultKey
	}

	// Handle multiple keys separated by commas
	keys := strings.Split(keyStr, ",")
	for i, k := range keys {
		keys[i] = strings.TrimSpace(k)
	}
	helpKey := keys[0]

	// bubbletea reports the space bar as " "
	for i, k := range keys {
		if k == "space" {
			keys[i] = " "
		}
	}

	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(helpKey, helpText),
	)
}

// GetDefaultKeyMappings returns the default key mappings for configuration
func GetDefaultKeyMappings() map[string]string {
	keyMappings := make(map[string]string)
	for action, def := range KeyDefinitions {
		keyMappings[action] = def.DefaultKey
	}
	return keyMappings
}
