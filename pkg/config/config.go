package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"taskdesk/pkg/keymaps"
	"taskdesk/pkg/utils"
)

// EnvPrefix prefixes environment overrides, e.g. TASKDESK_DATA_DIR
const EnvPrefix = "TASKDESK"

// Config holds the application configuration
type Config struct {
	DataDir    string            `json:"data_dir" mapstructure:"data_dir"`
	KeyMap     map[string]string `json:"keymap" mapstructure:"keymap"`
	StylesFile string            `json:"styles_file" mapstructure:"styles_file"`
}

// Styles holds the application colors and styling information
type Styles struct {
	// UI element colors
	BorderColor string `json:"border_color"`
	AccentColor string `json:"accent_color"`

	// Text colors
	NormalTextColor   string `json:"normal_text_color"`
	SelectedTextColor string `json:"selected_text_color"`
	SelectedBgColor   string `json:"selected_bg_color"`
	ErrorColor        string `json:"error_color"`

	// Task colors
	CategoryColor  string `json:"category_color"`
	PriorityColor  string `json:"priority_color"`
	DelayedColor   string `json:"delayed_color"`
	CompletedColor string `json:"completed_color"`
}

// DefaultStyles returns the built-in color scheme
func DefaultStyles() Styles {
	return Styles{
		BorderColor:       "240",
		AccentColor:       "205",
		NormalTextColor:   "86",
		SelectedTextColor: "229",
		SelectedBgColor:   "57",
		ErrorColor:        "9",
		CategoryColor:     "2",
		PriorityColor:     "4",
		DelayedColor:      "9",
		CompletedColor:    "242",
	}
}

// DefaultConfigPath returns ~/.config/taskdesk/config.json
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "taskdesk", "config.json"), nil
}

// Load reads the configuration at configPath, creating it with defaults when
// missing. An empty configPath uses DefaultConfigPath. Values can be
// overridden by TASKDESK_* environment variables, which may also come from a
// .env file in the working directory.
func Load(configPath string) (Config, Styles, error) {
	if err := godotenv.Load(); err != nil {
		utils.Log("No .env file loaded: %v", err)
	}

	if configPath == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return Config{}, Styles{}, err
		}
		configPath = p
	}
	configDir := filepath.Dir(configPath)

	// Defaults live next to the config file
	defaults := Config{
		DataDir:    filepath.Join(configDir, "data"),
		KeyMap:     keymaps.GetDefaultKeyMappings(),
		StylesFile: filepath.Join(configDir, "styles.json"),
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("keymap", defaults.KeyMap)
	v.SetDefault("styles_file", defaults.StylesFile)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Create the config directory if it doesn't exist
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return defaults, Styles{}, err
		}
		if err := v.WriteConfigAs(configPath); err != nil {
			return defaults, Styles{}, fmt.Errorf("error writing default config: %w", err)
		}
		utils.Log("Created default config at %s", configPath)
	} else if err != nil {
		return defaults, Styles{}, err
	} else if err := v.ReadInConfig(); err != nil {
		return defaults, Styles{}, fmt.Errorf("error reading config: %w", err)
	}

	config := Config{
		DataDir:    v.GetString("data_dir"),
		KeyMap:     v.GetStringMapString("keymap"),
		StylesFile: v.GetString("styles_file"),
	}
	utils.Log("Config loaded from %s (data dir %s)", configPath, config.DataDir)

	// Now load the styles file
	styles, err := loadStyles(config.StylesFile)
	if err != nil {
		return config, styles, fmt.Errorf("error loading styles: %w", err)
	}

	return config, styles, nil
}

// loadStyles loads the application styles from the specified path
func loadStyles(stylesPath string) (Styles, error) {
	defaultStyles := DefaultStyles()

	stylesData, err := os.ReadFile(stylesPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return defaultStyles, err
		}

		// If the file doesn't exist, create it with default values
		if err := os.MkdirAll(filepath.Dir(stylesPath), 0755); err != nil {
			return defaultStyles, err
		}
		stylesData, err = json.MarshalIndent(defaultStyles, "", "  ")
		if err != nil {
			return defaultStyles, err
		}
		if err := os.WriteFile(stylesPath, stylesData, 0644); err != nil {
			return defaultStyles, err
		}
		return defaultStyles, nil
	}

	// Missing keys keep their default color
	loadedStyles := defaultStyles
	if err := json.Unmarshal(stylesData, &loadedStyles); err != nil {
		return defaultStyles, err
	}

	return loadedStyles, nil
}
