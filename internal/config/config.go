// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Display  DisplayConfig `toml:"display"`
	Holidays HolidayConfig `toml:"holidays"`
	Storage  StorageConfig `toml:"storage"`
	Log      LogConfig     `toml:"log"`
}

// DisplayConfig holds what the calendar views show and how.
type DisplayConfig struct {
	ShowDates       bool   `toml:"show_dates"`        // mark date events on the month grid
	ShowRepeats     bool   `toml:"show_repeats"`      // mark recurring events on the month grid
	DimPastEvents   bool   `toml:"dim_past_events"`   // render events before today dimmed
	ConfirmToDelete bool   `toml:"confirm_to_delete"` // ask before removing an event
	Theme           string `toml:"theme" validate:"required,oneof=mocha latte mono"`
}

// HolidayConfig holds public holiday settings.
type HolidayConfig struct {
	ShowOnCalendar bool   `toml:"show_on_calendar"`
	ShowOnEvents   bool   `toml:"show_on_events"`
	Merge          bool   `toml:"merge"` // collapse same-day holidays into one entry
	LoadFromWeb    bool   `toml:"load_from_web"`
	Source         string `toml:"source" validate:"required,oneof=nager ics"`
	Country        string `toml:"country" validate:"required,len=2,alpha"`
	BaseURL        string `toml:"base_url" validate:"required,url"`
	ICSURL         string `toml:"ics_url" validate:"omitempty,url"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Driver string `toml:"driver" validate:"required,oneof=sqlite yaml"`
	Path   string `toml:"path" validate:"required"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `toml:"level" validate:"required,oneof=debug info warn error"`
	Path  string `toml:"path" validate:"required"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			ShowDates:       true,
			ShowRepeats:     true,
			DimPastEvents:   true,
			ConfirmToDelete: true,
			Theme:           "mocha",
		},
		Holidays: HolidayConfig{
			ShowOnCalendar: true,
			ShowOnEvents:   true,
			Merge:          true,
			LoadFromWeb:    false,
			Source:         "nager",
			Country:        "CA",
			BaseURL:        "https://date.nager.at/api/v3",
		},
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   defaultDataPath("almanac.db"),
		},
		Log: LogConfig{
			Level: "info",
			Path:  defaultStatePath("almanac.log"),
		},
	}
}

func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".local", "share", "almanac", name)
}

func defaultStatePath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".local", "state", "almanac", name)
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "almanac", "config.toml")
}

// Load reads an optional .env file in the working directory, then loads
// configuration from the default path.
func Load() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	return LoadFrom(DefaultConfigPath())
}

// LoadDotEnv sets environment variables from path if it exists. Variables
// already set in the environment win.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.Path = expandPath(cfg.Storage.Path)
	cfg.Log.Path = expandPath(cfg.Log.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	strs := map[string]*string{
		"ALMANAC_THEME":            &cfg.Display.Theme,
		"ALMANAC_HOLIDAYS_SOURCE":  &cfg.Holidays.Source,
		"ALMANAC_HOLIDAYS_COUNTRY": &cfg.Holidays.Country,
		"ALMANAC_HOLIDAYS_URL":     &cfg.Holidays.BaseURL,
		"ALMANAC_HOLIDAYS_ICS_URL": &cfg.Holidays.ICSURL,
		"ALMANAC_STORAGE_DRIVER":   &cfg.Storage.Driver,
		"ALMANAC_STORAGE_PATH":     &cfg.Storage.Path,
		"ALMANAC_LOG_LEVEL":        &cfg.Log.Level,
		"ALMANAC_LOG_PATH":         &cfg.Log.Path,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"ALMANAC_SHOW_DATES":           &cfg.Display.ShowDates,
		"ALMANAC_SHOW_REPEATS":         &cfg.Display.ShowRepeats,
		"ALMANAC_DIM_PAST_EVENTS":      &cfg.Display.DimPastEvents,
		"ALMANAC_CONFIRM_TO_DELETE":    &cfg.Display.ConfirmToDelete,
		"ALMANAC_HOLIDAYS_ON_CALENDAR": &cfg.Holidays.ShowOnCalendar,
		"ALMANAC_HOLIDAYS_ON_EVENTS":   &cfg.Holidays.ShowOnEvents,
		"ALMANAC_HOLIDAYS_MERGE":       &cfg.Holidays.Merge,
		"ALMANAC_HOLIDAYS_FROM_WEB":    &cfg.Holidays.LoadFromWeb,
	}
	for key, dst := range bools {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var validate = validator.New()

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		if c.Holidays.Source == "ics" && c.Holidays.ICSURL == "" {
			return errors.New("holidays.ics_url must be set when holidays.source is \"ics\"")
		}
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// fieldMessage renders a validation failure using the TOML key path.
func fieldMessage(fe validator.FieldError) string {
	key := tomlKey(fe.StructNamespace())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s must be set", key)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", key, fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("%s must be a URL, got %q", key, fe.Value())
	case "len", "alpha":
		return fmt.Sprintf("%s must be a two-letter country code, got %q", key, fe.Value())
	default:
		return fmt.Sprintf("%s is invalid (%s)", key, fe.Tag())
	}
}

var tomlKeys = map[string]string{
	"Display": "display", "Holidays": "holidays", "Storage": "storage", "Log": "log",
	"Theme": "theme", "Source": "source", "Country": "country", "BaseURL": "base_url",
	"ICSURL": "ics_url", "Driver": "driver", "Path": "path", "Level": "level",
}

// tomlKey turns "Config.Holidays.BaseURL" into "holidays.base_url".
func tomlKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if k, ok := tomlKeys[p]; ok {
			parts[i] = k
		}
	}
	return strings.Join(parts, ".")
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
