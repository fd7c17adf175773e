// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

// DefaultName is the theme used when none is configured.
const DefaultName = "mocha"

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Header and footer bars
	BgSelection string `toml:"bg_selection"` // Cursor day
	Fg          string `toml:"fg"`           // Primary foreground
	FgMuted     string `toml:"fg_muted"`     // Past days, secondary text
	Accent      string `toml:"accent"`       // Title, borders
	Event       string `toml:"event"`        // Days and rows with one-off events
	Repeat      string `toml:"repeat"`       // Recurring events
	Holiday     string `toml:"holiday"`      // Holidays
	Today       string `toml:"today"`        // Today's date
	Warning     string `toml:"warning"`      // Conflicts, errors
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load loads a theme by name from embedded files.
// Falls back to mocha if the theme is not found.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = DefaultName
	}
	name = strings.ToLower(name)

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		if name != DefaultName {
			return Load(DefaultName)
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()

	return &t, nil
}

func (t *Theme) applyDefaults() {
	t.BgHighlight = coalesce(t.BgHighlight, t.Bg)
	t.BgSelection = coalesce(t.BgSelection, t.BgHighlight)
	t.Event = coalesce(t.Event, t.Accent)
	t.Repeat = coalesce(t.Repeat, t.Accent)
	t.Holiday = coalesce(t.Holiday, t.Warning, t.Accent)
	t.Today = coalesce(t.Today, t.Accent)
	t.Warning = coalesce(t.Warning, t.Accent)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns the embedded theme names, sorted.
func Available() []string {
	entries, err := embeddedThemes.ReadDir("embedded")
	if err != nil {
		return []string{DefaultName}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	slices.Sort(names)
	return names
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	return slices.Contains(Available(), strings.ToLower(name))
}
