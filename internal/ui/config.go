package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/almanac/internal/config"
	"github.com/javiermolinar/almanac/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  almanac config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = config.DefaultConfigPath()
			}
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout(), path)
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Config file (default: ~/.config/almanac/config.toml)")
	return cmd
}

func runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Display.Theme = promptTheme(reader, out, cfg.Display.Theme)
	cfg.Display.ConfirmToDelete = promptBool(reader, out, "Confirm before delete", cfg.Display.ConfirmToDelete)
	cfg.Display.DimPastEvents = promptBool(reader, out, "Dim past events", cfg.Display.DimPastEvents)
	cfg.Holidays.LoadFromWeb = promptBool(reader, out, "Load holidays from the web", cfg.Holidays.LoadFromWeb)
	cfg.Holidays.Source = promptValue(reader, out, "Holiday source (nager, ics)", cfg.Holidays.Source)
	cfg.Holidays.Country = strings.ToUpper(promptValue(reader, out, "Holiday country code", cfg.Holidays.Country))
	cfg.Holidays.ICSURL = promptValue(reader, out, "Holiday ICS URL", cfg.Holidays.ICSURL)
	cfg.Storage.Driver = promptValue(reader, out, "Storage driver (sqlite, yaml)", cfg.Storage.Driver)
	cfg.Storage.Path = promptValue(reader, out, "Storage path", cfg.Storage.Path)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[display]")
	fmt.Fprintf(out, "  show_dates        = %t\n", cfg.Display.ShowDates)
	fmt.Fprintf(out, "  show_repeats      = %t\n", cfg.Display.ShowRepeats)
	fmt.Fprintf(out, "  dim_past_events   = %t\n", cfg.Display.DimPastEvents)
	fmt.Fprintf(out, "  confirm_to_delete = %t\n", cfg.Display.ConfirmToDelete)
	fmt.Fprintf(out, "  theme             = %s\n", cfg.Display.Theme)
	fmt.Fprintln(out, "\n[holidays]")
	fmt.Fprintf(out, "  show_on_calendar  = %t\n", cfg.Holidays.ShowOnCalendar)
	fmt.Fprintf(out, "  show_on_events    = %t\n", cfg.Holidays.ShowOnEvents)
	fmt.Fprintf(out, "  merge             = %t\n", cfg.Holidays.Merge)
	fmt.Fprintf(out, "  load_from_web     = %t\n", cfg.Holidays.LoadFromWeb)
	fmt.Fprintf(out, "  source            = %s\n", cfg.Holidays.Source)
	fmt.Fprintf(out, "  country           = %s\n", cfg.Holidays.Country)
	if cfg.Holidays.ICSURL != "" {
		fmt.Fprintf(out, "  ics_url           = %s\n", cfg.Holidays.ICSURL)
	}
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  driver            = %s\n", cfg.Storage.Driver)
	fmt.Fprintf(out, "  path              = %s\n", cfg.Storage.Path)
	fmt.Fprintln(out, "\n[log]")
	fmt.Fprintf(out, "  level             = %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "  path              = %s\n", cfg.Log.Path)
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptBool(reader *bufio.Reader, out io.Writer, label string, current bool) bool {
	for {
		value := promptValue(reader, out, label+" (true/false)", strconv.FormatBool(current))
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
		fmt.Fprintf(out, "  Invalid value %q.\n", value)
	}
}

func promptTheme(reader *bufio.Reader, out io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, out, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
