package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Recurring events: cyan
	colorRepeat = color.New(color.FgCyan)

	// Holidays: red, like a printed calendar
	colorHoliday = color.New(color.FgRed)

	// Conflicts and other warnings: yellow
	colorWarn = color.New(color.FgYellow)

	// Today on the month grid
	colorToday = color.New(color.Bold, color.ReverseVideo)

	// Muted: past events and secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatHeader(s string) string  { return colorHeader.Sprint(s) }
func formatRepeat(s string) string  { return colorRepeat.Sprint(s) }
func formatHoliday(s string) string { return colorHoliday.Sprint(s) }
func formatWarn(s string) string    { return colorWarn.Sprint(s) }
func formatToday(s string) string   { return colorToday.Sprint(s) }
func formatMuted(s string) string   { return colorMuted.Sprint(s) }
