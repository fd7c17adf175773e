package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNewPalette_DerivedColors(t *testing.T) {
	base := &Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Event:       "#112233",
		Repeat:      "#445566",
		Holiday:     "#ff0000",
		Today:       "#00ff00",
		Warning:     "#888888",
	}

	palette := NewPalette(base)

	if want := lipgloss.Color(blendColors(base.Holiday, base.Bg, 0.80)); palette.HolidayBg != want {
		t.Errorf("HolidayBg = %q, want %q", palette.HolidayBg, want)
	}
	if want := lipgloss.Color(blendColors(base.Fg, base.Bg, 0.55)); palette.PastFg != want {
		t.Errorf("PastFg = %q, want %q", palette.PastFg, want)
	}
	// White text is readable on a dark selection.
	if palette.TextOnSelection != lipgloss.Color(base.Fg) {
		t.Errorf("TextOnSelection = %q, want %q", palette.TextOnSelection, base.Fg)
	}
	// Bright green needs the dark background colour as text.
	if palette.TextOnToday != lipgloss.Color(base.Bg) {
		t.Errorf("TextOnToday = %q, want %q", palette.TextOnToday, base.Bg)
	}
}

func TestNewPalette_NilUsesDefault(t *testing.T) {
	mocha, err := Load(DefaultName)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	palette := NewPalette(nil)
	if palette.Bg != lipgloss.Color(mocha.Bg) {
		t.Errorf("Bg = %q, want %q", palette.Bg, mocha.Bg)
	}
}

func TestBlendColors(t *testing.T) {
	tests := []struct {
		a, b  string
		ratio float64
		want  string
	}{
		{a: "#000000", b: "#ffffff", ratio: 0, want: "#000000"},
		{a: "#000000", b: "#ffffff", ratio: 1, want: "#ffffff"},
		{a: "#000000", b: "#ffffff", ratio: 2, want: "#ffffff"},
		{a: "#000000", b: "#fefefe", ratio: 0.5, want: "#7f7f7f"},
		{a: "red", b: "#ffffff", ratio: 0.5, want: "red"},
	}

	for _, tt := range tests {
		if got := blendColors(tt.a, tt.b, tt.ratio); got != tt.want {
			t.Errorf("blendColors(%q, %q, %v) = %q, want %q", tt.a, tt.b, tt.ratio, got, tt.want)
		}
	}
}

func TestRelativeLuminance(t *testing.T) {
	if got := relativeLuminance("#ffffff"); got < 0.99 {
		t.Errorf("relativeLuminance(white) = %v, want 1", got)
	}
	if got := relativeLuminance("#000000"); got != 0 {
		t.Errorf("relativeLuminance(black) = %v, want 0", got)
	}
	if !isLightTheme("#eff1f5") || isLightTheme("#1e1e2e") {
		t.Error("isLightTheme misclassifies latte or mocha backgrounds")
	}
}
