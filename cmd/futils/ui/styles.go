// Package ui provides the status-line styling for the futils CLI.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Semantic colors
var (
	Destructive = lipgloss.Color("#e53935") // Red
	Success     = lipgloss.Color("#8BC34A") // Lime Green
	Warning     = lipgloss.Color("#FFC107") // Yellow
	Info        = lipgloss.Color("#2196F3") // Blue

	LightMuted = lipgloss.Color("#6a737d")
	DarkMuted  = lipgloss.Color("#8b949e")
)

// Theme holds the current color scheme
type Theme struct {
	Muted  lipgloss.Color
	IsDark bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{Muted: LightMuted}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{Muted: DarkMuted, IsDark: true}
}

// DetectTheme picks a theme from COLORFGBG or FUTILS_DARK_MODE, defaulting
// to light.
func DetectTheme() Theme {
	// Format is usually "foreground;background"
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
			// 0-6 and 8 (dark grey) are likely dark backgrounds
			if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
				return DarkTheme()
			}
		}
	}

	if os.Getenv("FUTILS_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds the status line styles
type Styles struct {
	Theme Theme

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles for the detected theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// Status renders a "label detail" line, e.g. "formatted a.json".
func (s Styles) Status(style lipgloss.Style, label, detail string) string {
	if detail == "" {
		return style.Render(label)
	}
	return style.Render(label) + " " + s.Muted.Render(detail)
}
