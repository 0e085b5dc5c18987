package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name   string
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Accent lipgloss.Color
	Bodies []lipgloss.Color
}

var Themes = []Theme{
	{
		Name:   "cyberpunk",
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
		Accent: lipgloss.Color("#00ffff"),
		Bodies: []lipgloss.Color{"#ff00ff", "#00ffff", "#ffff00", "#00ff00", "#ff8800"},
	},
	{
		Name:   "retro",
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Accent: lipgloss.Color("#88ff88"),
		Bodies: []lipgloss.Color{"#00ff00", "#88ff88", "#00cc00"},
	},
	{
		Name:   "sunset",
		Text:   lipgloss.Color("#fff5f5"),
		Muted:  lipgloss.Color("#8b6b8c"),
		Accent: lipgloss.Color("#feca57"),
		Bodies: []lipgloss.Color{"#ff6b6b", "#feca57", "#ff9ff3", "#5fd068", "#48dbfb"},
	},
}

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
