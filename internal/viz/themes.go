package viz

import "github.com/charmbracelet/lipgloss"

// Theme holds the colour scheme shared by the interactive views.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Muted     lipgloss.Color
	Good      lipgloss.Color
	Bad       lipgloss.Color
}

var (
	ThemeAurora = Theme{
		Name:      "aurora",
		Primary:   lipgloss.Color("#00e5a0"),
		Secondary: lipgloss.Color("#4dd2ff"),
		Accent:    lipgloss.Color("#ffd166"),
		Muted:     lipgloss.Color("#5c6f7a"),
		Good:      lipgloss.Color("#7bff9e"),
		Bad:       lipgloss.Color("#ff5d5d"),
	}

	ThemePhosphor = Theme{
		Name:      "phosphor",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Muted:     lipgloss.Color("#005500"),
		Good:      lipgloss.Color("#88ff88"),
		Bad:       lipgloss.Color("#ffff00"),
	}

	ThemeNebula = Theme{
		Name:      "nebula",
		Primary:   lipgloss.Color("#ff00ff"),
		Secondary: lipgloss.Color("#00ffff"),
		Accent:    lipgloss.Color("#ffff00"),
		Muted:     lipgloss.Color("#666666"),
		Good:      lipgloss.Color("#00ff88"),
		Bad:       lipgloss.Color("#ff4444"),
	}

	ThemeMono = Theme{
		Name:      "mono",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Muted:     lipgloss.Color("#888888"),
		Good:      lipgloss.Color("#00ff00"),
		Bad:       lipgloss.Color("#ff0000"),
	}

	CurrentTheme = ThemeAurora

	Themes = []Theme{
		ThemeAurora,
		ThemePhosphor,
		ThemeNebula,
		ThemeMono,
	}
)

// GetTheme returns the theme with the given name, falling back to the
// default.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeAurora
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// CycleTheme switches to the next theme in order and returns its name.
func CycleTheme() string {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return CurrentTheme.Name
		}
	}
	CurrentTheme = Themes[0]
	return CurrentTheme.Name
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
