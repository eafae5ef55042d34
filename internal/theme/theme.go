package theme

import "github.com/charmbracelet/lipgloss"

// Theme is a named palette. Each colour maps to one role in the reader.
type Theme struct {
	Name string

	Text   lipgloss.Color // verse text
	Subtle lipgloss.Color // crumbs and help
	Title  lipgloss.Color // selected values, spinner
	Number lipgloss.Color // verse numbers
	Faint  lipgloss.Color // disabled keys, empty states
	Alert  lipgloss.Color
	Notice lipgloss.Color
	Rule   lipgloss.Color // header separator
}

var (
	CatppuccinMocha = Theme{
		Name:   "Catppuccin Mocha",
		Text:   "#cdd6f4",
		Subtle: "#bac2de",
		Title:  "#cba6f7",
		Number: "#fab387",
		Faint:  "#7f849c",
		Alert:  "#f38ba8",
		Notice: "#94e2d5",
		Rule:   "#585b70",
	}

	CatppuccinLatte = Theme{
		Name:   "Catppuccin Latte",
		Text:   "#4c4f69",
		Subtle: "#6c6f85",
		Title:  "#8839ef",
		Number: "#fe640b",
		Faint:  "#acb0be",
		Alert:  "#d20f39",
		Notice: "#179299",
		Rule:   "#bcc0cc",
	}

	Dracula = Theme{
		Name:   "Dracula",
		Text:   "#f8f8f2",
		Subtle: "#8be9fd",
		Title:  "#bd93f9",
		Number: "#ffb86c",
		Faint:  "#6272a4",
		Alert:  "#ff5555",
		Notice: "#50fa7b",
		Rule:   "#44475a",
	}

	RosePineDawn = Theme{
		Name:   "Rosé Pine Dawn",
		Text:   "#575279",
		Subtle: "#797593",
		Title:  "#907aa9",
		Number: "#ea9d34",
		Faint:  "#9893a5",
		Alert:  "#b4637a",
		Notice: "#286983",
		Rule:   "#dfdad9",
	}

	SolarizedDark = Theme{
		Name:   "Solarized Dark",
		Text:   "#93a1a1",
		Subtle: "#657b83",
		Title:  "#6c71c4",
		Number: "#cb4b16",
		Faint:  "#586e75",
		Alert:  "#dc322f",
		Notice: "#2aa198",
		Rule:   "#073642",
	}
)

// AllThemes returns the themes in the order T cycles through them.
func AllThemes() []Theme {
	return []Theme{
		CatppuccinMocha,
		CatppuccinLatte,
		Dracula,
		RosePineDawn,
		SolarizedDark,
	}
}

// GetTheme looks a theme up by display name. Unknown names get Catppuccin
// Mocha.
func GetTheme(name string) Theme {
	for _, t := range AllThemes() {
		if t.Name == name {
			return t
		}
	}
	return CatppuccinMocha
}

// Next returns the theme after current, wrapping around.
func Next(current Theme) Theme {
	themes := AllThemes()
	for i, t := range themes {
		if t.Name == current.Name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}

// Styles are the lipgloss styles the reader renders with.
type Styles struct {
	Header   lipgloss.Style
	Title    lipgloss.Style
	Crumb    lipgloss.Style
	VerseNum lipgloss.Style
	Verse    lipgloss.Style
	Help     lipgloss.Style
	Disabled lipgloss.Style
	Empty    lipgloss.Style
	Error    lipgloss.Style
	Status   lipgloss.Style
	Spinner  lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Rule),
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.Title),
		Crumb:    lipgloss.NewStyle().Foreground(t.Subtle),
		VerseNum: lipgloss.NewStyle().Foreground(t.Number).Bold(true),
		Verse:    lipgloss.NewStyle().Foreground(t.Text),
		Help:     lipgloss.NewStyle().Foreground(t.Subtle),
		Disabled: lipgloss.NewStyle().Foreground(t.Faint).Strikethrough(true),
		Empty:    lipgloss.NewStyle().Foreground(t.Faint).Italic(true).Padding(1, 2),
		Error:    lipgloss.NewStyle().Foreground(t.Alert).Bold(true),
		Status:   lipgloss.NewStyle().Foreground(t.Notice),
		Spinner:  lipgloss.NewStyle().Foreground(t.Title),
	}
}
