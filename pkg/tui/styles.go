package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/postudio/postudio-terminal/pkg/models"
)

// Color constants
const (
	ColorActive   = "170" // Purple/magenta for active elements
	ColorInactive = "240" // Gray for inactive elements
	ColorSelected = "236" // Dark gray for background selection
	ColorNormal   = "245" // Light gray for normal text
	ColorDim      = "241" // Dimmer gray
	ColorWarning  = "214" // Orange/yellow for warnings and fuzzy entries
	ColorDanger   = "196" // Red for errors
	ColorSuccess  = "28"  // Green for success
	ColorWhite    = "255"
	ColorDark     = "235"
	ColorPrimary  = "33" // Blue for primary actions

	// light theme
	ColorLightText     = "236"
	ColorLightSelected = "254"
	ColorLightBorder   = "250"
	ColorLightActive   = "90"
)

// palette is the set of colours a theme is built from.
type palette struct {
	text, dim, active, inactive, selected, warning, danger, success, statusFg, statusBg string
}

var darkPalette = palette{
	text:     ColorNormal,
	dim:      ColorDim,
	active:   ColorActive,
	inactive: ColorInactive,
	selected: ColorSelected,
	warning:  ColorWarning,
	danger:   ColorDanger,
	success:  ColorSuccess,
	statusFg: "230",
	statusBg: "62",
}

var lightPalette = palette{
	text:     ColorLightText,
	dim:      ColorDim,
	active:   ColorLightActive,
	inactive: ColorLightBorder,
	selected: ColorLightSelected,
	warning:  "130",
	danger:   "160",
	success:  ColorSuccess,
	statusFg: ColorWhite,
	statusBg: ColorPrimary,
}

// Styles holds every style the views render with. Views keep a pointer, so
// swapping the theme restyles everything at once.
type Styles struct {
	Theme string

	ActiveBorder   lipgloss.Style
	InactiveBorder lipgloss.Style
	Selected       lipgloss.Style
	Normal         lipgloss.Style
	Dim            lipgloss.Style
	Fuzzy          lipgloss.Style
	Header         lipgloss.Style
	Title          lipgloss.Style
	Help           lipgloss.Style
	Status         lipgloss.Style
	Error          lipgloss.Style
	Checked        lipgloss.Style
}

// NewStyles builds the styles for a theme name; anything but "light" is dark.
func NewStyles(theme string) *Styles {
	p := darkPalette
	if theme == models.ThemeLight {
		p = lightPalette
	} else {
		theme = models.ThemeDark
	}

	return &Styles{
		Theme: theme,
		ActiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.active)),
		InactiveBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.inactive)),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.active)).
			Background(lipgloss.Color(p.selected)).
			Bold(true),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.text)),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.dim)),
		Fuzzy: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.warning)),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.warning)).
			PaddingLeft(1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.active)),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.dim)).
			PaddingLeft(1),
		Status: lipgloss.NewStyle().
			Background(lipgloss.Color(p.statusBg)).
			Foreground(lipgloss.Color(p.statusFg)).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.danger)).
			Bold(true),
		Checked: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.success)).
			Bold(true),
	}
}

// Set replaces s with the styles for theme in place.
func (s *Styles) Set(theme string) {
	*s = *NewStyles(theme)
}
