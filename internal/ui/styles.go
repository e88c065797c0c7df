package ui

import "github.com/charmbracelet/lipgloss"

// Color palette - single violet accent with muted support colors.
const (
	ColorViolet   = "135" // Primary accent - titles, highlights
	ColorWhite    = "255" // Important text
	ColorGray     = "245" // Paths, secondary text
	ColorDarkGray = "238" // Separators
	ColorGreen    = "114" // Success lines
	ColorRed      = "196" // Errors
	ColorYellow   = "220" // Warnings
)

// Styles holds the terminal styles used by command output.
type Styles struct {
	Title     lipgloss.Style
	Path      lipgloss.Style
	Highlight lipgloss.Style
	Dim       lipgloss.Style
	Count     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
}

// DefaultStyles returns styled components for interactive terminals.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorViolet)),
		Path:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Highlight: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorViolet)),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Count:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWhite)),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen)),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle(),
		Path:      lipgloss.NewStyle(),
		Highlight: lipgloss.NewStyle(),
		Dim:       lipgloss.NewStyle(),
		Count:     lipgloss.NewStyle(),
		Success:   lipgloss.NewStyle(),
		Warning:   lipgloss.NewStyle(),
		Error:     lipgloss.NewStyle(),
	}
}
