package tui

import (
	"github.com/charmbracelet/lipgloss"

	"graspctl/internal/phase"
)

const (
	colorText    lipgloss.Color = "#cdd6f4"
	colorSubtle  lipgloss.Color = "#7f849c"
	colorSurface lipgloss.Color = "#45475a"
	colorFocus   lipgloss.Color = "#b4befe"
	colorGreen   lipgloss.Color = "#a6e3a1"
	colorYellow  lipgloss.Color = "#f9e2af"
	colorBlue    lipgloss.Color = "#89b4fa"
	colorRed     lipgloss.Color = "#f38ba8"
)

// statusLabels and statusColors are the panel's presentation of a phase
// status. The coordinator only knows the status values.
var statusLabels = map[phase.Status]string{
	phase.StatusNotReady:  "Not ready",
	phase.StatusReady:     "Ready",
	phase.StatusRunning:   "Running",
	phase.StatusCompleted: "Completed",
	phase.StatusError:     "Error",
}

var statusColors = map[phase.Status]lipgloss.Color{
	phase.StatusNotReady:  colorSubtle,
	phase.StatusReady:     colorYellow,
	phase.StatusRunning:   colorBlue,
	phase.StatusCompleted: colorGreen,
	phase.StatusError:     colorRed,
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorFocus)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	subtleStyle  = lipgloss.NewStyle().Foreground(colorSubtle)
	cursorStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorFocus)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface).
			Padding(0, 1)
	focusedSectionStyle = sectionStyle.BorderForeground(colorFocus)
)

// StatusLabel returns the display label for a status.
func StatusLabel(s phase.Status) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// StatusStyle returns the style a status is rendered with.
func StatusStyle(s phase.Status) lipgloss.Style {
	c, ok := statusColors[s]
	if !ok {
		c = colorText
	}
	return lipgloss.NewStyle().Foreground(c)
}

// ReachabilityLabel returns the display label for a grasp's reachability.
func ReachabilityLabel(reachable bool) string {
	if reachable {
		return "reachable"
	}
	return "not reachable"
}

func reachabilityStyle(reachable bool) lipgloss.Style {
	if reachable {
		return lipgloss.NewStyle().Foreground(colorGreen)
	}
	return lipgloss.NewStyle().Foreground(colorRed)
}
