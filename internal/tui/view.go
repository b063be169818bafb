package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"graspctl/internal/phase"
)

// View implements tea.Model.
func (m *Model) View() string {
	title := titleStyle.Render("graspctl")
	if m.session != "" {
		title += subtleStyle.Render("  session " + m.session)
	}

	sections := []string{title}
	if len(m.controls) > 0 {
		sections = append(sections, m.section(paneControls, "Controls", m.renderControls()))
	}
	sections = append(sections,
		m.section(panePhases, "Phases", m.renderPhases()),
		m.section(paneGrasps, "Grasps", m.renderGrasps()),
	)
	if m.message != "" {
		if m.failed {
			sections = append(sections, errorStyle.Render(m.message))
		} else {
			sections = append(sections, subtleStyle.Render(m.message))
		}
	}
	sections = append(sections, m.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) section(p pane, heading, body string) string {
	style := sectionStyle
	if m.focus == p {
		style = focusedSectionStyle
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, headerStyle.Render(heading), body))
}

func (m *Model) renderControls() string {
	labelWidth := 0
	for _, cv := range m.controls {
		labelWidth = max(labelWidth, lipgloss.Width(cv.ctl.Label()))
	}

	var lines []string
	for i, cv := range m.controls {
		c := cv.ctl
		line := fmt.Sprintf("%s %-*s %6d [%s] %6d  %s",
			m.marker(paneControls, i),
			labelWidth, c.Label(),
			c.Min(), cv.slider.Bar("─", "●"), c.Max(),
			cv.readout.String(),
		)
		lines = append(lines, line)
		if c.ShowsZeroMark() {
			// The zero mark sits under the slider's centre cell.
			indent := 2 + labelWidth + 1 + 6 + 2 + cv.slider.Width()/2
			lines = append(lines, subtleStyle.Render(strings.Repeat(" ", indent)+"0"))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderPhases() string {
	entries := m.coord.Entries()
	if len(entries) == 0 {
		return subtleStyle.Render("No phases")
	}

	var lines []string
	for i, e := range entries {
		line := fmt.Sprintf("%s %d. %-12s %s", m.marker(panePhases, i), i+1, e.Name,
			StatusStyle(e.Status).Render(StatusLabel(e.Status)))
		if e.Status == phase.StatusReady {
			line += subtleStyle.Render("  [execute]")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderGrasps() string {
	filters := subtleStyle.Render(fmt.Sprintf("%s show inverted grasps  %s show grasps for both sides",
		checkbox(m.display.ShowInverted), checkbox(m.display.BothSides)))
	entries := m.reg.Entries()
	if len(entries) == 0 {
		return filters + "\n" + subtleStyle.Render("No grasp candidates")
	}

	lines := []string{filters}
	for i, g := range entries {
		line := fmt.Sprintf("%s %-16s %s", m.marker(paneGrasps, i), g.Name,
			reachabilityStyle(g.Reachable).Render(ReachabilityLabel(g.Reachable)))
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m *Model) marker(p pane, i int) string {
	if m.focus == p && m.cursors[p] == i {
		return cursorStyle.Render(">")
	}
	return " "
}

// renderHelp lists the bindings available for the current selection.
func (m *Model) renderHelp() string {
	var parts []string
	for _, b := range m.helpBindings() {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return subtleStyle.Render(strings.Join(parts, " • "))
}

func (m *Model) helpBindings() []key.Binding {
	keys := m.keys
	keys.Execute.SetEnabled(m.selectedPhaseReady())
	keys.RunNext.SetEnabled(hasReady(m.coord))
	keys.Stop.SetEnabled(len(m.running) > 0)
	keys.Preview.SetEnabled(m.reg.Len() > 0)
	keys.Choose.SetEnabled(m.selectedGraspReachable())
	return keys.bindings(m.focus)
}

func hasReady(c *phase.Coordinator) bool {
	_, ok := c.Next()
	return ok
}

func (m *Model) selectedPhaseReady() bool {
	entries := m.coord.Entries()
	if len(entries) == 0 {
		return false
	}
	return entries[m.cursors[panePhases]].Status == phase.StatusReady
}

func (m *Model) selectedGraspReachable() bool {
	entries := m.reg.Entries()
	if len(entries) == 0 {
		return false
	}
	return entries[m.cursors[paneGrasps]].Reachable
}
