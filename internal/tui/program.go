package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// NewProgram creates the bubbletea program for the panel in the alternate
// screen. Collaborators deliver [CandidatesMsg] and [FeedMsg] through the
// program's Send method.
func NewProgram(m *Model, opts ...tea.ProgramOption) *tea.Program {
	return tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
}
