package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/qscan/internal/domain"
)

// handleGenerateKey routes keys on the generate page. Everything that is
// not an action goes to the text input, so only esc and ctrl+c quit.
func (m Model) handleGenerateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Escape):
		return m, tea.Quit

	case key.Matches(msg, Keys.Generate):
		return m, GenerateCmd(m.GenSvc, m.TextInput.Value())

	case key.Matches(msg, Keys.Download):
		if m.Generated == nil {
			return m, m.setStatus(domain.UserMessage(domain.ErrNoImage), true)
		}
		return m, DownloadCmd(m.GenSvc)
	}

	var cmd tea.Cmd
	m.TextInput, cmd = m.TextInput.Update(msg)
	return m, cmd
}
