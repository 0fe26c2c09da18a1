package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/qscan/internal/domain"
	"github.com/mmcdole/qscan/internal/tui/styles"
)

const popupWidth = 56

// ResultPopup shows the latest decoded payload. Links are rendered as links.
type ResultPopup struct {
	visible bool
	result  domain.DecodedResult
	hits    int
}

// NewResultPopup creates a hidden popup
func NewResultPopup() ResultPopup {
	return ResultPopup{}
}

// Show displays r, replacing any payload already shown
func (p *ResultPopup) Show(r domain.DecodedResult) {
	if p.visible && r.Payload == p.result.Payload {
		p.hits++
	} else {
		p.hits = 1
	}
	p.visible = true
	p.result = r
}

// Hide closes the popup; the result itself stays available
func (p *ResultPopup) Hide() {
	p.visible = false
}

// IsVisible returns whether the popup is shown
func (p ResultPopup) IsVisible() bool {
	return p.visible
}

// Result returns the payload being shown
func (p ResultPopup) Result() domain.DecodedResult {
	return p.result
}

// View renders the popup
func (p ResultPopup) View() string {
	if !p.visible {
		return ""
	}

	payload := styles.Sanitize(p.result.Payload)
	body := lipgloss.NewStyle().Width(popupWidth).Foreground(styles.White)
	text := body.Render(payload)
	if p.result.IsLink {
		text = body.Inherit(styles.LinkStyle).Render(payload)
	}

	meta := styles.Sanitize(p.result.Format)
	if p.result.Source == domain.SourceFile {
		meta += " · from file"
	}
	if p.hits > 1 {
		meta += " · seen ×" + strconv.Itoa(p.hits)
	}

	actions := []string{
		styles.Hint("y", "copy", true),
		styles.Hint("o", "open", p.result.IsLink),
		styles.Hint("esc", "close", true),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("Scanned"),
		text,
		"",
		styles.DimStyle.Render(meta),
		"",
		strings.Join(actions, "   "),
	)

	return styles.ModalStyle.Render(content)
}
