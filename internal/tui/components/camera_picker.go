package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/qscan/internal/domain"
	"github.com/mmcdole/qscan/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

const pickerWidth = 40

// CameraPicker is a popup listing enumerated cameras. Typing filters the
// list; the selection is reported as an index into the original devices.
type CameraPicker struct {
	visible  bool
	devices  []domain.CameraDevice
	active   int
	query    string
	filtered []int // indices into devices
	cursor   int
}

// NewCameraPicker creates a hidden picker
func NewCameraPicker() CameraPicker {
	return CameraPicker{}
}

// Show opens the picker on devices with the cursor on the active camera
func (p *CameraPicker) Show(devices []domain.CameraDevice, active int) {
	p.visible = true
	p.devices = devices
	p.active = active
	p.query = ""
	p.applyFilter()

	p.cursor = 0
	for i, idx := range p.filtered {
		if idx == active {
			p.cursor = i
			break
		}
	}
}

// Hide dismisses the picker
func (p *CameraPicker) Hide() {
	p.visible = false
}

// IsVisible returns whether the picker is shown
func (p CameraPicker) IsVisible() bool {
	return p.visible
}

// Query returns the current filter text
func (p CameraPicker) Query() string {
	return p.query
}

// HandleKey processes a key press, returns (handled, selected).
// selected is the chosen device index, or -1 when nothing was chosen.
func (p *CameraPicker) HandleKey(msg tea.KeyMsg) (handled bool, selected int) {
	if !p.visible {
		return false, -1
	}

	switch msg.Type {
	case tea.KeyEsc:
		p.visible = false
		return true, -1
	case tea.KeyEnter:
		if len(p.filtered) == 0 {
			return true, -1
		}
		p.visible = false
		return true, p.filtered[p.cursor]
	case tea.KeyUp, tea.KeyCtrlP:
		if p.cursor > 0 {
			p.cursor--
		}
		return true, -1
	case tea.KeyDown, tea.KeyCtrlN, tea.KeyTab:
		if p.cursor < len(p.filtered)-1 {
			p.cursor++
		}
		return true, -1
	case tea.KeyBackspace:
		if r := []rune(p.query); len(r) > 0 {
			p.query = string(r[:len(r)-1])
			p.applyFilter()
		}
		return true, -1
	case tea.KeySpace:
		p.query += " "
		p.applyFilter()
		return true, -1
	case tea.KeyRunes:
		p.query += string(msg.Runes)
		p.applyFilter()
		return true, -1
	}

	return true, -1 // consume all keys when visible
}

func (p *CameraPicker) applyFilter() {
	p.cursor = 0
	p.filtered = p.filtered[:0]

	if strings.TrimSpace(p.query) == "" {
		for i := range p.devices {
			p.filtered = append(p.filtered, i)
		}
		return
	}

	names := make([]string, len(p.devices))
	for i, d := range p.devices {
		names[i] = strings.ToLower(d.DisplayName())
	}
	for _, match := range fuzzy.Find(strings.ToLower(p.query), names) {
		p.filtered = append(p.filtered, match.Index)
	}
}

// View renders the picker
func (p CameraPicker) View() string {
	if !p.visible {
		return ""
	}

	var lines []string
	if len(p.filtered) == 0 {
		lines = append(lines, styles.DimStyle.Render(styles.Pad("  no matching camera", pickerWidth)))
	}
	for i, idx := range p.filtered {
		prefix := "  "
		if idx == p.active {
			prefix = "✓ "
		}
		text := styles.Pad(prefix+fmt.Sprintf("%d. ", idx+1)+styles.Truncate(p.devices[idx].DisplayName(), pickerWidth-6), pickerWidth)

		switch {
		case i == p.cursor:
			lines = append(lines, styles.SelectedItemStyle.Render(text))
		case idx == p.active:
			lines = append(lines, styles.ActiveItemStyle.Render(text))
		default:
			lines = append(lines, styles.NormalItemStyle.Render(text))
		}
	}

	filter := styles.DimStyle.Render("filter: ") + p.query
	if p.query == "" {
		filter = styles.DimStyle.Render("type to filter")
	}

	content := styles.ModalTitleStyle.Render("Camera") + "\n" +
		strings.Join(lines, "\n") + "\n\n" + filter

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Teal).
		Background(styles.SlateDark).
		Padding(0, 1).
		Render(content)
}
