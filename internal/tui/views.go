package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/qscan/internal/domain"
	"github.com/mmcdole/qscan/internal/tui/components"
	"github.com/mmcdole/qscan/internal/tui/styles"
)

// renderScanPage renders camera state, the device list and the last result
func (m Model) renderScanPage(width, height int) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Scan QR / Barcode"))
	b.WriteString("  ")
	b.WriteString(stateBadge(m.Session.State))
	b.WriteString("\n\n")

	if device, ok := m.Session.ActiveDevice(); ok {
		b.WriteString(styles.SubtitleStyle.Render("Camera  "))
		b.WriteString(device.DisplayName())
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  (%d of %d)", m.Session.ActiveCameraIndex+1, len(m.Session.Devices))))
		b.WriteString("\n")

		torch := "unavailable"
		switch {
		case m.TorchSupported && m.Session.TorchEnabled:
			torch = styles.WarnStyle.Render("on")
		case m.TorchSupported:
			torch = "off"
		}
		b.WriteString(styles.SubtitleStyle.Render("Torch   "))
		b.WriteString(torch)
		b.WriteString("\n\n")
	} else if m.Session.State == domain.ScanError {
		b.WriteString(styles.ErrorStyle.Render("No camera found"))
		b.WriteString(styles.DimStyle.Render("  press s to retry or u to decode a file"))
		b.WriteString("\n\n")
	} else {
		b.WriteString(styles.DimStyle.Render("Press s to start the camera or u to decode an image file"))
		b.WriteString("\n\n")
	}

	if n := len(m.Session.Devices); n > 1 {
		for i, d := range m.Session.Devices {
			name := styles.Truncate(d.DisplayName(), max(width-10, 10))
			if i == m.Session.ActiveCameraIndex {
				b.WriteString(styles.ActiveItemStyle.Render("  ▸ " + name))
			} else {
				b.WriteString(styles.NormalItemStyle.Render("    " + name))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.Result != nil {
		b.WriteString(styles.SubtitleStyle.Render("Last result"))
		b.WriteString(styles.DimStyle.Render("  " + styles.Sanitize(m.Result.Format)))
		b.WriteString("\n")
		payload := wordWrap(styles.Sanitize(m.Result.Payload), max(width-6, 10))
		if m.Result.IsLink {
			b.WriteString(styles.LinkStyle.Render(payload))
		} else {
			b.WriteString(payload)
		}
		b.WriteString("\n")
	}

	return styles.PanelStyle.Width(width).MaxHeight(height).Render(b.String())
}

// renderGeneratePage renders the text input and the last generated code
func (m Model) renderGeneratePage(width, height int) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("Generate QR"))
	b.WriteString("\n\n")
	b.WriteString(m.TextInput.View())
	b.WriteString("\n\n")

	if m.Generated != nil {
		// Leave room for the title, input and caption
		code := components.RenderCode(m.Generated.Image, max(width-4, 1), max(height-9, 1))
		b.WriteString(code)
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render(styles.Truncate(m.Generated.SourceText, max(width-4, 1))))
		if m.LastSaved != "" {
			b.WriteString("\n")
			b.WriteString(styles.SuccessStyle.Render("Saved " + m.LastSaved))
		}
	}

	return lipgloss.NewStyle().Padding(1, 2).Width(width).MaxHeight(height).Render(b.String())
}

func stateBadge(state domain.ScanState) string {
	switch state {
	case domain.ScanStarting:
		return styles.StartingBadge
	case domain.ScanScanning:
		return styles.ScanningBadge
	case domain.ScanStopped:
		return styles.StoppedBadge
	case domain.ScanError:
		return styles.ErrorBadge
	default:
		return styles.IdleBadge
	}
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wordLen := len([]rune(word))

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}
