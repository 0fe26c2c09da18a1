package tui

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/qscan/internal/domain"
)

func (m Model) handleScanKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Path prompt for decoding an image file
	if m.InputModal.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.InputModal, cmd, submitted = m.InputModal.Update(msg)
		if submitted {
			path := expandHome(m.InputModal.Value())
			m.InputModal.Hide()
			return m, DecodeFileCmd(m.ScanSvc, path)
		}
		return m, cmd
	}

	if m.CameraPicker.IsVisible() {
		if handled, index := m.CameraPicker.HandleKey(msg); handled {
			if index < 0 {
				return m, nil
			}
			if index == m.Session.ActiveCameraIndex && m.Session.State == domain.ScanScanning {
				return m, nil
			}
			if m.Busy {
				return m, nil
			}
			m.Busy = true
			return m, UseCameraCmd(m.ScanSvc, index)
		}
	}

	if m.ResultPopup.IsVisible() && key.Matches(msg, Keys.Escape) {
		m.ResultPopup.Hide()
		return m, nil
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.StartStop):
		if m.Busy {
			return m, nil
		}
		m.Busy = true
		if m.Session.State == domain.ScanScanning {
			return m, StopScanCmd(m.ScanSvc)
		}
		m.Session.State = domain.ScanStarting
		return m, StartScanCmd(m.ScanSvc)

	case key.Matches(msg, Keys.Flip):
		if m.Session.State != domain.ScanScanning {
			return m, m.setStatus(domain.UserMessage(domain.ErrNotScanning), true)
		}
		if m.Busy {
			return m, nil
		}
		m.Busy = true
		return m, FlipCameraCmd(m.ScanSvc)

	case key.Matches(msg, Keys.Torch):
		if m.Session.State != domain.ScanScanning {
			return m, m.setStatus(domain.UserMessage(domain.ErrNotScanning), true)
		}
		return m, ToggleTorchCmd(m.ScanSvc)

	case key.Matches(msg, Keys.Camera):
		if len(m.Session.Devices) == 0 {
			return m, m.setStatus("Start the camera to list devices", true)
		}
		m.CameraPicker.Show(m.Session.Devices, m.Session.ActiveCameraIndex)
		return m, nil

	case key.Matches(msg, Keys.Upload):
		m.InputModal.Show("Decode image file")
		return m, nil

	case key.Matches(msg, Keys.Copy):
		if m.Result == nil {
			return m, m.setStatus(domain.UserMessage(domain.ErrNoResult), true)
		}
		return m, CopyResultCmd(m.ScanSvc)

	case key.Matches(msg, Keys.Open):
		if m.Result == nil {
			return m, m.setStatus(domain.UserMessage(domain.ErrNoResult), true)
		}
		if !m.Result.IsLink {
			return m, m.setStatus(domain.UserMessage(domain.ErrNotLink), true)
		}
		return m, OpenResultCmd(m.ScanSvc)

	case key.Matches(msg, Keys.Reopen):
		if m.Result != nil && !m.ResultPopup.IsVisible() {
			m.ResultPopup.Show(*m.Result)
		}
		return m, nil
	}

	return m, nil
}

// expandHome replaces a leading ~ with the user's home directory
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
