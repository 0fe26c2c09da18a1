package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/qscan/internal/domain"
	"github.com/mmcdole/qscan/internal/service"
	"github.com/mmcdole/qscan/internal/tui/components"
	"github.com/mmcdole/qscan/internal/tui/styles"
)

// Page identifies which controller the program hosts
type Page int

const (
	PageScan Page = iota
	PageGenerate
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateNormal ApplicationState = iota
	StateHelp
)

const (
	// Vertical layout: single footer line
	ChromeHeight = 1

	statusTimeout = 3 * time.Second
	tickInterval  = 100 * time.Millisecond
)

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	Page  Page
	State ApplicationState
	Ready bool

	// Services; only the one matching Page is set
	ScanSvc *service.ScanService
	GenSvc  *service.GenerateService

	// UI Components
	ResultPopup  components.ResultPopup
	CameraPicker components.CameraPicker
	InputModal   components.InputModal
	TextInput    textinput.Model

	// Live results from the scan service observer
	results   <-chan domain.DecodedResult
	autoStart bool

	// Data
	Session        domain.ScanSession
	TorchSupported bool
	Result         *domain.DecodedResult
	Generated      *domain.GeneratedImage
	LastSaved      string

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	Busy         bool // a camera transition is in flight
	SpinnerFrame int
}

// NewScanModel creates the scan page. Results decoded from the camera arrive
// on results; autoStart opens the camera as soon as the program starts.
func NewScanModel(svc *service.ScanService, results <-chan domain.DecodedResult, autoStart bool) Model {
	return Model{
		Page:         PageScan,
		State:        StateNormal,
		ScanSvc:      svc,
		ResultPopup:  components.NewResultPopup(),
		CameraPicker: components.NewCameraPicker(),
		InputModal:   components.NewInputModal(),
		results:      results,
		autoStart:    autoStart,
		Busy:         autoStart,
		Session: domain.ScanSession{
			State:             domain.ScanIdle,
			ActiveCameraIndex: domain.NoCamera,
		},
	}
}

// NewGenerateModel creates the generate page
func NewGenerateModel(svc *service.GenerateService) Model {
	ti := textinput.New()
	ti.Placeholder = "Text or URL to encode"
	ti.CharLimit = 4096
	ti.Prompt = "› "
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle
	ti.Focus()

	return Model{
		Page:      PageGenerate,
		State:     StateNormal,
		GenSvc:    svc,
		TextInput: ti,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	if m.Page == PageGenerate {
		return textinput.Blink
	}

	cmds := []tea.Cmd{
		WaitForResultCmd(m.results),
		TickCmd(tickInterval),
	}
	if m.autoStart {
		cmds = append(cmds, StartScanCmd(m.ScanSvc))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.TextInput.Width = max(msg.Width-8, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(tickInterval)

	case SessionMsg:
		m.Busy = false
		m.Session = msg.Session
		m.TorchSupported = msg.TorchSupported
		return m, m.setStatus(sessionStatus(msg), false)

	case TorchToggledMsg:
		m.Session.TorchEnabled = msg.On
		if msg.On {
			return m, m.setStatus("Torch on", false)
		}
		return m, m.setStatus("Torch off", false)

	case ResultMsg:
		m.showResult(msg.Result)
		return m, WaitForResultCmd(m.results)

	case FileDecodedMsg:
		m.showResult(msg.Result)
		return m, nil

	case CopiedMsg:
		return m, m.setStatus("Copied to clipboard", false)

	case LinkOpenedMsg:
		return m, m.setStatus("Opened "+styles.Truncate(styles.Sanitize(msg.URL), 48), false)

	case GeneratedMsg:
		img := msg.Image
		m.Generated = &img
		m.LastSaved = ""
		m.StatusMsg = ""
		return m, nil

	case DownloadedMsg:
		m.LastSaved = msg.Path
		return m, m.setStatus("Saved "+msg.Path, false)

	case ErrMsg:
		return m.handleError(msg)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Cursor blink and other widget messages
	var cmd tea.Cmd
	switch {
	case m.Page == PageGenerate:
		m.TextInput, cmd = m.TextInput.Update(msg)
	case m.InputModal.IsVisible():
		m.InputModal, cmd, _ = m.InputModal.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.State == StateHelp {
		m.State = StateNormal
		return m, nil
	}

	if m.Page == PageGenerate {
		return m.handleGenerateKey(msg)
	}
	return m.handleScanKey(msg)
}

// handleError shows the user-facing message and resyncs with the services.
// ErrBusy means a transition is already running and is ignored.
func (m Model) handleError(msg ErrMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.Err, domain.ErrBusy) {
		return m, nil
	}

	m.Busy = false
	if m.ScanSvc != nil {
		m.Session = m.ScanSvc.Session()
		m.TorchSupported = m.ScanSvc.CanToggleTorch()
	}
	if m.GenSvc != nil {
		if img, ok := m.GenSvc.Current(); ok {
			m.Generated = &img
		} else {
			m.Generated = nil
		}
	}
	return m, m.setStatus(domain.UserMessage(msg.Err), true)
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	return ClearStatusCmd(statusTimeout)
}

func (m *Model) showResult(r domain.DecodedResult) {
	m.Result = &r
	m.ResultPopup.Show(r)
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	contentHeight := max(m.Height-ChromeHeight, 1)

	var content string
	switch {
	case m.InputModal.IsVisible():
		content = lipgloss.Place(m.Width, contentHeight, lipgloss.Center, lipgloss.Center, m.InputModal.View())
	case m.CameraPicker.IsVisible():
		content = lipgloss.Place(m.Width, contentHeight, lipgloss.Center, lipgloss.Center, m.CameraPicker.View())
	case m.ResultPopup.IsVisible():
		content = lipgloss.Place(m.Width, contentHeight, lipgloss.Center, lipgloss.Center, m.ResultPopup.View())
	case m.Page == PageGenerate:
		content = m.renderGeneratePage(m.Width, contentHeight)
	default:
		content = m.renderScanPage(m.Width, contentHeight)
	}

	content = lipgloss.NewStyle().Width(m.Width).Height(contentHeight).MaxHeight(contentHeight).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderFooter())
}

// renderFooter renders status on the left, key hints in the centre and help on the right
func (m Model) renderFooter() string {
	var left string
	if m.Busy {
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Working...")
	} else if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	}

	var center, right string
	if m.Page == PageGenerate {
		center = strings.Join([]string{
			styles.Hint("enter", "generate", true),
			styles.Hint("C-s", "download", m.Generated != nil),
		}, "  ")
		right = styles.Hint("esc", "quit", true)
	} else {
		scanning := m.Session.State == domain.ScanScanning
		center = strings.Join([]string{
			styles.Hint("s", startStopLabel(m.Session.State), !m.Busy),
			styles.Hint("f", "flip", scanning && !m.Busy),
			styles.Hint("t", "torch", scanning && m.TorchSupported),
			styles.Hint("u", "file", true),
			styles.Hint("y", "copy", m.Result != nil),
			styles.Hint("o", "open", m.Result != nil && m.Result.IsLink),
		}, "  ")
		right = styles.Hint("?", "help", true)
	}

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		// Not enough space - just left + right
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
CAMERA                          RESULT
  s/Space    Start/stop           y      Copy to clipboard
  f          Flip camera          o      Open link
  c          Choose camera        Enter  Show last result
  t          Torch on/off         Esc    Close popup

FILES                           OTHER
  u          Decode image file    q      Quit
                                  ?      This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

func startStopLabel(state domain.ScanState) string {
	if state == domain.ScanScanning {
		return "stop"
	}
	return "start"
}

func sessionStatus(msg SessionMsg) string {
	device, ok := msg.Session.ActiveDevice()
	switch msg.Action {
	case "stopped":
		return "Camera stopped"
	case "switched":
		if ok {
			return "Switched to " + device.DisplayName()
		}
	case "started":
		if ok {
			return "Scanning with " + device.DisplayName()
		}
	}
	return ""
}
