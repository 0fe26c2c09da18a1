package styles

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	Teal       = lipgloss.Color("#14B8A6")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Black      = lipgloss.Color("#000000")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Amber      = lipgloss.Color("#F59E0B")
	Blue       = lipgloss.Color("#3B82F6")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Teal)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Teal)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Amber)

	LinkStyle = lipgloss.NewStyle().
			Foreground(Blue).
			Underline(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Teal)

	HighlightStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Teal).
			Padding(0, 1)
)

// Scan state badges
var (
	IdleBadge     = lipgloss.NewStyle().Foreground(LightGray).Render("● idle")
	StartingBadge = lipgloss.NewStyle().Foreground(Amber).Render("◐ starting")
	ScanningBadge = lipgloss.NewStyle().Foreground(Green).Render("● scanning")
	StoppedBadge  = lipgloss.NewStyle().Foreground(DimGray).Render("○ stopped")
	ErrorBadge    = lipgloss.NewStyle().Foreground(Red).Render("✗ error")
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Padding(1, 2)

	// Codes are drawn dark on light regardless of terminal theme
	CodeStyle = lipgloss.NewStyle().
			Foreground(Black).
			Background(lipgloss.Color("#FFFFFF"))
)

// List item styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	ActiveItemStyle = lipgloss.NewStyle().
			Foreground(Teal)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Teal).
			Padding(1, 2).
			Background(SlateDark)

	ModalTitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true).
			MarginBottom(1)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Teal)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Helper functions

// Truncate truncates a string to the given display width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// Pad pads or cuts a string to exactly width runes
func Pad(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + spaces(width-len(r))
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// Hint renders a footer key hint, dimmed when the action is unavailable
func Hint(key, desc string, enabled bool) string {
	if !enabled {
		return DimStyle.Faint(true).Render(key + " " + desc)
	}
	return HelpKeyStyle.Render(key) + HelpDescStyle.Render(" "+desc)
}

// Sanitize drops control runes other than newline and tab so scanned text
// cannot drive the terminal
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			return r
		}
		return -1
	}, s)
}
