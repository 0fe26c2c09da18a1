package tui

import "github.com/mmcdole/qscan/internal/domain"

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// SessionMsg carries the session after a start, stop, flip or camera switch
type SessionMsg struct {
	Session        domain.ScanSession
	Action         string // "started", "stopped", "switched"
	TorchSupported bool
}

// TorchToggledMsg reports the new torch state
type TorchToggledMsg struct {
	On bool
}

// ResultMsg carries a result decoded from the live camera
type ResultMsg struct {
	Result domain.DecodedResult
}

// FileDecodedMsg carries a result decoded from an image file
type FileDecodedMsg struct {
	Result domain.DecodedResult
	Path   string
}

// CopiedMsg signals the payload reached the clipboard
type CopiedMsg struct{}

// LinkOpenedMsg signals the payload was handed to the browser
type LinkOpenedMsg struct {
	URL string
}

// GeneratedMsg carries a freshly generated code
type GeneratedMsg struct {
	Image domain.GeneratedImage
}

// DownloadedMsg reports where a generated code was saved
type DownloadedMsg struct {
	Path string
}

// TickMsg drives the spinner
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
