package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/qscan/internal/domain"
	"github.com/mmcdole/qscan/internal/service"
)

// cameraTimeout bounds enumeration plus acquisition of a device
const cameraTimeout = 15 * time.Second

// Command factories for async operations

// StartScanCmd enumerates cameras and starts scanning
func StartScanCmd(svc *service.ScanService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cameraTimeout)
		defer cancel()

		if err := svc.Start(ctx); err != nil {
			return ErrMsg{Err: err, Context: "starting camera"}
		}
		return sessionMsg(svc, "started")
	}
}

// StopScanCmd releases the camera
func StopScanCmd(svc *service.ScanService) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Stop(); err != nil {
			return ErrMsg{Err: err, Context: "stopping camera"}
		}
		return sessionMsg(svc, "stopped")
	}
}

// FlipCameraCmd moves to the next enumerated camera
func FlipCameraCmd(svc *service.ScanService) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cameraTimeout)
		defer cancel()

		if err := svc.Flip(ctx); err != nil {
			return ErrMsg{Err: err, Context: "switching camera"}
		}
		return sessionMsg(svc, "switched")
	}
}

// UseCameraCmd switches to the camera at index
func UseCameraCmd(svc *service.ScanService, index int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), cameraTimeout)
		defer cancel()

		if err := svc.UseCamera(ctx, index); err != nil {
			return ErrMsg{Err: err, Context: "switching camera"}
		}
		return sessionMsg(svc, "switched")
	}
}

// ToggleTorchCmd flips the torch on the active track
func ToggleTorchCmd(svc *service.ScanService) tea.Cmd {
	return func() tea.Msg {
		on, err := svc.ToggleTorch()
		if err != nil {
			return ErrMsg{Err: err, Context: "torch"}
		}
		return TorchToggledMsg{On: on}
	}
}

// DecodeFileCmd decodes a still image from disk
func DecodeFileCmd(svc *service.ScanService, path string) tea.Cmd {
	return func() tea.Msg {
		r, err := svc.DecodeFile(path)
		if err != nil {
			return ErrMsg{Err: err, Context: "decoding file"}
		}
		return FileDecodedMsg{Result: r, Path: path}
	}
}

// CopyResultCmd writes the current payload to the clipboard
func CopyResultCmd(svc *service.ScanService) tea.Cmd {
	return func() tea.Msg {
		if err := svc.CopyResult(); err != nil {
			return ErrMsg{Err: err, Context: "copying"}
		}
		return CopiedMsg{}
	}
}

// OpenResultCmd opens the current payload in the browser
func OpenResultCmd(svc *service.ScanService) tea.Cmd {
	return func() tea.Msg {
		if err := svc.OpenResult(); err != nil {
			return ErrMsg{Err: err, Context: "opening link"}
		}
		r, _ := svc.Result()
		return LinkOpenedMsg{URL: r.Payload}
	}
}

// WaitForResultCmd blocks until the next live result arrives.
// Handlers must re-issue it to keep listening.
func WaitForResultCmd(results <-chan domain.DecodedResult) tea.Cmd {
	if results == nil {
		return nil
	}
	return func() tea.Msg {
		r, ok := <-results
		if !ok {
			return nil
		}
		return ResultMsg{Result: r}
	}
}

// GenerateCmd encodes text with the fixed render configuration
func GenerateCmd(svc *service.GenerateService, text string) tea.Cmd {
	return func() tea.Msg {
		img, err := svc.Generate(text)
		if err != nil {
			return ErrMsg{Err: err, Context: "generating"}
		}
		return GeneratedMsg{Image: img}
	}
}

// DownloadCmd saves the current code as PNG
func DownloadCmd(svc *service.GenerateService) tea.Cmd {
	return func() tea.Msg {
		path, err := svc.Download()
		if err != nil {
			return ErrMsg{Err: err, Context: "saving"}
		}
		return DownloadedMsg{Path: path}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

func sessionMsg(svc *service.ScanService, action string) SessionMsg {
	return SessionMsg{
		Session:        svc.Session(),
		Action:         action,
		TorchSupported: svc.CanToggleTorch(),
	}
}
