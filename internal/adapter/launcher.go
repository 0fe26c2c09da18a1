package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Launcher opens links in the configured browser or the system default
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments for the browser
	goos    string
	logger  *slog.Logger
}

// NewLauncher creates a new Launcher
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		goos:    runtime.GOOS,
		logger:  logger,
	}
}

// Open opens url in a new browser context without waiting for it
func (l *Launcher) Open(url string) error {
	name, args := l.commandFor(url)
	l.logger.Info("opening link", "command", name, "args", args)

	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", name, err)
	}

	// Reap the child in the background; browsers may outlive us
	go cmd.Wait()
	return nil
}

// commandFor builds the argv used to open url
func (l *Launcher) commandFor(url string) (string, []string) {
	if l.command != "" {
		// On macOS, launch GUI apps with 'open -a' if command not in PATH
		if l.goos == "darwin" {
			if _, err := exec.LookPath(l.command); err != nil {
				args := []string{"-a", l.command}
				if len(l.args) > 0 {
					args = append(args, "--args")
					args = append(args, l.args...)
				}
				return "open", append(args, url)
			}
		}
		args := append([]string{}, l.args...)
		return l.command, append(args, url)
	}

	switch l.goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		// No shell parse, so & and ^ in the payload stay inside the argument
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		// Linux and other Unix-like systems
		return "xdg-open", []string{url}
	}
}
