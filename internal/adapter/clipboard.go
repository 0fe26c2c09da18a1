package adapter

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Clipboard writes to the system clipboard (xclip/xsel/wl-copy, pbcopy, or the Win32 API)
type Clipboard struct{}

// NewClipboard creates a system clipboard adapter
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// Available reports whether a clipboard utility was found
func (c *Clipboard) Available() bool {
	return !clipboard.Unsupported
}

// WriteText copies text to the clipboard
func (c *Clipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard write failed: %w", err)
	}
	return nil
}
