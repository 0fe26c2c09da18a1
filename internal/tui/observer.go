package tui

import "github.com/mmcdole/qscan/internal/domain"

// ChannelObserver adapts domain.ResultObserver to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan<- domain.DecodedResult
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(ch chan<- domain.DecodedResult) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnResult sends the result to the channel (non-blocking if full).
func (o *ChannelObserver) OnResult(r domain.DecodedResult) {
	select {
	case o.ch <- r:
	default: // Frames decode faster than the UI drains; drop
	}
}
