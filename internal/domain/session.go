package domain

// ScanState is the lifecycle state of a scan session
type ScanState int

const (
	ScanIdle ScanState = iota
	ScanStarting
	ScanScanning
	ScanStopped
	ScanError
)

func (s ScanState) String() string {
	switch s {
	case ScanIdle:
		return "idle"
	case ScanStarting:
		return "starting"
	case ScanScanning:
		return "scanning"
	case ScanStopped:
		return "stopped"
	case ScanError:
		return "error"
	default:
		return "unknown"
	}
}

// CanStart reports whether a start action is accepted in this state.
// Error behaves like Idle so the user can retry.
func (s ScanState) CanStart() bool {
	return s == ScanIdle || s == ScanStopped || s == ScanError
}

// NoCamera is the ActiveCameraIndex value when no device list is known
const NoCamera = -1

// ScanSession is a snapshot of the scan controller's state
type ScanSession struct {
	ID                string // Correlates log lines for one session
	State             ScanState
	ActiveCameraIndex int
	TorchEnabled      bool
	Devices           []CameraDevice
}

// ActiveDevice returns the selected device, if any
func (s ScanSession) ActiveDevice() (CameraDevice, bool) {
	if s.ActiveCameraIndex < 0 || s.ActiveCameraIndex >= len(s.Devices) {
		return CameraDevice{}, false
	}
	return s.Devices[s.ActiveCameraIndex], true
}

// ScanConfig is passed unchanged on every (re)attach of the frame loop
type ScanConfig struct {
	FPS            int      // Frames decoded per second
	QRBox          int      // Side of the centred square decoded from each frame, 0 = full frame
	Formats        []string // Symbologies to look for, empty = all supported
	TryHarder      bool
	PreferredLabel string // Fuzzy-matched against device labels before the back/rear heuristic
	Fallback       string // "first" or "last"
}
