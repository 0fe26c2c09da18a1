package domain

import "errors"

// Sentinel errors for scan and generate operations
var (
	// ErrNoCamera indicates device enumeration returned no cameras
	ErrNoCamera = errors.New("no camera found")

	// ErrCameraAccess indicates permission was denied or the device is busy
	ErrCameraAccess = errors.New("camera access failed")

	// ErrDecodeFailure indicates no symbol could be found or parsed in an image
	ErrDecodeFailure = errors.New("no symbol decoded")

	// ErrEncodeFailure indicates the text could not be rendered, e.g. it exceeds capacity
	ErrEncodeFailure = errors.New("encoding failed")

	// ErrTorchUnsupported indicates the active track has no torch capability
	ErrTorchUnsupported = errors.New("torch not supported")

	// ErrBusy indicates another session transition is still in flight
	ErrBusy = errors.New("camera operation in progress")

	// ErrNotScanning indicates the action needs an active scanning session
	ErrNotScanning = errors.New("not scanning")

	// ErrNoResult indicates no payload has been decoded yet
	ErrNoResult = errors.New("no result yet")

	// ErrNotLink indicates the current result is not an http(s) link
	ErrNotLink = errors.New("result is not a link")

	// ErrNoImage indicates nothing has been generated yet
	ErrNoImage = errors.New("no image generated")

	// ErrEmptyText indicates the generate input was blank
	ErrEmptyText = errors.New("empty text")
)

// UserMessage maps an error to the short notice shown in the UI.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoCamera):
		return "No camera found"
	case errors.Is(err, ErrCameraAccess):
		return "Camera access failed: " + err.Error()
	case errors.Is(err, ErrDecodeFailure):
		return "Invalid QR / Barcode"
	case errors.Is(err, ErrEncodeFailure):
		return "Error generating QR."
	case errors.Is(err, ErrTorchUnsupported):
		return "Torch not supported on this camera"
	case errors.Is(err, ErrEmptyText):
		return "Please enter some text."
	case errors.Is(err, ErrNoResult):
		return "Nothing scanned yet"
	case errors.Is(err, ErrNotLink):
		return "Result is not a link"
	case errors.Is(err, ErrNoImage):
		return "Generate a code first"
	case errors.Is(err, ErrNotScanning):
		return "Camera is not running"
	case errors.Is(err, ErrBusy):
		return "Camera is busy"
	default:
		return err.Error()
	}
}
