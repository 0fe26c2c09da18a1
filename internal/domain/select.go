package domain

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Fallback policies when no device looks rear-facing
const (
	FallbackFirst = "first"
	FallbackLast  = "last"
)

// rearKeywords mark a label as a rear-facing camera
var rearKeywords = []string{"back", "rear"}

// SelectCamera picks the device to start scanning with.
//
// Order of preference:
//  1. lastUsedID, when it is still present
//  2. cfg.PreferredLabel, fuzzy-matched against labels ignoring case
//  3. the first label containing "back" or "rear", ignoring case
//  4. the first device, or the last when cfg.Fallback is "last"
//
// This is best-effort: labels are not guaranteed to describe orientation.
// Returns NoCamera for an empty device list.
func SelectCamera(devices []CameraDevice, cfg ScanConfig, lastUsedID string) int {
	if len(devices) == 0 {
		return NoCamera
	}

	if lastUsedID != "" {
		for i, d := range devices {
			if d.ID == lastUsedID {
				return i
			}
		}
	}

	if pref := strings.TrimSpace(cfg.PreferredLabel); pref != "" {
		for i, d := range devices {
			if fuzzy.MatchFold(pref, d.Label) {
				return i
			}
		}
	}

	for i, d := range devices {
		label := strings.ToLower(d.Label)
		for _, kw := range rearKeywords {
			if strings.Contains(label, kw) {
				return i
			}
		}
	}

	if cfg.Fallback == FallbackLast {
		return len(devices) - 1
	}
	return 0
}

// NextCameraIndex advances index cyclically over n devices
func NextCameraIndex(index, n int) int {
	if n <= 0 {
		return NoCamera
	}
	if index < 0 {
		return 0
	}
	return (index + 1) % n
}
