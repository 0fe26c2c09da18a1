package domain

import (
	"image"
	"regexp"
)

var linkPattern = regexp.MustCompile(`(?i)^https?://`)

// ResultSource records where a decoded payload came from
type ResultSource string

const (
	SourceCamera ResultSource = "camera"
	SourceFile   ResultSource = "file"
)

// Symbol is what a decoder extracts from an image
type Symbol struct {
	Text   string
	Format string // Symbology name, e.g. "QR_CODE", "EAN_13"
}

// DecodedResult is a payload shown to the user. It is replaced, never mutated.
type DecodedResult struct {
	Payload string
	IsLink  bool
	Format  string
	Source  ResultSource
}

// NewDecodedResult derives a result from a decoded symbol
func NewDecodedResult(sym Symbol, source ResultSource) DecodedResult {
	return DecodedResult{
		Payload: sym.Text,
		IsLink:  IsLink(sym.Text),
		Format:  sym.Format,
		Source:  source,
	}
}

// IsLink reports whether payload starts with http:// or https://, ignoring case
func IsLink(payload string) bool {
	return linkPattern.MatchString(payload)
}

// GeneratedImage is the most recent output of the generate page
type GeneratedImage struct {
	SourceText string
	Image      image.Image
}

// RenderConfig is the fixed rendering configuration handed to the encoder
type RenderConfig struct {
	Width      int    // Target pixel width (and height)
	Margin     int    // Quiet zone in modules
	Foreground string // Hex colour
	Background string // Hex colour
	Recovery   string // QR error correction: "L", "M", "Q", "H"
	Symbology  string // "qr", "code128", "ean13", ...
}
