package domain

import "image"

// Decoder extracts a symbol from a still image or frame.
// Misses are reported as ErrDecodeFailure.
type Decoder interface {
	Decode(img image.Image) (Symbol, error)
}

// Encoder renders text into a scannable image.
// Input the symbology cannot hold is reported as ErrEncodeFailure.
type Encoder interface {
	Encode(text string, cfg RenderConfig) (image.Image, error)
}

// Clipboard receives copied payloads
type Clipboard interface {
	WriteText(text string) error
}

// LinkOpener opens a URL in a new browser context
type LinkOpener interface {
	Open(url string) error
}

// ImageSaver writes an encoded image and returns where it ended up
type ImageSaver interface {
	Save(filename string, data []byte) (string, error)
}

// ResultObserver receives decoded results from the live scan loop
type ResultObserver interface {
	OnResult(result DecodedResult)
}
