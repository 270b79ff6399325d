package capture

import "time"

// InputKind discriminates the two raw input variants.
type InputKind string

const (
	KindImage InputKind = "image"
	KindURL   InputKind = "url"
)

// RawInput is one design to ingest: either already-captured image bytes
// or a URL to navigate and raster. Construct with ImageInput or URLInput
// and consume once.
type RawInput struct {
	Kind     InputKind
	Bytes    []byte
	MIMEType string
	URL      string
}

// ImageInput wraps uploaded image bytes.
func ImageInput(data []byte, mimeType string) RawInput {
	return RawInput{Kind: KindImage, Bytes: data, MIMEType: mimeType}
}

// URLInput wraps a target URL.
func URLInput(u string) RawInput {
	return RawInput{Kind: KindURL, URL: u}
}

// Result is the captured raster plus page context. It is owned by the
// pipeline run that produced it and discarded after upload.
type Result struct {
	ImageBytes []byte
	MIMEType   string
	PageTitle  string
	CapturedAt time.Time

	// Viewport dimensions used for the capture. Zero for image inputs.
	ViewportWidth  int
	ViewportHeight int
}

// StyleSnapshot is the best-effort style extraction from a live page.
// Colors and fonts are deduplicated literal values; ComponentStyles maps
// a logical role (button, input, card) to its computed properties. Roles
// with no matching element are simply absent.
type StyleSnapshot struct {
	Colors          []string
	Fonts           []string
	ComponentStyles map[string]map[string]string
}
