package capture

import "errors"

// ErrInvalidInput is returned for image inputs with no bytes or a
// non-image MIME type, and for URL inputs with an unusable URL.
var ErrInvalidInput = errors.New("capture: invalid input")

// ErrNavigationFailed is returned when the browser cannot reach or
// render the target URL (DNS failure, navigation timeout, render crash).
var ErrNavigationFailed = errors.New("capture: navigation failed")
