package vision

import "errors"

// ErrRequestFailed is returned when the model endpoint cannot be
// reached or replies with a non-success status (network, auth, quota).
var ErrRequestFailed = errors.New("vision: request failed")

// ErrMalformedResponse is returned when the model reply is empty or not
// a JSON object. There is no partial recovery; the caller decides
// whether to resubmit the whole item.
var ErrMalformedResponse = errors.New("vision: malformed model response")
