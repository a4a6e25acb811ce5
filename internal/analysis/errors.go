package analysis

import "errors"

// ErrInvalidInput reports a document rejected before any model call: empty
// after trimming, or outside the configured length bounds.
var ErrInvalidInput = errors.New("invalid document input")

// ErrMalformedResponse reports model output that could not be parsed as the
// expected JSON object. The analyzer converts it into a degraded pattern-based
// result instead of surfacing it to callers.
var ErrMalformedResponse = errors.New("malformed model response")
