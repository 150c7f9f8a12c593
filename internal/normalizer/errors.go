package normalizer

import "errors"

// ErrMalformedPayload is returned when the backend payload is not a JSON
// object. Missing fields inside a valid object are recovered via defaulting
// and never produce this error.
var ErrMalformedPayload = errors.New("malformed payload: expected a JSON object")
