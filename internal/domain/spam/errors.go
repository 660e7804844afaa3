package spam

import "errors"

// Sentinel kinds for detector errors.
var ErrUnavailable = errors.New("spam detector unavailable")
