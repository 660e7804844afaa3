package level

import "errors"

// Sentinel kinds for pipeline errors.
var ErrMissingUserID = errors.New("missing user id")
