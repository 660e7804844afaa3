package predictor

import "errors"

// Sentinel kinds for predictor errors.
var (
	ErrUnavailable = errors.New("predictor unavailable")
	ErrVectorSize  = errors.New("invalid feature vector size")
)
