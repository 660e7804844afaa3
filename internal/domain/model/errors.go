package model

import "errors"

// Sentinel kinds for domain validation errors.
var (
	ErrInvalidRole = errors.New("invalid role")
	ErrInvalidTier = errors.New("invalid tier")
)
