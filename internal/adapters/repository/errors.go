package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound    = errors.New("profile not found")
	ErrEmptyUserID = errors.New("empty user id")
)
