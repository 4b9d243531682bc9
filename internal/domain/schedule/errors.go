package schedule

import "errors"

// Sentinel kinds for malformed schedule data.
var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidTime   = errors.New("invalid time")
	ErrInvalidWindow = errors.New("invalid time window")
	ErrInvalidSpan   = errors.New("invalid date span")
)
