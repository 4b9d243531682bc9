package fit

import "errors"

// ErrInvalidConfig is returned when weights or curve parameters fail validation.
var ErrInvalidConfig = errors.New("invalid fit config")
