package risk

import "errors"

// ErrInvalidConfig is returned when thresholds fail validation.
var ErrInvalidConfig = errors.New("invalid risk config")
