package excel

import "errors"

var (
	// ErrMissingSheet is returned when the workbook has no schedule sheet.
	ErrMissingSheet = errors.New("schedule sheet not found")
	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("required column not found")
)
