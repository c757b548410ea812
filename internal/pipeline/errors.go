package pipeline

import "errors"

var (
	// ErrInputMissing is returned when an input file or a required sheet is missing.
	ErrInputMissing = errors.New("input missing")
	// ErrWriteFailure is returned when the output workbook or report cannot be written.
	ErrWriteFailure = errors.New("write failure")
	// ErrInvalidMapping is returned when the mapping file does not validate.
	ErrInvalidMapping = errors.New("invalid mapping")
)
