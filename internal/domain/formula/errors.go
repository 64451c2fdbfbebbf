package formula

import "errors"

// Domain errors for formula processing.

var (
	// ErrMalformedBlock is a structural parse failure of an extracted
	// formula block, terminal for that extraction attempt only.
	ErrMalformedBlock = errors.New("formula block could not be parsed")

	// ErrEmptyFormula marks a parsed block with no lines at all.
	ErrEmptyFormula = errors.New("formula contains no ingredients")
)
