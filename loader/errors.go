// loader/errors.go
package loader

import "errors"

// Sentinel errors for the source-identification and configuration steps.
// They abort the file they occur on; callers loading a whole folder log the
// failure and continue with the remaining files.
var (
	// ErrInvalidFileName means a category could not be derived from the file name.
	ErrInvalidFileName = errors.New("invalid file name")

	// ErrDateParse means the file name carries no usable timestamp segment.
	ErrDateParse = errors.New("cannot parse date from file name")

	// ErrMissingConfig means a templated-document file matches no configured
	// file-name prefix, or a configured sheet has no layout entry.
	ErrMissingConfig = errors.New("missing template configuration")
)
