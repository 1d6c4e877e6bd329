// Package bounds defines the checked failures of the containers:
// indexing outside the valid range and growing past MaxSize.
package bounds

import "github.com/cockroachdb/errors"

var (
	// ErrOutOfRange marks a checked access to an absent element.
	ErrOutOfRange = errors.New("out of range")
	// ErrLength marks a request for more elements than MaxSize allows.
	ErrLength = errors.New("length exceeds max size")
)

// OutOfRangef returns an error that matches ErrOutOfRange.
func OutOfRangef(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrOutOfRange)
}

// Lengthf returns an error that matches ErrLength.
func Lengthf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrLength)
}
