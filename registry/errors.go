package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no record exists for a key at the requested version, either
	// because it was never written or because it was deleted.
	ErrNotFound = errors.New("registry record not found")

	// ErrVersionNotAvailable is returned when the requested version is above the latest version
	// known locally. The version may become available after the next update.
	ErrVersionNotAvailable = errors.New("registry version not available locally")
)

// DecodeError is returned when a record exists but cannot be decoded into its expected type.
type DecodeError struct {
	Key string
	err error
}

func NewDecodeErrorf(key string, msg string, args ...interface{}) error {
	return DecodeError{
		Key: key,
		err: fmt.Errorf(msg, args...),
	}
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("could not decode registry record %q: %v", e.Key, e.err)
}

func (e DecodeError) Unwrap() error {
	return e.err
}

// IsDecodeError returns whether the given error is a DecodeError error
func IsDecodeError(err error) bool {
	return errors.As(err, &DecodeError{})
}
