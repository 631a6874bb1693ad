package routing

import (
	"errors"
	"fmt"

	"github.com/replicanet/replica/model/consensus"
)

// ErrQueueIsFull is returned when a batch is delivered while the batch queue is at capacity.
// Consensus retries the delivery later.
var ErrQueueIsFull = errors.New("batch queue is full")

// BatchIgnoredError is returned when a delivered batch is not the one expected next.
type BatchIgnoredError struct {
	Expected consensus.Height
	Got      consensus.Height
}

func NewBatchIgnoredError(expected, got consensus.Height) error {
	return BatchIgnoredError{Expected: expected, Got: got}
}

func (e BatchIgnoredError) Error() string {
	return fmt.Sprintf("ignoring batch %d, expected batch %d", e.Got, e.Expected)
}

// IsBatchIgnoredError returns whether the given error is a BatchIgnoredError error
func IsBatchIgnoredError(err error) bool {
	return errors.As(err, &BatchIgnoredError{})
}

// TransientError is a registry read failure that goes away by itself, because the requested
// registry version is not available locally yet.
type TransientError struct {
	err error
}

func NewTransientErrorf(msg string, args ...interface{}) error {
	return TransientError{
		err: fmt.Errorf(msg, args...),
	}
}

func (e TransientError) Error() string {
	return e.err.Error()
}

func (e TransientError) Unwrap() error {
	return e.err
}

// IsTransientError returns whether the given error is a TransientError error
func IsTransientError(err error) bool {
	return errors.As(err, &TransientError{})
}

// PersistentError is a registry read failure that retrying the same version cannot fix: a
// required record is missing or a record cannot be decoded.
type PersistentError struct {
	err error
}

func NewPersistentErrorf(msg string, args ...interface{}) error {
	return PersistentError{
		err: fmt.Errorf(msg, args...),
	}
}

func (e PersistentError) Error() string {
	return e.err.Error()
}

func (e PersistentError) Unwrap() error {
	return e.err
}

// IsPersistentError returns whether the given error is a PersistentError error
func IsPersistentError(err error) bool {
	return errors.As(err, &PersistentError{})
}
