package cache

import (
	"errors"
	"fmt"

	"github.com/replicanet/replica/model/consensus"
)

// BlockNotFoundError is returned when a height outside the chain's range is queried.
type BlockNotFoundError struct {
	Height consensus.Height
}

func NewBlockNotFoundError(height consensus.Height) error {
	return BlockNotFoundError{Height: height}
}

func (e BlockNotFoundError) Error() string {
	return fmt.Sprintf("block at height %d not found in chain", e.Height)
}

// IsBlockNotFoundError returns whether the given error is a BlockNotFoundError error
func IsBlockNotFoundError(err error) bool {
	return errors.As(err, &BlockNotFoundError{})
}

// PayloadNotFoundError is returned when the block at the queried height carries no payload
// of the requested kind.
type PayloadNotFoundError struct {
	Height consensus.Height
}

func NewPayloadNotFoundError(height consensus.Height) error {
	return PayloadNotFoundError{Height: height}
}

func (e PayloadNotFoundError) Error() string {
	return fmt.Sprintf("block at height %d has no ecdsa payload", e.Height)
}

func IsPayloadNotFoundError(err error) bool {
	return errors.As(err, &PayloadNotFoundError{})
}
