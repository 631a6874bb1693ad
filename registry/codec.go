package registry

import (
	"errors"
	"fmt"

	"github.com/replicanet/replica/model/encoding"
	"github.com/replicanet/replica/model/encoding/cbor"
)

// codec is the encoding of registry record values.
var codec encoding.Encoder = cbor.NewEncoder()

// Encode returns the registry encoding of a record.
// No errors are expected during normal operations.
func Encode(record interface{}) ([]byte, error) {
	value, err := codec.Encode(record)
	if err != nil {
		return nil, fmt.Errorf("could not encode registry record: %w", err)
	}
	return value, nil
}

// Get reads the record under the key at the version and decodes it into a T.
// Expected errors during normal operations:
//   - ErrNotFound if there is no record for the key at the version
//   - ErrVersionNotAvailable if the version is not available locally
//   - DecodeError if the record cannot be decoded into a T
func Get[T any](client Client, key string, version uint64) (*T, error) {
	value, err := client.GetValue(key, version)
	if err != nil {
		return nil, fmt.Errorf("could not get registry value %q at version %d: %w", key, version, err)
	}
	var record T
	err = codec.Decode(value, &record)
	if err != nil {
		return nil, NewDecodeErrorf(key, "%w", err)
	}
	return &record, nil
}

// GetOptional is like Get but returns nil, nil if there is no record for the key.
func GetOptional[T any](client Client, key string, version uint64) (*T, error) {
	record, err := Get[T](client, key, version)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return record, err
}
