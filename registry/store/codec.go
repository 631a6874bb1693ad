// Package store holds the on-disk layout shared by the registry local stores.
//
// Records are stored under codeRecord | version (big endian) | key, so iterating the key space in
// order yields the records ordered by version.
package store

import (
	"encoding/binary"
	"fmt"

	"github.com/replicanet/replica/model/encoding/cbor"
	"github.com/replicanet/replica/registry"
)

const codeRecord byte = 1

// MakeKey returns the storage key of the record.
func MakeKey(version uint64, key string) []byte {
	b := make([]byte, 1+8+len(key))
	b[0] = codeRecord
	binary.BigEndian.PutUint64(b[1:], version)
	copy(b[9:], key)
	return b
}

// StartKey returns the lowest storage key of all records with a version of at least the given one.
func StartKey(version uint64) []byte {
	b := make([]byte, 1+8)
	b[0] = codeRecord
	binary.BigEndian.PutUint64(b[1:], version)
	return b
}

// Prefix is the prefix of all record keys.
func Prefix() []byte {
	return []byte{codeRecord}
}

// EncodeRecord encodes the record as stored. Deletions are stored explicitly.
func EncodeRecord(record registry.Record) ([]byte, error) {
	value, err := cbor.EncMode.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("could not encode record %q at version %d: %w", record.Key, record.Version, err)
	}
	return value, nil
}

// DecodeRecord decodes a stored record and checks it against its storage key.
func DecodeRecord(storageKey []byte, value []byte) (registry.Record, error) {
	var record registry.Record
	err := cbor.Unmarshal(value, &record)
	if err != nil {
		return registry.Record{}, fmt.Errorf("could not decode record under key %x: %w", storageKey, err)
	}
	if string(MakeKey(record.Version, record.Key)) != string(storageKey) {
		return registry.Record{}, fmt.Errorf("record %q at version %d does not match its key %x", record.Key, record.Version, storageKey)
	}
	return record, nil
}

// Validate checks the records can be written.
func Validate(records []registry.Record) error {
	for _, record := range records {
		if record.Version == 0 {
			return fmt.Errorf("record %q has version 0, versions start at 1", record.Key)
		}
		if record.Key == "" {
			return fmt.Errorf("record at version %d has an empty key", record.Version)
		}
	}
	return nil
}
