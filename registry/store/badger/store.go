// Package badger implements the registry local store on badger.
package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/replicanet/replica/registry"
	"github.com/replicanet/replica/registry/store"
)

// Store persists registry records in a badger database and serves them as a DataProvider.
type Store struct {
	db *badger.DB
}

var _ registry.DataProvider = (*Store)(nil)

func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

// Write stores the records atomically. Rewriting a record with the same key and version
// overwrites it.
// No errors are expected during normal operations.
func (s *Store) Write(records []registry.Record) error {
	err := store.Validate(records)
	if err != nil {
		return fmt.Errorf("invalid records: %w", err)
	}
	return s.db.Update(func(tx *badger.Txn) error {
		for _, record := range records {
			value, err := store.EncodeRecord(record)
			if err != nil {
				return err
			}
			err = tx.Set(store.MakeKey(record.Version, record.Key), value)
			if err != nil {
				return fmt.Errorf("could not store record %q at version %d: %w", record.Key, record.Version, err)
			}
		}
		return nil
	})
}

func (s *Store) GetUpdatesSince(version uint64) ([]registry.Record, error) {
	var records []registry.Record
	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = store.Prefix()
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Seek(store.StartKey(version + 1)); it.ValidForPrefix(opts.Prefix); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			err := item.Value(func(value []byte) error {
				record, err := store.DecodeRecord(key, value)
				if err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not read registry records since version %d: %w", version, err)
	}
	return records, nil
}
