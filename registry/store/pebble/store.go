// Package pebble implements the registry local store on pebble.
package pebble

import (
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/hashicorp/go-multierror"

	"github.com/replicanet/replica/registry"
	"github.com/replicanet/replica/registry/store"
)

// Store persists registry records in a pebble database and serves them as a DataProvider.
type Store struct {
	db *pebble.DB
}

var _ registry.DataProvider = (*Store)(nil)

func NewStore(db *pebble.DB) *Store {
	return &Store{db: db}
}

// Write stores the records atomically in one synced batch.
// No errors are expected during normal operations.
func (s *Store) Write(records []registry.Record) error {
	err := store.Validate(records)
	if err != nil {
		return fmt.Errorf("invalid records: %w", err)
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	for _, record := range records {
		value, err := store.EncodeRecord(record)
		if err != nil {
			return err
		}
		err = batch.Set(store.MakeKey(record.Version, record.Key), value, nil)
		if err != nil {
			return fmt.Errorf("could not store record %q at version %d: %w", record.Key, record.Version, err)
		}
	}
	err = batch.Commit(pebble.Sync)
	if err != nil {
		return fmt.Errorf("could not commit registry records: %w", err)
	}
	return nil
}

func (s *Store) GetUpdatesSince(version uint64) (records []registry.Record, err error) {
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: store.StartKey(version + 1),
		UpperBound: []byte{store.Prefix()[0] + 1},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create iterator: %w", err)
	}
	defer func() {
		closeErr := it.Close()
		if closeErr != nil {
			err = multierror.Append(err, fmt.Errorf("could not close iterator: %w", closeErr))
		}
	}()

	for it.First(); it.Valid(); it.Next() {
		record, err := store.DecodeRecord(it.Key(), it.Value())
		if err != nil {
			return nil, fmt.Errorf("could not read registry records since version %d: %w", version, err)
		}
		records = append(records, record)
	}
	return records, nil
}
