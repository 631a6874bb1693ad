package common

import (
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/dgraph-io/badger/v2"

	"github.com/replicanet/replica/registry"
	badgerstore "github.com/replicanet/replica/registry/store/badger"
	pebblestore "github.com/replicanet/replica/registry/store/pebble"
)

// RegistryStore is a registry local store opened by a utility command.
type RegistryStore interface {
	registry.DataProvider
	Write(records []registry.Record) error
}

// OpenRegistryStore opens the registry local store in dir. The returned function closes it.
func OpenRegistryStore(dbType DBTypeArg, dir string) (RegistryStore, func() error, error) {
	switch dbType {
	case DBTypeBadger:
		db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
		if err != nil {
			return nil, nil, fmt.Errorf("could not open badger db at %s: %w", dir, err)
		}
		return badgerstore.NewStore(db), db.Close, nil
	case DBTypePebble:
		db, err := pebble.Open(dir, &pebble.Options{})
		if err != nil {
			return nil, nil, fmt.Errorf("could not open pebble db at %s: %w", dir, err)
		}
		return pebblestore.NewStore(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown database type %q", dbType)
	}
}
