package migrate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replicanet/replica/cmd/util/cmd/common"
	"github.com/replicanet/replica/registry"
)

func TestMigrate(t *testing.T) {
	dir := t.TempDir()
	from := filepath.Join(dir, "badger")
	to := filepath.Join(dir, "pebble")

	store, closeStore, err := common.OpenRegistryStore(common.DBTypeBadger, from)
	require.NoError(t, err)
	records := []registry.Record{
		{Key: "a", Version: 1, Value: []byte("a1")},
		{Key: "b", Version: 2, Value: []byte("b2")},
	}
	require.NoError(t, store.Write(records))
	require.NoError(t, closeStore())

	copied, err := Migrate(common.DBTypeBadger, from, common.DBTypePebble, to)
	require.NoError(t, err)
	assert.Equal(t, 2, copied)

	// nothing new to copy
	copied, err = Migrate(common.DBTypeBadger, from, common.DBTypePebble, to)
	require.NoError(t, err)
	assert.Equal(t, 0, copied)

	store, closeStore, err = common.OpenRegistryStore(common.DBTypePebble, to)
	require.NoError(t, err)
	defer func() { require.NoError(t, closeStore()) }()
	migrated, err := store.GetUpdatesSince(0)
	require.NoError(t, err)
	assert.Equal(t, records, migrated)
}
