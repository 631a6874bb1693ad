package registry

import (
	"sort"
	"sync"
)

// Record is one versioned registry mutation. A nil Value deletes the key as of Version.
type Record struct {
	Key     string
	Version uint64
	Value   []byte `cbor:",omitempty"`
}

// DataProvider is the source of registry mutations the local client synchronizes from.
type DataProvider interface {
	// GetUpdatesSince returns all records with a version strictly above the given version,
	// ordered by version.
	// No errors are expected during normal operations.
	GetUpdatesSince(version uint64) ([]Record, error)
}

// MemoryDataProvider is an in-memory DataProvider, used for tests and to stage records
// before they are written to a local store. It is safe for concurrent use.
type MemoryDataProvider struct {
	mu      sync.RWMutex
	records []Record
}

var _ DataProvider = (*MemoryDataProvider)(nil)

func NewMemoryDataProvider() *MemoryDataProvider {
	return &MemoryDataProvider{}
}

// Add records a mutation of the key at the version. A nil value deletes the key.
func (p *MemoryDataProvider) Add(key string, version uint64, value []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.records = append(p.records, Record{Key: key, Version: version, Value: value})
	sort.SliceStable(p.records, func(i, j int) bool {
		return p.records[i].Version < p.records[j].Version
	})
}

// AddRecord encodes the record and adds it under the key at the version.
// No errors are expected during normal operations.
func (p *MemoryDataProvider) AddRecord(key string, version uint64, record interface{}) error {
	value, err := Encode(record)
	if err != nil {
		return err
	}
	p.Add(key, version, value)
	return nil
}

func (p *MemoryDataProvider) GetUpdatesSince(version uint64) ([]Record, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	i := sort.Search(len(p.records), func(i int) bool {
		return p.records[i].Version > version
	})
	updates := make([]Record, len(p.records)-i)
	copy(updates, p.records[i:])
	return updates, nil
}
