package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/replicanet/replica/module/component"
	"github.com/replicanet/replica/module/irrecoverable"
)

// Client reads versioned registry records. A version is a consistent snapshot of the whole
// registry; versions only ever grow.
type Client interface {
	// GetValue returns the value of the key as of the version.
	// Expected errors during normal operations:
	//   - ErrNotFound if the key has no value at the version
	//   - ErrVersionNotAvailable if the version is above GetLatestVersion
	GetValue(key string, version uint64) ([]byte, error)

	// GetKeysWithPrefix returns the keys starting with the prefix that have a value at the
	// version, in lexical order.
	// Expected errors during normal operations:
	//   - ErrVersionNotAvailable if the version is above GetLatestVersion
	GetKeysWithPrefix(prefix string, version uint64) ([]string, error)

	// GetLatestVersion returns the latest version available locally.
	GetLatestVersion() uint64
}

// LocalClient is a Client serving records synchronized from a DataProvider. Updates are pulled
// either explicitly with UpdateToLatestVersion, or periodically once the client is started.
type LocalClient struct {
	*component.ComponentManager
	log          zerolog.Logger
	provider     DataProvider
	pollInterval time.Duration

	mu      sync.RWMutex
	latest  uint64
	records map[string][]Record // per key, ordered by version
}

var _ Client = (*LocalClient)(nil)
var _ component.Component = (*LocalClient)(nil)

// NewLocalClient returns a client at version 0. Call UpdateToLatestVersion or start the client
// to load the provider's records.
func NewLocalClient(log zerolog.Logger, provider DataProvider, pollInterval time.Duration) *LocalClient {
	c := &LocalClient{
		log:          log.With().Str("component", "registry_client").Logger(),
		provider:     provider,
		pollInterval: pollInterval,
		records:      make(map[string][]Record),
	}
	c.ComponentManager = component.NewComponentManager(c.pollLoop)
	return c
}

func (c *LocalClient) GetLatestVersion() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest
}

func (c *LocalClient) GetValue(key string, version uint64) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if version > c.latest {
		return nil, fmt.Errorf("version %d above latest version %d: %w", version, c.latest, ErrVersionNotAvailable)
	}

	value := valueAt(c.records[key], version)
	if value == nil {
		return nil, fmt.Errorf("key %q at version %d: %w", key, version, ErrNotFound)
	}
	return value, nil
}

func (c *LocalClient) GetKeysWithPrefix(prefix string, version uint64) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if version > c.latest {
		return nil, fmt.Errorf("version %d above latest version %d: %w", version, c.latest, ErrVersionNotAvailable)
	}

	var keys []string
	for key, history := range c.records {
		if strings.HasPrefix(key, prefix) && valueAt(history, version) != nil {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// valueAt returns the value in effect at the version, nil if there is none.
func valueAt(history []Record, version uint64) []byte {
	// first record above the version; the one before it is in effect
	i := sort.Search(len(history), func(i int) bool {
		return history[i].Version > version
	})
	if i == 0 {
		return nil
	}
	return history[i-1].Value
}

// UpdateToLatestVersion pulls all records above the latest local version from the provider.
// No errors are expected during normal operations.
func (c *LocalClient) UpdateToLatestVersion() error {
	latest := c.GetLatestVersion()
	updates, err := c.provider.GetUpdatesSince(latest)
	if err != nil {
		return fmt.Errorf("could not get registry updates since version %d: %w", latest, err)
	}
	if len(updates) == 0 {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, record := range updates {
		if record.Version <= c.latest {
			// a concurrent update applied it already
			continue
		}
		c.records[record.Key] = append(c.records[record.Key], record)
	}
	newLatest := updates[len(updates)-1].Version
	if newLatest > c.latest {
		c.log.Debug().
			Uint64("from_version", c.latest).
			Uint64("to_version", newLatest).
			Int("records", len(updates)).
			Msg("registry updated")
		c.latest = newLatest
	}
	return nil
}

// pollLoop keeps the client up to date while it is running.
func (c *LocalClient) pollLoop(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	err := c.UpdateToLatestVersion()
	if err != nil {
		ctx.Throw(fmt.Errorf("initial registry update failed: %w", err))
	}
	ready()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := c.UpdateToLatestVersion()
			if err != nil {
				// the provider may recover, the client keeps serving the versions it has
				c.log.Warn().Err(err).Msg("registry update failed")
			}
		}
	}
}
