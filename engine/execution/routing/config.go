package routing

import (
	"fmt"
	"time"

	"github.com/replicanet/replica/model/network"
)

type Config struct {
	// OwnSubnetID is the subnet this replica executes for.
	OwnSubnetID network.SubnetID
	// BatchQueueCapacity bounds the batches delivered but not yet processed.
	BatchQueueCapacity uint32
	// RegistryRetryInterval is the wait between reads of a registry version that is not
	// available locally yet.
	RegistryRetryInterval time.Duration
	// PublicKeyCacheSize bounds the decoded node public keys kept across batches.
	PublicKeyCacheSize int
}

func DefaultConfig(ownSubnetID network.SubnetID) *Config {
	return &Config{
		OwnSubnetID:           ownSubnetID,
		BatchQueueCapacity:    16,
		RegistryRetryInterval: 100 * time.Millisecond,
		PublicKeyCacheSize:    1024,
	}
}

// Validate rejects settings the queue and the retry backoff cannot run with.
func (c *Config) Validate() error {
	if c.BatchQueueCapacity == 0 {
		return fmt.Errorf("batch queue capacity must be positive")
	}
	if c.RegistryRetryInterval <= 0 {
		return fmt.Errorf("registry retry interval must be positive, got %v", c.RegistryRetryInterval)
	}
	return nil
}

type OptionFunc func(*Config)

// WithBatchQueueCapacity sets the number of batches that can wait for processing before
// deliveries are rejected.
func WithBatchQueueCapacity(capacity uint32) OptionFunc {
	return func(cfg *Config) {
		cfg.BatchQueueCapacity = capacity
	}
}

func WithRegistryRetryInterval(interval time.Duration) OptionFunc {
	return func(cfg *Config) {
		cfg.RegistryRetryInterval = interval
	}
}

func WithPublicKeyCacheSize(size int) OptionFunc {
	return func(cfg *Config) {
		cfg.PublicKeyCacheSize = size
	}
}
