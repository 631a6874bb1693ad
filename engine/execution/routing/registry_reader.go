package routing

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/onflow/flow-go/crypto"
	"github.com/rs/zerolog"

	"github.com/replicanet/replica/model/network"
	"github.com/replicanet/replica/module"
	"github.com/replicanet/replica/module/metrics"
	"github.com/replicanet/replica/registry"
)

// RegistryReader assembles the view of the network a batch is executed against from the
// registry records at the batch's registry version.
type RegistryReader struct {
	log         zerolog.Logger
	client      registry.Client
	metrics     module.MessageRoutingMetrics
	ownSubnetID network.SubnetID
	// decoded node public keys, keyed by their encoding
	publicKeys *lru.Cache[string, crypto.PublicKey]
}

// NewRegistryReader creates a reader for the own subnet configured in cfg.
// No errors are expected during normal operations.
func NewRegistryReader(
	log zerolog.Logger,
	client registry.Client,
	metrics module.MessageRoutingMetrics,
	cfg *Config,
) (*RegistryReader, error) {
	publicKeys, err := lru.New[string, crypto.PublicKey](cfg.PublicKeyCacheSize)
	if err != nil {
		return nil, fmt.Errorf("could not create public key cache: %w", err)
	}
	return &RegistryReader{
		log:         log.With().Str("component", "registry_reader").Logger(),
		client:      client,
		metrics:     metrics,
		ownSubnetID: cfg.OwnSubnetID,
		publicKeys:  publicKeys,
	}, nil
}

// ReadRegistry reads the network topology, the own subnet's features, the execution settings and
// the own subnet's node public keys at the registry version.
//
// The subnet list, every listed subnet's record and initial high threshold transcript, and the
// root subnet id are required. The provisional whitelist, routing table, canister migrations and
// ECDSA signing subnet lists default to empty. Missing or invalid node public keys are skipped.
//
// Expected errors during normal operations:
//   - TransientError if the registry version is not available locally yet
//   - PersistentError if a required record is missing or any record cannot be decoded
func (r *RegistryReader) ReadRegistry(version uint64) (
	*network.Topology,
	network.SubnetFeatures,
	*network.RegistryExecutionSettings,
	network.NodePublicKeys,
	error,
) {
	topology, err := r.readTopology(version)
	if err != nil {
		return nil, network.SubnetFeatures{}, nil, nil, err
	}

	if _, ok := topology.Subnets[r.ownSubnetID]; !ok {
		return nil, network.SubnetFeatures{}, nil, nil, notFound(fmt.Sprintf("own subnet %s in subnet list", r.ownSubnetID), version)
	}
	// present, the topology read it already
	own, err := registry.GetSubnetRecord(r.client, r.ownSubnetID, version)
	if err != nil {
		return nil, network.SubnetFeatures{}, nil, nil, r.classify(fmt.Sprintf("subnet record for subnet %s", r.ownSubnetID), version, err)
	}

	settings, err := r.readExecutionSettings(own, version)
	if err != nil {
		return nil, network.SubnetFeatures{}, nil, nil, err
	}

	nodePublicKeys, err := r.readNodePublicKeys(own.Membership, version)
	if err != nil {
		return nil, network.SubnetFeatures{}, nil, nil, err
	}

	return topology, own.Features, settings, nodePublicKeys, nil
}

func (r *RegistryReader) readTopology(version uint64) (*network.Topology, error) {
	subnetIDs, err := registry.GetSubnetIDs(r.client, version)
	if err != nil {
		return nil, r.classify(fmt.Sprintf("subnet ids, own subnet %s", r.ownSubnetID), version, err)
	}
	if subnetIDs == nil {
		return nil, notFound(fmt.Sprintf("subnet ids, own subnet %s", r.ownSubnetID), version)
	}

	subnets := make(map[network.SubnetID]*network.SubnetTopology, len(subnetIDs))
	for _, subnetID := range subnetIDs {
		subnet, err := r.readSubnetTopology(subnetID, version)
		if err != nil {
			return nil, err
		}
		subnets[subnetID] = subnet
	}

	rootSubnetID, err := registry.GetRootSubnetID(r.client, version)
	if err != nil {
		return nil, r.classify("root subnet id", version, err)
	}
	if rootSubnetID == nil {
		return nil, notFound("root subnet id", version)
	}

	routingTable, err := registry.GetRoutingTable(r.client, version)
	if err != nil {
		return nil, r.classify("routing table", version, err)
	}
	if routingTable == nil {
		routingTable = network.NewRoutingTable()
	}

	migrations, err := registry.GetCanisterMigrations(r.client, version)
	if err != nil {
		return nil, r.classify("canister migrations", version, err)
	}
	if migrations == nil {
		migrations = network.NewCanisterMigrations()
	}

	signingSubnets, err := registry.GetEcdsaSigningSubnets(r.client, version)
	if err != nil {
		return nil, r.classify("ecdsa signing subnets", version, err)
	}

	return &network.Topology{
		Subnets:             subnets,
		RoutingTable:        routingTable,
		CanisterMigrations:  migrations,
		NNSSubnetID:         *rootSubnetID,
		EcdsaSigningSubnets: signingSubnets,
	}, nil
}

func (r *RegistryReader) readSubnetTopology(subnetID network.SubnetID, version uint64) (*network.SubnetTopology, error) {
	what := fmt.Sprintf("subnet record for subnet %s", subnetID)
	record, err := registry.GetSubnetRecord(r.client, subnetID, version)
	if err != nil {
		return nil, r.classify(what, version, err)
	}
	if record == nil {
		return nil, notFound(what, version)
	}

	what = fmt.Sprintf("NI-DKG transcripts for subnet %s", subnetID)
	contents, err := registry.GetCatchUpPackageContents(r.client, subnetID, version)
	if err != nil {
		return nil, r.classify(what, version, err)
	}
	if contents == nil {
		return nil, notFound(what, version)
	}
	transcript := contents.InitialNiDkgTranscriptHighThreshold
	if transcript == nil {
		return nil, NewPersistentErrorf("'%s' at registry version %d, RegistryClientError: missing high threshold transcript", what, version)
	}

	var keysHeld []network.EcdsaKeyID
	if record.EcdsaConfig != nil {
		keysHeld = record.EcdsaConfig.KeyIDs
	}
	return &network.SubnetTopology{
		PublicKey:      transcript.PublicKey,
		Nodes:          record.Membership,
		SubnetType:     record.SubnetType,
		SubnetFeatures: record.Features,
		EcdsaKeysHeld:  keysHeld,
	}, nil
}

func (r *RegistryReader) readExecutionSettings(own *registry.SubnetRecord, version uint64) (*network.RegistryExecutionSettings, error) {
	whitelist, err := registry.GetProvisionalWhitelist(r.client, version)
	if err != nil {
		return nil, r.classify("provisional whitelist", version, err)
	}
	if whitelist == nil {
		whitelist = &network.ProvisionalWhitelist{}
	}

	maxEcdsaQueueSize := uint32(network.DefaultEcdsaMaxQueueSize)
	if own.EcdsaConfig != nil && own.EcdsaConfig.MaxQueueSize > 0 {
		maxEcdsaQueueSize = own.EcdsaConfig.MaxQueueSize
	}

	subnetSize := len(own.Membership)
	if subnetSize == 0 {
		r.metrics.CriticalError(metrics.CriticalErrorMissingOrInvalidSubnetSize)
		r.log.Warn().
			Str("critical_error", metrics.CriticalErrorMissingOrInvalidSubnetSize).
			Uint64("registry_version", version).
			Int("default_subnet_size", network.SmallAppSubnetMaxSize).
			Msg("own subnet has no members, using the default subnet size")
		subnetSize = network.SmallAppSubnetMaxSize
	}

	return &network.RegistryExecutionSettings{
		MaxNumberOfCanisters: own.MaxNumberOfCanisters,
		ProvisionalWhitelist: *whitelist,
		MaxEcdsaQueueSize:    maxEcdsaQueueSize,
		SubnetSize:           subnetSize,
	}, nil
}

// readNodePublicKeys returns the signing keys of the given nodes. Nodes without a valid key are
// left out and each counts as a critical error. Records that cannot be decoded at all fail
// the read.
func (r *RegistryReader) readNodePublicKeys(nodes []network.NodeID, version uint64) (network.NodePublicKeys, error) {
	keys := make(network.NodePublicKeys, len(nodes))
	var skipped *multierror.Error
	for _, nodeID := range nodes {
		what := fmt.Sprintf("node signing key of node %s", nodeID)
		record, err := registry.GetNodePublicKey(r.client, nodeID, registry.KeyPurposeNodeSigning, version)
		if err != nil {
			return nil, r.classify(what, version, err)
		}
		if record == nil {
			skipped = multierror.Append(skipped, fmt.Errorf("%s not found", what))
			continue
		}
		key, err := r.decodePublicKey(record)
		if err != nil {
			skipped = multierror.Append(skipped, fmt.Errorf("%s is invalid: %w", what, err))
			continue
		}
		keys[nodeID] = key
	}

	if skipped != nil {
		for range skipped.Errors {
			r.metrics.CriticalError(metrics.CriticalErrorMissingOrInvalidPublicKeys)
		}
		r.log.Warn().
			Err(skipped).
			Str("critical_error", metrics.CriticalErrorMissingOrInvalidPublicKeys).
			Uint64("registry_version", version).
			Int("skipped", len(skipped.Errors)).
			Msg("skipped missing or invalid node public keys")
	}
	return keys, nil
}

func (r *RegistryReader) decodePublicKey(record *registry.PublicKeyRecord) (crypto.PublicKey, error) {
	if record.Algorithm != crypto.ECDSAP256.String() {
		return nil, fmt.Errorf("unsupported signing algorithm %q", record.Algorithm)
	}
	if key, ok := r.publicKeys.Get(string(record.KeyValue)); ok {
		return key, nil
	}
	key, err := crypto.DecodePublicKey(crypto.ECDSAP256, record.KeyValue)
	if err != nil {
		return nil, err
	}
	r.publicKeys.Add(string(record.KeyValue), key)
	return key, nil
}

// classify turns a registry error into a TransientError if the version may still become
// available, into a PersistentError otherwise.
func (r *RegistryReader) classify(what string, version uint64, err error) error {
	if errors.Is(err, registry.ErrVersionNotAvailable) {
		return NewTransientErrorf("'%s' at registry version %d: %w", what, version, err)
	}
	return NewPersistentErrorf("'%s' at registry version %d, RegistryClientError: %w", what, version, err)
}

func notFound(what string, version uint64) error {
	return NewPersistentErrorf("'%s' at registry version %d not found", what, version)
}
