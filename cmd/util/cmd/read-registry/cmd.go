package read

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"

	"github.com/replicanet/replica/cmd/util/cmd/common"
	"github.com/replicanet/replica/engine/execution/routing"
	"github.com/replicanet/replica/model/network"
	"github.com/replicanet/replica/module/metrics"
	"github.com/replicanet/replica/registry"
	"github.com/replicanet/replica/utils/logging"
)

var (
	flagDir      string
	flagDBType   common.DBTypeArg
	flagSubnetID common.SubnetIDArg
	flagVersion  uint64
)

var Cmd = &cobra.Command{
	Use:   "read-registry",
	Short: "Read the network topology and execution settings of a subnet from a registry local store",
	Run:   run,
}

func init() {
	common.InitRegistryStoreFlags(Cmd, "", &flagDir, &flagDBType)

	Cmd.Flags().Var(&flagSubnetID, "subnet-id", "hex id of the subnet to read the settings of")
	_ = Cmd.MarkFlagRequired("subnet-id")

	Cmd.Flags().Uint64Var(&flagVersion, "version", 0, "registry version to read, the latest version if 0")
}

func run(*cobra.Command, []string) {
	store, closeStore, err := common.OpenRegistryStore(flagDBType, flagDir)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open registry store")
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error().Err(err).Msg("could not close registry store")
		}
	}()

	client := registry.NewLocalClient(log.Logger, store, 0)
	err = client.UpdateToLatestVersion()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load registry records")
	}
	version := flagVersion
	if version == 0 {
		version = client.GetLatestVersion()
	}

	subnetID := network.SubnetID(flagSubnetID)
	reader, err := routing.NewRegistryReader(log.Logger, client, metrics.NewNoopCollector(), routing.DefaultConfig(subnetID))
	if err != nil {
		log.Fatal().Err(err).Msg("could not create registry reader")
	}
	topology, features, settings, nodePublicKeys, err := reader.ReadRegistry(version)
	if err != nil {
		log.Fatal().Err(err).Uint64("version", version).Msg("could not read registry")
	}

	log.Info().
		Uint64("version", version).
		Uint64("latest_version", client.GetLatestVersion()).
		Strs("subnets", logging.SubnetIDs(maps.Keys(topology.Subnets))).
		Str("root_subnet", topology.NNSSubnetID.String()).
		Int("routing_table_entries", len(topology.RoutingTable.Entries)).
		Int("canister_migrations", len(topology.CanisterMigrations.Entries)).
		Int("ecdsa_keys", len(topology.EcdsaSigningSubnets)).
		Msg("network topology")

	own := topology.Subnets[subnetID]
	log.Info().
		Str("subnet", subnetID.String()).
		Str("subnet_type", own.SubnetType.String()).
		Strs("nodes", logging.NodeIDs(own.Nodes)).
		Interface("features", features).
		Uint64("max_number_of_canisters", settings.MaxNumberOfCanisters).
		Uint32("max_ecdsa_queue_size", settings.MaxEcdsaQueueSize).
		Int("subnet_size", settings.SubnetSize).
		Bool("whitelist_all", settings.ProvisionalWhitelist.All).
		Int("whitelist_principals", len(settings.ProvisionalWhitelist.Principals)).
		Int("node_public_keys", len(nodePublicKeys)).
		Msg("subnet settings")
}
