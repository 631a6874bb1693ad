package migrate

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/replicanet/replica/cmd/util/cmd/common"
)

var (
	flagFromDir    string
	flagFromDBType common.DBTypeArg
	flagToDir      string
	flagToDBType   common.DBTypeArg
)

var Cmd = &cobra.Command{
	Use:   "migrate-registry",
	Short: "Copy all records of a registry local store into another store, e.g. from badger to pebble",
	Run:   run,
}

func init() {
	common.InitRegistryStoreFlags(Cmd, "from-", &flagFromDir, &flagFromDBType)
	common.InitRegistryStoreFlags(Cmd, "to-", &flagToDir, &flagToDBType)
}

func run(*cobra.Command, []string) {
	copied, err := Migrate(flagFromDBType, flagFromDir, flagToDBType, flagToDir)
	if err != nil {
		log.Fatal().Err(err).Msg("could not migrate registry")
	}
	log.Info().Int("records", copied).Msg("registry migrated")
}

// Migrate copies the records the target store does not have yet and returns their number.
func Migrate(fromDBType common.DBTypeArg, fromDir string, toDBType common.DBTypeArg, toDir string) (copied int, err error) {
	from, closeFrom, err := common.OpenRegistryStore(fromDBType, fromDir)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := closeFrom(); closeErr != nil {
			err = multierror.Append(err, fmt.Errorf("could not close source store: %w", closeErr))
		}
	}()

	to, closeTo, err := common.OpenRegistryStore(toDBType, toDir)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := closeTo(); closeErr != nil {
			err = multierror.Append(err, fmt.Errorf("could not close target store: %w", closeErr))
		}
	}()

	existing, err := to.GetUpdatesSince(0)
	if err != nil {
		return 0, fmt.Errorf("could not read target store: %w", err)
	}
	var latest uint64
	if len(existing) > 0 {
		latest = existing[len(existing)-1].Version
	}

	records, err := from.GetUpdatesSince(latest)
	if err != nil {
		return 0, fmt.Errorf("could not read source store: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}
	err = to.Write(records)
	if err != nil {
		return 0, fmt.Errorf("could not write target store: %w", err)
	}
	return len(records), nil
}
