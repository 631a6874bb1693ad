package common

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/replicanet/replica/model/network"
)

const (
	DBTypeBadger = "badger"
	DBTypePebble = "pebble"
)

// SubnetIDArg is a subnet id flag given in hex.
type SubnetIDArg network.SubnetID

var _ pflag.Value = (*SubnetIDArg)(nil)

func (a *SubnetIDArg) String() string {
	return network.SubnetID(*a).String()
}

func (a *SubnetIDArg) Set(value string) error {
	id, err := network.HexStringToIdentifier(value)
	if err != nil {
		return fmt.Errorf("invalid subnet id %q: %w", value, err)
	}
	*a = SubnetIDArg(id)
	return nil
}

func (a *SubnetIDArg) Type() string {
	return "subnetID"
}

// DBTypeArg selects the database of a registry local store.
type DBTypeArg string

var _ pflag.Value = (*DBTypeArg)(nil)

func (a *DBTypeArg) String() string {
	return string(*a)
}

func (a *DBTypeArg) Set(value string) error {
	switch value {
	case DBTypeBadger, DBTypePebble:
		*a = DBTypeArg(value)
		return nil
	default:
		return fmt.Errorf("unknown database type %q, expected %s or %s", value, DBTypeBadger, DBTypePebble)
	}
}

func (a *DBTypeArg) Type() string {
	return "dbType"
}

// InitRegistryStoreFlags adds the flags locating a registry local store, named with the prefix.
func InitRegistryStoreFlags(cmd *cobra.Command, prefix string, dir *string, dbType *DBTypeArg) {
	*dbType = DBTypeBadger
	cmd.Flags().StringVar(dir, prefix+"dir", "", "directory of the registry local store")
	cmd.Flags().Var(dbType, prefix+"db-type", "database of the registry local store (badger or pebble)")
	_ = cmd.MarkFlagRequired(prefix + "dir")
}
