package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	migrateRegistry "github.com/replicanet/replica/cmd/util/cmd/migrate-registry"
	readRegistry "github.com/replicanet/replica/cmd/util/cmd/read-registry"
)

var (
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "util",
	Short: "Utility functions for a replica node",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := zerolog.ParseLevel(viper.GetString("log-level"))
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		zerolog.SetGlobalLevel(level)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (panic, fatal, error, warn, info, debug)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	addCommands()

	cobra.OnInitialize(initConfig)
}

func addCommands() {
	rootCmd.AddCommand(readRegistry.Cmd)
	rootCmd.AddCommand(migrateRegistry.Cmd)
}

// initConfig lets every flag be set from the environment, e.g. LOG_LEVEL for --log-level.
func initConfig() {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
