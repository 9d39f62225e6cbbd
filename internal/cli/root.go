// Package cli provides the command-line interface for ratelimitctl.
package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sergii-sakharov/ratelimiter/internal/logging"
)

var (
	cfgFile string
	verbose bool

	logger *logging.Logger
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ratelimitctl",
		Short: "Drive and demonstrate the ratelimiter permit-accounting engine",
		Long: `ratelimitctl exercises the ratelimiter package outside of a test binary:

  simulate  replays an acquire sequence against the engine and prints its wait trace
  serve     starts a gRPC server admission-gated by a rate limiter`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			logger = logging.NewDefault()
			logging.SetVerbose(verbose)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "configuration file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

func initConfig() error {
	viper.SetEnvPrefix("RATELIMITCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return err
		}
	}
	return nil
}

// GetLogger returns the process-wide CLI logger, initializing a default one if called before
// the root command's PersistentPreRunE has run (e.g. from a test).
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return logger
}
