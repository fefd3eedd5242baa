// Package cli is the launchdeck operator command line
package cli

import (
	"launchdeck/internal/core/version"
	"launchdeck/internal/platform/config"
	"launchdeck/internal/platform/logger"

	"github.com/spf13/cobra"
)

// RootOptions holds flags shared by every command
type RootOptions struct {
	// Conf is the environment view commands read; tests swap it
	Conf config.Conf
}

// NewRootCommand builds the launchdeck command tree
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Conf: config.New()}

	cmd := &cobra.Command{
		Use:           "launchdeck",
		Short:         "launchdeck operator commands",
		Version:       version.Info().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logger.Init(logger.FromEnv())
		},
	}

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newSeedCommand(opts))
	cmd.AddCommand(newHashKeyCommand())
	return cmd
}
