// Package commands contains the subcommands.
package commands

import (
	"github.com/lotcheck/lotcheck/lib/config"
	"github.com/spf13/cobra"
)

// loadConfig loads the configuration file given by the --config flag,
// or the defaults if the flag is unset.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
