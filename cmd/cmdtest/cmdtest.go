// Package cmdtest provides helpers for testing commands.
package cmdtest

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Run executes the command with the given arguments and returns its
// output. The --config flag of the root command is registered if the
// command does not define it itself.
func Run(t *testing.T, cmd *cobra.Command, args []string) []byte {
	t.Helper()
	zerolog.SetGlobalLevel(zerolog.Disabled)
	if cmd.Flags().Lookup("config") == nil {
		cmd.Flags().String("config", "", "path to a configuration file")
	}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("cmd.Execute() returned error %v, want nil", err)
	}
	return buf.Bytes()
}
