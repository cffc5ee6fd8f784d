// Copyright 2021 Silvio Böhler
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd is the main command file for Cobra
package cmd

import (
	"fmt"
	"os"

	"github.com/lotcheck/lotcheck/cmd/commands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lotcheck",
	Short: "lotcheck is a plain text ledger validator",
	Long: `lotcheck validates plain text ledgers with commodity lots. It checks
double-entry balance invariants, replays cost basis lots, and reports
wash sales with their basis adjustments.`,

	PersistentPreRun: setupLogging,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "path to a configuration file")

	rootCmd.AddCommand(commands.CreateCheckCommand())
	rootCmd.AddCommand(commands.CreatePrintCommand())
	rootCmd.AddCommand(commands.CreateFormatCommand())
	rootCmd.AddCommand(commands.CreateLotsCommand())
	rootCmd.AddCommand(commands.CreateWashSaleCommand())
}

func setupLogging(cmd *cobra.Command, args []string) {
	out := zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: "15:04:05"}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}
