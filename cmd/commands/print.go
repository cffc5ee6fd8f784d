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

package commands

import (
	"bufio"
	"fmt"
	"os"

	"github.com/lotcheck/lotcheck/lib/syntax"
	"github.com/lotcheck/lotcheck/lib/syntax/printer"
	"github.com/spf13/cobra"
)

// CreatePrintCommand creates the command.
func CreatePrintCommand() *cobra.Command {

	var r printRunner

	c := &cobra.Command{
		Use:   "print",
		Short: "print the journal",
		Long:  `Parse the journal and print it in canonical form.`,
		Args:  cobra.ExactArgs(1),
		Run:   r.run,
	}
	return c
}

type printRunner struct{}

func (r *printRunner) run(cmd *cobra.Command, args []string) {
	if err := r.execute(cmd, args); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func (r *printRunner) execute(cmd *cobra.Command, args []string) error {
	f, err := syntax.ParseFile(args[0])
	if err != nil {
		return err
	}
	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	_, err = printer.New().PrintFile(out, f)
	return err
}
