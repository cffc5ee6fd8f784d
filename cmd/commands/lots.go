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

	"github.com/lotcheck/lotcheck/cmd/flags"
	"github.com/lotcheck/lotcheck/lib/common/table"
	"github.com/lotcheck/lotcheck/lib/journal"
	"github.com/lotcheck/lotcheck/lib/lots"
	"github.com/lotcheck/lotcheck/lib/model"
	"github.com/lotcheck/lotcheck/lib/model/registry"
	"github.com/spf13/cobra"
)

// CreateLotsCommand creates the command.
func CreateLotsCommand() *cobra.Command {

	var r lotsRunner

	c := &cobra.Command{
		Use:   "lots",
		Short: "list the open lots",
		Long:  `Replay the journal and list the open cost basis lots.`,
		Args:  cobra.ExactArgs(1),
		Run:   r.run,
	}
	r.setupFlags(c)
	return c
}

type lotsRunner struct {
	asOf flags.DateFlag
}

func (r *lotsRunner) setupFlags(c *cobra.Command) {
	c.Flags().Var(&r.asOf, "as-of", "ignore directives after this date")
}

func (r *lotsRunner) run(cmd *cobra.Command, args []string) {
	if err := r.execute(cmd, args); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func (r *lotsRunner) execute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	j, err := journal.FromPath(cmd.Context(), registry.New(), args[0])
	if err != nil {
		return err
	}
	tracker := lots.NewTracker()
	proc := tracker.Processor()
	if !r.asOf.IsZero() {
		book := proc.Posting
		proc.Posting = func(t *model.Transaction, p *model.Posting) error {
			if t.Date.After(r.asOf.Value()) {
				return nil
			}
			return book(t, p)
		}
	}
	if err := j.Process(proc); err != nil {
		return err
	}

	tbl := table.New(6)
	tbl.AddSeparatorRow()
	tbl.AddRow().
		AddText("Account", table.Center).
		AddText("Commodity", table.Center).
		AddText("Date", table.Center).
		AddText("Quantity", table.Center).
		AddText("Price", table.Center).
		AddText("Cost", table.Center)
	tbl.AddSeparatorRow()
	for _, p := range tracker.Inventory.All() {
		tbl.AddRow().
			AddText(p.Account.String(), table.Left).
			AddText(p.Commodity.String(), table.Left).
			AddDate(p.Lot.Date).
			AddNumber(p.Quantity).
			AddNumber(p.Lot.Price).
			AddNumber(p.Cost())
	}
	tbl.AddSeparatorRow()

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	renderer := table.TextRenderer{Color: cfg.Color, Round: 2}
	return renderer.Render(tbl, out)
}
