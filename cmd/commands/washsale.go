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

	"github.com/lotcheck/lotcheck/lib/common/table"
	"github.com/lotcheck/lotcheck/lib/journal"
	"github.com/lotcheck/lotcheck/lib/lots"
	"github.com/lotcheck/lotcheck/lib/model/registry"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// CreateWashSaleCommand creates the command.
func CreateWashSaleCommand() *cobra.Command {

	var r washSaleRunner

	c := &cobra.Command{
		Use:   "washsale",
		Short: "report wash sales",
		Long: `Replay the journal, detect loss sales with replacement purchases
within 30 days before or after, and report the disallowed loss and the
basis adjustments of the replacement lots.`,
		Args: cobra.ExactArgs(1),
		Run:  r.run,
	}
	return c
}

type washSaleRunner struct{}

func (r *washSaleRunner) run(cmd *cobra.Command, args []string) {
	if err := r.execute(cmd, args); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func (r *washSaleRunner) execute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	j, err := journal.FromPath(cmd.Context(), registry.New(), args[0])
	if err != nil {
		return err
	}
	sales, err := lots.NewAnalyzer().Analyze(j)
	if err != nil {
		return err
	}
	log.Debug().Int("count", len(sales)).Msg("wash sales detected")

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	renderer := table.TextRenderer{Color: cfg.Color, Round: 2}

	tbl := table.New(7)
	tbl.AddSeparatorRow()
	tbl.AddRow().
		AddText("Date", table.Center).
		AddText("Account", table.Center).
		AddText("Commodity", table.Center).
		AddText("Sold", table.Center).
		AddText("Loss", table.Center).
		AddText("Disallowed", table.Center).
		AddText("Allowed", table.Center)
	tbl.AddSeparatorRow()
	for _, ws := range sales {
		tbl.AddRow().
			AddDate(ws.Date).
			AddText(ws.Account.String(), table.Left).
			AddText(ws.Commodity.String(), table.Left).
			AddNumber(ws.Quantity).
			AddNumber(ws.Loss.Neg()).
			AddNumber(ws.Disallowed.Neg()).
			AddNumber(ws.Allowed.Neg())
	}
	tbl.AddSeparatorRow()
	if err := renderer.Render(tbl, out); err != nil {
		return err
	}

	adj := table.New(6)
	adj.AddSeparatorRow()
	adj.AddRow().
		AddText("Sale", table.Center).
		AddText("Lot", table.Center).
		AddText("Commodity", table.Center).
		AddText("Replaced", table.Center).
		AddText("Adjustment", table.Center).
		AddText("New Basis", table.Center)
	adj.AddSeparatorRow()
	for _, ws := range sales {
		for _, a := range ws.Adjustments {
			adj.AddRow().
				AddDate(ws.Date).
				AddDate(a.Lot.Date).
				AddText(a.Commodity.String(), table.Left).
				AddNumber(a.Counted).
				AddNumber(a.Amount).
				AddNumber(a.NewBasis())
		}
	}
	adj.AddSeparatorRow()
	return renderer.Render(adj, out)
}
