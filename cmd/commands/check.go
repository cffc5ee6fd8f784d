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
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/lotcheck/lotcheck/cmd/flags"
	"github.com/lotcheck/lotcheck/lib/journal"
	"github.com/lotcheck/lotcheck/lib/journal/check"
	"github.com/lotcheck/lotcheck/lib/lots"
	"github.com/lotcheck/lotcheck/lib/model"
	"github.com/lotcheck/lotcheck/lib/model/registry"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// CreateCheckCommand creates the command.
func CreateCheckCommand() *cobra.Command {

	var r checkRunner

	c := &cobra.Command{
		Use:   "check",
		Short: "check the journal",
		Long: `Check the journal: accounts must be open when used, transactions
must balance at cost in every currency, balance assertions must hold,
and sells must not exceed the lots held. Every transaction is reported
with a pass or fail status, and all violations are listed, not only the
first.`,
		Args: cobra.ExactArgs(1),
		Run:  r.run,
	}
	r.setupFlags(c)
	return c
}

type checkRunner struct {
	tolerance flags.DecimalFlag
}

func (r *checkRunner) setupFlags(c *cobra.Command) {
	c.Flags().Var(&r.tolerance, "tolerance", "maximum per-currency residual of a balanced transaction")
}

func (r *checkRunner) run(cmd *cobra.Command, args []string) {
	if err := r.execute(cmd, args); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func (r *checkRunner) execute(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log.Debug().Str("file", args[0]).Msg("checking journal")
	j, err := journal.FromPath(cmd.Context(), registry.New(), args[0])
	if err != nil {
		return err
	}
	checker := check.New()
	checker.Tolerance = cfg.Tolerance
	if cmd.Flags().Changed("tolerance") {
		checker.Tolerance = r.tolerance.Value()
	}
	color.NoColor = !cfg.Color

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	rep := &reporter{out: out, padding: narrationPadding(j)}

	// The checker's transaction and posting callbacks are folded into a
	// single per-transaction callback, so that every violation can be
	// attributed to its transaction in the report.
	cp := checker.Processor()
	tp := lots.NewTracker().Processor()
	proc := &journal.Processor{
		Open:    cp.Open,
		Balance: cp.Balance,
		Close:   cp.Close,
		Transaction: func(t *model.Transaction) error {
			var errs error
			errs = multierr.Append(errs, cp.Transaction(t))
			for _, pst := range t.Postings {
				errs = multierr.Append(errs, cp.Posting(t, pst))
				errs = multierr.Append(errs, tp.Posting(t, pst))
			}
			return rep.report(t, errs)
		},
	}
	if err := j.Process(proc); err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintln(cmd.ErrOrStderr(), e)
			rep.failures++
		}
	}
	if rep.failures > 0 {
		return fmt.Errorf("found %d violations", rep.failures)
	}
	return nil
}

// reporter prints a pass or fail line per transaction, with the
// violations of a failing transaction listed below it.
type reporter struct {
	out      io.Writer
	padding  int
	failures int
}

func (rep *reporter) report(t *model.Transaction, errs error) error {
	var (
		date      = t.Date.Format("2006-01-02")
		narration = fmt.Sprintf("%q", t.Narration)
	)
	if errs == nil {
		status := color.GreenString("OK")
		if !t.Cleared() {
			status = color.YellowString("PENDING")
		}
		_, err := fmt.Fprintf(rep.out, "%s %-*s %s\n", date, rep.padding, narration, status)
		return err
	}
	rep.failures += len(multierr.Errors(errs))
	if _, err := fmt.Fprintf(rep.out, "%s %-*s %s\n", date, rep.padding, narration, color.RedString("FAIL")); err != nil {
		return err
	}
	for _, e := range multierr.Errors(errs) {
		if _, err := fmt.Fprintf(rep.out, "  %s\n", e); err != nil {
			return err
		}
	}
	return nil
}

func narrationPadding(j *journal.Journal) int {
	var res int
	for _, day := range j.Days() {
		for _, t := range day.Transactions {
			if l := len(t.Narration) + 2; l > res {
				res = l
			}
		}
	}
	return res
}
