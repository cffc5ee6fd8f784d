package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/lotcheck/lotcheck/cmd/cmdtest"
	"github.com/rs/zerolog"
	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
)

func TestPrintGolden(t *testing.T) {
	g := goldie.New(t)
	got := cmdtest.Run(t, CreatePrintCommand(), []string{"testdata/washsale.ledger"})
	g.Assert(t, "print", got)
}

func TestLotsGolden(t *testing.T) {
	g := goldie.New(t)
	args := []string{"--config", "testdata/config.yml", "testdata/washsale.ledger"}
	got := cmdtest.Run(t, CreateLotsCommand(), args)
	g.Assert(t, "lots", got)
}

func TestLotsAsOfGolden(t *testing.T) {
	g := goldie.New(t)
	args := []string{"--config", "testdata/config.yml", "--as-of", "2025-12-20", "testdata/washsale.ledger"}
	got := cmdtest.Run(t, CreateLotsCommand(), args)
	g.Assert(t, "lots_asof", got)
}

func TestWashSaleGolden(t *testing.T) {
	g := goldie.New(t)
	args := []string{"--config", "testdata/config.yml", "testdata/washsale.ledger"}
	got := cmdtest.Run(t, CreateWashSaleCommand(), args)
	g.Assert(t, "washsale", got)
}

func TestCheckGolden(t *testing.T) {
	g := goldie.New(t)
	args := []string{"--config", "testdata/config.yml", "testdata/washsale.ledger"}
	got := cmdtest.Run(t, CreateCheckCommand(), args)
	g.Assert(t, "check", got)
}

// A valid but uncleared transaction is reported as pending, not as a
// violation.
func TestCheckPending(t *testing.T) {
	args := []string{"--config", "testdata/config.yml", "testdata/pending.ledger"}
	got := string(cmdtest.Run(t, CreateCheckCommand(), args))
	if !strings.Contains(got, "PENDING") {
		t.Errorf("output does not contain PENDING:\n%s", got)
	}
	if strings.Contains(got, "FAIL") {
		t.Errorf("output contains FAIL, want none:\n%s", got)
	}
}

// A command without a registered --config flag is an error, not a
// silent fallback to defaults.
func TestLoadConfigMissingFlag(t *testing.T) {
	cmd := &cobra.Command{Use: "bare"}
	if _, err := loadConfig(cmd); err == nil {
		t.Fatalf("loadConfig() returned nil, want an error")
	}
}

// An invalid journal fails the run, with every violation attributed to
// its transaction in the report.
func TestCheckInvalid(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	cmd := CreateCheckCommand()
	cmd.SetContext(context.Background())
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.Flags().String("config", "", "path to a configuration file")
	if err := cmd.Flags().Set("config", "testdata/config.yml"); err != nil {
		t.Fatal(err)
	}

	var r checkRunner
	err := r.execute(cmd, []string{"testdata/imbalance.ledger"})

	if err == nil {
		t.Fatalf("execute() returned nil, want an error")
	}
	out := buf.String()
	for _, want := range []string{"FAIL", "does not balance", "insufficient lots"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}
