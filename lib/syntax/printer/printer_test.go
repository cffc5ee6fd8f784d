package printer

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/lotcheck/lotcheck/lib/syntax"
)

func TestPrintFile(t *testing.T) {
	text := strings.Join([]string{
		"2025-01-01 open Assets:Brokerage",
		"2025-09-26 * \"Buy\" ^lot-1",
		"  Assets:Brokerage 100 ITOT {50.00 USD}",
		"  Assets:Cash -5000.00 USD",
		"",
	}, "\n")
	want := strings.Join([]string{
		"2025-01-01 open Assets:Brokerage",
		"",
		"2025-09-26 * \"Buy\" ^lot-1",
		"  Assets:Brokerage        100 ITOT {50.00 USD}",
		"  Assets:Cash        -5000.00 USD",
		"",
	}, "\n")

	f, err := syntax.Parse(text, "")
	if err != nil {
		t.Fatalf("syntax.Parse() returned error %v, want nil", err)
	}
	var got strings.Builder
	if _, err := New().PrintFile(&got, f); err != nil {
		t.Fatalf("PrintFile() returned error %v, want nil", err)
	}
	if diff := cmp.Diff(want, got.String()); diff != "" {
		t.Fatalf("PrintFile() returned unexpected diff (-want/+got)\n%s\n", diff)
	}
}

// A reprinted file parses to the same output again: dates, narration,
// tags, links, postings, and lot annotations survive the round trip.
func TestRoundTrip(t *testing.T) {
	text := strings.Join([]string{
		"; securities accounts",
		"2025-01-01 open Assets:Brokerage",
		"2025-01-01 open Assets:Cash",
		"2025-01-01 open Income:PnL",
		"",
		"2025-09-26 * \"Buy 100 shares\" #trade ^ws-1",
		"  Assets:Brokerage 100 ITOT {50.00 USD}",
		"  Assets:Cash -5000.00 USD",
		"",
		"2026-01-09 ! \"Sell 100 shares at a loss\" ^ws-1",
		"  Assets:Brokerage -100 ITOT {50.00 USD / 2025-09-26}",
		"  Assets:Cash 4000.00 USD",
		"  Income:PnL 1000.00 USD",
		"",
		"2026-01-15 balance Assets:Cash -1000.00 USD",
		"include \"prices.ledger\"",
		"",
	}, "\n")

	f, err := syntax.Parse(text, "")
	if err != nil {
		t.Fatalf("syntax.Parse() returned error %v, want nil", err)
	}
	var once strings.Builder
	if _, err := New().PrintFile(&once, f); err != nil {
		t.Fatalf("PrintFile() returned error %v, want nil", err)
	}

	f2, err := syntax.Parse(once.String(), "")
	if err != nil {
		t.Fatalf("syntax.Parse() of printed output returned error %v, want nil", err)
	}
	var twice strings.Builder
	if _, err := New().PrintFile(&twice, f2); err != nil {
		t.Fatalf("PrintFile() returned error %v, want nil", err)
	}
	if diff := cmp.Diff(once.String(), twice.String()); diff != "" {
		t.Fatalf("reprinting returned unexpected diff (-want/+got)\n%s\n", diff)
	}
}

// A transaction without a narration prints without empty quotes.
func TestPrintFileWithoutNarration(t *testing.T) {
	text := strings.Join([]string{
		"2025-01-01 * #opening",
		"  Assets:Cash 100.00 USD",
		"  Equity:Opening -100.00 USD",
		"",
	}, "\n")
	want := strings.Join([]string{
		"2025-01-01 * #opening",
		"  Assets:Cash        100.00 USD",
		"  Equity:Opening    -100.00 USD",
		"",
	}, "\n")

	f, err := syntax.Parse(text, "")
	if err != nil {
		t.Fatalf("syntax.Parse() returned error %v, want nil", err)
	}
	var got strings.Builder
	if _, err := New().PrintFile(&got, f); err != nil {
		t.Fatalf("PrintFile() returned error %v, want nil", err)
	}
	if diff := cmp.Diff(want, got.String()); diff != "" {
		t.Fatalf("PrintFile() returned unexpected diff (-want/+got)\n%s\n", diff)
	}
}
