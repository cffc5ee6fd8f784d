package lots

import (
	"errors"
	"testing"
	"time"

	"github.com/lotcheck/lotcheck/lib/journal"
	"github.com/lotcheck/lotcheck/lib/model"
	"github.com/lotcheck/lotcheck/lib/model/registry"
	"github.com/shopspring/decimal"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func setupInventory(t *testing.T) (*registry.Registry, *Inventory, *model.Account, *model.Commodity) {
	t.Helper()
	reg := registry.New()
	return reg, NewInventory(), reg.Account("Assets:Brokerage"), reg.Commodity("ITOT")
}

// Selling 60 out of lots of 50 and 25 consumes all 50 from the older
// lot and 10 from the younger one, in that order.
func TestReduceFIFO(t *testing.T) {
	reg, inv, acc, itot := setupInventory(t)
	usd := reg.Commodity("USD")
	lot1 := &model.Lot{Price: decimal.NewFromInt(50), Currency: usd, Date: date("2025-09-26")}
	lot2 := &model.Lot{Price: decimal.NewFromInt(55), Currency: usd, Date: date("2025-12-19")}
	inv.Add(acc, itot, decimal.NewFromInt(50), lot1)
	inv.Add(acc, itot, decimal.NewFromInt(25), lot2)

	matches, err := inv.Reduce(acc, itot, decimal.NewFromInt(60), nil)

	if err != nil {
		t.Fatalf("inv.Reduce() returned error %v, want nil", err)
	}
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
	if matches[0].Position.Lot != lot1 || !matches[0].Quantity.Equal(decimal.NewFromInt(50)) {
		t.Errorf("matches[0] = %s of %v, want 50 of the older lot", matches[0].Quantity, matches[0].Position.Lot)
	}
	if matches[1].Position.Lot != lot2 || !matches[1].Quantity.Equal(decimal.NewFromInt(10)) {
		t.Errorf("matches[1] = %s of %v, want 10 of the younger lot", matches[1].Quantity, matches[1].Position.Lot)
	}
	remaining := inv.Positions(acc, itot)
	if len(remaining) != 1 || !remaining[0].Quantity.Equal(decimal.NewFromInt(15)) {
		t.Errorf("inv.Positions() = %v, want a single position of 15", remaining)
	}
}

// Lots acquired on the same day are consumed in acquisition order.
func TestReduceFIFOSameDay(t *testing.T) {
	reg, inv, acc, itot := setupInventory(t)
	usd := reg.Commodity("USD")
	lot1 := &model.Lot{Price: decimal.NewFromInt(50), Currency: usd, Date: date("2025-09-26")}
	lot2 := &model.Lot{Price: decimal.NewFromInt(51), Currency: usd, Date: date("2025-09-26")}
	inv.Add(acc, itot, decimal.NewFromInt(10), lot1)
	inv.Add(acc, itot, decimal.NewFromInt(10), lot2)

	matches, err := inv.Reduce(acc, itot, decimal.NewFromInt(15), nil)

	if err != nil {
		t.Fatalf("inv.Reduce() returned error %v, want nil", err)
	}
	if len(matches) != 2 || matches[0].Position.Lot != lot1 || matches[1].Position.Lot != lot2 {
		t.Fatalf("matches = %v, want lots in acquisition order", matches)
	}
}

func TestReduceInsufficient(t *testing.T) {
	reg, inv, acc, itot := setupInventory(t)
	usd := reg.Commodity("USD")
	lot1 := &model.Lot{Price: decimal.NewFromInt(50), Currency: usd, Date: date("2025-09-26")}
	lot2 := &model.Lot{Price: decimal.NewFromInt(55), Currency: usd, Date: date("2025-12-19")}
	inv.Add(acc, itot, decimal.NewFromInt(50), lot1)
	inv.Add(acc, itot, decimal.NewFromInt(25), lot2)

	_, err := inv.Reduce(acc, itot, decimal.NewFromInt(80), nil)

	var insufficient InsufficientLotError
	if !errors.As(err, &insufficient) {
		t.Fatalf("inv.Reduce() returned %v, want an InsufficientLotError", err)
	}
	if !insufficient.Requested.Equal(decimal.NewFromInt(80)) {
		t.Errorf("insufficient.Requested = %s, want 80", insufficient.Requested)
	}
	if !insufficient.Available.Equal(decimal.NewFromInt(75)) {
		t.Errorf("insufficient.Available = %s, want 75", insufficient.Available)
	}
}

func TestReduceSpecificLot(t *testing.T) {
	reg, inv, acc, itot := setupInventory(t)
	usd := reg.Commodity("USD")
	lot1 := &model.Lot{Price: decimal.NewFromInt(50), Currency: usd, Date: date("2025-09-26")}
	lot2 := &model.Lot{Price: decimal.NewFromInt(55), Currency: usd, Date: date("2025-12-19")}
	inv.Add(acc, itot, decimal.NewFromInt(50), lot1)
	inv.Add(acc, itot, decimal.NewFromInt(25), lot2)

	matches, err := inv.Reduce(acc, itot, decimal.NewFromInt(20), &model.Lot{
		Price:    decimal.NewFromInt(55),
		Currency: usd,
		Date:     date("2025-12-19"),
	})

	if err != nil {
		t.Fatalf("inv.Reduce() returned error %v, want nil", err)
	}
	if len(matches) != 1 || matches[0].Position.Lot != lot2 {
		t.Fatalf("matches = %v, want the identified lot", matches)
	}

	_, err = inv.Reduce(acc, itot, decimal.NewFromInt(1), &model.Lot{
		Price:    decimal.NewFromInt(99),
		Currency: usd,
	})
	var noSuchLot NoSuchLotError
	if !errors.As(err, &noSuchLot) {
		t.Fatalf("inv.Reduce() returned %v, want a NoSuchLotError", err)
	}
}

func TestAddMergesEqualLots(t *testing.T) {
	reg, inv, acc, itot := setupInventory(t)
	usd := reg.Commodity("USD")
	lot := &model.Lot{Price: decimal.NewFromInt(50), Currency: usd, Date: date("2025-09-26")}
	inv.Add(acc, itot, decimal.NewFromInt(50), lot)
	inv.Add(acc, itot, decimal.NewFromInt(25), &model.Lot{Price: decimal.NewFromInt(50), Currency: usd, Date: date("2025-09-26")})

	positions := inv.Positions(acc, itot)
	if len(positions) != 1 || !positions[0].Quantity.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("inv.Positions() = %v, want a single position of 75", positions)
	}
}

// The tracker books lot postings from a journal: annotated buys open
// positions, unannotated sells reduce them FIFO.
func TestTracker(t *testing.T) {
	reg := registry.New()
	j, err := journal.FromText(reg, `
2025-01-01 open Assets:Brokerage
2025-01-01 open Assets:Cash
2025-01-01 open Income:PnL

2025-09-26 * "Buy 50"
  Assets:Brokerage 50 ITOT {50.00 USD}
  Assets:Cash -2500.00 USD

2025-12-19 * "Buy 25"
  Assets:Brokerage 25 ITOT {55.00 USD}
  Assets:Cash -1375.00 USD

2026-01-09 * "Sell 60"
  Assets:Brokerage -60 ITOT
  Assets:Cash 2400.00 USD
  Income:PnL 650.00 USD
`, "")
	if err != nil {
		t.Fatalf("journal.FromText() returned error %v, want nil", err)
	}
	var reductions [][]Match
	tracker := NewTracker()
	tracker.OnReduce = func(t *model.Transaction, p *model.Posting, matches []Match) error {
		reductions = append(reductions, matches)
		return nil
	}
	if err := j.Process(tracker.Processor()); err != nil {
		t.Fatalf("j.Process() returned error %v, want nil", err)
	}
	if len(reductions) != 1 {
		t.Fatalf("len(reductions) = %d, want 1", len(reductions))
	}
	matches := reductions[0]
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
	if !matches[0].Quantity.Equal(decimal.NewFromInt(50)) || !matches[0].Cost().Equal(decimal.RequireFromString("2500.00")) {
		t.Errorf("matches[0] = %s at cost %s, want 50 at cost 2500", matches[0].Quantity, matches[0].Cost())
	}
	if !matches[1].Quantity.Equal(decimal.NewFromInt(10)) || !matches[1].Cost().Equal(decimal.RequireFromString("550.00")) {
		t.Errorf("matches[1] = %s at cost %s, want 10 at cost 550", matches[1].Quantity, matches[1].Cost())
	}
	positions := tracker.Inventory.All()
	if len(positions) != 1 || !positions[0].Quantity.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("tracker.Inventory.All() = %v, want a single position of 15", positions)
	}
}

// A sell of more shares than are held fails loudly.
func TestTrackerInsufficient(t *testing.T) {
	reg := registry.New()
	j, err := journal.FromText(reg, `
2025-01-01 open Assets:Brokerage
2025-01-01 open Assets:Cash

2025-09-26 * "Buy 50"
  Assets:Brokerage 50 ITOT {50.00 USD}
  Assets:Cash -2500.00 USD

2026-01-09 * "Sell 80"
  Assets:Brokerage -80 ITOT
  Assets:Cash 4000.00 USD
`, "")
	if err != nil {
		t.Fatalf("journal.FromText() returned error %v, want nil", err)
	}
	err = j.Process(NewTracker().Processor())
	if err == nil {
		t.Fatalf("j.Process() returned nil, want an error")
	}
}
