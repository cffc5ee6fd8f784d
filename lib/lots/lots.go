// Package lots tracks cost basis lots per account and commodity.
package lots

import (
	"fmt"

	"github.com/lotcheck/lotcheck/lib/common/compare"
	"github.com/lotcheck/lotcheck/lib/journal"
	"github.com/lotcheck/lotcheck/lib/model"
	"github.com/shopspring/decimal"
)

// Position is an open lot: a quantity held at a cost basis.
type Position struct {
	Account   *model.Account
	Commodity *model.Commodity
	Lot       *model.Lot
	Quantity  decimal.Decimal
}

// Cost returns the total cost basis of the position.
func (p *Position) Cost() decimal.Decimal {
	return p.Lot.Cost(p.Quantity)
}

type key struct {
	account   *model.Account
	commodity *model.Commodity
}

// Inventory holds the open positions per account and commodity.
type Inventory struct {
	positions map[key][]*Position
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{positions: make(map[key][]*Position)}
}

// Tracked reports whether the account holds lots of the commodity.
func (inv *Inventory) Tracked(account *model.Account, commodity *model.Commodity) bool {
	return len(inv.positions[key{account, commodity}]) > 0
}

// Positions returns the open positions for the account and commodity,
// oldest lot first.
func (inv *Inventory) Positions(account *model.Account, commodity *model.Commodity) []*Position {
	ps := inv.positions[key{account, commodity}]
	res := make([]*Position, len(ps))
	copy(res, ps)
	sortByDate(res)
	return res
}

// All returns every open position in the inventory.
func (inv *Inventory) All() []*Position {
	var res []*Position
	for _, ps := range inv.positions {
		res = append(res, ps...)
	}
	compare.Sort(res, func(p1, p2 *Position) compare.Order {
		if o := model.CompareAccounts(p1.Account, p2.Account); o != compare.Equal {
			return o
		}
		if o := model.CompareCommodities(p1.Commodity, p2.Commodity); o != compare.Equal {
			return o
		}
		if o := compare.Time(p1.Lot.Date, p2.Lot.Date); o != compare.Equal {
			return o
		}
		return compare.Decimal(p1.Lot.Price, p2.Lot.Price)
	})
	return res
}

// Add opens a new position. Positions with the same cost basis and
// acquisition date are merged.
func (inv *Inventory) Add(account *model.Account, commodity *model.Commodity, quantity decimal.Decimal, lot *model.Lot) {
	k := key{account, commodity}
	for _, p := range inv.positions[k] {
		if p.Lot.Price.Equal(lot.Price) && p.Lot.Currency == lot.Currency && p.Lot.Date.Equal(lot.Date) {
			p.Quantity = p.Quantity.Add(quantity)
			return
		}
	}
	inv.positions[k] = append(inv.positions[k], &Position{
		Account:   account,
		Commodity: commodity,
		Lot:       lot,
		Quantity:  quantity,
	})
}

// Match records a reduction against a single position.
type Match struct {
	Position *Position
	Quantity decimal.Decimal
}

// Cost returns the cost basis of the matched quantity.
func (m Match) Cost() decimal.Decimal {
	return m.Position.Lot.Cost(m.Quantity)
}

// Reduce removes the given quantity from the inventory. If lot is nil,
// positions are consumed oldest first, with same-day lots consumed in
// the order they were acquired. Otherwise, the position matching the
// lot's cost basis and date is reduced.
func (inv *Inventory) Reduce(account *model.Account, commodity *model.Commodity, quantity decimal.Decimal, lot *model.Lot) ([]Match, error) {
	if lot != nil {
		return inv.reduceLot(account, commodity, quantity, lot)
	}
	return inv.reduceFIFO(account, commodity, quantity)
}

func (inv *Inventory) reduceFIFO(account *model.Account, commodity *model.Commodity, quantity decimal.Decimal) ([]Match, error) {
	k := key{account, commodity}
	ps := inv.positions[k]
	sortByDate(ps)
	var (
		matches   []Match
		remaining = quantity
	)
	for _, p := range ps {
		if !remaining.IsPositive() {
			break
		}
		matched := decimal.Min(p.Quantity, remaining)
		matches = append(matches, Match{Position: p, Quantity: matched})
		p.Quantity = p.Quantity.Sub(matched)
		remaining = remaining.Sub(matched)
	}
	inv.compact(k)
	if remaining.IsPositive() {
		return nil, InsufficientLotError{
			Account:   account,
			Commodity: commodity,
			Requested: quantity,
			Available: quantity.Sub(remaining),
		}
	}
	return matches, nil
}

func (inv *Inventory) reduceLot(account *model.Account, commodity *model.Commodity, quantity decimal.Decimal, lot *model.Lot) ([]Match, error) {
	k := key{account, commodity}
	for _, p := range inv.positions[k] {
		if !p.Lot.Price.Equal(lot.Price) {
			continue
		}
		if !lot.Date.IsZero() && !p.Lot.Date.Equal(lot.Date) {
			continue
		}
		if p.Quantity.LessThan(quantity) {
			return nil, InsufficientLotError{
				Account:   account,
				Commodity: commodity,
				Requested: quantity,
				Available: p.Quantity,
			}
		}
		p.Quantity = p.Quantity.Sub(quantity)
		inv.compact(k)
		return []Match{{Position: p, Quantity: quantity}}, nil
	}
	return nil, NoSuchLotError{Account: account, Commodity: commodity, Lot: lot}
}

func (inv *Inventory) compact(k key) {
	ps := inv.positions[k][:0]
	for _, p := range inv.positions[k] {
		if p.Quantity.IsPositive() {
			ps = append(ps, p)
		}
	}
	if len(ps) == 0 {
		delete(inv.positions, k)
		return
	}
	inv.positions[k] = ps
}

func sortByDate(ps []*Position) {
	compare.SortStable(ps, func(p1, p2 *Position) compare.Order {
		return compare.Time(p1.Lot.Date, p2.Lot.Date)
	})
}

// InsufficientLotError is returned when a reduction exceeds the
// quantity held.
type InsufficientLotError struct {
	Account   *model.Account
	Commodity *model.Commodity
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e InsufficientLotError) Error() string {
	return fmt.Sprintf("insufficient lots in %s: requested %s %s, available %s %s",
		e.Account, e.Requested, e.Commodity, e.Available, e.Commodity)
}

// NoSuchLotError is returned when no position matches an explicitly
// identified lot.
type NoSuchLotError struct {
	Account   *model.Account
	Commodity *model.Commodity
	Lot       *model.Lot
}

func (e NoSuchLotError) Error() string {
	if e.Lot.Date.IsZero() {
		return fmt.Sprintf("no lot in %s with cost %s %s", e.Account, e.Lot.Price, e.Lot.Currency)
	}
	return fmt.Sprintf("no lot in %s with cost %s %s acquired on %s",
		e.Account, e.Lot.Price, e.Lot.Currency, e.Lot.Date.Format("2006-01-02"))
}

// Tracker applies the lot postings of a journal to an inventory.
// Postings with a lot annotation and a positive quantity open
// positions. Negative postings on tracked holdings reduce them, FIFO
// unless the posting identifies a lot.
type Tracker struct {
	Inventory *Inventory

	// OnReduce, if set, is called for each reducing posting with the
	// positions it consumed.
	OnReduce func(t *model.Transaction, p *model.Posting, matches []Match) error
}

// NewTracker creates a tracker with an empty inventory.
func NewTracker() *Tracker {
	return &Tracker{Inventory: NewInventory()}
}

// Processor returns a processor which applies postings to the
// inventory.
func (tr *Tracker) Processor() *journal.Processor {
	return &journal.Processor{Posting: tr.book}
}

func (tr *Tracker) book(t *model.Transaction, p *model.Posting) error {
	switch {
	case p.Quantity.IsPositive() && p.Lot != nil:
		lot := p.Lot
		if lot.Date.IsZero() {
			lot = &model.Lot{Price: p.Lot.Price, Currency: p.Lot.Currency, Date: t.Date}
		}
		tr.Inventory.Add(p.Account, p.Commodity, p.Quantity, lot)
	case p.Quantity.IsNegative() && (p.Lot != nil || tr.Inventory.Tracked(p.Account, p.Commodity)):
		matches, err := tr.Inventory.Reduce(p.Account, p.Commodity, p.Quantity.Neg(), p.Lot)
		if err != nil {
			return journal.Error{Directive: t, Msg: err.Error()}
		}
		if tr.OnReduce != nil {
			return tr.OnReduce(t, p, matches)
		}
	}
	return nil
}
