// Package check validates a journal: it checks that accounts are open
// when used, that transactions balance at cost, and that balance
// assertions hold.
package check

import (
	"fmt"
	"time"

	"github.com/lotcheck/lotcheck/lib/amounts"
	"github.com/lotcheck/lotcheck/lib/common/compare"
	"github.com/lotcheck/lotcheck/lib/journal"
	"github.com/lotcheck/lotcheck/lib/model"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

// DefaultTolerance is the maximum absolute per-currency residual of a
// balanced transaction.
var DefaultTolerance = decimal.New(5, -3)

// Checker validates the directives of a journal.
type Checker struct {
	Tolerance decimal.Decimal

	opened   map[*model.Account]time.Time
	closed   map[*model.Account]time.Time
	balances amounts.Amounts
}

// New creates a new Checker with the default tolerance.
func New() *Checker {
	return &Checker{
		Tolerance: DefaultTolerance,
		opened:    make(map[*model.Account]time.Time),
		closed:    make(map[*model.Account]time.Time),
		balances:  make(amounts.Amounts),
	}
}

// Processor returns a processor running this checker.
func (c *Checker) Processor() *journal.Processor {
	return &journal.Processor{
		Open:        c.checkOpen,
		Transaction: c.checkTransaction,
		Posting:     c.checkPosting,
		Balance:     c.checkBalance,
		Close:       c.checkClose,
	}
}

func (c *Checker) checkOpen(o *model.Open) error {
	if _, open := c.opened[o.Account]; open {
		return journal.Error{Directive: o, Msg: fmt.Sprintf("account %s is already open", o.Account)}
	}
	c.opened[o.Account] = o.Date
	return nil
}

// checkClose checks that the account is open, not yet closed, and
// holds no remaining position in any commodity.
func (c *Checker) checkClose(cl *model.Close) error {
	if _, open := c.opened[cl.Account]; !open {
		return journal.Error{Directive: cl, Msg: fmt.Sprintf("account %s is not open", cl.Account)}
	}
	if _, closed := c.closed[cl.Account]; closed {
		return journal.Error{Directive: cl, Msg: fmt.Sprintf("account %s is already closed", cl.Account)}
	}
	var errs error
	for _, k := range c.balances.Index(amounts.CompareKeys) {
		if k.Account != cl.Account {
			continue
		}
		if have := c.balances.Amount(k); !have.IsZero() {
			errs = multierr.Append(errs, journal.Error{
				Directive: cl,
				Msg:       fmt.Sprintf("account %s still holds %s %s", cl.Account, have, k.Commodity),
			})
		}
	}
	if errs != nil {
		return errs
	}
	c.closed[cl.Account] = cl.Date
	return nil
}

func (c *Checker) checkPosting(t *model.Transaction, p *model.Posting) error {
	if err := c.checkAccount(t, p.Account, t.Date); err != nil {
		return err
	}
	c.balances.Add(amounts.AccountCommodityKey(p.Account, p.Commodity), p.Quantity)
	return nil
}

func (c *Checker) checkAccount(d model.Directive, a *model.Account, date time.Time) error {
	opened, open := c.opened[a]
	if !open || date.Before(opened) {
		return journal.Error{Directive: d, Msg: fmt.Sprintf("account %s is not open", a)}
	}
	if closed, ok := c.closed[a]; ok && !date.Before(closed) {
		return journal.Error{Directive: d, Msg: fmt.Sprintf("account %s is closed", a)}
	}
	return nil
}

// checkTransaction checks that the postings of the transaction balance
// to zero in every currency. Postings with a lot count at cost, in the
// lot's cost currency.
func (c *Checker) checkTransaction(t *model.Transaction) error {
	sums := make(map[*model.Commodity]decimal.Decimal)
	for _, p := range t.Postings {
		if p.Lot != nil {
			sums[p.Lot.Currency] = sums[p.Lot.Currency].Add(p.Lot.Cost(p.Quantity))
		} else {
			sums[p.Commodity] = sums[p.Commodity].Add(p.Quantity)
		}
	}
	var errs error
	for _, com := range sortedCommodities(sums) {
		if sum := sums[com]; sum.Abs().GreaterThan(c.Tolerance) {
			errs = multierr.Append(errs, ImbalanceError{
				Transaction: t,
				Commodity:   com,
				Delta:       sum,
			})
		}
	}
	return errs
}

func (c *Checker) checkBalance(b *model.Balance) error {
	if err := c.checkAccount(b, b.Account, b.Date); err != nil {
		return err
	}
	have := c.balances.Amount(amounts.AccountCommodityKey(b.Account, b.Commodity))
	if !have.Equal(b.Quantity) {
		return journal.Error{
			Directive: b,
			Msg: fmt.Sprintf("balance assertion failed for %s: expected %s %s, have %s %s",
				b.Account, b.Quantity, b.Commodity, have, b.Commodity),
		}
	}
	return nil
}

func sortedCommodities(sums map[*model.Commodity]decimal.Decimal) []*model.Commodity {
	res := make([]*model.Commodity, 0, len(sums))
	for com := range sums {
		res = append(res, com)
	}
	compare.Sort(res, model.CompareCommodities)
	return res
}

// ImbalanceError is returned for a transaction whose postings do not
// sum to zero in some currency.
type ImbalanceError struct {
	Transaction *model.Transaction
	Commodity   *model.Commodity
	Delta       decimal.Decimal
}

func (e ImbalanceError) Error() string {
	msg := fmt.Sprintf("transaction does not balance: %s %s", e.Delta, e.Commodity)
	return journal.Error{Directive: e.Transaction, Msg: msg}.Error()
}
