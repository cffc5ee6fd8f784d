package lots

import (
	"time"

	"github.com/lotcheck/lotcheck/lib/common/compare"
	"github.com/lotcheck/lotcheck/lib/journal"
	"github.com/lotcheck/lotcheck/lib/model"
	"github.com/shopspring/decimal"
)

// WindowDays is the number of days before and after a loss sale in
// which a purchase of the same commodity counts as a replacement.
const WindowDays = 30

// Adjustment is the share of a disallowed loss apportioned to a
// replacement lot.
type Adjustment struct {
	Account   *model.Account
	Commodity *model.Commodity
	Lot       *model.Lot
	Quantity  decimal.Decimal // full lot quantity
	Counted   decimal.Decimal // replacement shares counted from this lot
	Amount    decimal.Decimal // disallowed loss added to the basis
}

// NewBasis returns the basis of the lot after the adjustment.
func (a Adjustment) NewBasis() decimal.Decimal {
	return a.Lot.Cost(a.Quantity).Add(a.Amount)
}

// WashSale is a loss sale with replacement purchases inside the
// window. The disallowed part of the loss is spread over the
// replacement lots.
type WashSale struct {
	Date        time.Time
	Transaction *model.Transaction
	Account     *model.Account
	Commodity   *model.Commodity
	Currency    *model.Commodity
	Quantity    decimal.Decimal // shares sold
	Loss        decimal.Decimal // realized loss, positive
	Disallowed  decimal.Decimal
	Allowed     decimal.Decimal
	Adjustments []Adjustment
}

type purchase struct {
	account   *model.Account
	commodity *model.Commodity
	quantity  decimal.Decimal
	lot       *model.Lot
}

type sale struct {
	trx       *model.Transaction
	account   *model.Account
	commodity *model.Commodity
	currency  *model.Commodity
	quantity  decimal.Decimal
	loss      decimal.Decimal
	matches   []Match
}

// Analyzer detects wash sales in a journal.
type Analyzer struct {
	tracker   *Tracker
	purchases []purchase
	sales     []sale
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	a := &Analyzer{tracker: NewTracker()}
	a.tracker.OnReduce = a.onReduce
	return a
}

// Processor returns a processor which books lots and records
// purchases and loss sales.
func (a *Analyzer) Processor() *journal.Processor {
	return &journal.Processor{Posting: a.book}
}

func (a *Analyzer) book(t *model.Transaction, p *model.Posting) error {
	if p.Quantity.IsPositive() && p.Lot != nil {
		lot := p.Lot
		if lot.Date.IsZero() {
			lot = &model.Lot{Price: p.Lot.Price, Currency: p.Lot.Currency, Date: t.Date}
		}
		a.purchases = append(a.purchases, purchase{
			account:   p.Account,
			commodity: p.Commodity,
			quantity:  p.Quantity,
			lot:       lot,
		})
	}
	return a.tracker.book(t, p)
}

func (a *Analyzer) onReduce(t *model.Transaction, p *model.Posting, matches []Match) error {
	if len(matches) == 0 {
		return nil
	}
	currency := matches[0].Position.Lot.Currency
	loss := realizedLoss(t, currency)
	if !loss.IsPositive() {
		return nil
	}
	a.sales = append(a.sales, sale{
		trx:       t,
		account:   p.Account,
		commodity: p.Commodity,
		currency:  currency,
		quantity:  p.Quantity.Neg(),
		loss:      loss,
		matches:   matches,
	})
	return nil
}

// realizedLoss returns the profit and loss booked by the transaction
// in the given currency. Income and expense postings carry the
// realized result of a sale, with a loss posted as a positive amount.
func realizedLoss(t *model.Transaction, currency *model.Commodity) decimal.Decimal {
	var res decimal.Decimal
	for _, p := range t.Postings {
		if p.Lot == nil && p.Commodity == currency && p.Account.IsIE() {
			res = res.Add(p.Quantity)
		}
	}
	return res
}

// Analyze processes the journal and returns its wash sales, in
// chronological order.
func (a *Analyzer) Analyze(j *journal.Journal) ([]*WashSale, error) {
	if err := j.Process(a.Processor()); err != nil {
		return nil, err
	}
	var res []*WashSale
	for _, s := range a.sales {
		if ws := a.analyzeSale(s); ws != nil {
			res = append(res, ws)
		}
	}
	compare.SortStable(res, func(w1, w2 *WashSale) compare.Order {
		return model.CompareTransactions(w1.Transaction, w2.Transaction)
	})
	return res, nil
}

func (a *Analyzer) analyzeSale(s sale) *WashSale {
	repl := a.replacements(s)
	if len(repl) == 0 {
		return nil
	}
	// Only the first shares bought count as replacements, up to the
	// quantity sold.
	var (
		counted  = make([]decimal.Decimal, len(repl))
		total    decimal.Decimal
		capacity = s.quantity
	)
	for i, p := range repl {
		c := decimal.Min(p.quantity, capacity.Sub(total))
		counted[i] = c
		total = total.Add(c)
		if !capacity.GreaterThan(total) {
			counted = counted[:i+1]
			repl = repl[:i+1]
			break
		}
	}
	if !total.IsPositive() {
		return nil
	}
	disallowed := s.loss.Mul(total).Div(s.quantity).Round(2)
	ws := &WashSale{
		Date:        s.trx.Date,
		Transaction: s.trx,
		Account:     s.account,
		Commodity:   s.commodity,
		Currency:    s.currency,
		Quantity:    s.quantity,
		Loss:        s.loss,
		Disallowed:  disallowed,
		Allowed:     s.loss.Sub(disallowed),
	}
	// Apportion the disallowed loss over the counted shares of each
	// replacement lot. The rounding remainder goes to the last lot so
	// that the adjustments sum to the disallowed loss exactly.
	var apportioned decimal.Decimal
	for i, p := range repl {
		amount := disallowed.Mul(counted[i]).Div(total).Round(2)
		if i == len(repl)-1 {
			amount = disallowed.Sub(apportioned)
		}
		apportioned = apportioned.Add(amount)
		ws.Adjustments = append(ws.Adjustments, Adjustment{
			Account:   p.account,
			Commodity: p.commodity,
			Lot:       p.lot,
			Quantity:  p.quantity,
			Counted:   counted[i],
			Amount:    amount,
		})
	}
	return ws
}

// replacements returns the purchases of the sold commodity within the
// window around the sale, excluding the lots disposed of by the sale
// itself, oldest first.
func (a *Analyzer) replacements(s sale) []purchase {
	var (
		date  = s.trx.Date
		since = date.AddDate(0, 0, -WindowDays)
		until = date.AddDate(0, 0, WindowDays)
		res   []purchase
	)
	for _, p := range a.purchases {
		if p.commodity != s.commodity {
			continue
		}
		if p.lot.Date.Before(since) || p.lot.Date.After(until) {
			continue
		}
		if sold(s.matches, p) {
			continue
		}
		res = append(res, p)
	}
	compare.SortStable(res, func(p1, p2 purchase) compare.Order {
		return compare.Time(p1.lot.Date, p2.lot.Date)
	})
	return res
}

func sold(matches []Match, p purchase) bool {
	for _, m := range matches {
		lot := m.Position.Lot
		if m.Position.Account == p.account &&
			lot.Price.Equal(p.lot.Price) &&
			lot.Date.Equal(p.lot.Date) {
			return true
		}
	}
	return false
}
