package model

import (
	"time"

	"github.com/lotcheck/lotcheck/lib/common/compare"
	"github.com/lotcheck/lotcheck/lib/model/account"
	"github.com/lotcheck/lotcheck/lib/model/commodity"
	"github.com/lotcheck/lotcheck/lib/model/registry"
	"github.com/lotcheck/lotcheck/lib/syntax"
	"github.com/shopspring/decimal"
)

type Account = account.Account
type Commodity = commodity.Commodity
type Registry = registry.Registry

var CompareAccounts = account.Compare
var CompareCommodities = commodity.Compare

// Directive is an element in a ledger.
type Directive any

var (
	_ Directive = (*Balance)(nil)
	_ Directive = (*Close)(nil)
	_ Directive = (*Open)(nil)
	_ Directive = (*Transaction)(nil)
)

// Open represents an open directive.
type Open struct {
	Src     *syntax.Open
	Date    time.Time
	Account *Account
}

// Close represents a close directive.
type Close struct {
	Src     *syntax.Close
	Date    time.Time
	Account *Account
}

// Balance represents a balance assertion.
type Balance struct {
	Src       *syntax.Assertion
	Date      time.Time
	Account   *Account
	Quantity  decimal.Decimal
	Commodity *Commodity
}

// Lot is a cost basis: a price per unit in some currency, and an
// optional acquisition date.
type Lot struct {
	Price    decimal.Decimal
	Currency *Commodity
	Date     time.Time
}

// Cost returns the cost of the given quantity at this lot's price.
func (l *Lot) Cost(quantity decimal.Decimal) decimal.Decimal {
	return quantity.Mul(l.Price)
}

// Posting represents a single leg of a transaction: a signed quantity
// of a commodity in an account, with an optional cost basis.
type Posting struct {
	Src       *syntax.Posting
	Account   *Account
	Quantity  decimal.Decimal
	Commodity *Commodity
	Lot       *Lot
}

// Transaction represents a transaction. It is immutable once built;
// adjustments are new transactions.
type Transaction struct {
	Src       *syntax.Transaction
	Date      time.Time
	Flag      string
	Narration string
	Tags      []string
	Links     []string
	Postings  []*Posting
}

// Cleared reports whether the transaction carries the cleared flag.
func (t *Transaction) Cleared() bool {
	return t.Flag == "*"
}

// CompareTransactions defines an order on transactions. Postings keep
// their input order, so ties are broken by position in the file.
func CompareTransactions(t *Transaction, t2 *Transaction) compare.Order {
	if o := compare.Time(t.Date, t2.Date); o != compare.Equal {
		return o
	}
	return compare.Ordered(t.Narration, t2.Narration)
}

// TransactionBuilder builds transactions.
type TransactionBuilder struct {
	Src       *syntax.Transaction
	Date      time.Time
	Flag      string
	Narration string
	Tags      []string
	Links     []string
	Postings  []*Posting
}

// Build builds a transaction.
func (tb TransactionBuilder) Build() *Transaction {
	return &Transaction{
		Src:       tb.Src,
		Date:      tb.Date,
		Flag:      tb.Flag,
		Narration: tb.Narration,
		Tags:      tb.Tags,
		Links:     tb.Links,
		Postings:  tb.Postings,
	}
}
