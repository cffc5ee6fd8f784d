package account

import (
	"github.com/lotcheck/lotcheck/lib/common/compare"
)

// Type is the type of an account.
type Type int

const (
	// ASSETS represents an asset account.
	ASSETS Type = iota
	// LIABILITIES represents a liability account.
	LIABILITIES
	// EQUITY represents an equity account.
	EQUITY
	// INCOME represents an income account.
	INCOME
	// EXPENSES represents an expenses account.
	EXPENSES
)

func (t Type) String() string {
	switch t {
	case ASSETS:
		return "Assets"
	case LIABILITIES:
		return "Liabilities"
	case EQUITY:
		return "Equity"
	case INCOME:
		return "Income"
	case EXPENSES:
		return "Expenses"
	}
	return ""
}

var types = map[string]Type{
	"Assets":      ASSETS,
	"Liabilities": LIABILITIES,
	"Equity":      EQUITY,
	"Expenses":    EXPENSES,
	"Income":      INCOME,
}

// Account represents an account which can be used in postings.
type Account struct {
	accountType Type
	name        string
	segment     string
	level       int
}

// Name returns the name of this account.
func (a Account) Name() string {
	return a.name
}

// Segment returns the last segment of this account.
func (a Account) Segment() string {
	return a.segment
}

// Type returns the account type.
func (a Account) Type() Type {
	return a.accountType
}

// IsAL returns whether this account is an asset or liability account.
func (a Account) IsAL() bool {
	return a.accountType == ASSETS || a.accountType == LIABILITIES
}

// IsIE returns whether this account is an income or expense account.
func (a Account) IsIE() bool {
	return a.accountType == EXPENSES || a.accountType == INCOME
}

func (a Account) String() string {
	return a.name
}

func (a Account) Level() int {
	return a.level
}

func Compare(a1, a2 *Account) compare.Order {
	if o := compare.Ordered(a1.accountType, a2.accountType); o != compare.Equal {
		return o
	}
	return compare.Ordered(a1.name, a2.name)
}
