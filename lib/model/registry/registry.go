package registry

import (
	"github.com/lotcheck/lotcheck/lib/model/account"
	"github.com/lotcheck/lotcheck/lib/model/commodity"
)

type Account = account.Account
type Commodity = commodity.Commodity

// Registry is the context of a ledger, namely the collection of
// referenced accounts and commodities.
type Registry struct {
	accounts    *account.Registry
	commodities *commodity.Registry
}

// New creates a new, empty registry.
func New() *Registry {
	return &Registry{
		accounts:    account.NewRegistry(),
		commodities: commodity.NewRegistry(),
	}
}

// GetAccount returns an account.
func (reg Registry) GetAccount(name string) (*Account, error) {
	return reg.accounts.Get(name)
}

// Account returns an account or panics.
func (reg Registry) Account(name string) *Account {
	a, err := reg.GetAccount(name)
	if err != nil {
		panic(err)
	}
	return a
}

// GetCommodity returns a commodity.
func (reg Registry) GetCommodity(name string) (*Commodity, error) {
	return reg.commodities.Get(name)
}

// Commodity returns a commodity or panics.
func (reg Registry) Commodity(name string) *Commodity {
	c, err := reg.GetCommodity(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Accounts returns the accounts.
func (reg Registry) Accounts() *account.Registry {
	return reg.accounts
}

// Commodities returns the commodities.
func (reg Registry) Commodities() *commodity.Registry {
	return reg.commodities
}
