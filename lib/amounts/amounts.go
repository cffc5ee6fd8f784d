package amounts

import (
	"time"

	"github.com/lotcheck/lotcheck/lib/common/compare"
	"github.com/lotcheck/lotcheck/lib/model"
	"github.com/shopspring/decimal"
)

// Key represents a position.
type Key struct {
	Date      time.Time
	Account   *model.Account
	Commodity *model.Commodity
}

func AccountCommodityKey(account *model.Account, commodity *model.Commodity) Key {
	return Key{Account: account, Commodity: commodity}
}

// Amounts keeps track of quantities by account and commodity.
type Amounts map[Key]decimal.Decimal

// Amount returns the amount for the given key.
func (am Amounts) Amount(key Key) decimal.Decimal {
	return am[key]
}

func (am Amounts) Add(key Key, value decimal.Decimal) {
	am[key] = am[key].Add(value)
}

// Index returns the keys, sorted by the given comparison.
func (am Amounts) Index(cmp compare.Compare[Key]) []Key {
	index := make([]Key, 0, len(am))
	for k := range am {
		index = append(index, k)
	}
	if cmp != nil {
		compare.Sort(index, cmp)
	}
	return index
}

// CompareKeys orders keys by account, then commodity, then date.
func CompareKeys(k1, k2 Key) compare.Order {
	if o := model.CompareAccounts(k1.Account, k2.Account); o != compare.Equal {
		return o
	}
	if o := model.CompareCommodities(k1.Commodity, k2.Commodity); o != compare.Equal {
		return o
	}
	return compare.Time(k1.Date, k2.Date)
}
