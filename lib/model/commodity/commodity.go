package commodity

import (
	"fmt"
	"sync"
	"unicode"

	"github.com/lotcheck/lotcheck/lib/common/compare"
	"github.com/lotcheck/lotcheck/lib/syntax"
)

// Commodity represents a currency or security.
type Commodity struct {
	name string
}

func (c Commodity) Name() string {
	return c.name
}

func (c Commodity) String() string {
	return c.name
}

func Compare(c1, c2 *Commodity) compare.Order {
	return compare.Ordered(c1.Name(), c2.Name())
}

// Registry is a thread-safe collection of commodities.
type Registry struct {
	index map[string]*Commodity
	mutex sync.RWMutex
}

// NewRegistry creates a new thread-safe collection of commodities.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]*Commodity),
	}
}

// Get returns the commodity with the given name, interning it on
// first use.
func (cs *Registry) Get(name string) (*Commodity, error) {
	cs.mutex.RLock()
	res, ok := cs.index[name]
	cs.mutex.RUnlock()
	if ok {
		return res, nil
	}
	cs.mutex.Lock()
	defer cs.mutex.Unlock()
	// check if the commodity has been created in the meantime
	if res, ok = cs.index[name]; ok {
		return res, nil
	}
	if !isValidCommodity(name) {
		return nil, fmt.Errorf("invalid commodity name %q", name)
	}
	res = &Commodity{name: name}
	cs.index[name] = res
	return res, nil
}

func (cs *Registry) Create(c syntax.Commodity) (*Commodity, error) {
	return cs.Get(c.Extract())
}

func isValidCommodity(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		if !(unicode.IsLetter(c) || unicode.IsDigit(c)) {
			return false
		}
	}
	return true
}
