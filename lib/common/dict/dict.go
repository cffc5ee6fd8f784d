package dict

import (
	"github.com/lotcheck/lotcheck/lib/common/compare"
	"golang.org/x/exp/maps"
)

func SortedKeys[K comparable, V any](m map[K]V, c compare.Compare[K]) []K {
	res := maps.Keys(m)
	compare.Sort(res, c)
	return res
}

func SortedValues[K comparable, V any](m map[K]V, c compare.Compare[V]) []V {
	res := maps.Values(m)
	compare.Sort(res, c)
	return res
}

func GetDefault[K comparable, V any](m map[K]V, k K, c func() V) V {
	v, ok := m[k]
	if !ok {
		v = c()
		m[k] = v
	}
	return v
}
