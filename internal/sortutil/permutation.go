// Package sortutil sorts a value slice while carrying a parallel id
// slice through the same swaps.
package sortutil

import "cmp"

// SortWithPermutation sorts values[lo..hi] ascending in place and applies
// every swap to ids as well. Hoare partition around the middle element;
// not stable, O(n²) in the worst case.
func SortWithPermutation[V cmp.Ordered, I any](values []V, ids []I, lo, hi int) {
	if lo >= hi {
		return
	}
	i, j := lo, hi
	pivot := values[lo+(hi-lo)/2]

	for i <= j {
		for values[i] < pivot {
			i++
		}
		for values[j] > pivot {
			j--
		}
		if i <= j {
			values[i], values[j] = values[j], values[i]
			ids[i], ids[j] = ids[j], ids[i]
			i++
			j--
		}
	}

	if lo < j {
		SortWithPermutation(values, ids, lo, j)
	}
	if i < hi {
		SortWithPermutation(values, ids, i, hi)
	}
}

// Sort sorts the whole of values, permuting ids alongside.
func Sort[V cmp.Ordered, I any](values []V, ids []I) {
	if len(ids) != len(values) {
		panic("sortutil: values and ids length mismatch")
	}
	SortWithPermutation(values, ids, 0, len(values)-1)
}
