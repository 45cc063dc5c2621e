package s2_scoring

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrDuplicateEdges means the population has too many ties for equal-count bins
var ErrDuplicateEdges = errors.New("quantile bin edges must be unique")

// QuantileEdges returns the q+1 cut points of values at 0, 1/q, ..., 1 using
// linear interpolation between order statistics.
func QuantileEdges(values []decimal.Decimal, q int) []decimal.Decimal {
	n := len(values)
	if n == 0 || q <= 0 {
		return nil
	}

	sorted := make([]decimal.Decimal, n)
	copy(sorted, values)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LessThan(sorted[j])
	})

	qd := decimal.NewFromInt(int64(q))
	edges := make([]decimal.Decimal, q+1)
	for k := 0; k <= q; k++ {
		// position k*(n-1)/q 를 정수부와 나머지로 분리해 정확히 계산
		num := int64(k) * int64(n-1)
		lo := int(num / int64(q))
		rem := num % int64(q)

		edge := sorted[lo]
		if rem != 0 {
			frac := decimal.NewFromInt(rem).Div(qd)
			edge = edge.Add(sorted[lo+1].Sub(sorted[lo]).Mul(frac))
		}
		edges[k] = edge
	}
	return edges
}

// QuantileCut assigns each value the label of its equal-frequency bin.
// Bins are right-closed, the first bin also holds the minimum, and
// len(labels) sets the number of bins. Edges are computed over the whole
// population passed in.
func QuantileCut(values []decimal.Decimal, labels []int) ([]int, error) {
	q := len(labels)
	if q == 0 {
		return nil, errors.New("at least one label required")
	}
	if len(values) == 0 {
		return []int{}, nil
	}

	edges := QuantileEdges(values, q)
	for k := 1; k < len(edges); k++ {
		if edges[k].Equal(edges[k-1]) {
			return nil, fmt.Errorf("%w: edge %d and %d are both %s", ErrDuplicateEdges, k-1, k, edges[k])
		}
	}

	upper := edges[1:]
	out := make([]int, len(values))
	for i, v := range values {
		bin := sort.Search(len(upper), func(k int) bool {
			return v.LessThanOrEqual(upper[k])
		})
		out[i] = labels[bin]
	}
	return out, nil
}

// RankFirst ranks values 1..N ascending; ties keep their order of appearance
func RankFirst(values []int) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})

	ranks := make([]int, len(values))
	for rank, i := range idx {
		ranks[i] = rank + 1
	}
	return ranks
}

func intsToDecimals(values []int) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromInt(int64(v))
	}
	return out
}
