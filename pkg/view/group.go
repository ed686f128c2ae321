package view

import (
	"cmp"
	"slices"
)

// Groups partitions a view's rows into per-key bucket views. Buckets
// layer over the grouped view, so grouping copies row indices, never
// cells, and the grouped view stays alive until the buckets release it.
type Groups[K comparable] struct {
	keys  []K
	views []*View
}

// GroupBy buckets rows by the extracted key. Rows inside a bucket keep
// view order and buckets appear in first-occurrence order, so grouping
// the same view always yields the same result.
func GroupBy[K comparable](v *View, key func(Row) K) *Groups[K] {
	buckets := make(map[K][]int)
	var order []K
	n := v.Len()
	for i := 0; i < n; i++ {
		k := key(v.Row(i))
		if _, seen := buckets[k]; !seen {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], i)
	}

	g := &Groups[K]{keys: order, views: make([]*View, len(order))}
	for gi, k := range order {
		g.views[gi] = v.layerLines(buckets[k])
	}
	return g
}

// Len returns the number of groups.
func (g *Groups[K]) Len() int { return len(g.keys) }

// At returns the ith group's key and bucket view. The view is borrowed;
// clone it to keep it past the Groups' release.
func (g *Groups[K]) At(i int) (K, *View) { return g.keys[i], g.views[i] }

// Keys returns the group keys in first-occurrence order.
func (g *Groups[K]) Keys() []K { return slices.Clone(g.keys) }

// Get returns the bucket view for the given key.
func (g *Groups[K]) Get(key K) (*View, bool) {
	for i, k := range g.keys {
		if k == key {
			return g.views[i], true
		}
	}
	return nil, false
}

// SizeCount is one entry of a size distribution: Count groups hold Size
// rows each.
type SizeCount struct {
	Size  int
	Count int
}

// Distribution summarizes bucket sizes as (size, count) pairs sorted by
// ascending size.
func (g *Groups[K]) Distribution() []SizeCount {
	counts := make(map[int]int)
	for _, v := range g.views {
		counts[v.Len()]++
	}
	out := make([]SizeCount, 0, len(counts))
	for size, c := range counts {
		out = append(out, SizeCount{Size: size, Count: c})
	}
	slices.SortFunc(out, func(a, b SizeCount) int { return cmp.Compare(a.Size, b.Size) })
	return out
}

// Filter keeps the groups the predicate accepts, preserving order. Kept
// bucket views are cloned, so releasing the receiver afterward leaves
// the filtered result valid.
func (g *Groups[K]) Filter(keep func(K, *View) bool) *Groups[K] {
	out := &Groups[K]{}
	for i, k := range g.keys {
		if keep(k, g.views[i]) {
			out.keys = append(out.keys, k)
			out.views = append(out.views, g.views[i].Clone())
		}
	}
	return out
}

// Release drops every bucket view.
func (g *Groups[K]) Release() {
	for _, v := range g.views {
		v.Release()
	}
}
