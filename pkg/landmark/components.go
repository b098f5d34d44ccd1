package landmark

import (
	"sort"

	"github.com/lintang-b-s/navigatorx-lm/pkg/costfunction"
	da "github.com/lintang-b-s/navigatorx-lm/pkg/datastructure"
)

type unionFind struct {
	parent []int32
	size   []int32
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int32, n),
		size:   make([]int32, n),
	}
	for i := range uf.parent {
		uf.parent[i] = int32(i)
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int32) int32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int32) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}

// bidirectionalComponents. connected components of the subgraph of edges usable in both directions,
// largest first. nodes of a component are in ascending order.
func bidirectionalComponents(g da.RoadGraph, w costfunction.Weighting) [][]da.Index {
	n := g.GetBaseNodeCount()
	uf := newUnionFind(n)
	for u := 0; u < n; u++ {
		g.ForEdgesOf(da.Index(u), func(e *da.EdgeState) {
			v := e.GetAdjNode()
			if int(v) >= n || !isBidirectional(w, e) {
				return
			}
			uf.union(int32(u), int32(v))
		})
	}

	rootToComp := make(map[int32]int)
	components := make([][]da.Index, 0)
	for u := 0; u < n; u++ {
		root := uf.find(int32(u))
		idx, ok := rootToComp[root]
		if !ok {
			idx = len(components)
			rootToComp[root] = idx
			components = append(components, make([]da.Index, 0, uf.size[root]))
		}
		components[idx] = append(components[idx], da.Index(u))
	}

	// stable: equally sized components keep the order of their smallest node id
	sort.SliceStable(components, func(i, j int) bool {
		return len(components[i]) > len(components[j])
	})
	return components
}
