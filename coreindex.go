package dbscan

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// defaultLeafSize is the maximum number of points in a coreIndex leaf.
const defaultLeafSize = 16

// pruneSlack absorbs rounding differences between the box lower bound and
// floats.Distance so that equidistant candidates are never pruned.
const pruneSlack = 1e-9

// coreIndex is a KD-tree over the core members of a fitted clustering,
// answering the nearest-core query of Test without a linear scan. It gives
// exactly the answer of nearestCore: same distance values, ties broken by
// the lowest point id. Only valid for EuclideanMetric.
//
// The tree is stored as a complete binary tree in array form: node i has
// children at 2*i+1 and 2*i+2, and covers ids[start:end].
type coreIndex struct {
	points [][]float64
	dims   int
	ids    []int // permutation of core member ids in tree order
	nodes  []indexNode
	// lo[node*dims+j] and hi[node*dims+j] bound feature j within node.
	lo, hi []float64
}

type indexNode struct {
	start, end int
	leaf       bool
	used       bool
}

// newCoreIndex indexes every core point with a committed cluster. It returns
// nil when there is nothing to index.
func newCoreIndex(points [][]float64, states []PointState, leafSize int) *coreIndex {
	var ids []int
	for i := range states {
		if states[i].Core && states[i].hasCluster() {
			ids = append(ids, i)
		}
	}
	if len(ids) == 0 || len(points[0]) == 0 {
		return nil
	}
	if leafSize < 1 {
		leafSize = 1
	}

	leaves := (len(ids) + leafSize - 1) / leafSize
	depth := 0
	for v := 1; v < leaves; v *= 2 {
		depth++
	}
	maxNodes := 1<<(depth+2) - 1

	dims := len(points[0])
	ix := &coreIndex{
		points: points,
		dims:   dims,
		ids:    ids,
		nodes:  make([]indexNode, maxNodes),
		lo:     make([]float64, maxNodes*dims),
		hi:     make([]float64, maxNodes*dims),
	}
	ix.build(0, 0, len(ids), leafSize)
	return ix
}

func (ix *coreIndex) build(node, start, end, leafSize int) {
	base := node * ix.dims
	for d := 0; d < ix.dims; d++ {
		ix.lo[base+d] = math.Inf(1)
		ix.hi[base+d] = math.Inf(-1)
	}
	for _, id := range ix.ids[start:end] {
		for d, v := range ix.points[id] {
			ix.lo[base+d] = math.Min(ix.lo[base+d], v)
			ix.hi[base+d] = math.Max(ix.hi[base+d], v)
		}
	}

	if end-start <= leafSize {
		ix.nodes[node] = indexNode{start: start, end: end, leaf: true, used: true}
		return
	}

	// Split at the median of the widest feature.
	split, spread := 0, -1.0
	for d := 0; d < ix.dims; d++ {
		if s := ix.hi[base+d] - ix.lo[base+d]; s > spread {
			split, spread = d, s
		}
	}
	sub := ix.ids[start:end]
	sort.Slice(sub, func(i, j int) bool {
		return ix.points[sub[i]][split] < ix.points[sub[j]][split]
	})
	mid := start + (end-start)/2

	ix.nodes[node] = indexNode{start: start, end: end, used: true}
	ix.build(2*node+1, start, mid, leafSize)
	ix.build(2*node+2, mid, end, leafSize)
}

// minDist2 returns the squared distance from q to the bounding box of node.
func (ix *coreIndex) minDist2(node int, q []float64) float64 {
	base := node * ix.dims
	var sum float64
	for d, v := range q {
		var gap float64
		switch {
		case v < ix.lo[base+d]:
			gap = ix.lo[base+d] - v
		case v > ix.hi[base+d]:
			gap = v - ix.hi[base+d]
		}
		sum += gap * gap
	}
	return sum
}

// nearest returns the indexed point closest to q and its distance. idx is
// -1 when every distance is NaN.
func (ix *coreIndex) nearest(q []float64) (idx int, dist float64) {
	idx, dist = -1, math.Inf(1)
	ix.search(0, q, &idx, &dist)
	return idx, dist
}

func (ix *coreIndex) search(node int, q []float64, best *int, bestDist *float64) {
	if node >= len(ix.nodes) || !ix.nodes[node].used {
		return
	}
	bd := *bestDist
	if ix.minDist2(node, q) > bd*bd*(1+pruneSlack) {
		return
	}

	n := ix.nodes[node]
	if n.leaf {
		for _, id := range ix.ids[n.start:n.end] {
			d := floats.Distance(q, ix.points[id], 2)
			if d < *bestDist || (d == *bestDist && id < *best) {
				*best, *bestDist = id, d
			}
		}
		return
	}

	left, right := 2*node+1, 2*node+2
	if ix.minDist2(right, q) < ix.minDist2(left, q) {
		left, right = right, left
	}
	ix.search(left, q, best, bestDist)
	ix.search(right, q, best, bestDist)
}
