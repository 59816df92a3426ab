package dbscan

import "sort"

// NeighborFinder answers epsilon-range queries against a SimilarityCache.
type NeighborFinder struct {
	sim *SimilarityCache
}

// NewNeighborFinder returns a NeighborFinder over sim.
func NewNeighborFinder(sim *SimilarityCache) *NeighborFinder {
	return &NeighborFinder{sim: sim}
}

// RangeQuery returns the ids of all points p != pid with distance(pid, p) < eps,
// in ascending id order. Points at exactly eps are not neighbors.
func (f *NeighborFinder) RangeQuery(pid int, eps float64) []int {
	var neighbors []int
	for p := 0; p < f.sim.Len(); p++ {
		if p != pid && f.sim.At(pid, p) < eps {
			neighbors = append(neighbors, p)
		}
	}
	return neighbors
}

// CoreDistance returns the minPts-th smallest distance from pid to a point
// within eps. ok is false when fewer than minPts such points exist, meaning
// pid is not a core point.
func (f *NeighborFinder) CoreDistance(pid int, eps float64, minPts int) (dist float64, ok bool) {
	return f.coreDistance(pid, f.RangeQuery(pid, eps), minPts)
}

// coreDistance computes the core distance of pid from an already computed
// eps-neighborhood.
func (f *NeighborFinder) coreDistance(pid int, neighbors []int, minPts int) (float64, bool) {
	if minPts < 1 || len(neighbors) < minPts {
		return 0, false
	}

	dists := make([]float64, len(neighbors))
	for i, p := range neighbors {
		dists[i] = f.sim.At(pid, p)
	}
	sort.Float64s(dists)

	return dists[minPts-1], true
}
