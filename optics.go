package dbscan

// sentinelReachFactor scales eps to give points that were never reached a
// finite reachability just above the search radius.
const sentinelReachFactor = 1.1

// relaxFunc observes a reachability decrease during the OPTICS traversal.
type relaxFunc func(point int, from, to float64)

// runOPTICS performs the OPTICS traversal, updating states in place (Visited,
// Core, Noise for non-core points, and Reachability). It returns the
// visitation order and the per-point core distances (Undefined for non-core
// points). Reachability values are left raw; see finalizeReachability.
func runOPTICS(nf *NeighborFinder, states []PointState, eps float64, minPts int, onRelax relaxFunc) (ordering []int, coreDist []float64) {
	n := len(states)
	ordering = make([]int, 0, n)
	coreDist = make([]float64, n)
	for i := range coreDist {
		coreDist[i] = Undefined
	}

	seeds := newReachQueue(n)

	expand := func(p int) {
		states[p].Visited = true
		ordering = append(ordering, p)

		neighbors := nf.RangeQuery(p, eps)
		cd, ok := nf.coreDistance(p, neighbors, minPts)
		if !ok {
			states[p].markNoise()
			return
		}
		states[p].Core = true
		coreDist[p] = cd

		for _, q := range neighbors {
			if states[q].Visited {
				continue
			}
			reach := max(cd, nf.sim.At(p, q))
			old := states[q].Reachability
			switch {
			case old == Undefined:
				states[q].Reachability = reach
				seeds.Push(q, reach)
			case reach < old:
				states[q].Reachability = reach
				seeds.Decrease(q, reach)
				if onRelax != nil {
					onRelax(q, old, reach)
				}
			}
		}
	}

	for p := range states {
		if states[p].Visited {
			continue
		}
		expand(p)
		for seeds.Len() > 0 {
			q, _ := seeds.Pop()
			expand(q)
		}
	}

	return ordering, coreDist
}

// finalizeReachability replaces every undefined reachability with
// sentinelReachFactor*eps, then forces the first point of the ordering to 0
// since it has no predecessor.
func finalizeReachability(states []PointState, ordering []int, eps float64) {
	for i := range states {
		if states[i].Reachability == Undefined {
			states[i].Reachability = sentinelReachFactor * eps
		}
	}
	if len(ordering) > 0 {
		states[ordering[0]].Reachability = 0
	}
}
