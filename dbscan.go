package dbscan

// runDBSCAN performs classic DBSCAN over the cached neighborhood graph,
// updating states in place, and returns the committed clusters.
//
// Seeds are taken in input order and the expansion worklist is breadth-first
// over neighbors in ascending id order, so cluster ids are reproducible.
// A point that was tentatively marked Noise is absorbed as a border member
// when a later expansion reaches it, but only core expansions add neighbors
// to the worklist. A cluster whose final size is below minPts (possible
// when its border points were already claimed by an earlier cluster) is
// dissolved back to Noise and its id is reused.
func runDBSCAN(nf *NeighborFinder, states []PointState, eps float64, minPts int) []Cluster {
	var clusters []Cluster

	// queued[q] == stamp when q is already on the current worklist.
	queued := make([]int, len(states))
	stamp := 0

	for p := range states {
		if states[p].Visited {
			continue
		}
		states[p].Visited = true

		neighbors := nf.RangeQuery(p, eps)
		if len(neighbors) < minPts {
			states[p].markNoise()
			continue
		}
		states[p].Core = true

		id := len(clusters) + 1
		stamp++

		queued[p] = stamp
		states[p].assign(id)
		members := []int{p}

		work := make([]int, 0, len(neighbors))
		for _, q := range neighbors {
			queued[q] = stamp
			work = append(work, q)
		}

		for k := 0; k < len(work); k++ {
			q := work[k]
			if !states[q].Visited {
				states[q].Visited = true
				if qn := nf.RangeQuery(q, eps); len(qn) >= minPts {
					states[q].Core = true
					for _, r := range qn {
						if queued[r] != stamp {
							queued[r] = stamp
							work = append(work, r)
						}
					}
				}
			}
			if !states[q].hasCluster() {
				states[q].assign(id)
				members = append(members, q)
			}
		}

		if len(members) < minPts {
			for _, m := range members {
				states[m].markNoise()
			}
			continue
		}

		clusters = append(clusters, Cluster{ID: id, Points: members})
	}

	return clusters
}
