package dbscan

// Strategy selects how an OPTICS reachability plot is cut into clusters.
type Strategy uint8

const (
	// StrategyThreshold cuts the plot wherever reachability exceeds depth.
	StrategyThreshold Strategy = iota
	// StrategyValleyFill looks for pits at least depth deep below their
	// surrounding peaks ("water filling").
	StrategyValleyFill
)

func (s Strategy) String() string {
	switch s {
	case StrategyThreshold:
		return "threshold"
	case StrategyValleyFill:
		return "valley-fill"
	default:
		return "invalid"
	}
}

// ReachabilityPlot is the output of an OPTICS traversal consumed by the
// extraction strategies. Reachability and Core are indexed by point id;
// Reachability must already be finalized (no Undefined values, first point
// of Ordering at 0).
type ReachabilityPlot struct {
	Ordering     []int
	Reachability []float64
	Core         []bool
	Eps          float64
}

// Extract converts the plot into clusters. Cluster ids are assigned from 1 in
// creation order and member lists follow the plot ordering. Every returned
// cluster has at least minPts points; points not returned are noise.
// Extract does not modify the plot, so repeated calls give identical results.
func (s Strategy) Extract(plot ReachabilityPlot, depth float64, minPts int) []Cluster {
	switch s {
	case StrategyValleyFill:
		return extractValleyFill(plot, depth, minPts)
	default:
		return extractThreshold(plot, depth, minPts)
	}
}

// extractThreshold walks the ordering and closes the running cluster at
// every point whose reachability exceeds depth. Only core points join a
// running cluster.
func extractThreshold(plot ReachabilityPlot, depth float64, minPts int) []Cluster {
	var (
		clusters []Cluster
		running  []int
	)

	closeRunning := func() {
		if len(running) >= minPts {
			clusters = append(clusters, Cluster{ID: len(clusters) + 1, Points: running})
		}
		running = nil
	}

	for _, p := range plot.Ordering {
		if plot.Reachability[p] > depth && len(running) > 0 {
			closeRunning()
		}
		if plot.Core[p] {
			running = append(running, p)
		}
	}
	if len(running) > 0 {
		closeRunning()
	}

	return clusters
}

// extractValleyFill scans the plot tracking bottom, the lowest reachability
// since the last pit, and top, the highest wall seen before it; both start at
// eps and the scan starts as if the value before the first point were eps.
// A rise that climbs past bottom+depth while top is also above bottom+depth
// closes a pit: points are filled backward from the previous position while
// their reachability stays below bottom+depth. The tail of the plot gets one
// last pit check whose fill is additionally bounded by eps, so trailing
// sentinel values are never swallowed.
func extractValleyFill(plot ReachabilityPlot, depth float64, minPts int) []Cluster {
	var (
		clusters []Cluster
		claimed  = make([]bool, len(plot.Reachability))
		ord      = plot.Ordering
		eps      = plot.Eps
	)

	fill := func(from int, level float64, tail bool) {
		var pit []int
		for j := from; j >= 0; j-- {
			p := ord[j]
			r := plot.Reachability[p]
			if claimed[p] || !(r < level) || (tail && !(r < eps)) {
				break
			}
			pit = append(pit, p)
		}
		if len(pit) == 0 {
			return
		}
		for _, p := range pit {
			claimed[p] = true
		}
		if len(pit) < minPts {
			return
		}
		// Collected backward; store in plot order.
		for i, j := 0, len(pit)-1; i < j; i, j = i+1, j-1 {
			pit[i], pit[j] = pit[j], pit[i]
		}
		clusters = append(clusters, Cluster{ID: len(clusters) + 1, Points: pit})
	}

	top, bottom := eps, eps
	prev := eps
	for i, p := range ord {
		r := plot.Reachability[p]
		switch {
		case r < prev:
			if r < bottom {
				bottom = r
			}
		case r > prev:
			if top > bottom+depth && r > bottom+depth {
				fill(i-1, bottom+depth, false)
				top = r
				bottom = eps
			} else if r > top {
				top = r
			}
		}
		prev = r
	}
	if top > bottom+depth {
		fill(len(ord)-1, bottom+depth, true)
	}

	return clusters
}
