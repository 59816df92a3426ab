package dbscan

import (
	"reflect"
	"testing"
)

func identityOrdering(n int) []int {
	ord := make([]int, n)
	for i := range ord {
		ord[i] = i
	}
	return ord
}

func allCore(n int) []bool {
	core := make([]bool, n)
	for i := range core {
		core[i] = true
	}
	return core
}

func clusterPoints(clusters []Cluster) [][]int {
	out := make([][]int, len(clusters))
	for i, c := range clusters {
		out[i] = c.Points
	}
	return out
}

// --- Threshold ---

func thresholdPlot() ReachabilityPlot {
	core := allCore(8)
	core[7] = false
	return ReachabilityPlot{
		Ordering:     identityOrdering(8),
		Reachability: []float64{0, 0.1, 0.1, 0.1, 2, 0.2, 0.2, 0.3},
		Core:         core,
		Eps:          5,
	}
}

func TestThreshold_SplitsAtPeaks(t *testing.T) {
	clusters := StrategyThreshold.Extract(thresholdPlot(), 1, 3)

	want := [][]int{{0, 1, 2, 3}, {4, 5, 6}}
	if got := clusterPoints(clusters); !reflect.DeepEqual(got, want) {
		t.Errorf("clusters = %v, want %v", got, want)
	}
	for i, c := range clusters {
		if c.ID != i+1 {
			t.Errorf("cluster %d has id %d", i, c.ID)
		}
	}
}

func TestThreshold_UndersizedRunIsNoise(t *testing.T) {
	clusters := StrategyThreshold.Extract(thresholdPlot(), 1, 4)

	want := [][]int{{0, 1, 2, 3}}
	if got := clusterPoints(clusters); !reflect.DeepEqual(got, want) {
		t.Errorf("clusters = %v, want %v", got, want)
	}
}

func TestThreshold_NonCorePeakDoesNotStartCluster(t *testing.T) {
	plot := thresholdPlot()
	plot.Core[4] = false
	clusters := StrategyThreshold.Extract(plot, 1, 2)

	want := [][]int{{0, 1, 2, 3}, {5, 6}}
	if got := clusterPoints(clusters); !reflect.DeepEqual(got, want) {
		t.Errorf("clusters = %v, want %v", got, want)
	}
}

func TestThreshold_DepthAboveEverything(t *testing.T) {
	clusters := StrategyThreshold.Extract(thresholdPlot(), 10, 3)

	want := [][]int{{0, 1, 2, 3, 4, 5, 6}}
	if got := clusterPoints(clusters); !reflect.DeepEqual(got, want) {
		t.Errorf("clusters = %v, want %v", got, want)
	}
}

func TestThreshold_EmptyPlot(t *testing.T) {
	if clusters := StrategyThreshold.Extract(ReachabilityPlot{Eps: 1}, 1, 1); len(clusters) != 0 {
		t.Errorf("expected no clusters, got %v", clusters)
	}
}

func TestThreshold_Idempotent(t *testing.T) {
	plot := thresholdPlot()
	first := StrategyThreshold.Extract(plot, 1, 3)
	second := StrategyThreshold.Extract(plot, 1, 3)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated extraction differs: %v vs %v", first, second)
	}
	if !reflect.DeepEqual(plot, thresholdPlot()) {
		t.Error("extraction modified its input")
	}
}

// --- ValleyFill ---

func valleyPlot() ReachabilityPlot {
	return ReachabilityPlot{
		Ordering:     identityOrdering(10),
		Reachability: []float64{0, 0.2, 0.1, 0.15, 0.1, 5.5, 0.3, 0.2, 0.25, 0.2},
		Core:         allCore(10),
		Eps:          5,
	}
}

func TestValleyFill_TwoPits(t *testing.T) {
	clusters := StrategyValleyFill.Extract(valleyPlot(), 1, 3)

	// The peak at position 5 belongs to neither pit; the second pit is only
	// closed by the final tail check.
	want := [][]int{{0, 1, 2, 3, 4}, {6, 7, 8, 9}}
	if got := clusterPoints(clusters); !reflect.DeepEqual(got, want) {
		t.Errorf("clusters = %v, want %v", got, want)
	}
	for i, c := range clusters {
		if c.ID != i+1 {
			t.Errorf("cluster %d has id %d", i, c.ID)
		}
	}
}

func TestValleyFill_UndersizedPitIsNoise(t *testing.T) {
	clusters := StrategyValleyFill.Extract(valleyPlot(), 1, 5)

	want := [][]int{{0, 1, 2, 3, 4}}
	if got := clusterPoints(clusters); !reflect.DeepEqual(got, want) {
		t.Errorf("clusters = %v, want %v", got, want)
	}
}

func TestValleyFill_ShallowPitIgnored(t *testing.T) {
	// With depth 6 no wall rises far enough above the floor.
	if clusters := StrategyValleyFill.Extract(valleyPlot(), 6, 1); len(clusters) != 0 {
		t.Errorf("expected no clusters, got %v", clusterPoints(clusters))
	}
}

func TestValleyFill_TailBoundedByEps(t *testing.T) {
	// Position 4 carries the never-reached sentinel (1.1*eps). It is below
	// bottom+depth = 1.2 but not below eps, so the tail fill stops there.
	plot := ReachabilityPlot{
		Ordering:     identityOrdering(6),
		Reachability: []float64{0, 2.0, 0.8, 0.7, 1.1, 0.75},
		Core:         allCore(6),
		Eps:          1,
	}
	clusters := StrategyValleyFill.Extract(plot, 0.5, 1)

	want := [][]int{{0}, {5}}
	if got := clusterPoints(clusters); !reflect.DeepEqual(got, want) {
		t.Errorf("clusters = %v, want %v", got, want)
	}
}

func TestValleyFill_IncludesNonCorePoints(t *testing.T) {
	plot := valleyPlot()
	plot.Core[2] = false
	clusters := StrategyValleyFill.Extract(plot, 1, 3)

	if len(clusters) == 0 || !reflect.DeepEqual(clusters[0].Points, []int{0, 1, 2, 3, 4}) {
		t.Errorf("clusters = %v", clusterPoints(clusters))
	}
}

func TestValleyFill_FollowsOrderingNotIDs(t *testing.T) {
	plot := valleyPlot()
	// Relabel: ordering position i holds point 9-i.
	ord := make([]int, 10)
	reach := make([]float64, 10)
	for i := range ord {
		ord[i] = 9 - i
		reach[9-i] = plot.Reachability[i]
	}
	plot.Ordering = ord
	plot.Reachability = reach

	clusters := StrategyValleyFill.Extract(plot, 1, 3)
	want := [][]int{{9, 8, 7, 6, 5}, {3, 2, 1, 0}}
	if got := clusterPoints(clusters); !reflect.DeepEqual(got, want) {
		t.Errorf("clusters = %v, want %v", got, want)
	}
}

func TestStrategyString(t *testing.T) {
	if StrategyThreshold.String() != "threshold" || StrategyValleyFill.String() != "valley-fill" {
		t.Errorf("unexpected names %q %q", StrategyThreshold, StrategyValleyFill)
	}
	if Strategy(9).String() != "invalid" {
		t.Errorf("unexpected name for unknown strategy: %q", Strategy(9))
	}
}
