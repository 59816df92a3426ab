package dbscan

import (
	"math"
	"reflect"
	"testing"
)

func TestEdgeCase_TwoPoints(t *testing.T) {
	data := [][]float64{{0, 0}, {1, 0}}
	for _, mode := range allModes {
		cfg := dbscanConfig(2, 1)
		cfg.Mode = mode
		cfg.Depth = 1
		res, err := Run(data, cfg)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", mode, err)
		}
		if len(res.Labels) != 2 {
			t.Fatalf("%s: expected 2 labels, got %d", mode, len(res.Labels))
		}
		// Both should either be in one cluster or noise -- no panic is the key test.
		if res.Labels[0] != res.Labels[1] {
			t.Errorf("%s: points split across clusters: %v", mode, res.Labels)
		}
	}
}

func TestEdgeCase_AllIdenticalPoints(t *testing.T) {
	data := make([][]float64, 10)
	for i := range data {
		data[i] = []float64{5.0, 5.0}
	}
	for _, mode := range allModes {
		cfg := dbscanConfig(0.5, 3)
		cfg.Mode = mode
		cfg.Depth = 0.25
		res, err := Run(data, cfg)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", mode, err)
		}
		if len(res.Clusters) != 1 || res.Clusters[0].Size() != 10 {
			t.Errorf("%s: expected one cluster of 10, got %v", mode, res.Clusters)
		}
		for i, r := range res.Reachability {
			if r != 0 {
				t.Errorf("%s: reachability[%d] = %v, expected 0", mode, i, r)
			}
		}
	}
}

func TestEdgeCase_ValleyFillFlatPlotNeedsDepthBelowEps(t *testing.T) {
	// A flat plot at 0 only forms a pit when the eps wall stands more than
	// depth above the floor.
	data := make([][]float64, 6)
	for i := range data {
		data[i] = []float64{1, 1}
	}
	cfg := dbscanConfig(0.5, 3)
	cfg.Mode = ModeOPTICSValleyFill

	res, err := Run(data, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Clusters) != 0 {
		t.Errorf("depth == eps: expected no clusters, got %v", res.Clusters)
	}

	cfg.Depth = 0.4
	res, _ = Run(data, cfg)
	if len(res.Clusters) != 1 {
		t.Errorf("depth < eps: expected 1 cluster, got %v", res.Clusters)
	}
}

func TestEdgeCase_NaNCoordinates(t *testing.T) {
	data := [][]float64{{0, 0}, {0.1, 0}, {0, 0.1}, {0.1, 0.1}, {math.NaN(), 0}}
	for _, mode := range allModes {
		cfg := dbscanConfig(0.5, 3)
		cfg.Mode = mode
		cfg.Depth = 0.3
		res, err := Run(data, cfg)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", mode, err)
		}
		// A NaN distance never satisfies d < eps.
		if want := []int{1, 1, 1, 1, 0}; !reflect.DeepEqual(res.Labels, want) {
			t.Errorf("%s: labels = %v, want %v", mode, res.Labels, want)
		}
	}
}

func TestEdgeCase_InfiniteEps(t *testing.T) {
	data := generateBenchData(30, 3)
	res, err := Run(data, dbscanConfig(math.Inf(1), 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Clusters) != 1 || res.Clusters[0].Size() != 30 {
		t.Errorf("expected a single cluster of every point, got %d clusters", len(res.Clusters))
	}
}

// threeClusterData returns 30 points in 3 well-separated groups of 10.
func threeClusterData() [][]float64 {
	data := make([][]float64, 30)
	for i := 0; i < 10; i++ {
		data[i] = []float64{float64(i) * 0.1, 0}
	}
	for i := 10; i < 20; i++ {
		data[i] = []float64{50 + float64(i)*0.1, 0}
	}
	for i := 20; i < 30; i++ {
		data[i] = []float64{100 + float64(i)*0.1, 0}
	}
	return data
}

func TestEdgeCase_ThreeClustersAllModes(t *testing.T) {
	for _, mode := range allModes {
		cfg := dbscanConfig(0.5, 3)
		cfg.Mode = mode
		// Within-group reachability tops out near 0.3; the group seeds sit at
		// the 0.55 sentinel.
		cfg.Depth = 0.32
		res, err := Run(threeClusterData(), cfg)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", mode, err)
		}
		if len(res.Clusters) != 3 {
			t.Fatalf("%s: expected 3 clusters, got %d", mode, len(res.Clusters))
		}
		// Points inside a group must share a label.
		for g := 0; g < 3; g++ {
			want := res.Labels[g*10+1]
			for i := g*10 + 1; i < g*10+9; i++ {
				if res.Labels[i] != want {
					t.Errorf("%s: group %d split at point %d", mode, g, i)
				}
			}
		}
	}
}

// checkInvariants verifies the structural guarantees every mode gives.
func checkInvariants(t *testing.T, mode Mode, points [][]float64, eps float64, minPts int, res *Result) {
	t.Helper()
	nf := NewNeighborFinder(NewSimilarityCache(points, EuclideanMetric{}))

	seen := make(map[int]int)
	for i, c := range res.Clusters {
		if c.ID != i+1 {
			t.Errorf("%s: cluster %d has id %d", mode, i, c.ID)
		}
		if c.Size() < minPts {
			t.Errorf("%s: cluster %d has %d points, below minPts %d", mode, c.ID, c.Size(), minPts)
		}
		for _, p := range c.Points {
			if prev, dup := seen[p]; dup {
				t.Errorf("%s: point %d in clusters %d and %d", mode, p, prev, c.ID)
			}
			seen[p] = c.ID
		}
	}

	for i, s := range res.States {
		if got := len(nf.RangeQuery(i, eps)) >= minPts; s.Core != got {
			t.Errorf("%s: point %d core=%v, neighborhood says %v", mode, i, s.Core, got)
		}
		if !s.Visited {
			t.Errorf("%s: point %d not visited", mode, i)
		}
		switch s.Membership {
		case Member:
			if s.ClusterID != seen[i] || s.ClusterID == 0 {
				t.Errorf("%s: point %d labeled %d but listed in %d", mode, i, s.ClusterID, seen[i])
			}
		case Noise:
			if s.ClusterID != 0 || seen[i] != 0 {
				t.Errorf("%s: noise point %d has cluster %d/%d", mode, i, s.ClusterID, seen[i])
			}
		default:
			t.Errorf("%s: point %d left %v", mode, i, s.Membership)
		}
		if res.Labels[i] != s.ClusterID {
			t.Errorf("%s: label %d != state cluster %d", mode, res.Labels[i], s.ClusterID)
		}
	}

	if mode != ModeDBSCAN {
		return
	}
	for i, s := range res.States {
		if !s.hasCluster() {
			continue
		}
		neighbors := nf.RangeQuery(i, eps)
		if s.Core {
			// Every neighbor of a committed core point was claimed.
			for _, q := range neighbors {
				if !res.States[q].hasCluster() {
					t.Errorf("core point %d has unclaimed neighbor %d", i, q)
				}
			}
			continue
		}
		anchored := false
		for _, q := range neighbors {
			if res.States[q].Core && res.States[q].ClusterID == s.ClusterID {
				anchored = true
				break
			}
		}
		if !anchored {
			t.Errorf("border point %d has no core neighbor in cluster %d", i, s.ClusterID)
		}
	}
}

func TestInvariants_RandomData(t *testing.T) {
	points := generateBenchData(300, 2)
	params := []struct {
		eps    float64
		minPts int
	}{
		{3, 2},
		{6, 4},
		{10, 8},
	}
	for _, mode := range allModes {
		for _, p := range params {
			cfg := dbscanConfig(p.eps, p.minPts)
			cfg.Mode = mode
			cfg.Depth = p.eps / 2
			res, err := Run(points, cfg)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", mode, err)
			}
			checkInvariants(t, mode, points, p.eps, p.minPts, res)
		}
	}
}
