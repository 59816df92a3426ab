package dbscan

import "math"

const (
	// borderBandFraction is the width, as a fraction of eps, of the band
	// around eps that earns a borderline response.
	borderBandFraction = 0.01

	fullMembership       = 1.0
	borderlineMembership = 0.5
)

// nearestCore returns the core point of a committed cluster closest to
// sample, and its distance. idx is -1 when no such point exists.
// NaN distances are never selected.
func nearestCore(sample []float64, points [][]float64, states []PointState, metric DistanceMetric) (idx int, dist float64) {
	idx, dist = -1, math.Inf(1)
	for i, p := range points {
		if !states[i].Core || !states[i].hasCluster() {
			continue
		}
		if d := metric.Distance(sample, p); d < dist {
			idx, dist = i, d
		}
	}
	return idx, dist
}

// membershipResponse turns the nearest core point of a query into a
// response vector with one slot per cluster id plus slot 0, which is never
// set. The nearest core point grants full membership within depth, half
// membership when its distance lies within borderBandFraction*eps of eps,
// and nothing otherwise.
func membershipResponse(idx int, d float64, states []PointState, nbClusters int, eps, depth float64) []float64 {
	response := make([]float64, nbClusters+1)
	if idx < 0 {
		return response
	}

	id := states[idx].ClusterID
	switch {
	case d < depth:
		response[id] = fullMembership
	case math.Abs(d-eps) <= borderBandFraction*eps:
		response[id] = borderlineMembership
	}
	return response
}
