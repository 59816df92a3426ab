package dbscan

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// DistanceMetric computes the distance between two equal-length vectors.
// Implementations must be symmetric and stateless.
type DistanceMetric interface {
	Distance(a, b []float64) float64
}

// DistanceFunc adapts a plain function into a DistanceMetric.
type DistanceFunc func(a, b []float64) float64

func (f DistanceFunc) Distance(a, b []float64) float64 { return f(a, b) }

// EuclideanMetric computes the Euclidean (L2) distance.
type EuclideanMetric struct{}

func (EuclideanMetric) Distance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// CosineMetric computes the cosine distance: 1 - cosine_similarity.
// When either vector is all zeros the result is NaN, which never compares
// below eps and therefore never makes the pair neighbors.
type CosineMetric struct{}

func (CosineMetric) Distance(a, b []float64) float64 {
	return 1.0 - floats.Dot(a, b)/(floats.Norm(a, 2)*floats.Norm(b, 2))
}

// metricName returns a short human-readable name for m.
func metricName(m DistanceMetric) string {
	switch m.(type) {
	case EuclideanMetric, *EuclideanMetric:
		return "euclidean"
	case CosineMetric, *CosineMetric:
		return "cosine"
	case nil:
		return "none"
	default:
		return fmt.Sprintf("%T", m)
	}
}
