package dbscan

import (
	"sync"

	"gonum.org/v1/gonum/mat"
)

// SimilarityCache is the dense symmetric matrix of pairwise distances over a
// training set. It is built once per training run and is read-only afterward.
// The diagonal is never consulted.
type SimilarityCache struct {
	n int
	m *mat.SymDense // nil when n == 0
}

// NewSimilarityCache computes all pairwise distances between points using
// metric. An empty point set yields an empty cache.
func NewSimilarityCache(points [][]float64, metric DistanceMetric) *SimilarityCache {
	n := len(points)
	if n == 0 {
		return &SimilarityCache{}
	}

	m := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			m.SetSym(i, j, metric.Distance(points[i], points[j]))
		}
	}

	return &SimilarityCache{n: n, m: m}
}

// NewSimilarityCacheParallel computes the same matrix as NewSimilarityCache
// using numWorkers goroutines. If numWorkers <= 1 it falls back to the
// sequential build. The result is bitwise identical to the sequential one.
func NewSimilarityCacheParallel(points [][]float64, metric DistanceMetric, numWorkers int) *SimilarityCache {
	n := len(points)
	if numWorkers <= 1 || n <= 1 {
		return NewSimilarityCache(points, metric)
	}

	m := mat.NewSymDense(n, nil)

	// Worker w owns rows w, w+numWorkers, ... and fills only the upper
	// triangle of those rows, so no two workers write the same cell.
	// Striping spreads the long early rows evenly.
	var wg sync.WaitGroup
	for w := 0; w < numWorkers && w < n; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := offset; i < n; i += numWorkers {
				for j := i + 1; j < n; j++ {
					m.SetSym(i, j, metric.Distance(points[i], points[j]))
				}
			}
		}(w)
	}

	wg.Wait()
	return &SimilarityCache{n: n, m: m}
}

// Len returns the number of points covered by the cache.
func (c *SimilarityCache) Len() int {
	return c.n
}

// At returns the cached distance between points i and j.
func (c *SimilarityCache) At(i, j int) float64 {
	return c.m.At(i, j)
}
