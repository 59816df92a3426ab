package dbscan

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mode selects the clustering algorithm and, for OPTICS, the extraction
// strategy.
type Mode string

const (
	ModeDBSCAN           Mode = "dbscan"
	ModeOPTICSThreshold  Mode = "optics_threshold"
	ModeOPTICSValleyFill Mode = "optics_valley"
)

// strategy returns the extraction strategy for OPTICS modes.
func (m Mode) strategy() (Strategy, bool) {
	switch m {
	case ModeOPTICSThreshold:
		return StrategyThreshold, true
	case ModeOPTICSValleyFill:
		return StrategyValleyFill, true
	default:
		return 0, false
	}
}

var (
	// ErrNotTrained is returned by queries on an engine that has not
	// completed Train.
	ErrNotTrained = errors.New("dbscan: engine is not trained")

	// ErrDimensionMismatch is returned when a vector's length differs from
	// the training set's dimensionality.
	ErrDimensionMismatch = errors.New("dbscan: dimension mismatch")

	// ErrNotOPTICS is returned by Extract when the engine was trained in
	// DBSCAN mode.
	ErrNotOPTICS = errors.New("dbscan: extraction requires an OPTICS mode")
)

// Config controls clustering behavior.
// Start with [DefaultConfig] and override the fields you need. Numeric
// fields are not range-checked: out-of-range values yield degenerate but
// valid results (MinPts <= 0 or Eps <= 0 produce no clusters).
type Config struct {
	// MinPts is the number of neighbors (excluding the point itself) a point
	// needs within Eps to be a core point, and the smallest valid cluster.
	// Default: 3.
	MinPts int

	// Eps is the neighborhood radius. Two points are neighbors iff their
	// distance is strictly less than Eps. Default: 0.1.
	Eps float64

	// Metric measures the distance between samples.
	// Default: EuclideanMetric.
	Metric DistanceMetric

	// Depth is the pit depth used by OPTICS extraction and the full
	// membership radius used by Test. It is always Eps in DBSCAN mode.
	// 0 means Eps. Default: 0.
	Depth float64

	// Mode selects DBSCAN or one of the OPTICS extraction strategies.
	// Default: ModeDBSCAN.
	Mode Mode

	// Workers controls the number of goroutines used to build the
	// similarity cache. The traversal itself is always sequential.
	// 0 means runtime.NumCPU(). Default: 0.
	Workers int

	// Logger receives debug-level progress records. nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		MinPts: 3,
		Eps:    0.1,
		Metric: EuclideanMetric{},
		Mode:   ModeDBSCAN,
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Metric == nil {
		cfg.Metric = EuclideanMetric{}
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeDBSCAN
	}
	if cfg.Depth == 0 || cfg.Mode == ModeDBSCAN {
		cfg.Depth = cfg.Eps
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// validateConfig rejects configurations that cannot be interpreted at all.
func validateConfig(cfg *Config) error {
	switch cfg.Mode {
	case ModeDBSCAN, ModeOPTICSThreshold, ModeOPTICSValleyFill:
		return nil
	default:
		return fmt.Errorf("dbscan: invalid Mode %q", cfg.Mode)
	}
}

// degenerate reports whether cfg can never produce a cluster.
func degenerate(cfg *Config) bool {
	return cfg.MinPts <= 0 || !(cfg.Eps > 0)
}

// Clusterer is the capability set the surrounding application drives.
type Clusterer interface {
	Train(samples [][]float64) error
	Test(sample []float64) ([]float64, error)
	InfoString() string
}

var _ Clusterer = (*Engine)(nil)

// Engine runs DBSCAN or OPTICS over a training set and answers membership
// queries against the result. An Engine is not safe for concurrent use;
// independent engines share no state.
type Engine struct {
	cfg Config

	// Everything below is rebuilt by each Train call.
	trained  bool
	fit      Config // cfg with defaults applied, as used by the last Train
	dims     int
	samples  [][]float64
	sim      *SimilarityCache
	states   []PointState
	clusters []Cluster
	ordering []int
	coreDist []float64
	index    *coreIndex // nil unless the metric is Euclidean

	onRelax relaxFunc
}

// New returns an untrained Engine using cfg.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Configure replaces the configuration used by the next Train call.
// The current fitted state, if any, is left untouched.
func (e *Engine) Configure(cfg Config) {
	e.cfg = cfg
}

// Config returns the configuration that the next Train call will use.
func (e *Engine) Config() Config {
	return e.cfg
}

// Train discards any previous result and clusters samples. All samples must
// have the same length. An empty sample set, MinPts <= 0 or Eps <= 0 train
// successfully into a state with zero clusters.
func (e *Engine) Train(samples [][]float64) error {
	cfg := e.cfg
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return err
	}

	dims := 0
	if len(samples) > 0 {
		dims = len(samples[0])
	}
	for i, s := range samples {
		if len(s) != dims {
			return fmt.Errorf("sample %d has %d dimensions, expected %d: %w", i, len(s), dims, ErrDimensionMismatch)
		}
	}

	e.reset()
	e.fit = cfg
	e.dims = dims
	e.samples = make([][]float64, len(samples))
	for i, s := range samples {
		e.samples[i] = append([]float64(nil), s...)
	}
	e.states = newStates(len(samples))
	e.trained = true

	log := cfg.Logger
	n := len(samples)
	if n == 0 || degenerate(&cfg) {
		log.Debug("dbscan: nothing to cluster",
			"points", n, "min_pts", cfg.MinPts, "eps", cfg.Eps)
		return nil
	}

	e.sim = NewSimilarityCacheParallel(e.samples, cfg.Metric, cfg.Workers)
	log.Debug("dbscan: similarity cache built", "points", n, "workers", cfg.Workers)

	nf := NewNeighborFinder(e.sim)
	if strategy, ok := cfg.Mode.strategy(); ok {
		e.ordering, e.coreDist = runOPTICS(nf, e.states, cfg.Eps, cfg.MinPts, e.onRelax)
		finalizeReachability(e.states, e.ordering, cfg.Eps)
		e.extract(strategy)
	} else {
		e.clusters = runDBSCAN(nf, e.states, cfg.Eps, cfg.MinPts)
		e.buildIndex()
	}

	core, noise := e.counts()
	log.Debug("dbscan: trained",
		"mode", string(cfg.Mode), "points", n, "clusters", len(e.clusters),
		"core", core, "noise", noise)
	return nil
}

// reset drops every structure derived from the previous training set.
func (e *Engine) reset() {
	e.trained = false
	e.fit = Config{}
	e.dims = 0
	e.samples = nil
	e.sim = nil
	e.states = nil
	e.clusters = nil
	e.ordering = nil
	e.coreDist = nil
	e.index = nil
}

// buildIndex rebuilds the nearest-core index after membership changes.
func (e *Engine) buildIndex() {
	e.index = nil
	if _, ok := e.fit.Metric.(EuclideanMetric); ok {
		e.index = newCoreIndex(e.samples, e.states, defaultLeafSize)
	}
}

// extract runs strategy over the stored reachability plot and rewrites
// every point's membership from scratch.
func (e *Engine) extract(strategy Strategy) {
	plot := ReachabilityPlot{
		Ordering:     e.ordering,
		Reachability: make([]float64, len(e.states)),
		Core:         make([]bool, len(e.states)),
		Eps:          e.fit.Eps,
	}
	for i, s := range e.states {
		plot.Reachability[i] = s.Reachability
		plot.Core[i] = s.Core
	}

	e.clusters = strategy.Extract(plot, e.fit.Depth, e.fit.MinPts)

	for i := range e.states {
		e.states[i].markNoise()
	}
	for _, c := range e.clusters {
		for _, p := range c.Points {
			e.states[p].assign(c.ID)
		}
	}
	e.buildIndex()

	e.fit.Logger.Debug("dbscan: extracted clusters",
		"strategy", strategy.String(), "depth", e.fit.Depth, "clusters", len(e.clusters))
}

// Extract re-cuts the stored OPTICS reachability plot with a new depth,
// without rebuilding the similarity cache or re-running the traversal.
// Subsequent Test calls use the new depth.
func (e *Engine) Extract(depth float64) error {
	if !e.trained {
		return ErrNotTrained
	}
	strategy, ok := e.fit.Mode.strategy()
	if !ok {
		return ErrNotOPTICS
	}
	e.fit.Depth = depth
	if e.sim == nil {
		return nil
	}
	e.extract(strategy)
	return nil
}

// Test scores a sample that is not part of the training set. The response
// has NumClusters()+1 entries; entry k holds the membership weight for
// cluster k (1 or 0.5) and entry 0 is always 0. Test never modifies the
// fitted state.
func (e *Engine) Test(sample []float64) ([]float64, error) {
	if !e.trained {
		return nil, ErrNotTrained
	}
	if len(e.samples) > 0 && len(sample) != e.dims {
		return nil, fmt.Errorf("query has %d dimensions, expected %d: %w", len(sample), e.dims, ErrDimensionMismatch)
	}

	var (
		idx = -1
		d   float64
	)
	if e.index != nil {
		idx, d = e.index.nearest(sample)
	} else if len(e.samples) > 0 {
		idx, d = nearestCore(sample, e.samples, e.states, e.fit.Metric)
	}
	return membershipResponse(idx, d, e.states, len(e.clusters), e.fit.Eps, e.fit.Depth), nil
}

// Trained reports whether Train has completed.
func (e *Engine) Trained() bool {
	return e.trained
}

// NumClusters returns the number of committed clusters.
func (e *Engine) NumClusters() int {
	return len(e.clusters)
}

// Clusters returns a copy of the committed clusters in id order.
func (e *Engine) Clusters() []Cluster {
	out := make([]Cluster, len(e.clusters))
	for i, c := range e.clusters {
		out[i] = Cluster{ID: c.ID, Points: append([]int(nil), c.Points...)}
	}
	return out
}

// Assignments returns the cluster id of every training point, 0 for noise.
func (e *Engine) Assignments() []int {
	labels := make([]int, len(e.states))
	for i, s := range e.states {
		labels[i] = s.ClusterID
	}
	return labels
}

// Ordering returns the OPTICS visitation order, or nil in DBSCAN mode.
func (e *Engine) Ordering() []int {
	if e.ordering == nil {
		return nil
	}
	return append([]int(nil), e.ordering...)
}

// Reachability returns the finalized reachability distance of every training
// point, indexed by point id, or nil in DBSCAN mode.
func (e *Engine) Reachability() []float64 {
	if e.ordering == nil {
		return nil
	}
	reach := make([]float64, len(e.states))
	for i, s := range e.states {
		reach[i] = s.Reachability
	}
	return reach
}

// CoreDistances returns the OPTICS core distance of every training point
// (Undefined for non-core points), or nil in DBSCAN mode.
func (e *Engine) CoreDistances() []float64 {
	if e.coreDist == nil {
		return nil
	}
	return append([]float64(nil), e.coreDist...)
}

// States returns a copy of the per-point state.
func (e *Engine) States() []PointState {
	return append([]PointState(nil), e.states...)
}

// counts returns the number of core points and noise points.
func (e *Engine) counts() (core, noise int) {
	for _, s := range e.states {
		if s.Core {
			core++
		}
		if s.Membership == Noise {
			noise++
		}
	}
	return core, noise
}

// InfoString returns a human-readable summary of the configuration and the
// last training result. It is diagnostic text, not a stable format.
func (e *Engine) InfoString() string {
	var b strings.Builder

	if !e.trained {
		cfg := e.cfg
		applyDefaults(&cfg)
		fmt.Fprintf(&b, "mode: %s (not trained)\n", cfg.Mode)
		fmt.Fprintf(&b, "metric: %s  eps: %g  minPts: %d  depth: %g\n",
			metricName(cfg.Metric), cfg.Eps, cfg.MinPts, cfg.Depth)
		return b.String()
	}

	cfg := e.fit
	core, noise := e.counts()
	fmt.Fprintf(&b, "mode: %s\n", cfg.Mode)
	fmt.Fprintf(&b, "metric: %s  eps: %g  minPts: %d  depth: %g\n",
		metricName(cfg.Metric), cfg.Eps, cfg.MinPts, cfg.Depth)
	fmt.Fprintf(&b, "points: %d  clusters: %d  core: %d  noise: %d\n",
		len(e.states), len(e.clusters), core, noise)

	if len(e.clusters) > 0 {
		sizes := make([]float64, len(e.clusters))
		for i, c := range e.clusters {
			sizes[i] = float64(c.Size())
		}
		mean, std := stat.MeanStdDev(sizes, nil)
		if math.IsNaN(std) {
			std = 0
		}
		fmt.Fprintf(&b, "cluster sizes: min %g  max %g  mean %.2f  sd %.2f\n",
			floats.Min(sizes), floats.Max(sizes), mean, std)
	}

	if len(e.ordering) > 0 {
		reach := e.Reachability()
		fmt.Fprintf(&b, "reachability: mean %.4g  max %.4g\n",
			stat.Mean(reach, nil), floats.Max(reach))
	}

	return b.String()
}

// Result is a snapshot of a finished clustering run.
type Result struct {
	// Labels assigns each point its cluster id, or 0 for noise.
	Labels []int

	// Clusters lists the committed clusters in id order.
	Clusters []Cluster

	// States is the final per-point state.
	States []PointState

	// Ordering, Reachability and CoreDistances are set in OPTICS modes only.
	Ordering      []int
	Reachability  []float64
	CoreDistances []float64
}

// Run trains a fresh engine on samples and returns its result.
func Run(samples [][]float64, cfg Config) (*Result, error) {
	e := New(cfg)
	if err := e.Train(samples); err != nil {
		return nil, err
	}
	return e.Result(), nil
}

// Result returns a snapshot of the last training run, or nil if the engine
// is not trained.
func (e *Engine) Result() *Result {
	if !e.trained {
		return nil
	}
	return &Result{
		Labels:        e.Assignments(),
		Clusters:      e.Clusters(),
		States:        e.States(),
		Ordering:      e.Ordering(),
		Reachability:  e.Reachability(),
		CoreDistances: e.CoreDistances(),
	}
}
