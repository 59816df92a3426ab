// Package config reads and writes the YAML parameter files used by the
// dbscan command.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/TrevorS/dbscan"
)

// Metric names accepted in configuration files.
const (
	MetricEuclidean = "euclidean"
	MetricCosine    = "cosine"
)

// File is the on-disk parameter set for a clustering run.
type File struct {
	MinPts  int     `json:"min_pts" yaml:"min_pts"`
	Eps     float64 `json:"eps" yaml:"eps"`
	Metric  string  `json:"metric,omitempty" yaml:"metric,omitempty"`
	Depth   float64 `json:"depth,omitempty" yaml:"depth,omitempty"`
	Mode    string  `json:"mode,omitempty" yaml:"mode,omitempty"`
	Workers int     `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// Default returns the parameters matching dbscan.DefaultConfig.
func Default() *File {
	cfg := dbscan.DefaultConfig()
	return &File{
		MinPts: cfg.MinPts,
		Eps:    cfg.Eps,
		Metric: MetricEuclidean,
		Mode:   string(cfg.Mode),
	}
}

// Load reads a parameter file. Fields missing from the file keep their
// default values.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	f := Default()
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}

// Save writes f to path, creating parent directories as needed.
func Save(path string, f *File) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ParseMetric maps a metric name to its implementation. An empty name means
// Euclidean.
func ParseMetric(name string) (dbscan.DistanceMetric, error) {
	switch name {
	case "", MetricEuclidean:
		return dbscan.EuclideanMetric{}, nil
	case MetricCosine:
		return dbscan.CosineMetric{}, nil
	default:
		return nil, fmt.Errorf("unknown metric %q (want %s or %s)", name, MetricEuclidean, MetricCosine)
	}
}

// ParseMode validates a mode name. An empty name means DBSCAN.
func ParseMode(name string) (dbscan.Mode, error) {
	switch m := dbscan.Mode(name); m {
	case "":
		return dbscan.ModeDBSCAN, nil
	case dbscan.ModeDBSCAN, dbscan.ModeOPTICSThreshold, dbscan.ModeOPTICSValleyFill:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want %s, %s or %s)",
			name, dbscan.ModeDBSCAN, dbscan.ModeOPTICSThreshold, dbscan.ModeOPTICSValleyFill)
	}
}

// ToConfig converts f into an engine configuration.
func (f *File) ToConfig() (dbscan.Config, error) {
	metric, err := ParseMetric(f.Metric)
	if err != nil {
		return dbscan.Config{}, err
	}
	mode, err := ParseMode(f.Mode)
	if err != nil {
		return dbscan.Config{}, err
	}
	return dbscan.Config{
		MinPts:  f.MinPts,
		Eps:     f.Eps,
		Metric:  metric,
		Depth:   f.Depth,
		Mode:    mode,
		Workers: f.Workers,
	}, nil
}
