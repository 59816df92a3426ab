package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/TrevorS/dbscan"
	"github.com/TrevorS/dbscan/cmd/dbscan/internal/config"
	"github.com/TrevorS/dbscan/internal/dataset"
)

var (
	// Global flags
	cfgFile      string
	formatOutput string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "dbscan",
	Short: "Density-based clustering of CSV samples",
	Long: `dbscan - cluster numeric samples with DBSCAN or OPTICS.

Samples are read from CSV files, one sample per row. Parameters come from
a YAML config file (see 'dbscan config init') and can be overridden with
flags.

Modes:
  dbscan            classic DBSCAN
  optics_threshold  OPTICS, clusters cut where reachability exceeds depth
  optics_valley     OPTICS, clusters are reachability pits at least depth deep

Examples:
  # Cluster with explicit parameters
  dbscan train -i samples.csv --eps 0.5 --min-pts 4

  # Use a config file and print JSON
  dbscan train -i samples.csv --config dbscan.yaml --format json

  # Score new rows against the clustering of samples.csv
  dbscan classify -i samples.csv -q queries.csv --eps 0.5`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML parameter file")
	rootCmd.PersistentFlags().StringVar(&formatOutput, "format", "text", "output format: text, json or yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress to stderr")
}

// newLogger returns the logger handed to the engine.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// clusterFlags are the parameters shared by every command that trains an
// engine. Flags override values from the config file.
type clusterFlags struct {
	input   string
	columns string
	header  bool

	minPts  int
	eps     float64
	metric  string
	depth   float64
	mode    string
	workers int
}

func (f *clusterFlags) register(cmd *cobra.Command) {
	def := config.Default()
	fs := cmd.Flags()
	fs.StringVarP(&f.input, "input", "i", "", "training samples (CSV)")
	fs.StringVar(&f.columns, "columns", "", "comma-separated column indices to use (default: all)")
	fs.BoolVar(&f.header, "header", false, "skip the first CSV row")
	fs.IntVar(&f.minPts, "min-pts", def.MinPts, "neighbors required for a core point")
	fs.Float64Var(&f.eps, "eps", def.Eps, "neighborhood radius")
	fs.StringVar(&f.metric, "metric", def.Metric, "distance metric: euclidean or cosine")
	fs.Float64Var(&f.depth, "depth", 0, "OPTICS extraction depth and query radius (default: eps)")
	fs.StringVar(&f.mode, "mode", def.Mode, "dbscan, optics_threshold or optics_valley")
	fs.IntVar(&f.workers, "workers", 0, "goroutines for the similarity cache (default: NumCPU)")
	cmd.MarkFlagRequired("input")
}

// engineConfig merges the config file with any flags set on cmd.
func (f *clusterFlags) engineConfig(cmd *cobra.Command) (dbscan.Config, error) {
	file := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return dbscan.Config{}, err
		}
		file = loaded
	}

	fs := cmd.Flags()
	fs.Visit(func(fl *pflag.Flag) {
		switch fl.Name {
		case "min-pts":
			file.MinPts = f.minPts
		case "eps":
			file.Eps = f.eps
		case "metric":
			file.Metric = f.metric
		case "depth":
			file.Depth = f.depth
		case "mode":
			file.Mode = f.mode
		case "workers":
			file.Workers = f.workers
		}
	})

	cfg, err := file.ToConfig()
	if err != nil {
		return dbscan.Config{}, err
	}
	cfg.Logger = newLogger(cmd.ErrOrStderr())
	return cfg, nil
}

// loadSamples reads a CSV file using the shared column and header flags.
func (f *clusterFlags) loadSamples(path string) ([][]float64, error) {
	cols, err := dataset.ParseColumns(f.columns)
	if err != nil {
		return nil, err
	}
	return dataset.Load(path, dataset.Options{SkipHeader: f.header, Columns: cols})
}

// train loads the input samples and trains a fresh engine.
func (f *clusterFlags) train(cmd *cobra.Command) (*dbscan.Engine, error) {
	cfg, err := f.engineConfig(cmd)
	if err != nil {
		return nil, err
	}
	samples, err := f.loadSamples(f.input)
	if err != nil {
		return nil, err
	}

	e := dbscan.New(cfg)
	if err := e.Train(samples); err != nil {
		return nil, err
	}
	cfg.Logger.Info("trained", "input", f.input, "points", len(samples), "clusters", e.NumClusters())
	return e, nil
}

// printStructured writes v as JSON or YAML.
func printStructured(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}
