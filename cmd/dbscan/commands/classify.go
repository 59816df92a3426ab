package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	classifyFlags clusterFlags
	queryFile     string
)

// classifyOutput is the structured response for one query row.
type classifyOutput struct {
	Query    int       `json:"query" yaml:"query"`
	Response []float64 `json:"response" yaml:"response"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Score query rows against a clustering",
	Long: `Train on the input samples, then score every row of the query file.

Each response has one slot per cluster plus slot 0, which is always 0. The
slot of the nearest core point's cluster is 1 when that point is within
depth, 0.5 when its distance is within 1% of eps, and 0 otherwise.

Examples:
  dbscan classify -i samples.csv -q queries.csv --eps 0.5
  dbscan classify -i samples.csv -q queries.csv --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := classifyFlags.train(cmd)
		if err != nil {
			return err
		}
		queries, err := classifyFlags.loadSamples(queryFile)
		if err != nil {
			return err
		}

		results := make([]classifyOutput, len(queries))
		for i, q := range queries {
			resp, err := e.Test(q)
			if err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}
			results[i] = classifyOutput{Query: i, Response: resp}
		}

		out := cmd.OutOrStdout()
		if formatOutput != "text" {
			return printStructured(out, formatOutput, results)
		}
		for _, r := range results {
			fmt.Fprintf(out, "%d %s\n", r.Query, formatResponse(r.Response))
		}
		return nil
	},
}

func init() {
	classifyFlags.register(classifyCmd)
	classifyCmd.Flags().StringVarP(&queryFile, "query", "q", "", "query samples (CSV)")
	classifyCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(classifyCmd)
}

func formatResponse(resp []float64) string {
	parts := make([]string, len(resp))
	for i, v := range resp {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}
