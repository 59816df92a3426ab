// Package main provides the dbscan CLI tool.
//
// Usage:
//
//	dbscan [flags] <command> [args]
//
// Commands:
//
//	train     - Cluster a CSV sample set
//	classify  - Score query rows against a clustering
//	config    - Manage YAML parameter files
package main

import (
	"fmt"
	"os"

	"github.com/TrevorS/dbscan/cmd/dbscan/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
