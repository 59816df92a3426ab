package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TrevorS/dbscan/cmd/dbscan/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage parameter files",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a parameter file with default values",
	Long: `Write a YAML parameter file with default values.

The path defaults to dbscan.yaml in the current directory. An existing file
is only replaced with --force.

Example:
  dbscan config init params.yaml
  dbscan train -i samples.csv --config params.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "dbscan.yaml"
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Save(path, config.Default()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective parameters",
	Long: `Print the parameters a run would use: defaults, overlaid with the file
given by --config.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := config.Default()
		if cfgFile != "" {
			loaded, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			f = loaded
		}
		if _, err := f.ToConfig(); err != nil {
			return err
		}

		format := formatOutput
		if format == "text" {
			format = "yaml"
		}
		return printStructured(cmd.OutOrStdout(), format, f)
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
