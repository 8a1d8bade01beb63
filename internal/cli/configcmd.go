package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"niftiview/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage niftiview configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file with default values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "niftiview.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.CreateDefaultConfigFile(path); err != nil {
			return err
		}
		fmt.Printf("default config written to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("analysis.maxLabelValues:         %d\n", cfg.Analysis.MaxLabelValues)
		fmt.Printf("analysis.integralityTolerance:   %g\n", cfg.Analysis.IntegralityTolerance)
		fmt.Printf("analysis.orthogonalityTolerance: %g\n", cfg.Analysis.OrthogonalityTolerance)
		fmt.Printf("export.format:                   %s\n", cfg.Export.Format)
		fmt.Printf("export.indent:                   %d\n", cfg.Export.Indent)
		fmt.Printf("slices.axes:                     %v\n", cfg.Slices.Axes)
		fmt.Printf("slices.jpegQuality:              %d\n", cfg.Slices.JPEGQuality)
		fmt.Printf("output.verbose:                  %v\n", cfg.Output.Verbose)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
