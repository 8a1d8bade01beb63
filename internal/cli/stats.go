package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "Print volume statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, rep, err := loadAndAnalyze(args[0])
		if err != nil {
			return err
		}

		s := rep.Statistics
		fmt.Printf("shape:            %v\n", s.Shape)
		fmt.Printf("ndim:             %d\n", s.NDim)
		fmt.Printf("dtype:            %s\n", s.DType)
		fmt.Printf("min:              %g\n", s.Min)
		fmt.Printf("max:              %g\n", s.Max)
		fmt.Printf("mean:             %g\n", s.Mean)
		fmt.Printf("std:              %g\n", s.Std)
		fmt.Printf("median:           %g\n", s.Median)
		fmt.Printf("unique values:    %d\n", s.UniqueCount)
		fmt.Printf("non-zero voxels:  %d\n", s.NonZeroCount)
		fmt.Printf("zero voxels:      %d\n", s.ZeroCount)
		fmt.Printf("NaN voxels:       %d\n", s.NaNCount)
		fmt.Printf("Inf voxels:       %d\n", s.InfCount)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
