package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"niftiview/pkg/export"
)

var labelsCmd = &cobra.Command{
	Use:   "labels <file>",
	Short: "Classify a volume as label data and list per-label counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, rep, err := loadAndAnalyze(args[0])
		if err != nil {
			return err
		}

		l := rep.Labels
		fmt.Printf("label data:      %v\n", l.IsLabelData)
		fmt.Printf("distinct values: %d\n", l.LabelCount)
		if l.IsLabelData {
			fmt.Println()
			fmt.Print(export.LabelTable(l))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(labelsCmd)
}
