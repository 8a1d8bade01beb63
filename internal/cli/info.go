package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"niftiview/pkg/export"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print a short overview of a NIfTI file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, rep, err := loadAndAnalyze(args[0])
		if err != nil {
			return err
		}
		fmt.Print(export.Summary(rep))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
