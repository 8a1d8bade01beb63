package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"niftiview/pkg/export"
)

var (
	exportOutput string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the full metadata report to JSON or YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName := exportFormat
		if formatName == "" {
			formatName = cfg.Export.Format
		}
		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}

		_, rep, err := loadAndAnalyze(args[0])
		if err != nil {
			return err
		}

		out := exportOutput
		if out == "" {
			out = defaultExportPath(args[0], format)
		}
		if err := export.WriteReport(rep, out, format, cfg.Export.Indent); err != nil {
			return err
		}
		fmt.Printf("report written to %s\n", out)
		return nil
	},
}

// defaultExportPath derives the output name from the input, stripping the
// .nii / .nii.gz suffix.
func defaultExportPath(input string, format export.Format) string {
	base := input
	lower := strings.ToLower(base)
	switch {
	case strings.HasSuffix(lower, ".nii.gz"):
		base = base[:len(base)-len(".nii.gz")]
	case strings.HasSuffix(lower, ".nii"):
		base = base[:len(base)-len(".nii")]
	}
	return base + ".metadata." + string(format)
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path (default: <input>.metadata.<format>)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "export format: json or yaml (default from config)")
	rootCmd.AddCommand(exportCmd)
}
