package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"niftiview/pkg/nifti"
	"niftiview/pkg/visualization"
)

var (
	slicesAxes   []string
	slicesOutDir string
)

var slicesCmd = &cobra.Command{
	Use:   "slices <file>",
	Short: "Save greyscale slice previews along the volume axes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := nifti.Load(args[0])
		if err != nil {
			return err
		}

		viewer, err := visualization.NewViewer(&img.Record, cfg.Slices.JPEGQuality)
		if err != nil {
			return err
		}

		axes := slicesAxes
		if len(axes) == 0 {
			axes = cfg.Slices.Axes
		}
		for _, axis := range axes {
			axisDir := filepath.Join(slicesOutDir, axis)
			n, err := viewer.SliceCount(axis)
			if err != nil {
				return err
			}
			fmt.Printf("saving %d %s-axis slices to %s\n", n, axis, axisDir)
			if err := viewer.SaveSliceSequence(axis, axisDir); err != nil {
				return fmt.Errorf("save %s-axis slices: %w", axis, err)
			}
		}
		return nil
	},
}

func init() {
	slicesCmd.Flags().StringSliceVar(&slicesAxes, "axis", nil, "axes to extract (default from config: x,y,z)")
	slicesCmd.Flags().StringVar(&slicesOutDir, "out-dir", "slices", "directory to save extracted slices")
	rootCmd.AddCommand(slicesCmd)
}
