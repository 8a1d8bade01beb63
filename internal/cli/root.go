// Package cli wires the niftiview commands. Each command loads one file,
// runs the analyzer over it, and renders or exports the resulting report.
package cli

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"niftiview/internal/models"
	"niftiview/pkg/analysis"
	"niftiview/pkg/config"
	"niftiview/pkg/nifti"
)

var (
	cfgFile string
	verbose bool

	// Loaded configuration, populated by initConfig before any command runs
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "niftiview",
	Short:         "Inspect NIfTI neuroimaging files",
	Long:          `niftiview loads NIfTI-1 files (.nii, .nii.gz), extracts header metadata, computes volume statistics, detects label volumes, and exports the results as JSON or YAML.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main().
func Execute() {
	cobra.OnInitialize(initConfig)
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./niftiview.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = "niftiview.yaml"
	}

	c, err := config.LoadConfig(path)
	if err != nil {
		// Non-fatal: fall back to defaults so inspection still works.
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		c = config.DefaultConfig()
	}
	cfg = c

	if verbose || cfg.Output.Verbose {
		log.SetLevel(log.DebugLevel)
	}
}

func analyzerOptions() analysis.Options {
	opts := analysis.DefaultOptions()
	if cfg == nil {
		return opts
	}
	if cfg.Analysis.MaxLabelValues > 0 {
		opts.MaxLabelValues = cfg.Analysis.MaxLabelValues
	}
	if cfg.Analysis.IntegralityTolerance > 0 {
		opts.IntegralityTolerance = cfg.Analysis.IntegralityTolerance
	}
	if cfg.Analysis.OrthogonalityTolerance > 0 {
		opts.OrthogonalityTolerance = cfg.Analysis.OrthogonalityTolerance
	}
	return opts
}

// loadAndAnalyze runs the whole pipeline for one input file.
func loadAndAnalyze(path string) (*nifti.Image, *models.Report, error) {
	img, err := nifti.Load(path)
	if err != nil {
		return nil, nil, err
	}
	rep := analysis.New(analyzerOptions()).Analyze(img)
	return img, rep, nil
}
