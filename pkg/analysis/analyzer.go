// Package analysis turns a decoded NIfTI volume into a metadata report:
// normalized header fields, array statistics, affine and coordinate
// summaries, and a label classification.
package analysis

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"niftiview/internal/models"
	"niftiview/pkg/nifti"
)

// Options control the analyzer heuristics. The zero value is not useful;
// start from DefaultOptions.
type Options struct {
	// MaxLabelValues is the largest number of distinct values a volume
	// may have and still be considered label data by the distinct-value
	// rule
	MaxLabelValues int

	// IntegralityTolerance is the largest distance from a whole number
	// at which a floating value still counts as integral
	IntegralityTolerance float64

	// OrthogonalityTolerance bounds the deviation of R*Rt from identity
	// when deciding whether the affine rotation block is orthogonal
	OrthogonalityTolerance float64
}

// DefaultOptions returns the analyzer defaults. The label threshold of 50
// and the 1e-8 tolerance are deliberate constants; changing them changes
// which volumes classify as label data.
func DefaultOptions() Options {
	return Options{
		MaxLabelValues:         50,
		IntegralityTolerance:   1e-8,
		OrthogonalityTolerance: 1e-6,
	}
}

// Analyzer produces reports from loaded volumes. Each call is a pure
// function of its inputs; the analyzer holds no mutable state and is safe
// to reuse across files.
type Analyzer struct {
	opts Options
}

// New creates an analyzer with the given options.
func New(opts Options) *Analyzer {
	return &Analyzer{opts: opts}
}

// Analyze builds the complete report for one loaded image.
func (a *Analyzer) Analyze(img *nifti.Image) *models.Report {
	start := time.Now()

	rep := &models.Report{
		ReportID:    uuid.NewString(),
		GeneratedAt: start.UTC().Format(time.RFC3339),
		FileInfo: models.FileInfo{
			FilePath: img.Path,
			FileName: filepath.Base(img.Path),
			FileSize: img.Size,
			Format:   "NIfTI",
			Version:  int(img.Header.SizeOfHdr),
		},
		Header:     a.NormalizeHeader(&img.Header),
		Affine:     a.SummarizeAffine(img.Record.Affine),
		Statistics: a.ComputeStatistics(&img.Record),
		Coordinate: a.CoordinateInfo(&img.Header),
		Labels:     a.ClassifyLabels(&img.Record),
		Extensions: a.DescribeExtensions(img.Extensions),
	}

	log.WithFields(log.Fields{
		"file":     rep.FileInfo.FileName,
		"isLabels": rep.Labels.IsLabelData,
		"elapsed":  time.Since(start),
	}).Debug("analysis complete")

	return rep
}
