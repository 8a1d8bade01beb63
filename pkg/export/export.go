// Package export writes analysis reports to disk and renders the short
// text summary shown by the info command.
package export

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"niftiview/internal/models"
)

// Format selects an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name from a flag or config value.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported export format %q: use json or yaml", name)
}

// WriteReport serializes the report to the given path, creating parent
// directories as needed.
func WriteReport(rep *models.Report, path string, format Format, indent int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	data, err := Encode(rep, format, indent)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}

	log.WithFields(log.Fields{
		"path":   path,
		"format": string(format),
		"bytes":  len(data),
	}).Debug("report exported")
	return nil
}

// Encode serializes the report without touching the filesystem.
func Encode(rep *models.Report, format Format, indent int) ([]byte, error) {
	switch format {
	case FormatJSON:
		if indent <= 0 {
			indent = 2
		}
		data, err := json.MarshalIndent(rep, "", strings.Repeat(" ", indent))
		if err != nil {
			return nil, fmt.Errorf("error marshaling report: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(rep)
		if err != nil {
			return nil, fmt.Errorf("error marshaling report: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

// Summary renders the human-readable overview of a report.
func Summary(rep *models.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Filename: %s\n", rep.FileInfo.FileName)
	fmt.Fprintf(&b, "File size: %.2f MB\n", float64(rep.FileInfo.FileSize)/1024/1024)

	if s := rep.Statistics; s != nil {
		fmt.Fprintf(&b, "Data shape: %v\n", s.Shape)
		fmt.Fprintf(&b, "Data type: %s\n", s.DType)
		fmt.Fprintf(&b, "Value range: [%.3f, %.3f]\n", s.Min, s.Max)
		fmt.Fprintf(&b, "Mean value: %.3f\n", s.Mean)
		fmt.Fprintf(&b, "Std deviation: %.3f\n", s.Std)
		fmt.Fprintf(&b, "Non-zero voxels: %d\n", s.NonZeroCount)
	}

	if len(rep.Coordinate.VoxelSize) > 0 {
		sizes := make([]string, len(rep.Coordinate.VoxelSize))
		for i, v := range rep.Coordinate.VoxelSize {
			sizes[i] = fmt.Sprintf("%.3f", v)
		}
		fmt.Fprintf(&b, "Voxel size: [%s] %s\n", strings.Join(sizes, ", "), rep.Coordinate.SpatialUnit)
	}

	if l := rep.Labels; l != nil && l.IsLabelData {
		fmt.Fprintf(&b, "Label image: yes\n")
		fmt.Fprintf(&b, "Label count: %d\n", l.LabelCount)
	}

	return b.String()
}

// LabelTable renders the per-label breakdown as aligned text rows, sorted
// by label value.
func LabelTable(rep *models.LabelReport) string {
	if rep == nil || !rep.IsLabelData || len(rep.Statistics) == 0 {
		return "not a label volume\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %12s %10s\n", "label", "voxels", "percent")
	for _, v := range rep.UniqueValues {
		if math.IsNaN(v) {
			continue
		}
		key := labelKey(v)
		st, ok := rep.Statistics[key]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "%-12s %12d %9.2f%%\n", key, st.VoxelCount, st.Percentage)
	}
	return b.String()
}

func labelKey(v float64) string {
	return fmt.Sprintf("%g", v)
}
