// Package report renders derived state and analysis results for the terminal
// or for files, as Markdown or JSON.
package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/statify-cli/internal/dataset"
	"github.com/KaramelBytes/statify-cli/internal/engine"
	"github.com/KaramelBytes/statify-cli/internal/mining"
	"github.com/KaramelBytes/statify-cli/internal/profile"
	"github.com/KaramelBytes/statify-cli/internal/utils"
)

// Options controls Markdown rendering.
type Options struct {
	// SampleRows is how many leading rows to print; 0 omits the section.
	SampleRows int
	// TopPairs caps the correlation listing.
	TopPairs int
	// Notes are appended under [NOTES].
	Notes []string
}

// DefaultOptions prints five sample rows and the ten strongest pairs.
func DefaultOptions() Options {
	return Options{SampleRows: 5, TopPairs: 10}
}

const (
	maxCellWidth   = 80
	histogramWidth = 30
)

// Markdown renders a compact report of the derived state. rows supplies the
// sample section and may be nil.
func Markdown(st *engine.DerivedState, rows []dataset.Record, opt Options) string {
	var b strings.Builder
	if st == nil {
		return ""
	}
	b.WriteString("[DATASET SUMMARY]\n")
	if st.Stats.FileName != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", st.Stats.FileName))
	}
	if st.Stats.FileSize > 0 {
		b.WriteString(fmt.Sprintf("Size: %s\n", humanBytes(st.Stats.FileSize)))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", st.Stats.RowCount))
	b.WriteString(fmt.Sprintf("Columns: %d\n", st.Stats.ColumnCount))
	b.WriteString(fmt.Sprintf("Health: %.1f%%\n\n", st.Stats.Health))

	b.WriteString("[SCHEMA]\n")
	for _, c := range st.Columns {
		writeColumn(&b, c)
	}

	if len(st.Columns) > 0 {
		b.WriteString("\n[QUALITY]\n")
		for _, c := range st.Columns {
			grade := profile.GradeOf(c.QualityScore)
			b.WriteString(fmt.Sprintf("- %s: %.0f/100 (%s)", safeName(c.ID), c.QualityScore, grade))
			if grade != profile.GradeHigh {
				b.WriteString(": ")
				b.WriteString(profile.Suggestion(c.QualityScore))
			}
			b.WriteString("\n")
		}
	}

	if st.Correlations != nil && len(st.Correlations.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range st.Correlations.TopPairs(opt.TopPairs) {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}

	if len(st.Insights) > 0 {
		b.WriteString("\n[INSIGHTS]\n")
		for _, in := range st.Insights {
			b.WriteString(fmt.Sprintf("- [%s/%s] %s: %s\n", in.Kind, in.Impact, in.Title, in.Description))
		}
	}

	if n := opt.SampleRows; n > 0 && len(rows) > 0 {
		if len(rows) > n {
			rows = rows[:n]
		}
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		writeTable(&b, st.Columns, rows)
	}

	if len(opt.Notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range opt.Notes {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeColumn(b *strings.Builder, c profile.ColumnProfile) {
	s := c.Stats
	b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%, unique %d)",
		safeName(c.ID), c.Type, s.NonMissing(), s.MissingPercent(), s.UniqueCount))
	switch {
	case s.Numeric != nil && s.Numeric.Count > 0:
		n := s.Numeric
		b.WriteString(fmt.Sprintf("; min %.4g, max %.4g, mean %.4g, median %.4g, std %.4g",
			n.Min, n.Max, n.Mean, n.Median, n.StdDev))
		b.WriteString(fmt.Sprintf("; IQR %.4g [%.4g, %.4g]", n.IQR, n.Q1, n.Q3))
		if n.OutlierCount > 0 {
			b.WriteString(fmt.Sprintf("; outliers: %d outside [%.4g, %.4g]", n.OutlierCount, n.LowerFence, n.UpperFence))
		}
		b.WriteString(fmt.Sprintf("; skew %.2f (%s)", n.Skewness, profile.SkewLabel(n.Skewness)))
	case s.DateRange != nil:
		b.WriteString(fmt.Sprintf("; range %s .. %s",
			s.DateRange.Min.Format("2006-01-02"), s.DateRange.Max.Format("2006-01-02")))
	case s.Categorical != nil:
		cs := s.Categorical
		if len(cs.Frequencies) > 0 {
			b.WriteString("; top: ")
			for i, f := range cs.Frequencies {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(f.Value), f.Count))
			}
		}
		b.WriteString(fmt.Sprintf("; entropy %.3f; cardinality %s", cs.Entropy, cs.Cardinality))
	}
	b.WriteString("\n")
}

func writeTable(b *strings.Builder, cols []profile.ColumnProfile, rows []dataset.Record) {
	b.WriteString("| ")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeName(c.ID))
	}
	b.WriteString(" |\n| ")
	for i := range cols {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for _, r := range rows {
		b.WriteString("| ")
		for i, c := range cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := r[c.ID].String()
			if len(val) > maxCellWidth {
				val = val[:maxCellWidth-3] + "..."
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
}

// Regression renders a fitted line.
func Regression(r *mining.RegressionResult) string {
	var b strings.Builder
	b.WriteString("[REGRESSION]\n")
	b.WriteString(fmt.Sprintf("Model: %s = %.4g * %s + %.4g\n", r.Y, r.Slope, r.X, r.Intercept))
	b.WriteString(fmt.Sprintf("Slope: %.6g\n", r.Slope))
	b.WriteString(fmt.Sprintf("Intercept: %.6g\n", r.Intercept))
	b.WriteString(fmt.Sprintf("R²: %.4f\n", r.RSquared))
	b.WriteString(fmt.Sprintf("Points: %d\n", len(r.Points)))
	line := r.Line()
	b.WriteString(fmt.Sprintf("Line: (%.4g, %.4g) to (%.4g, %.4g)\n", line[0].X, line[0].Y, line[1].X, line[1].Y))
	return b.String()
}

// Clusters renders k-means centroids with their sizes.
func Clusters(c *mining.ClusterResult) string {
	var b strings.Builder
	b.WriteString("[CLUSTERS]\n")
	b.WriteString(fmt.Sprintf("Dimensions: %s\n", strings.Join(c.Dims, ", ")))
	b.WriteString(fmt.Sprintf("k: %d, vectors: %d, iterations: %d\n", len(c.Centroids), len(c.Assignments), c.Iterations))
	sizes := c.Sizes()
	for i, cent := range c.Centroids {
		coords := make([]string, len(cent))
		for j, x := range cent {
			coords[j] = fmt.Sprintf("%s=%.4g", c.Dims[j], x)
		}
		b.WriteString(fmt.Sprintf("- cluster %d (n=%d): %s\n", i, sizes[i], strings.Join(coords, ", ")))
	}
	return b.String()
}

// JSON renders any result as indented JSON.
func JSON(v any) (string, error) {
	out, err := utils.PrettyJSON(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 3; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// ColumnView is the JSON shape of the single-column view.
type ColumnView struct {
	profile.ColumnProfile
	Histogram []profile.Bin `json:"histogram,omitempty"`
}

// Column renders the detail view of a single column. hist may be nil.
func Column(c profile.ColumnProfile, hist []profile.Bin) string {
	var b strings.Builder
	b.WriteString("[COLUMN]\n")
	writeColumn(&b, c)
	grade := profile.GradeOf(c.QualityScore)
	b.WriteString(fmt.Sprintf("Quality: %.0f/100 (%s)\n", c.QualityScore, grade))
	if grade != profile.GradeHigh {
		b.WriteString(fmt.Sprintf("Suggestion: %s\n", profile.Suggestion(c.QualityScore)))
	}
	if len(hist) > 0 {
		b.WriteString("\n[HISTOGRAM]\n")
		top := 0
		for _, bin := range hist {
			if bin.Count > top {
				top = bin.Count
			}
		}
		for _, bin := range hist {
			bar := 0
			if top > 0 {
				bar = bin.Count * histogramWidth / top
			}
			b.WriteString(fmt.Sprintf("%12.4g | %-*s %d\n", bin.Lower, histogramWidth, strings.Repeat("#", bar), bin.Count))
		}
	}
	return b.String()
}
