package cmd

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/statify-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set statify configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "default_k: %d\n", c.DefaultK)
		fmt.Fprintf(w, "kmeans_max_iterations: %d\n", c.KMeansMaxIterations)
		fmt.Fprintf(w, "sample_rows: %d\n", c.SampleRows)
		fmt.Fprintf(w, "max_rows: %d\n", c.MaxRows)
		fmt.Fprintf(w, "output_format: %s\n", c.OutputFormat)
		fmt.Fprintf(w, "batch_workers: %d\n", c.BatchWorkers)
		fmt.Fprintf(w, "quality_missing_weight: %.3f\n", c.Quality.MissingWeight)
		fmt.Fprintf(w, "quality_outlier_weight: %.3f\n", c.Quality.OutlierWeight)
		fmt.Fprintf(w, "quality_skew_penalty: %.3f\n", c.Quality.SkewPenalty)
		fmt.Fprintf(w, "quality_skew_threshold: %.3f\n", c.Quality.SkewThreshold)
		fmt.Fprintf(w, "insight_correlation_threshold: %.3f\n", c.Insights.Correlation)
		fmt.Fprintf(w, "insight_dispersion_ratio: %.3f\n", c.Insights.DispersionRatio)
		fmt.Fprintf(w, "insight_quality_threshold: %.3f\n", c.Insights.Quality)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := config()
		if err != nil {
			return err
		}
		if err := setKey(c, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func setKey(c *cfgpkg.Global, key, val string) error {
	intVal := func(lo int) (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i < lo {
			return 0, fmt.Errorf("invalid int for %s: %v (minimum %d)", key, val, lo)
		}
		return i, nil
	}
	floatVal := func(hi float64) (float64, error) {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f < 0 || f > hi {
			return 0, fmt.Errorf("invalid float for %s: %v", key, val)
		}
		return f, nil
	}
	ints := map[string]struct {
		dst *int
		lo  int
	}{
		"default_k":             {&c.DefaultK, 1},
		"kmeans_max_iterations": {&c.KMeansMaxIterations, 1},
		"batch_workers":         {&c.BatchWorkers, 1},
		"sample_rows":           {&c.SampleRows, 0},
		"max_rows":              {&c.MaxRows, 0},
	}
	floats := map[string]struct {
		dst *float64
		hi  float64
	}{
		"quality_missing_weight":        {&c.Quality.MissingWeight, math.MaxFloat64},
		"quality_outlier_weight":        {&c.Quality.OutlierWeight, math.MaxFloat64},
		"quality_skew_penalty":          {&c.Quality.SkewPenalty, math.MaxFloat64},
		"quality_skew_threshold":        {&c.Quality.SkewThreshold, math.MaxFloat64},
		"insight_correlation_threshold": {&c.Insights.Correlation, 1},
		"insight_dispersion_ratio":      {&c.Insights.DispersionRatio, math.MaxFloat64},
		"insight_quality_threshold":     {&c.Insights.Quality, 100},
	}
	if t, ok := ints[key]; ok {
		i, err := intVal(t.lo)
		if err != nil {
			return err
		}
		*t.dst = i
		return nil
	}
	if t, ok := floats[key]; ok {
		f, err := floatVal(t.hi)
		if err != nil {
			return err
		}
		*t.dst = f
		return nil
	}
	switch key {
	case "output_format":
		switch strings.ToLower(val) {
		case "markdown", "md":
			c.OutputFormat = "markdown"
		case "json":
			c.OutputFormat = "json"
		default:
			return fmt.Errorf("invalid output_format: %s (use markdown or json)", val)
		}
		return nil
	}
	return fmt.Errorf("unknown key: %s", key)
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
