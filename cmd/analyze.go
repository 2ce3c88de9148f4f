package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/statify-cli/internal/engine"
	"github.com/KaramelBytes/statify-cli/internal/loader"
	"github.com/KaramelBytes/statify-cli/internal/report"
	"github.com/KaramelBytes/statify-cli/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	anaRead       readFlags
	anaOutputPath string
	anaFormat     string
	anaSampleRows int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Profile a CSV/TSV/XLSX/JSON file and print a summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opt, err := anaRead.options()
		if err != nil {
			return err
		}
		format, err := outputFormat(anaFormat)
		if err != nil {
			return err
		}
		out, err := analyzeFile(args[0], opt, format, anaSampleRows)
		if err != nil {
			return err
		}
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, []byte(out)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

// analyzeFile loads and profiles one file with its own engine and renders it.
func analyzeFile(path string, opt loader.Options, format string, sampleRows int) (string, error) {
	ds, info, err := loader.Load(path, opt)
	if err != nil {
		return "", err
	}
	e, err := newEngine()
	if err != nil {
		return "", err
	}
	st, err := e.LoadDataset(ds, engine.Metadata{FileName: info.FileName, FileSize: info.FileSize})
	if err != nil {
		return "", err
	}
	logger.Debug("analyzed file", zap.String("path", path), zap.Int("rows", info.Loaded), zap.Int("columns", st.Stats.ColumnCount))
	return render(st, e, info, format, sampleRows)
}

func render(st *engine.DerivedState, e *engine.Engine, info loader.Info, format string, sampleRows int) (string, error) {
	if format == "json" {
		return report.JSON(st)
	}
	ro := report.DefaultOptions()
	if sampleRows >= 0 {
		ro.SampleRows = sampleRows
	} else if c, err := config(); err == nil {
		ro.SampleRows = c.SampleRows
	}
	ro.Notes = info.Warnings
	return report.Markdown(st, e.Filtered(), ro), nil
}

// outputFormat resolves --format against the configured default.
func outputFormat(flag string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(flag))
	if f == "" {
		c, err := config()
		if err != nil {
			return "", err
		}
		f = strings.ToLower(c.OutputFormat)
	}
	switch f {
	case "markdown", "md", "":
		return "markdown", nil
	case "json":
		return "json", nil
	}
	return "", fmt.Errorf("unsupported --format: %s (use markdown|json)", flag)
}

func fileExt(format string) string {
	if format == "json" {
		return ".json"
	}
	return ".md"
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaRead.bind(analyzeCmd.Flags())
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the analysis")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "", "output format: markdown|json (default from config)")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", -1, "number of sample rows to include (default from config, 0 disables)")
}
