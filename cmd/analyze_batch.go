package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/statify-cli/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	abRead       readFlags
	abOutputDir  string
	abFormat     string
	abSampleRows int
	abWorkers    int
	abQuiet      bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Profile multiple files concurrently, optionally writing one report per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		// Resolve config before workers share it.
		c, err := config()
		if err != nil {
			return err
		}
		opt, err := abRead.options()
		if err != nil {
			return err
		}
		format, err := outputFormat(abFormat)
		if err != nil {
			return err
		}
		workers := abWorkers
		if workers <= 0 {
			workers = c.BatchWorkers
		}

		var targets []string
		if abOutputDir != "" {
			if err := utils.EnsureDir(abOutputDir); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			targets = outputNames(abOutputDir, files, fileExt(format))
		}

		// Each file gets its own engine; results land in their input slot.
		results := make([]string, len(files))
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(workers)
		for i, path := range files {
			i, path := i, path
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				out, err := analyzeFile(path, opt, format, abSampleRows)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if targets != nil {
					if err := utils.SafeWriteFile(targets[i], []byte(out)); err != nil {
						return fmt.Errorf("write %s: %w", targets[i], err)
					}
				}
				results[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		logger.Debug("batch complete", zap.Int("files", len(files)), zap.Int("workers", workers))

		w := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			switch {
			case targets != nil && !abQuiet:
				fmt.Fprintf(w, "✓ [%d/%d] %s -> %s\n", i+1, total, filepath.Base(path), targets[i])
			case targets == nil && !abQuiet:
				fmt.Fprintf(w, "[%d/%d] %s\n", i+1, total, filepath.Base(path))
				fmt.Fprintln(w, results[i])
			}
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, drops
// duplicates and sorts the result.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// outputNames maps each input to <dir>/<base>.summary<ext>. Inputs sharing a
// base name get __2, __3, ... suffixes in input order.
func outputNames(dir string, files []string, ext string) []string {
	used := map[string]int{}
	names := make([]string, len(files))
	for i, f := range files {
		base := filepath.Base(f)
		base = strings.TrimSuffix(base, filepath.Ext(base))
		used[base]++
		if n := used[base]; n > 1 {
			base = fmt.Sprintf("%s__%d", base, n)
		}
		names[i] = filepath.Join(dir, base+".summary"+ext)
	}
	return names
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abRead.bind(analyzeBatchCmd.Flags())
	analyzeBatchCmd.Flags().StringVar(&abOutputDir, "output-dir", "", "directory to write one report per input")
	analyzeBatchCmd.Flags().StringVar(&abFormat, "format", "", "output format: markdown|json (default from config)")
	analyzeBatchCmd.Flags().IntVar(&abSampleRows, "sample-rows", -1, "number of sample rows to include (default from config, 0 disables)")
	analyzeBatchCmd.Flags().IntVar(&abWorkers, "workers", 0, "concurrent files (default from config batch_workers)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
