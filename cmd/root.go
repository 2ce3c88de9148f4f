package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/statify-cli/internal/config"
	"github.com/KaramelBytes/statify-cli/internal/engine"
	"github.com/KaramelBytes/statify-cli/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	wsDir   string

	// Loaded configuration
	cfg *cfgpkg.Global

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "statify",
	Short: "Statify CLI: profile tabular datasets and explore them from the terminal",
	Long: `Statify loads CSV, TSV, XLSX and JSON tables, infers column types, profiles every column,
scores data quality, computes correlations and surfaces insights. Workspaces keep a replayable
log of cleaning operations (impute, transform, drop) so analysis can continue across runs.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(debug)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.statify/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&wsDir, "workspace", "w", "", "workspace directory (default: nearest statify.json above the working directory)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// config returns the loaded configuration, loading it on first use.
func config() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

// newEngine builds an engine from the effective configuration. Extra options
// are applied last.
func newEngine(extra ...engine.Option) (*engine.Engine, error) {
	c, err := config()
	if err != nil {
		return nil, err
	}
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithQualityWeights(c.Quality),
		engine.WithThresholds(c.Insights),
		engine.WithMaxIterations(c.KMeansMaxIterations),
	}
	return engine.New(append(opts, extra...)...), nil
}
