package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/statify-cli/internal/insight"
	"github.com/KaramelBytes/statify-cli/internal/profile"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DefaultK            int    `mapstructure:"default_k" yaml:"default_k"`
	KMeansMaxIterations int    `mapstructure:"kmeans_max_iterations" yaml:"kmeans_max_iterations"`
	SampleRows          int    `mapstructure:"sample_rows" yaml:"sample_rows"`
	MaxRows             int    `mapstructure:"max_rows" yaml:"max_rows"`
	OutputFormat        string `mapstructure:"output_format" yaml:"output_format"`
	BatchWorkers        int    `mapstructure:"batch_workers" yaml:"batch_workers"`

	// Quality scoring and insight rules
	Quality  profile.QualityWeights `mapstructure:",squash" yaml:",inline"`
	Insights insight.Thresholds     `mapstructure:",squash" yaml:",inline"`
}

// Dir returns ~/.statify.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".statify"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.statify/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (including .env) > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("STATIFY")
	v.AutomaticEnv()

	w := profile.DefaultQualityWeights()
	th := insight.DefaultThresholds()
	v.SetDefault("default_k", 3)
	v.SetDefault("kmeans_max_iterations", 50)
	v.SetDefault("sample_rows", 5)
	v.SetDefault("max_rows", 0)
	v.SetDefault("output_format", "markdown")
	v.SetDefault("batch_workers", 4)
	v.SetDefault("quality_missing_weight", w.MissingWeight)
	v.SetDefault("quality_outlier_weight", w.OutlierWeight)
	v.SetDefault("quality_skew_penalty", w.SkewPenalty)
	v.SetDefault("quality_skew_threshold", w.SkewThreshold)
	v.SetDefault("insight_correlation_threshold", th.Correlation)
	v.SetDefault("insight_dispersion_ratio", th.DispersionRatio)
	v.SetDefault("insight_quality_threshold", th.Quality)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.BatchWorkers < 1 {
		c.BatchWorkers = 1
	}
	return &c, nil
}
