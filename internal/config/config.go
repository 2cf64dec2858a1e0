// Package config loads metasift settings from an optional YAML file,
// METASIFT_* environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable override
const EnvPrefix = "METASIFT"

// Output names the files a run produces. Relative names are resolved against Dir.
type Output struct {
	Dir     string `mapstructure:"dir"`
	Curated string `mapstructure:"curated"`
	Flags   string `mapstructure:"flags"`
	Final   string `mapstructure:"final"`
	Parquet string `mapstructure:"parquet"`
	Summary string `mapstructure:"summary"`
}

// Loader mirrors metadata.LoaderOptions
type Loader struct {
	EmptyCellsAsMissing bool `mapstructure:"empty_cells_as_missing"`
}

// Sifting mirrors sifting.Options
type Sifting struct {
	EditionAbbreviationCheck bool `mapstructure:"edition_abbreviation_check"`
}

// Merge mirrors merge.Options
type Merge struct {
	Strict bool `mapstructure:"strict"`
}

// Log controls the slog handler installed by the CLI
type Log struct {
	Level string `mapstructure:"level"`
}

// Config is the full set of run settings
type Config struct {
	Input   string  `mapstructure:"input"`
	Output  Output  `mapstructure:"output"`
	Loader  Loader  `mapstructure:"loader"`
	Sifting Sifting `mapstructure:"sifting"`
	Merge   Merge   `mapstructure:"merge"`
	Log     Log     `mapstructure:"log"`
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input", "")
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.curated", "curated_metadata.csv")
	v.SetDefault("output.flags", "sifting_responses.csv")
	v.SetDefault("output.final", "FINAL_output_metadata.csv")
	v.SetDefault("output.parquet", "")
	v.SetDefault("output.summary", "")
	v.SetDefault("loader.empty_cells_as_missing", false)
	v.SetDefault("sifting.edition_abbreviation_check", false)
	v.SetDefault("merge.strict", false)
	v.SetDefault("log.level", "info")
}

// New returns a viper instance with defaults and environment bindings applied.
// When cfgFile is empty, metasift.yaml is looked up in the working directory
// and in ~/.config/metasift.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("metasift")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "metasift"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		slog.Debug("Using config file", "path", v.ConfigFileUsed())
	}

	return v, nil
}

// Load decodes the settings held by v
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that a pipeline run has an input and distinct outputs.
func (c *Config) Validate() error {
	if c.Input == "" {
		return errors.New("an input file is required (--input or METASIFT_INPUT)")
	}

	input := absPath(c.Input)
	seen := make(map[string]string)
	for _, o := range []struct{ key, path string }{
		{"output.curated", c.Output.Curated},
		{"output.flags", c.Output.Flags},
		{"output.final", c.Output.Final},
		{"output.parquet", c.Output.Parquet},
		{"output.summary", c.Output.Summary},
	} {
		if o.path == "" {
			if o.key == "output.parquet" || o.key == "output.summary" {
				continue
			}
			return fmt.Errorf("%s must not be empty", o.key)
		}
		resolved := absPath(c.Path(o.path))
		if prev, ok := seen[resolved]; ok {
			return fmt.Errorf("%s and %s both write %s", prev, o.key, c.Path(o.path))
		}
		if resolved == input {
			return fmt.Errorf("%s would overwrite the input file %s", o.key, c.Input)
		}
		seen[resolved] = o.key
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}

	return nil
}

// absPath resolves p against the working directory, falling back to a
// cleaned relative path when the working directory is unavailable.
func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// Path resolves an output name against the output directory
func (c *Config) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Output.Dir, name)
}

// SlogLevel converts the configured level name to a slog.Level
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
