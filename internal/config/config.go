package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/input"
	"github.com/san-kum/gravsim/internal/output"
)

const (
	DefaultOutputDir = "."
	DefaultPreset    = "binary"
	DefaultLogLevel  = "info"
	EnvPrefix        = "GRAVSIM"
)

// Config describes one run. Zero overrides keep the value from the input.
type Config struct {
	Input          string `mapstructure:"input" yaml:"input,omitempty"`
	Preset         string `mapstructure:"preset" yaml:"preset,omitempty"`
	OutputDir      string `mapstructure:"output_dir" yaml:"output_dir"`
	TrajectoryFile string `mapstructure:"trajectory_file" yaml:"trajectory_file"`
	EnergyFile     string `mapstructure:"energy_file" yaml:"energy_file"`
	Database       string `mapstructure:"database" yaml:"database,omitempty"`
	Banner         bool   `mapstructure:"banner" yaml:"banner"`
	Seed           int64  `mapstructure:"seed" yaml:"seed"`
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`

	Dt           float64 `mapstructure:"dt" yaml:"dt,omitempty"`
	G            float64 `mapstructure:"g" yaml:"g,omitempty"`
	DumpInterval int     `mapstructure:"dump_interval" yaml:"dump_interval,omitempty"`
	TotalSteps   int     `mapstructure:"total_steps" yaml:"total_steps,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset:         DefaultPreset,
		OutputDir:      DefaultOutputDir,
		TrajectoryFile: output.DefaultTrajectoryFile,
		EnergyFile:     output.DefaultEnergyFile,
		Banner:         true,
		LogLevel:       DefaultLogLevel,
	}
}

func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("input", c.Input)
	v.SetDefault("preset", c.Preset)
	v.SetDefault("output_dir", c.OutputDir)
	v.SetDefault("trajectory_file", c.TrajectoryFile)
	v.SetDefault("energy_file", c.EnergyFile)
	v.SetDefault("database", c.Database)
	v.SetDefault("banner", c.Banner)
	v.SetDefault("seed", c.Seed)
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("dt", c.Dt)
	v.SetDefault("g", c.G)
	v.SetDefault("dump_interval", c.DumpInterval)
	v.SetDefault("total_steps", c.TotalSteps)
}

// Load reads the configuration file at path and GRAVSIM_* environment
// overrides. With an empty path, GRAVSIM_CONFIG is consulted and then
// gravsim.{yaml,toml} in the working directory and ~/.config/gravsim; a
// missing file in that case is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gravsim")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "gravsim"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Apply writes the non-zero overrides into s and revalidates it.
func (c *Config) Apply(s *dynamo.State) error {
	if c.Dt != 0 {
		s.Dt = c.Dt
	}
	if c.G != 0 {
		s.G = c.G
	}
	if c.DumpInterval != 0 {
		s.DumpInterval = c.DumpInterval
	}
	if c.TotalSteps != 0 {
		s.TotalSteps = c.TotalSteps
	}
	return s.Validate()
}

// State builds the initial state: the input file when set, the preset
// otherwise, with overrides applied.
func (c *Config) State() (*dynamo.State, error) {
	var (
		s   *dynamo.State
		err error
	)
	switch {
	case c.Input != "":
		s, err = input.Load(c.Input)
	case c.Preset != "":
		s, err = Preset(c.Preset)
	default:
		err = errors.New("no input file or preset given")
	}
	if err != nil {
		return nil, err
	}
	if err := c.Apply(s); err != nil {
		return nil, fmt.Errorf("apply overrides: %w", err)
	}
	return s, nil
}

func (c *Config) TrajectoryPath() string {
	return filepath.Join(c.OutputDir, c.TrajectoryFile)
}

func (c *Config) EnergyPath() string {
	return filepath.Join(c.OutputDir, c.EnergyFile)
}
