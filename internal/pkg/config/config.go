package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds ambient process configuration — independent of the domain
// JSON request documents the CLI driver reads for each phase.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultsConfig names the files the CLI driver reads/writes when invoked
// without explicit overrides.
type DefaultsConfig struct {
	MakeBaseFile        string `mapstructure:"make_base_file"`
	ProcessRequestsFile string `mapstructure:"process_requests_file"`
	ResultFile          string `mapstructure:"result_file"`
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Load reads configuration from defaults, an optional config.yaml, and
// TRANSITCAT_-prefixed environment variables, in that order of increasing
// precedence.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("defaults.make_base_file", "make_base.json")
	v.SetDefault("defaults.process_requests_file", "process_requests.json")
	v.SetDefault("defaults.result_file", "result.json")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	v.SetEnvPrefix("TRANSITCAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level must be one of debug/info/warn/error, got %q", c.Log.Level))
	}
	format := strings.ToLower(c.Log.Format)
	if format != "json" && format != "text" {
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}
	if c.Defaults.MakeBaseFile == "" {
		errs = append(errs, "defaults.make_base_file is required")
	}
	if c.Defaults.ProcessRequestsFile == "" {
		errs = append(errs, "defaults.process_requests_file is required")
	}
	if c.Defaults.ResultFile == "" {
		errs = append(errs, "defaults.result_file is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
