package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the server settings. Values come from fairdraw.yaml in the
// working directory, overridable through FAIRDRAW_* environment variables.
type Config struct {
	Addr    string `mapstructure:"addr"`
	DBPath  string `mapstructure:"db_path"`
	GinMode string `mapstructure:"gin_mode"`
	Verbose bool   `mapstructure:"verbose"`
	// FullDisclosure stores the complete per-entry score log inside each
	// proof. Winner-only proofs are smaller but require auditors to supply
	// the entry list themselves.
	FullDisclosure bool `mapstructure:"full_disclosure"`
}

// Load reads the configuration. A missing config file is fine; defaults and
// environment variables cover everything.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("db_path", "fairdraw.db")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("verbose", false)
	v.SetDefault("full_disclosure", true)

	v.SetConfigName("fairdraw")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("fairdraw")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}
	return &cfg, nil
}
