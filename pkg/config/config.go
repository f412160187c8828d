package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the runtime settings, resolved from config file, environment
// and flags (flags win).
type Config struct {
	// DataFile is the YAML key-value store backing the account collection.
	DataFile string `mapstructure:"data-file"`
	// Model names the Gemini model used for registrar lookups.
	Model string `mapstructure:"model"`
	// Addr is the HTTP listen address for serve mode.
	Addr string `mapstructure:"addr"`
}

// Build loads the configuration. cfgFile may be empty, in which case an
// optional config.yaml in the working directory is used.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		// Missing default config is fine; defaults and flags cover it.
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("ipotrak")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// Flags bound with empty defaults shadow viper defaults, so the fallbacks
	// are applied after resolution instead.
	if cfg.DataFile == "" {
		home, _ := os.UserHomeDir()
		cfg.DataFile = filepath.Join(home, ".ipotrak", "store.yaml")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return &cfg, nil
}
