// Package config layers command line flags, WOF_POSTCODES_* environment
// variables and an optional config file into a single Config.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, so --log-level can
// also be set with WOF_POSTCODES_LOG_LEVEL.
const EnvPrefix = "WOF_POSTCODES"

// Config holds every setting the commands understand. Each command only
// reads the fields it needs.
type Config struct {
	AreasPath string `mapstructure:"areas"`
	LogLevel  string `mapstructure:"log-level"`

	ONSCSVPaths []string `mapstructure:"ons-csv-path"`
	ONSDate     string   `mapstructure:"ons-date"`
	Concurrency int      `mapstructure:"concurrency"`

	WOFAdminDataPath   string `mapstructure:"wof-admin-data-path"`
	WOFPostalcodesPath string `mapstructure:"wof-postalcodes-path"`
	PrefixFilter       string `mapstructure:"prefix-filter"`
	DryRun             bool   `mapstructure:"dry-run"`

	Strict bool `mapstructure:"strict"`
}

// Load resolves flags, then environment, then configFile (TOML, YAML or
// JSON, by extension) into a Config. Flags set explicitly always win.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}
