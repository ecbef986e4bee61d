// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the config.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/finance-projection/pkg/constants"
	"github.com/iwvelando/finance-projection/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for finance-projection.
type Configuration struct {
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging,omitempty"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output,omitempty"`
	Projection ProjectionConfig `mapstructure:"projection" yaml:"projection,omitempty"`
	Portfolio  Portfolio        `mapstructure:"portfolio" yaml:"portfolio,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format,omitempty"` // pretty, csv, json
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.Projection.Normalize()
	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings. Errors that make a projection impossible are reported by
// Portfolio.ToFinance instead.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			warnings = append(warnings, fmt.Sprintf("Output format ignored: %s", err))
		}
	}
	if c.Projection.Mode != "" {
		if err := validation.ValidateMode(c.Projection.Mode); err != nil {
			warnings = append(warnings, fmt.Sprintf("Projection mode ignored: %s", err))
		}
	}
	if c.Projection.Months > c.Projection.MaxMonths {
		warnings = append(warnings, fmt.Sprintf("Projection months %d exceeds the maximum of %d",
			c.Projection.Months, c.Projection.MaxMonths))
	}
	if c.Projection.MaxMonths > constants.MaxHorizonMonths {
		warnings = append(warnings, fmt.Sprintf("Projection maxMonths %d is above the supported %d",
			c.Projection.MaxMonths, constants.MaxHorizonMonths))
	}

	snapshot, err := c.Portfolio.ToFinance()
	if err != nil {
		return append(warnings, fmt.Sprintf("Portfolio cannot be converted: %s", err))
	}
	validator := validation.PortfolioValidator{
		Assets:       snapshot.Assets,
		Debts:        snapshot.Debts,
		Transactions: snapshot.Transactions,
	}
	return append(warnings, validator.ValidateAll()...)
}
