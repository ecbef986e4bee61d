package config

import (
	"fmt"

	"github.com/iwvelando/finance-projection/pkg/constants"
	"github.com/iwvelando/finance-projection/pkg/seasonal"
)

const (
	defaultPayoffTolerance     = 0.01
	defaultPayoffMaxIterations = 60
)

// ProjectionConfig holds the engine tunables.
type ProjectionConfig struct {
	Mode           string          `mapstructure:"mode" yaml:"mode,omitempty" json:"mode,omitempty"`
	Months         int             `mapstructure:"months" yaml:"months,omitempty" json:"months,omitempty"`
	MaxMonths      int             `mapstructure:"maxMonths" yaml:"maxMonths,omitempty" json:"max_months,omitempty"`
	LookbackMonths int             `mapstructure:"lookbackMonths" yaml:"lookbackMonths,omitempty" json:"lookback_months,omitempty"`
	Seasonal       seasonal.Config `mapstructure:"seasonal" yaml:"seasonal,omitempty" json:"seasonal"`
	Payoff         PayoffConfig    `mapstructure:"payoff" yaml:"payoff,omitempty" json:"payoff"`
}

// PayoffConfig directs the payoff optimizer. A zero TargetMonths disables it.
type PayoffConfig struct {
	TargetMonths  int     `mapstructure:"targetMonths" yaml:"targetMonths,omitempty" json:"target_months,omitempty"`
	Tolerance     float64 `mapstructure:"tolerance" yaml:"tolerance,omitempty" json:"tolerance,omitempty"`
	MaxIterations int     `mapstructure:"maxIterations" yaml:"maxIterations,omitempty" json:"max_iterations,omitempty"`
}

// Normalize ensures defaults are applied before validation.
func (p *ProjectionConfig) Normalize() {
	if p == nil {
		return
	}
	if p.Mode == "" {
		p.Mode = constants.ModePortfolio
	}
	if p.MaxMonths <= 0 {
		p.MaxMonths = constants.MaxHorizonMonths
	}
	if p.Months <= 0 {
		p.Months = constants.DefaultHorizonMonths
	}
	if p.LookbackMonths <= 0 {
		p.LookbackMonths = constants.DefaultLookbackMonths
	}
	p.Seasonal = p.Seasonal.WithDefaults()
	p.Payoff.Normalize()
}

// Normalize ensures defaults are applied before validation.
func (o *PayoffConfig) Normalize() {
	if o == nil {
		return
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultPayoffTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultPayoffMaxIterations
	}
}

// Validate returns an error when the payoff configuration is unsupported.
func (o *PayoffConfig) Validate() error {
	if o == nil {
		return fmt.Errorf("payoff configuration cannot be nil")
	}
	o.Normalize()
	if o.TargetMonths < 0 {
		return fmt.Errorf("payoff target %d months must not be negative", o.TargetMonths)
	}
	if o.TargetMonths > constants.MaxPayoffMonths {
		return fmt.Errorf("payoff target %d months exceeds %d", o.TargetMonths, constants.MaxPayoffMonths)
	}
	return nil
}
