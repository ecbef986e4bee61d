package seasonal

import "github.com/iwvelando/finance-projection/pkg/finance"

// Config holds the tunables of the additive model. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// Changepoints is the number of evenly spaced trend hinges.
	Changepoints int `mapstructure:"changepoints" yaml:"changepoints,omitempty" json:"changepoints"`
	// ChangepointRange is the leading share of history the hinges cover.
	ChangepointRange float64 `mapstructure:"changepointRange" yaml:"changepointRange,omitempty" json:"changepoint_range"`
	// ChangepointPenalty is the ridge weight applied to each hinge slope.
	ChangepointPenalty float64 `mapstructure:"changepointPenalty" yaml:"changepointPenalty,omitempty" json:"changepoint_penalty"`
	// SeasonalityPenalty is the ridge weight applied to each Fourier term.
	SeasonalityPenalty float64 `mapstructure:"seasonalityPenalty" yaml:"seasonalityPenalty,omitempty" json:"seasonality_penalty"`
	WeeklyOrder        int     `mapstructure:"weeklyOrder" yaml:"weeklyOrder,omitempty" json:"weekly_order"`
	YearlyOrder        int     `mapstructure:"yearlyOrder" yaml:"yearlyOrder,omitempty" json:"yearly_order"`
	// IntervalWidth is the coverage of the Lower/Upper band, in (0, 1).
	IntervalWidth float64 `mapstructure:"intervalWidth" yaml:"intervalWidth,omitempty" json:"interval_width"`
	// MinCycles is the number of yearly cycles the history must span.
	MinCycles float64 `mapstructure:"minCycles" yaml:"minCycles,omitempty" json:"min_cycles"`
	// MinObservations is the fewest observations a fit accepts.
	MinObservations int `mapstructure:"minObservations" yaml:"minObservations,omitempty" json:"min_observations"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Changepoints:       25,
		ChangepointRange:   0.8,
		ChangepointPenalty: 10,
		SeasonalityPenalty: 1,
		WeeklyOrder:        3,
		YearlyOrder:        10,
		IntervalWidth:      0.8,
		MinCycles:          2,
		MinObservations:    24,
	}
}

// Validate checks that the configuration can produce a model.
func (c Config) Validate() error {
	switch {
	case c.Changepoints < 0:
		return finance.InvalidInput("seasonal changepoints %d must not be negative", c.Changepoints)
	case c.ChangepointRange <= 0 || c.ChangepointRange > 1:
		return finance.InvalidInput("seasonal changepoint range %.2f must be in (0, 1]", c.ChangepointRange)
	case c.ChangepointPenalty < 0 || c.SeasonalityPenalty < 0:
		return finance.InvalidInput("seasonal penalties must not be negative")
	case c.WeeklyOrder < 0 || c.YearlyOrder < 0:
		return finance.InvalidInput("seasonal Fourier orders must not be negative")
	case c.IntervalWidth <= 0 || c.IntervalWidth >= 1:
		return finance.InvalidInput("seasonal interval width %.2f must be in (0, 1)", c.IntervalWidth)
	case c.MinCycles < 0 || c.MinObservations < 2:
		return finance.InvalidInput("seasonal history requirements are invalid")
	}
	return nil
}

// WithDefaults fills zero fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Changepoints == 0 {
		c.Changepoints = d.Changepoints
	}
	if c.ChangepointRange == 0 {
		c.ChangepointRange = d.ChangepointRange
	}
	if c.ChangepointPenalty == 0 {
		c.ChangepointPenalty = d.ChangepointPenalty
	}
	if c.SeasonalityPenalty == 0 {
		c.SeasonalityPenalty = d.SeasonalityPenalty
	}
	if c.WeeklyOrder == 0 {
		c.WeeklyOrder = d.WeeklyOrder
	}
	if c.YearlyOrder == 0 {
		c.YearlyOrder = d.YearlyOrder
	}
	if c.IntervalWidth == 0 {
		c.IntervalWidth = d.IntervalWidth
	}
	if c.MinCycles == 0 {
		c.MinCycles = d.MinCycles
	}
	if c.MinObservations == 0 {
		c.MinObservations = d.MinObservations
	}
	return c
}
