// Package projection combines amortization, trend, seasonal and recurrence
// estimates into month-by-month net-worth and cash-flow projections.
package projection

import (
	"time"

	"github.com/iwvelando/finance-projection/internal/config"
	"github.com/iwvelando/finance-projection/internal/optimizer"
	"github.com/iwvelando/finance-projection/pkg/amortization"
	"github.com/iwvelando/finance-projection/pkg/constants"
	"github.com/iwvelando/finance-projection/pkg/datetime"
	"github.com/iwvelando/finance-projection/pkg/finance"
	"github.com/iwvelando/finance-projection/pkg/seasonal"
	"github.com/iwvelando/finance-projection/pkg/validation"
	"go.uber.org/zap"
)

// Options are the immutable engine settings.
type Options struct {
	MaxMonths      int
	LookbackMonths int
	Seasonal       seasonal.Config
	Payoff         config.PayoffConfig
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	var payoff config.PayoffConfig
	payoff.Normalize()
	return Options{
		MaxMonths:      constants.MaxHorizonMonths,
		LookbackMonths: constants.DefaultLookbackMonths,
		Seasonal:       seasonal.DefaultConfig(),
		Payoff:         payoff,
	}
}

// OptionsFromConfig builds Options from the projection section of the
// configuration.
func OptionsFromConfig(conf config.ProjectionConfig) Options {
	conf.Normalize()
	return Options{
		MaxMonths:      conf.MaxMonths,
		LookbackMonths: conf.LookbackMonths,
		Seasonal:       conf.Seasonal,
		Payoff:         conf.Payoff,
	}
}

// Engine runs projections. It keeps no per-request state, so one Engine may
// serve concurrent requests.
type Engine struct {
	logger *zap.Logger
	opts   Options
	debts  *amortization.Calculator
	payoff *optimizer.Runner
}

// NewEngine creates an engine. Zero option fields take their defaults.
func NewEngine(logger *zap.Logger, opts Options) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultOptions()
	if opts.MaxMonths <= 0 {
		opts.MaxMonths = defaults.MaxMonths
	}
	if opts.MaxMonths > constants.MaxHorizonMonths {
		opts.MaxMonths = constants.MaxHorizonMonths
	}
	if opts.LookbackMonths <= 0 {
		opts.LookbackMonths = defaults.LookbackMonths
	}
	opts.Seasonal = opts.Seasonal.WithDefaults()
	if err := opts.Seasonal.Validate(); err != nil {
		return nil, err
	}

	runner, err := optimizer.NewRunner(logger, opts.Payoff)
	if err != nil {
		return nil, err
	}

	return &Engine{
		logger: logger,
		opts:   opts,
		debts:  amortization.NewCalculator(logger),
		payoff: runner,
	}, nil
}

// Options returns the effective engine options.
func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) validate(portfolio finance.Portfolio, months int) error {
	if err := validation.ValidateHorizon(months, e.opts.MaxMonths); err != nil {
		return err
	}
	return portfolio.Validate()
}

func asOf(portfolio finance.Portfolio) time.Time {
	if portfolio.AsOf.IsZero() {
		return datetime.Day(time.Now().UTC())
	}
	return portfolio.AsOf
}

func monthDate(start time.Time, m int) string {
	return datetime.AddMonths(start, m).Format(constants.DateLayout)
}
