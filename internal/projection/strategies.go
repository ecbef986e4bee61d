package projection

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/finance-projection/pkg/amortization"
	"github.com/iwvelando/finance-projection/pkg/datetime"
	"github.com/iwvelando/finance-projection/pkg/finance"
	"github.com/iwvelando/finance-projection/pkg/seasonal"
	"github.com/iwvelando/finance-projection/pkg/series"
	"github.com/iwvelando/finance-projection/pkg/trend"
	"go.uber.org/zap"
)

// assetValues returns months+1 values for asset, month 0 being the current
// value. A failing strategy downgrades the asset to a flat line and reports
// a warning instead of an error.
func (e *Engine) assetValues(asset finance.Asset, start time.Time, months int) ([]float64, Method, []string) {
	values, method, err := e.projectAsset(asset, start, months)
	if err != nil {
		e.logger.Warn(fmt.Sprintf("asset %s projection failed, projecting flat", asset.ID),
			zap.String("op", "projection.assetValues"),
			zap.Error(err),
		)
		return flat(asset.CurrentValue, months), MethodFlat,
			[]string{fmt.Sprintf("asset %s projected flat: %s", asset.Name, err)}
	}
	for i, v := range values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			values[i] = 0
		}
	}
	values[0] = asset.CurrentValue
	return values, method, nil
}

func (e *Engine) projectAsset(asset finance.Asset, start time.Time, months int) ([]float64, Method, error) {
	switch asset.ResolvedCategory() {
	case finance.CategoryMarket:
		if asset.History.Len() > 0 {
			values, err := e.seasonalValuation(asset, start, months)
			if err == nil {
				return values, MethodSeasonal, nil
			}
			e.logSeasonalFallback(asset.ID, err)
			if values, ok := e.trendValuation(asset, start, months); ok {
				return values, MethodTrend, nil
			}
		}
		if asset.AnnualReturn != 0 {
			values, err := amortization.ProjectGrowth(asset.CurrentValue, asset.AnnualReturn, months)
			return values, MethodGrowth, err
		}
	case finance.CategoryCash:
		if asset.InterestRate > 0 {
			values, err := amortization.ProjectGrowth(asset.CurrentValue, asset.InterestRate, months)
			return values, MethodGrowth, err
		}
	case finance.CategoryRealEstate:
		if asset.History.Len() > 0 {
			if values, ok := e.trendValuation(asset, start, months); ok {
				return values, MethodTrend, nil
			}
		}
		if asset.AnnualReturn != 0 {
			values, err := amortization.ProjectGrowth(asset.CurrentValue, asset.AnnualReturn, months)
			return values, MethodGrowth, err
		}
	}
	return flat(asset.CurrentValue, months), MethodFlat, nil
}

// seasonalValuation evaluates a seasonal model at each month anchor and
// shifts the curve so month 0 equals the current value.
func (e *Engine) seasonalValuation(asset finance.Asset, start time.Time, months int) ([]float64, error) {
	model, err := seasonal.Fit(asset.History, e.opts.Seasonal)
	if err != nil {
		return nil, err
	}
	e.logSeasonalFit(asset.ID, model)
	predicted := model.ForecastMonths(start, months+1, seasonal.Point)
	offset := asset.CurrentValue - predicted[0]
	values := make([]float64, months+1)
	values[0] = asset.CurrentValue
	for m := 1; m <= months; m++ {
		values[m] = predicted[m] + offset
	}
	return values, nil
}

// trendValuation fits a line through month-end valuations over the lookback
// window ending at start's month and continues it from the current value.
func (e *Engine) trendValuation(asset finance.Asset, start time.Time, months int) ([]float64, bool) {
	lookback := e.opts.LookbackMonths
	window := datetime.AddMonths(datetime.MonthStart(start), -(lookback - 1))
	first, ok := asset.History.First()
	if !ok {
		return nil, false
	}
	buckets := series.MonthlyLast(asset.History, window, lookback, first.Amount)
	if skip := datetime.MonthsBetween(window, first.Time); skip > 0 {
		if skip >= len(buckets) {
			return nil, false
		}
		buckets = buckets[skip:]
	}
	if len(buckets) < 2 {
		return nil, false
	}

	model := trend.Fit(buckets)
	projected := model.Anchor(model.ProjectUnclamped(months), asset.CurrentValue)
	values := make([]float64, 0, months+1)
	values = append(values, asset.CurrentValue)
	values = append(values, projected...)
	return values, true
}

type flowEstimate struct {
	values    []float64
	method    Method
	direction trend.Direction
}

// estimateFlow projects the monthly totals of the amounts selected by sign
// for the months following start's month. Seasonal is used when the history
// supports it, otherwise a trend over the lookback window.
func (e *Engine) estimateFlow(flows series.Series, sign series.Sign, start time.Time, months int, label string) flowEstimate {
	selected := flows.Filter(sign)
	if selected.Len() == 0 || months == 0 {
		return flowEstimate{values: make([]float64, months), method: MethodNone, direction: trend.Decreasing}
	}

	dates, totals := series.DailyTotals(selected, series.Any)
	daily := make([]series.Point, len(dates))
	for i := range dates {
		daily[i] = series.Point{Time: dates[i], Amount: totals[i]}
	}
	model, err := seasonal.Fit(series.New(daily), e.opts.Seasonal)
	if err == nil {
		e.logSeasonalFit(label, model)
		values := model.ForecastMonths(datetime.AddMonths(start, 1), months, seasonal.Sum)
		return flowEstimate{values: values, method: MethodSeasonal, direction: trend.Fit(values).Direction()}
	}
	e.logSeasonalFallback(label, err)

	lookback := e.opts.LookbackMonths
	window := datetime.AddMonths(datetime.MonthStart(start), -lookback)
	buckets := series.MonthlyTotals(selected, window, lookback, series.Any)
	first, _ := selected.First()
	if skip := datetime.MonthsBetween(window, first.Time); skip > 0 {
		if skip >= len(buckets) {
			// No complete month yet: the partial as-of month is the only bucket.
			buckets = series.MonthlyTotals(selected, datetime.MonthStart(start), 1, series.Any)
			if buckets[0] == 0 {
				return flowEstimate{values: make([]float64, months), method: MethodNone, direction: trend.Decreasing}
			}
			e.logger.Debug(fmt.Sprintf("%s history covers only the as-of month, projecting it flat", label),
				zap.String("op", "projection.estimateFlow"),
			)
		} else {
			buckets = buckets[skip:]
		}
	}

	fitted := trend.Fit(buckets)
	values := fitted.Project(months + 1)[1:]
	return flowEstimate{values: values, method: MethodTrend, direction: fitted.Direction()}
}

func (e *Engine) logSeasonalFit(subject string, model *seasonal.Model) {
	e.logger.Debug(fmt.Sprintf("seasonal model fitted for %s", subject),
		zap.String("op", "projection.seasonal"),
		zap.Int("observations", model.Observations()),
		zap.Float64("residual_std_dev", model.ResidualStdDev()),
	)
}

func (e *Engine) logSeasonalFallback(subject string, err error) {
	if errors.Is(err, seasonal.ErrInsufficientHistory) {
		e.logger.Debug(fmt.Sprintf("seasonal model skipped for %s, using trend", subject),
			zap.String("op", "projection.seasonal"),
			zap.Error(err),
		)
		return
	}
	e.logger.Warn(fmt.Sprintf("seasonal model failed for %s, using trend", subject),
		zap.String("op", "projection.seasonal"),
		zap.Error(err),
	)
}

func flat(value float64, months int) []float64 {
	out := make([]float64, months+1)
	for i := range out {
		out[i] = value
	}
	return out
}
