// Package seasonal fits an additive trend plus weekly and yearly seasonality
// model to a dated series and forecasts it.
//
// The model is
//
//	y(t) = k + m*t + sum_j d_j*(t - c_j)+ + s_week(t) + s_year(t) + e
//
// where t is time scaled to [0, 1] over the history, c_j are evenly spaced
// changepoints and the seasonal terms are Fourier series. Coefficients are
// estimated by ridge-penalised least squares, so a fit is deterministic for a
// given series and Config.
package seasonal

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/finance-projection/pkg/constants"
	"github.com/iwvelando/finance-projection/pkg/datetime"
	"github.com/iwvelando/finance-projection/pkg/series"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInsufficientHistory is returned when the series is too short or too
// sparse to estimate yearly seasonality.
var ErrInsufficientHistory = errors.New("insufficient history for seasonal model")

// ErrSingularSystem is returned when the normal equations cannot be solved.
var ErrSingularSystem = errors.New("seasonal model system is singular")

// Mode selects how ForecastMonths aggregates daily predictions.
type Mode int

const (
	// Sum adds the daily predictions of each month; used for flows.
	Sum Mode = iota
	// Point takes the prediction at each month's anchor date; used for
	// valuations.
	Point
)

// Forecast is a single prediction with its uncertainty band.
type Forecast struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Lower float64   `json:"lower"`
	Upper float64   `json:"upper"`
}

// Model is a fitted seasonal model. It is immutable once returned by Fit.
type Model struct {
	cfg          Config
	start        time.Time
	end          time.Time
	spanDays     float64
	changepoints []float64
	beta         []float64
	scale        float64
	sigma        float64
	z            float64
	n            int
}

// Fit estimates a model from the observations in s. Every point is one
// observation; aggregate flows per day before fitting.
func Fit(s series.Series, cfg Config) (*Model, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	points := s.Points()
	if len(points) < cfg.MinObservations {
		return nil, fmt.Errorf("%w: %d observations, need %d", ErrInsufficientHistory, len(points), cfg.MinObservations)
	}
	span := s.SpanDays()
	if span < cfg.MinCycles*constants.DaysPerYear {
		return nil, fmt.Errorf("%w: history spans %.0f days, need %.0f", ErrInsufficientHistory, span, cfg.MinCycles*constants.DaysPerYear)
	}

	m := &Model{
		cfg:      cfg,
		start:    points[0].Time,
		end:      points[len(points)-1].Time,
		spanDays: span,
		n:        len(points),
	}
	m.changepoints = make([]float64, cfg.Changepoints)
	for j := range m.changepoints {
		m.changepoints[j] = cfg.ChangepointRange * float64(j+1) / float64(cfg.Changepoints+1)
	}

	for _, p := range points {
		if a := math.Abs(p.Amount); a > m.scale {
			m.scale = a
		}
	}
	if m.scale == 0 {
		m.scale = 1
	}

	cols := m.columns()
	x := mat.NewDense(len(points), cols, nil)
	y := mat.NewVecDense(len(points), nil)
	for i, p := range points {
		x.SetRow(i, m.features(p.Time))
		y.SetVec(i, p.Amount/m.scale)
	}

	var xtx mat.SymDense
	xtx.SymOuterK(1, x.T())
	for c := 0; c < cols; c++ {
		xtx.SetSym(c, c, xtx.At(c, c)+m.penalty(c))
	}
	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return nil, ErrSingularSystem
	}
	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &xty); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularSystem, err)
	}
	m.beta = make([]float64, cols)
	for c := range m.beta {
		m.beta[c] = beta.AtVec(c)
	}

	sse := 0.0
	for i, p := range points {
		r := p.Amount - m.value(x.RawRowView(i))
		sse += r * r
	}
	m.sigma = math.Sqrt(sse / float64(len(points)))
	m.z = distuv.UnitNormal.Quantile(0.5 + cfg.IntervalWidth/2)

	return m, nil
}

// Predict returns exactly one forecast per requested date, in order.
func (m *Model) Predict(dates []time.Time) []Forecast {
	out := make([]Forecast, len(dates))
	for i, d := range dates {
		v := m.value(m.features(d))
		h := math.Max(0, datetime.DaysBetween(m.end, d))
		band := m.z * m.sigma * math.Sqrt(1+h/float64(m.n))
		out[i] = Forecast{Date: d, Value: v, Lower: v - band, Upper: v + band}
	}
	return out
}

// ForecastMonths returns n monthly values for the calendar months starting
// at start's month. Sum mode adds the daily predictions of each month,
// floored at zero; Point mode evaluates the model at each month's anchor date,
// which is start advanced by whole months.
func (m *Model) ForecastMonths(start time.Time, n int, mode Mode) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	switch mode {
	case Point:
		dates := make([]time.Time, n)
		for i := range dates {
			dates[i] = datetime.AddMonths(start, i)
		}
		for i, f := range m.Predict(dates) {
			out[i] = f.Value
		}
	default:
		origin := datetime.MonthStart(start)
		for i := 0; i < n; i++ {
			month := datetime.AddMonths(origin, i)
			days := make([]time.Time, datetime.DaysInMonth(month))
			for d := range days {
				days[d] = month.AddDate(0, 0, d)
			}
			total := 0.0
			for _, f := range m.Predict(days) {
				total += f.Value
			}
			out[i] = math.Max(0, total)
		}
	}
	return out
}

// Observations returns the number of points the model was fitted on.
func (m *Model) Observations() int {
	return m.n
}

// ResidualStdDev returns the in-sample residual standard deviation.
func (m *Model) ResidualStdDev() float64 {
	return m.sigma
}

func (m *Model) columns() int {
	return 2 + len(m.changepoints) + 2*m.cfg.WeeklyOrder + 2*m.cfg.YearlyOrder
}

// penalty returns the ridge weight for column c. The intercept and base slope
// get a tiny weight so the system stays positive definite.
func (m *Model) penalty(c int) float64 {
	switch {
	case c < 2:
		return 1e-9
	case c < 2+len(m.changepoints):
		return m.cfg.ChangepointPenalty
	default:
		return m.cfg.SeasonalityPenalty
	}
}

func (m *Model) features(d time.Time) []float64 {
	days := datetime.DaysBetween(m.start, d)
	t := days / m.spanDays

	row := make([]float64, 0, m.columns())
	row = append(row, 1, t)
	for _, c := range m.changepoints {
		row = append(row, math.Max(0, t-c))
	}
	row = appendFourier(row, days, constants.DaysPerWeek, m.cfg.WeeklyOrder)
	row = appendFourier(row, days, constants.DaysPerYear, m.cfg.YearlyOrder)
	return row
}

func (m *Model) value(row []float64) float64 {
	v := 0.0
	for c, b := range m.beta {
		v += b * row[c]
	}
	return v * m.scale
}

func appendFourier(row []float64, days, period float64, order int) []float64 {
	for k := 1; k <= order; k++ {
		arg := 2 * math.Pi * float64(k) * days / period
		row = append(row, math.Sin(arg), math.Cos(arg))
	}
	return row
}
