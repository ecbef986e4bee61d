// Package series holds the immutable dated-amount series fed to the trend and
// seasonal estimators, and the calendar bucketing applied before fitting.
package series

import (
	"math"
	"sort"
	"time"

	"github.com/iwvelando/finance-projection/pkg/datetime"
)

// Point is a single dated amount.
type Point struct {
	Time   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// Sign selects which amounts a bucketing pass accumulates.
type Sign int

const (
	// Any accumulates every amount as-is.
	Any Sign = iota
	// Positive accumulates inflows only.
	Positive
	// Negative accumulates outflows only, reported as positive magnitudes.
	Negative
)

// Series is an ordered sequence of dated amounts. The zero value is an empty
// series. A Series never exposes its backing slice.
type Series struct {
	points []Point
}

// New copies points, orders them by time and returns the series. Points with
// equal timestamps keep their input order.
func New(points []Point) Series {
	if len(points) == 0 {
		return Series{}
	}
	cp := make([]Point, len(points))
	copy(cp, points)
	sort.SliceStable(cp, func(i, j int) bool {
		return cp[i].Time.Before(cp[j].Time)
	})
	return Series{points: cp}
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.points)
}

// Points returns a copy of the points.
func (s Series) Points() []Point {
	if len(s.points) == 0 {
		return nil
	}
	cp := make([]Point, len(s.points))
	copy(cp, s.points)
	return cp
}

// First returns the earliest point.
func (s Series) First() (Point, bool) {
	if len(s.points) == 0 {
		return Point{}, false
	}
	return s.points[0], true
}

// Last returns the latest point.
func (s Series) Last() (Point, bool) {
	if len(s.points) == 0 {
		return Point{}, false
	}
	return s.points[len(s.points)-1], true
}

// SpanDays returns the number of days between the first and last points.
func (s Series) SpanDays() float64 {
	first, ok := s.First()
	if !ok {
		return 0
	}
	last, _ := s.Last()
	return datetime.DaysBetween(first.Time, last.Time)
}

// Between returns the points with from <= t < to.
func (s Series) Between(from, to time.Time) Series {
	var out []Point
	for _, p := range s.points {
		if !p.Time.Before(from) && p.Time.Before(to) {
			out = append(out, p)
		}
	}
	return Series{points: out}
}

// Filter returns a series restricted to the amounts selected by sign, with
// Negative amounts flipped to positive magnitudes.
func (s Series) Filter(sign Sign) Series {
	var out []Point
	for _, p := range s.points {
		if v, ok := selectAmount(p.Amount, sign); ok {
			out = append(out, Point{Time: p.Time, Amount: v})
		}
	}
	return Series{points: out}
}

func selectAmount(amount float64, sign Sign) (float64, bool) {
	switch sign {
	case Positive:
		if amount > 0 {
			return amount, true
		}
		return 0, false
	case Negative:
		if amount < 0 {
			return math.Abs(amount), true
		}
		return 0, false
	default:
		return amount, true
	}
}
