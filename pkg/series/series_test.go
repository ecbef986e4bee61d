package series

import (
	"math"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewSortsWithoutMutatingInput(t *testing.T) {
	input := []Point{
		{Time: day(2025, 3, 1), Amount: 3},
		{Time: day(2025, 1, 1), Amount: 1},
		{Time: day(2025, 2, 1), Amount: 2},
	}
	s := New(input)

	if input[0].Amount != 3 {
		t.Fatalf("New mutated its input")
	}
	points := s.Points()
	for i, want := range []float64{1, 2, 3} {
		if points[i].Amount != want {
			t.Errorf("point %d amount = %v, want %v", i, points[i].Amount, want)
		}
	}

	points[0].Amount = 99
	if first, _ := s.First(); first.Amount != 1 {
		t.Errorf("Points() leaked the backing slice")
	}
}

func TestMonthlyTotals(t *testing.T) {
	s := New([]Point{
		{Time: day(2025, 1, 5), Amount: 3000},
		{Time: day(2025, 1, 9), Amount: -120.5},
		{Time: day(2025, 1, 20), Amount: -79.5},
		{Time: day(2025, 3, 2), Amount: 3100},
		{Time: day(2025, 3, 15), Amount: -250},
		{Time: day(2024, 12, 31), Amount: -999},
	})

	income := MonthlyTotals(s, day(2025, 1, 17), 3, Positive)
	expenses := MonthlyTotals(s, day(2025, 1, 17), 3, Negative)

	wantIncome := []float64{3000, 0, 3100}
	wantExpenses := []float64{200, 0, 250}
	for i := range wantIncome {
		if math.Abs(income[i]-wantIncome[i]) > 1e-9 {
			t.Errorf("income[%d] = %v, want %v", i, income[i], wantIncome[i])
		}
		if math.Abs(expenses[i]-wantExpenses[i]) > 1e-9 {
			t.Errorf("expenses[%d] = %v, want %v", i, expenses[i], wantExpenses[i])
		}
	}

	if MonthlyTotals(s, day(2025, 1, 1), 0, Any) != nil {
		t.Errorf("zero months should yield nil")
	}
}

func TestMonthlyLastCarriesForward(t *testing.T) {
	s := New([]Point{
		{Time: day(2025, 2, 10), Amount: 1100},
		{Time: day(2025, 2, 25), Amount: 1150},
		{Time: day(2025, 4, 3), Amount: 1300},
	})

	got := MonthlyLast(s, day(2025, 1, 1), 5, 1000)
	want := []float64{1000, 1150, 1150, 1300, 1300}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDailyTotals(t *testing.T) {
	s := New([]Point{
		{Time: day(2025, 1, 1), Amount: -10},
		{Time: day(2025, 1, 1), Amount: -5},
		{Time: day(2025, 1, 4), Amount: -20},
		{Time: day(2025, 1, 3), Amount: 50},
	})

	dates, values := DailyTotals(s, Negative)
	if len(dates) != 4 || len(values) != 4 {
		t.Fatalf("expected 4 daily buckets, got %d", len(values))
	}
	want := []float64{15, 0, 0, 20}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("day %d = %v, want %v", i, values[i], want[i])
		}
	}

	if d, v := DailyTotals(Series{}, Any); d != nil || v != nil {
		t.Errorf("empty series should produce no buckets")
	}
}

func TestFilterAndSpan(t *testing.T) {
	s := New([]Point{
		{Time: day(2025, 1, 1), Amount: 10},
		{Time: day(2025, 1, 31), Amount: -4},
	})
	if got := s.Filter(Negative); got.Len() != 1 {
		t.Errorf("Filter(Negative) len = %d, want 1", got.Len())
	} else if p, _ := got.First(); p.Amount != 4 {
		t.Errorf("Filter(Negative) amount = %v, want 4", p.Amount)
	}
	if span := s.SpanDays(); span != 30 {
		t.Errorf("SpanDays = %v, want 30", span)
	}
	if got := s.Between(day(2025, 1, 2), day(2025, 2, 1)); got.Len() != 1 {
		t.Errorf("Between len = %d, want 1", got.Len())
	}
}
