// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a single payoff search.
type Summary struct {
	Scope          string   `json:"scope"`
	TargetID       string   `json:"target_id"`
	TargetName     string   `json:"target_name"`
	Field          string   `json:"field"`
	Original       float64  `json:"original"`
	Value          float64  `json:"value"`
	TargetMonths   int      `json:"target_months"`
	MonthsToPayoff int      `json:"months_to_payoff"`
	InterestSaved  float64  `json:"interest_saved"`
	Iterations     int      `json:"iterations"`
	Converged      bool     `json:"converged"`
	Notes          []string `json:"notes,omitempty"`
}
