// Package optimization holds the result of solving a plan for a target.
package optimization

// Summary reports what the spending solver found for one plan.
type Summary struct {
	// Field names the plan setting that was solved for.
	Field string `json:"field"`
	// Original is the configured value before solving.
	Original float64 `json:"original"`
	// Value is the highest value that keeps the portfolio positive to MaxAge.
	Value  float64 `json:"value"`
	MaxAge float64 `json:"maxAge"`
	// EndingBalance is the portfolio value on the last month at Value.
	EndingBalance float64  `json:"endingBalance"`
	Iterations    int      `json:"iterations"`
	Converged     bool     `json:"converged"`
	Notes         []string `json:"notes,omitempty"`

	OriginalDisplay string `json:"originalDisplay,omitempty"`
	ValueDisplay    string `json:"valueDisplay,omitempty"`
}

// Improved reports whether the solved value is above the configured one.
func (s Summary) Improved() bool {
	return s.Value > s.Original
}
