package model

// CPFContribution breaks a month's contribution down by payer and account.
type CPFContribution struct {
	Total      float64 `json:"total"`
	Employee   float64 `json:"employee"`
	Employer   float64 `json:"employer"`
	Ordinary   float64 `json:"ordinary"`
	Special    float64 `json:"special"`
	Medisave   float64 `json:"medisave"`
	Retirement float64 `json:"retirement"`
}

// CPFInterest breaks a month's interest down by account. Extra is the bonus
// tier, already included in Special (Retirement once consolidated).
type CPFInterest struct {
	Ordinary   float64 `json:"ordinary"`
	Special    float64 `json:"special"`
	Medisave   float64 `json:"medisave"`
	Retirement float64 `json:"retirement"`
	Extra      float64 `json:"extra"`
}

// Total sums the per-account interest.
func (i CPFInterest) Total() float64 {
	return i.Ordinary + i.Special + i.Medisave + i.Retirement
}

// CPFMonth is the mandatory-savings snapshot attached to a data point.
type CPFMonth struct {
	MonthlyContribution     CPFContribution `json:"monthlyContribution"`
	MonthlyInterest         CPFInterest     `json:"monthlyInterest"`
	Accounts                CPFAccounts     `json:"accounts"`
	YearToDateContributions float64         `json:"yearToDateContributions"`
	// LoanDraw is what the ordinary account paid towards housing loans.
	LoanDraw float64 `json:"loanDraw,omitempty"`
	// LoanShortfall is the CPF-funded share the ordinary account could not cover.
	LoanShortfall float64 `json:"loanShortfall,omitempty"`
	// Consolidated is set on the month the consolidation event fired.
	Consolidated bool `json:"consolidated,omitempty"`
}

// MonthlyDataPoint is one simulated month of a projection.
type MonthlyDataPoint struct {
	MonthIndex     int       `json:"monthIndex"`
	Year           int       `json:"year"`
	Month          int       `json:"month"`
	Age            float64   `json:"age"`
	Income         float64   `json:"income"`
	Expenses       float64   `json:"expenses"`
	Contributions  float64   `json:"contributions"`
	PortfolioValue float64   `json:"portfolioValue"`
	Growth         float64   `json:"growth"`
	Retired        bool      `json:"retired"`
	CPF            *CPFMonth `json:"cpf,omitempty"`
}

// CalculationResult is the aggregate summary of a projection.
type CalculationResult struct {
	TotalSavings             float64  `json:"totalSavings"`
	MonthlyRetirementIncome  float64  `json:"monthlyRetirementIncome"`
	YearsToRetirement        float64  `json:"yearsToRetirement"`
	TotalContributions       float64  `json:"totalContributions"`
	InterestEarned           float64  `json:"interestEarned"`
	YearsUntilDepletion      *float64 `json:"yearsUntilDepletion"`
	SustainabilityWarning    bool     `json:"sustainabilityWarning"`
	InflationAdjustedSavings float64  `json:"inflationAdjustedSavings"`
	// CPFBalances are the mandatory-savings balances at retirement, when the
	// scheme is enabled.
	CPFBalances *CPFAccounts `json:"cpfBalances,omitempty"`
}
