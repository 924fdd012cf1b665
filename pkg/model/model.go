// Package model defines the value objects exchanged with the retirement
// projection engine. Callers own every input value; the engine only reads
// them.
package model

// IncomeType enumerates the kinds of income source.
type IncomeType string

const (
	IncomeSalary      IncomeType = "salary"
	IncomeRental      IncomeType = "rental"
	IncomeDividend    IncomeType = "dividend"
	IncomeBusiness    IncomeType = "business"
	IncomeCustom      IncomeType = "custom"
	IncomeOneTime     IncomeType = "one-time"
	IncomeFixedPeriod IncomeType = "fixed-period"
)

// IncomeTypes lists every supported income type.
var IncomeTypes = []IncomeType{
	IncomeSalary, IncomeRental, IncomeDividend, IncomeBusiness,
	IncomeCustom, IncomeOneTime, IncomeFixedPeriod,
}

// Escalates reports whether annualIncrease applies to this type.
func (t IncomeType) Escalates() bool {
	return t == IncomeSalary || t == IncomeRental
}

// Frequency is the cadence at which an income amount is received.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
	FrequencyCustom  Frequency = "custom"
	FrequencyOneTime Frequency = "one-time"
)

// Frequencies lists every supported frequency.
var Frequencies = []Frequency{
	FrequencyDaily, FrequencyWeekly, FrequencyMonthly,
	FrequencyYearly, FrequencyCustom, FrequencyOneTime,
}

// ExpenseCategory groups recurring retirement expenses.
type ExpenseCategory string

const (
	ExpenseLiving     ExpenseCategory = "living"
	ExpenseHealthcare ExpenseCategory = "healthcare"
	ExpenseTravel     ExpenseCategory = "travel"
	ExpenseOther      ExpenseCategory = "other"
)

// ExpenseCategories lists every supported expense category.
var ExpenseCategories = []ExpenseCategory{ExpenseLiving, ExpenseHealthcare, ExpenseTravel, ExpenseOther}

// LoanCategoryHousing is the only loan category allowed to draw from the
// ordinary account.
const LoanCategoryHousing = "housing"

// RetirementSumTarget selects the cap applied at the consolidation event.
type RetirementSumTarget string

const (
	RetirementSumBasic    RetirementSumTarget = "basic"
	RetirementSumFull     RetirementSumTarget = "full"
	RetirementSumEnhanced RetirementSumTarget = "enhanced"
)

// UserProfile holds the demographic and portfolio parameters of a plan.
type UserProfile struct {
	CurrentAge         float64 `json:"currentAge" yaml:"currentAge"`
	RetirementAge      float64 `json:"retirementAge" yaml:"retirementAge"`
	CurrentSavings     float64 `json:"currentSavings" yaml:"currentSavings"`
	ExpectedReturnRate float64 `json:"expectedReturnRate" yaml:"expectedReturnRate"`
	InflationRate      float64 `json:"inflationRate" yaml:"inflationRate"`
	// MonthlyContribution is the flat pre-retirement saving used by plans
	// that predate income sources.
	MonthlyContribution float64 `json:"monthlyContribution,omitempty" yaml:"monthlyContribution,omitempty"`
}

// IncomeSource is one stream of income.
type IncomeSource struct {
	ID                     string     `json:"id" yaml:"id"`
	Name                   string     `json:"name" yaml:"name"`
	Type                   IncomeType `json:"type" yaml:"type"`
	Amount                 float64    `json:"amount" yaml:"amount"`
	Frequency              Frequency  `json:"frequency" yaml:"frequency"`
	CustomFrequencyDays    int        `json:"customFrequencyDays,omitempty" yaml:"customFrequencyDays,omitempty"`
	StartDate              string     `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate                string     `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	AnnualIncrease         float64    `json:"annualIncrease,omitempty" yaml:"annualIncrease,omitempty"`
	ContributionPercentage float64    `json:"contributionPercentage,omitempty" yaml:"contributionPercentage,omitempty"`
	CPFEligible            bool       `json:"cpfEligible,omitempty" yaml:"cpfEligible,omitempty"`
}

// IsLump reports whether the source pays once rather than on a cadence.
func (s IncomeSource) IsLump() bool {
	return s.Type == IncomeOneTime || s.Frequency == FrequencyOneTime
}

// IsTimeVarying reports whether the source's monthly amount can change over
// the projection horizon.
func (s IncomeSource) IsTimeVarying() bool {
	return s.IsLump() ||
		s.Type == IncomeFixedPeriod ||
		s.StartDate != "" ||
		s.EndDate != "" ||
		(s.Type.Escalates() && s.AnnualIncrease != 0)
}

// OneOffReturn is a single lump added to income in one month.
type OneOffReturn struct {
	ID          string  `json:"id" yaml:"id"`
	Date        string  `json:"date" yaml:"date"`
	Amount      float64 `json:"amount" yaml:"amount"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// RetirementExpense is a recurring monthly outflow. An age window takes
// precedence over a date window when either age bound is set.
type RetirementExpense struct {
	ID            string          `json:"id" yaml:"id"`
	Name          string          `json:"name" yaml:"name"`
	Category      ExpenseCategory `json:"category" yaml:"category"`
	MonthlyAmount float64         `json:"monthlyAmount" yaml:"monthlyAmount"`
	InflationRate float64         `json:"inflationRate,omitempty" yaml:"inflationRate,omitempty"`
	StartDate     string          `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate       string          `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	StartAge      *float64        `json:"startAge,omitempty" yaml:"startAge,omitempty"`
	EndAge        *float64        `json:"endAge,omitempty" yaml:"endAge,omitempty"`
}

// AgeBased reports whether the expense window is expressed in ages.
func (e RetirementExpense) AgeBased() bool {
	return e.StartAge != nil || e.EndAge != nil
}

// Loan is a fixed-payment amortizing loan.
type Loan struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	Principal    float64 `json:"principal" yaml:"principal"`
	InterestRate float64 `json:"interestRate" yaml:"interestRate"`
	TermMonths   int     `json:"termMonths" yaml:"termMonths"`
	StartDate    string  `json:"startDate" yaml:"startDate"`
	Category     string  `json:"category,omitempty" yaml:"category,omitempty"`
	UseCPF       bool    `json:"useCPF,omitempty" yaml:"useCPF,omitempty"`
	// CPFPercentage is the 0–100 share of each payment drawn from the
	// ordinary account.
	CPFPercentage float64 `json:"cpfPercentage,omitempty" yaml:"cpfPercentage,omitempty"`
}

// DrawsFromCPF reports whether the loan is allowed to draw from the ordinary
// account. Only housing loans qualify regardless of UseCPF.
func (l Loan) DrawsFromCPF() bool {
	return l.UseCPF && l.CPFPercentage > 0 && l.Category == LoanCategoryHousing
}

// OneTimeExpense is deducted from the portfolio in exactly one month.
type OneTimeExpense struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Amount   float64 `json:"amount" yaml:"amount"`
	Date     string  `json:"date" yaml:"date"`
	Category string  `json:"category,omitempty" yaml:"category,omitempty"`
}

// CPFAccounts holds the four mandatory-savings balances.
type CPFAccounts struct {
	Ordinary   float64 `json:"ordinary" yaml:"ordinary"`
	Special    float64 `json:"special" yaml:"special"`
	Medisave   float64 `json:"medisave" yaml:"medisave"`
	Retirement float64 `json:"retirement" yaml:"retirement"`
}

// Total sums the four balances.
func (a CPFAccounts) Total() float64 {
	return a.Ordinary + a.Special + a.Medisave + a.Retirement
}

// CPFConfig configures the mandatory-savings scheme for one person.
type CPFConfig struct {
	Enabled             bool                `json:"enabled" yaml:"enabled"`
	CurrentBalances     CPFAccounts         `json:"currentBalances" yaml:"currentBalances"`
	RetirementSumTarget RetirementSumTarget `json:"retirementSumTarget,omitempty" yaml:"retirementSumTarget,omitempty"`
	LifePlan            string              `json:"lifePlan,omitempty" yaml:"lifePlan,omitempty"`
	ManualOverride      bool                `json:"manualOverride,omitempty" yaml:"manualOverride,omitempty"`
}

// Input is the complete bundle handed to the engine for one run.
type Input struct {
	Profile         UserProfile         `json:"profile" yaml:"profile"`
	IncomeSources   []IncomeSource      `json:"incomeSources,omitempty" yaml:"incomeSources,omitempty"`
	OneOffReturns   []OneOffReturn      `json:"oneOffReturns,omitempty" yaml:"oneOffReturns,omitempty"`
	Expenses        []RetirementExpense `json:"expenses,omitempty" yaml:"expenses,omitempty"`
	Loans           []Loan              `json:"loans,omitempty" yaml:"loans,omitempty"`
	OneTimeExpenses []OneTimeExpense    `json:"oneTimeExpenses,omitempty" yaml:"oneTimeExpenses,omitempty"`
	CPF             *CPFConfig          `json:"cpf,omitempty" yaml:"cpf,omitempty"`
}

// CPFEnabled reports whether the mandatory-savings scheme participates.
func (in Input) CPFEnabled() bool {
	return in.CPF != nil && in.CPF.Enabled
}

// HasEligibleIncome reports whether any income source is flagged CPF-eligible.
func (in Input) HasEligibleIncome() bool {
	for _, s := range in.IncomeSources {
		if s.CPFEligible {
			return true
		}
	}
	return false
}

// IsTimeVarying reports whether the plan needs the month-by-month simulator.
func (in Input) IsTimeVarying() bool {
	if in.CPFEnabled() || len(in.Expenses) > 0 || len(in.Loans) > 0 ||
		len(in.OneTimeExpenses) > 0 || len(in.OneOffReturns) > 0 {
		return true
	}
	for _, s := range in.IncomeSources {
		if s.IsTimeVarying() {
			return true
		}
	}
	return false
}
