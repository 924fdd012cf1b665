// Package constants provides shared constants for the retirement-forecast application.
package constants

// DateTimeLayout is the month-granularity format expected for every date in a
// plan and is also the output date format.
const DateTimeLayout = "2006-01"

// Calendar constants used to normalise income cadences.
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DaysPerMonth is the average number of days in a month
	DaysPerMonth = 30.44

	// DaysPerYear is the average number of days in a year, leap years included
	DaysPerYear = 365.25

	// WeeksPerYear is the number of whole weeks in a year
	WeeksPerYear = 52

	// DecimalPlaces is the number of decimal places kept for currency
	DecimalPlaces = 2
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default plan file name
	DefaultConfigFile = "plan.yaml"
)

// Profile bounds.
const (
	MinAge = 18
	MaxAge = 100

	// DefaultMaxAge is the terminal age of depletion tracking when none is configured.
	DefaultMaxAge = 100

	MaxReturnRate    = 0.20
	MaxInflationRate = 0.15
	MaxLoanRate      = 0.50
	MaxLoanTermMonth = 600

	// MaxMonthlyContribution flags an unrealistically high monthly contribution.
	MaxMonthlyContribution = 50000.0

	// MaxCurrentSavings flags an unrealistically high starting balance.
	MaxCurrentSavings = 100000000.0
)

// Numeric safety limits applied by the projection engine.
const (
	// MaxAnnualRate is the largest annual rate the engine will compound.
	MaxAnnualRate = 1.0

	// MaxHorizonYears is the longest horizon the engine will simulate.
	MaxHorizonYears = 200

	// SafetyCeiling bounds any principal, payment or balance.
	SafetyCeiling = 1e15
)

// Retirement sustainability constants.
const (
	// SafeWithdrawalRate is the annual withdrawal rate regarded as sustainable.
	SafeWithdrawalRate = 0.04
)

// Mandatory-savings constants of the reference jurisdiction.
const (
	// CPFConsolidationAge is the age at which the special account closes into
	// the retirement account.
	CPFConsolidationAge = 55

	// CPFAnnualCeiling caps the contributions of one calendar year.
	CPFAnnualCeiling = 37740.0
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
