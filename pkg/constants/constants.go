// Package constants provides shared constants for the finance-projection application.
package constants

// DateLayout is the day-precision format used for projection dates and
// transaction input.
const DateLayout = "2006-01-02"

// MonthLayout is the month-precision format used for bucket labels.
const MonthLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// WeeksPerYear is the number of weekly periods in a year
	WeeksPerYear = 52

	// BiWeeksPerYear is the number of bi-weekly periods in a year
	BiWeeksPerYear = 26

	// MonthsPerQuarter is the number of months in a quarter
	MonthsPerQuarter = 3

	// DaysPerYear is used to convert daily indices into yearly cycles
	DaysPerYear = 365.25

	// DaysPerWeek is the length of the weekly seasonal cycle
	DaysPerWeek = 7.0

	// DecimalPlaces is the precision for currency rounding
	DecimalPlaces = 2

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Projection horizon limits
const (
	// DefaultHorizonMonths is the horizon used when none is requested
	DefaultHorizonMonths = 12

	// MaxHorizonMonths is the largest horizon accepted by the engine
	MaxHorizonMonths = 120

	// DefaultLookbackMonths is the history window bucketed for trend fitting
	DefaultLookbackMonths = 12
)

// Recurrence tolerance bands, in days.
const (
	MonthlyIntervalMin = 25.0
	MonthlyIntervalMax = 35.0
	WeeklyIntervalMin  = 6.0
	WeeklyIntervalMax  = 8.0
)

// Risk and recommendation thresholds
const (
	// TargetSavingsRate is the savings rate (percent) below which a savings
	// recommendation is issued
	TargetSavingsRate = 20.0

	// MaxDebtToIncome is the debt-to-income ratio (percent) above which a debt
	// recommendation is issued
	MaxDebtToIncome = 43.0

	// HighInterestRate is the weighted average rate (percent) treated as high
	HighInterestRate = 15.0

	// MinDiversificationScore is the allocation score below which a
	// diversification recommendation is issued
	MinDiversificationScore = 60.0
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

// Projection modes
const (
	ModePortfolio = "portfolio"
	ModeCashFlow  = "cashflow"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (1 MB)
	DefaultMaxUploadSizeBytes int64 = 1024 * 1024

	// DefaultDatabasePath is where the SQLite store lives when enabled
	DefaultDatabasePath = "./data/finance.db"
)

// MaxPayoffMonths caps payoff simulations for debts whose payment barely
// covers interest (100 years).
const MaxPayoffMonths = 1200
