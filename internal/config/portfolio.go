package config

// Portfolio is the user's financial snapshot as written in a config file or
// posted in a request body.
type Portfolio struct {
	StartDate     string              `mapstructure:"startDate" yaml:"startDate,omitempty" json:"start_date,omitempty"`
	MonthlyIncome float64             `mapstructure:"monthlyIncome" yaml:"monthlyIncome,omitempty" json:"monthly_income,omitempty"`
	SavingsGoal   float64             `mapstructure:"savingsGoal" yaml:"savingsGoal,omitempty" json:"savings_goal,omitempty"`
	Assets        []AssetConfig       `mapstructure:"assets" yaml:"assets,omitempty" json:"assets"`
	Debts         []DebtConfig        `mapstructure:"debts" yaml:"debts,omitempty" json:"debts"`
	Transactions  []TransactionConfig `mapstructure:"transactions" yaml:"transactions,omitempty" json:"transactions"`
}

// AssetConfig describes one asset.
type AssetConfig struct {
	ID               string            `mapstructure:"id" yaml:"id,omitempty" json:"id,omitempty"`
	Name             string            `mapstructure:"name" yaml:"name" json:"name"`
	Type             string            `mapstructure:"type" yaml:"type,omitempty" json:"type,omitempty"`
	Category         string            `mapstructure:"category" yaml:"category,omitempty" json:"category,omitempty"`
	CurrentValue     float64           `mapstructure:"currentValue" yaml:"currentValue" json:"current_value"`
	AnnualReturn     float64           `mapstructure:"annualReturn" yaml:"annualReturn,omitempty" json:"annual_return,omitempty"`
	InterestRate     float64           `mapstructure:"interestRate" yaml:"interestRate,omitempty" json:"interest_rate,omitempty"`
	AcquisitionValue float64           `mapstructure:"acquisitionValue" yaml:"acquisitionValue,omitempty" json:"acquisition_value,omitempty"`
	AcquisitionDate  string            `mapstructure:"acquisitionDate" yaml:"acquisitionDate,omitempty" json:"acquisition_date,omitempty"`
	History          []ValuationConfig `mapstructure:"history" yaml:"history,omitempty" json:"history,omitempty"`
}

// ValuationConfig is a dated asset valuation.
type ValuationConfig struct {
	Date  string  `mapstructure:"date" yaml:"date" json:"date"`
	Value float64 `mapstructure:"value" yaml:"value" json:"value"`
}

// DebtConfig describes one debt.
type DebtConfig struct {
	ID           string  `mapstructure:"id" yaml:"id,omitempty" json:"id,omitempty"`
	Name         string  `mapstructure:"name" yaml:"name" json:"name"`
	Type         string  `mapstructure:"type" yaml:"type,omitempty" json:"type,omitempty"`
	Balance      float64 `mapstructure:"balance" yaml:"balance" json:"balance"`
	InterestRate float64 `mapstructure:"interestRate" yaml:"interestRate,omitempty" json:"interest_rate"`
	Payment      float64 `mapstructure:"payment" yaml:"payment,omitempty" json:"payment"`
	Frequency    string  `mapstructure:"frequency" yaml:"frequency,omitempty" json:"frequency,omitempty"`
	Status       string  `mapstructure:"status" yaml:"status,omitempty" json:"status,omitempty"`
}

// TransactionConfig describes one historical transaction.
type TransactionConfig struct {
	ID          string  `mapstructure:"id" yaml:"id,omitempty" json:"id,omitempty"`
	Date        string  `mapstructure:"date" yaml:"date" json:"date"`
	Amount      float64 `mapstructure:"amount" yaml:"amount" json:"amount"`
	Type        string  `mapstructure:"type" yaml:"type,omitempty" json:"type,omitempty"`
	Category    string  `mapstructure:"category" yaml:"category,omitempty" json:"category,omitempty"`
	Description string  `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`
	Source      string  `mapstructure:"source" yaml:"source,omitempty" json:"source,omitempty"`
}
