package projection

import (
	"github.com/iwvelando/finance-projection/pkg/constants"
	"github.com/iwvelando/finance-projection/pkg/mathutil"
)

// analyzeRisk compares the population standard deviation of values with their
// mean magnitude. When the mean magnitude is within a cent of zero the ratio
// is meaningless and the level is undefined.
func analyzeRisk(values []float64) RiskAnalysis {
	volatility := mathutil.PopulationStdDev(values)
	meanAbs := mathutil.MeanAbs(values)
	analysis := RiskAnalysis{
		Volatility:    mathutil.Round(volatility),
		MeanAbsChange: mathutil.Round(meanAbs),
	}

	switch {
	case len(values) == 0 || meanAbs <= constants.CurrencyTolerance:
		analysis.Level = RiskUndefined
	case volatility > meanAbs:
		analysis.Level = RiskHigh
	case volatility > meanAbs/2:
		analysis.Level = RiskMedium
	default:
		analysis.Level = RiskLow
	}
	return analysis
}
