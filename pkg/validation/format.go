// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/finance-projection/pkg/constants"
	"github.com/iwvelando/finance-projection/pkg/finance"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON:
		return nil
	}
	return fmt.Errorf("expected output format of %s, %s or %s, got %s",
		constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatJSON, format)
}

// ValidateMode checks if the projection mode is supported.
func ValidateMode(mode string) error {
	if mode != constants.ModePortfolio && mode != constants.ModeCashFlow {
		return fmt.Errorf("expected mode of %s or %s, got %s",
			constants.ModePortfolio, constants.ModeCashFlow, mode)
	}
	return nil
}

// ValidateHorizon checks that months is within [0, max].
func ValidateHorizon(months, max int) error {
	if months < 0 {
		return finance.InvalidInput("horizon %d months must not be negative", months)
	}
	if months > max {
		return finance.InvalidInput("horizon %d months exceeds the maximum of %d", months, max)
	}
	return nil
}
