package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/finance-projection/internal/config"
	"github.com/iwvelando/finance-projection/internal/projection"
	"github.com/iwvelando/finance-projection/pkg/constants"
	"github.com/iwvelando/finance-projection/pkg/output"
	"github.com/iwvelando/finance-projection/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	modeFlag := flag.String("mode", "", "projection mode override: portfolio, cashflow")
	monthsFlag := flag.Int("months", 0, "projection horizon override in months")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := config.BuildLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI overrides take precedence over config
	if *modeFlag != "" {
		conf.Projection.Mode = *modeFlag
	}
	if *monthsFlag > 0 {
		conf.Projection.Months = *monthsFlag
	}
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}
	if err := validation.ValidateMode(conf.Projection.Mode); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	portfolio, err := conf.Portfolio.ToFinance()
	if err != nil {
		logger.Fatal("failed to convert portfolio",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	engine, err := projection.NewEngine(logger, projection.OptionsFromConfig(conf.Projection))
	if err != nil {
		logger.Fatal("failed to initialize projection engine",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	var result interface{}
	switch conf.Projection.Mode {
	case constants.ModeCashFlow:
		result, err = engine.ProjectCashFlow(projection.CashFlowRequest{
			Portfolio: portfolio,
			Months:    conf.Projection.Months,
		})
	default:
		result, err = engine.ProjectPortfolio(projection.PortfolioRequest{
			Portfolio: portfolio,
			Months:    conf.Projection.Months,
		})
	}
	if err != nil {
		logger.Fatal("failed to compute projection",
			zap.String("op", "main"),
			zap.String("mode", conf.Projection.Mode),
			zap.Error(err),
		)
	}

	if err := output.Write(os.Stdout, outputFormat, result); err != nil {
		logger.Fatal("failed to write output",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
