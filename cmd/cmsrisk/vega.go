package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"go.uber.org/zap"

	"github.com/pvollan/rateslib/pricing"
)

type vegaCmd struct {
	logger *zap.Logger
	flags  demoFlags
}

func (*vegaCmd) Name() string     { return "vega" }
func (*vegaCmd) Synopsis() string { return "report SABR parameter sensitivities of a CMS cap/floor" }
func (*vegaCmd) Usage() string {
	return `cmsrisk vega [-asof <date>] [-strike <k>] [-floor] [market flags]

  Prints the present value derivative with respect to each SABR parameter,
  per volatility surface node.
`
}

func (v *vegaCmd) SetFlags(f *flag.FlagSet) { v.flags.register(f) }

func (v *vegaCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	valuation, err := v.flags.valuationDate()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	trade, err := v.flags.capFloor(valuation)
	if err != nil {
		v.logger.Error("building trade", zap.Error(err))
		return subcommands.ExitFailure
	}
	sens, err := pricing.PresentValueSABRSensitivity(trade, v.flags.market())
	if err != nil {
		v.logger.Error("sabr sensitivity", zap.Error(err))
		return subcommands.ExitFailure
	}
	for node, value := range sens.Alpha {
		fmt.Printf("alpha expiry=%.4f tenor=%.4f  %s\n", node.Expiry, node.Tenor, round(value))
	}
	for node, value := range sens.Rho {
		fmt.Printf("rho   expiry=%.4f tenor=%.4f  %s\n", node.Expiry, node.Tenor, round(value))
	}
	for node, value := range sens.Nu {
		fmt.Printf("nu    expiry=%.4f tenor=%.4f  %s\n", node.Expiry, node.Tenor, round(value))
	}
	return subcommands.ExitSuccess
}
